package models

// CartProduct 购物车项内嵌的商品快照
type CartProduct struct {
	ProductName        string         `json:"productName"`
	ProductPrice       Money          `json:"productPrice"`
	ProductDescription string         `json:"productDescription"`
	ProductMedia       []ProductMedia `json:"productMedia,omitempty"`
}

// CartItem 购物车项，同一购物车内按 ProductID 唯一
type CartItem struct {
	CartID     uint        `json:"cartId"`
	CartItemID uint        `json:"cartItemId"`
	ProductID  uint        `json:"productId"`
	Quantity   int         `json:"quantity"`
	UserID     uint        `json:"userId"`
	Product    CartProduct `json:"product"`
}

// LineTotal 单项小计
func (i CartItem) LineTotal() Money {
	return i.Product.ProductPrice.Times(i.Quantity)
}

// Cart 购物车（GET /carts/:userId 的响应体）
type Cart struct {
	CartID    uint       `json:"cartId"`
	CartItems []CartItem `json:"cartItems"`
}

// CartMutation 加购/改数量请求体
type CartMutation struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"min=1"`
}
