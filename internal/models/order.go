package models

import "time"

// Order 订单（后端所有，客户端持有缓存副本）
type Order struct {
	OrderID     FlexID    `json:"orderId"`
	UserID      uint      `json:"userId"`
	CartID      uint      `json:"cartId"`
	TotalAmount Money     `json:"totalAmount"`
	PaymentURL  string    `json:"paymentUrl"`
	CreatedAt   time.Time `json:"createdAt"`
	Status      string    `json:"status"`
}

// OrderDraftItem 下单商品行
type OrderDraftItem struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"min=1"`
}

// OrderDraft 结账时生成的订单草稿，提交后即丢弃
type OrderDraft struct {
	OrderID  string           `json:"orderId" validate:"required,uuid4"`
	CartID   uint             `json:"cartId" validate:"required"`
	Products []OrderDraftItem `json:"products" validate:"required,min=1,dive"`
}

// CheckoutResponse POST /orders/checkout 响应
type CheckoutResponse struct {
	Order      Order  `json:"order"`
	PaymentURL string `json:"paymentUrl"`
}

// TransactionUser 交易列表中的用户摘要
type TransactionUser struct {
	Name string `json:"name"`
}

// Transaction 管理端交易记录
type Transaction struct {
	Order
	User TransactionUser `json:"user"`
}

// PaymentCallback 支付状态回写请求体
type PaymentCallback struct {
	OrderID           FlexID `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
}
