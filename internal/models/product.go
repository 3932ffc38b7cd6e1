package models

// ProductMedia 商品媒体
type ProductMedia struct {
	MediaURL  string `json:"mediaUrl"`
	MediaType string `json:"mediaType"` // IMAGE / VIDEO / GIF
}

// Product 商品（后端目录数据）
type Product struct {
	ProductID          uint           `json:"productId,omitempty"`
	ProductName        string         `json:"productName" validate:"required"`
	ProductDescription string         `json:"productDescription,omitempty"`
	ProductPrice       Money          `json:"productPrice"`
	ProductStock       int            `json:"productStock" validate:"min=0"`
	ProductCategoryID  uint           `json:"productCategoryId" validate:"required"`
	ProductMedia       []ProductMedia `json:"productMedia,omitempty"`
}
