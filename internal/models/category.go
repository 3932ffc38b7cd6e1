package models

// Category 商品分类
type Category struct {
	CategoryID   uint   `json:"categoryId,omitempty"`
	CategoryName string `json:"categoryName" validate:"required"`
}
