package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// ListProducts 获取商品列表
func (c *Client) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := c.do(ctx, request{method: http.MethodGet, path: "/products"}, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// CreateProduct 创建商品
func (c *Client) CreateProduct(ctx context.Context, product models.Product) (*models.Product, error) {
	var created models.Product
	if err := c.do(ctx, request{method: http.MethodPost, path: "/products", body: product}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateProduct 更新商品
func (c *Client) UpdateProduct(ctx context.Context, productID uint, product models.Product) (*models.Product, error) {
	var updated models.Product
	if err := c.do(ctx, request{method: http.MethodPut, path: "/products/" + pathID(productID), body: product}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteProduct 删除商品
func (c *Client) DeleteProduct(ctx context.Context, productID uint) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/products/" + pathID(productID)}, nil)
}

// ListCategories 获取分类列表
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	if err := c.do(ctx, request{method: http.MethodGet, path: "/categories"}, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

// CreateCategory 创建分类
func (c *Client) CreateCategory(ctx context.Context, category models.Category) (*models.Category, error) {
	var created models.Category
	if err := c.do(ctx, request{method: http.MethodPost, path: "/categories", body: category}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateCategory 更新分类
func (c *Client) UpdateCategory(ctx context.Context, categoryID uint, category models.Category) (*models.Category, error) {
	var updated models.Category
	if err := c.do(ctx, request{method: http.MethodPut, path: "/categories/" + pathID(categoryID), body: category}, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteCategory 删除分类
func (c *Client) DeleteCategory(ctx context.Context, categoryID uint) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/categories/" + pathID(categoryID)}, nil)
}
