package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// GetCart 获取用户购物车
func (c *Client) GetCart(ctx context.Context, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := c.do(ctx, request{method: http.MethodGet, path: "/carts/" + pathID(userID)}, &cart); err != nil {
		return nil, err
	}
	if cart.CartItems == nil {
		cart.CartItems = []models.CartItem{}
	}
	return &cart, nil
}

// AddToCart 加入购物车，返回新增的购物车项
func (c *Client) AddToCart(ctx context.Context, input models.CartMutation) (*models.CartItem, error) {
	var item models.CartItem
	if err := c.do(ctx, request{method: http.MethodPost, path: "/carts/add", body: input}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateCartItem 修改购物车项数量，返回服务端确认后的购物车项
func (c *Client) UpdateCartItem(ctx context.Context, input models.CartMutation) (*models.CartItem, error) {
	var item models.CartItem
	if err := c.do(ctx, request{method: http.MethodPut, path: "/carts/update", body: input}, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// RemoveCartItem 从购物车移除商品
func (c *Client) RemoveCartItem(ctx context.Context, productID uint) error {
	return c.do(ctx, request{method: http.MethodDelete, path: "/carts/remove/" + pathID(productID)}, nil)
}
