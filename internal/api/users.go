package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// GetProfile 获取当前用户资料
func (c *Client) GetProfile(ctx context.Context) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/profile"}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// UpdateProfile 更新当前用户资料
func (c *Client) UpdateProfile(ctx context.Context, input models.ProfileUpdate) (*models.UserProfile, error) {
	var profile models.UserProfile
	if err := c.do(ctx, request{method: http.MethodPut, path: "/users/profile", body: input}, &profile); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ListUsers 获取全部用户（管理员）
func (c *Client) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	var users []models.UserProfile
	if err := c.do(ctx, request{method: http.MethodGet, path: "/users/users"}, &users); err != nil {
		return nil, err
	}
	return users, nil
}
