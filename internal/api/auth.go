package api

import (
	"context"
	"net/http"

	"github.com/storefront-next/internal/models"
)

// Login 登录
func (c *Client) Login(ctx context.Context, input models.LoginInput) (*models.LoginResponse, error) {
	var resp models.LoginResponse
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/login", body: input}, &resp); err != nil {
		return nil, err
	}
	if resp.Token == "" {
		return nil, ErrResponseInvalid
	}
	return &resp, nil
}

// Register 注册，返回后端提示信息
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	if err := c.do(ctx, request{method: http.MethodPost, path: "/auth/register", body: input}, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
