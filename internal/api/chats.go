package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/storefront-next/internal/models"
)

// GetOrCreateRoom 获取或创建用户与管理员的聊天房间
func (c *Client) GetOrCreateRoom(ctx context.Context, userID, adminID uint) (*models.ChatRoom, error) {
	query := url.Values{}
	query.Set("userId", strconv.FormatUint(uint64(userID), 10))
	query.Set("adminId", strconv.FormatUint(uint64(adminID), 10))
	var resp struct {
		Room *models.ChatRoom `json:"room"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/chats/rooms", query: query}, &resp); err != nil {
		return nil, err
	}
	if resp.Room == nil {
		return nil, ErrResponseInvalid
	}
	return resp.Room, nil
}

// ListMessages 获取房间消息
func (c *Client) ListMessages(ctx context.Context, roomID uint) ([]models.ChatMessage, error) {
	var resp struct {
		Messages []models.ChatMessage `json:"messages"`
	}
	if err := c.do(ctx, request{method: http.MethodGet, path: "/chats/rooms/" + pathID(roomID) + "/message"}, &resp); err != nil {
		return nil, err
	}
	return resp.Messages, nil
}
