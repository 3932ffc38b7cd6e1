package public

import "github.com/storefront-next/internal/provider"

// Handler 用户侧接口处理器入口
// 说明：登录、会话、购物车、结账、订单、目录与投诉聊天。
type Handler struct {
	*provider.Container
}

// New 创建用户侧处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
