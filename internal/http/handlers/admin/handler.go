package admin

import "github.com/storefront-next/internal/provider"

// Handler 管理端接口处理器入口
// 说明：该处理器仅用于 ADMIN 角色的 API。
type Handler struct {
	*provider.Container
}

// New 创建管理端处理器
func New(c *provider.Container) *Handler {
	return &Handler{Container: c}
}
