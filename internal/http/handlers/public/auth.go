package public

import (
	"time"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"

	"github.com/gin-gonic/gin"
)

// AuthResponse 登录身份
type AuthResponse struct {
	Role      string     `json:"role"`
	UserID    uint       `json:"user_id"`
	Email     string     `json:"email"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// Login 登录
func (h *Handler) Login(c *gin.Context) {
	var req models.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	auth, err := h.AuthService.Login(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err, "登录失败")
		return
	}
	response.Success(c, AuthResponse{
		Role:      auth.Role,
		UserID:    auth.UserID,
		Email:     auth.Email,
		ExpiresAt: auth.ExpiresAt,
	})
}

// Register 注册
func (h *Handler) Register(c *gin.Context) {
	var req models.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	message, err := h.AuthService.Register(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err, "注册失败")
		return
	}
	if message == "" {
		message = "注册成功"
	}
	response.SuccessWithMsg(c, message, nil)
}

// Logout 登出
func (h *Handler) Logout(c *gin.Context) {
	if err := h.AuthService.Logout(c.Request.Context()); err != nil {
		respondAuthError(c, err, "登出失败")
		return
	}
	response.Success(c, nil)
}

// GetSession 会话初始化：资料、购物车与角标
func (h *Handler) GetSession(c *gin.Context) {
	result, err := h.SessionService.Bootstrap(c.Request.Context())
	if err != nil {
		respondAuthError(c, err, "会话初始化失败")
		return
	}
	response.Success(c, result)
}

// GetProfile 获取个人资料
func (h *Handler) GetProfile(c *gin.Context) {
	profile, err := h.ProfileService.FetchProfile(c.Request.Context())
	if err != nil {
		respondAuthError(c, err, "获取资料失败")
		return
	}
	response.Success(c, profile)
}

// UpdateProfile 更新个人资料
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req models.ProfileUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	profile, err := h.ProfileService.UpdateProfile(c.Request.Context(), req)
	if err != nil {
		respondAuthError(c, err, "更新资料失败")
		return
	}
	response.Success(c, profile)
}
