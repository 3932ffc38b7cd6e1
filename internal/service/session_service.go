package service

import (
	"context"
	"sync/atomic"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
)

// BootstrapResult 会话初始化结果
type BootstrapResult struct {
	Role    string              `json:"role"`
	Profile *models.UserProfile `json:"profile"`
	Badge   int                 `json:"badge"`
}

// SessionService 资料与购物车的依赖拉取链：角色 -> 资料 -> 购物车 -> 角标
type SessionService struct {
	profiles *ProfileService
	carts    *CartService
	auth     func() (role string, authenticated bool)
	gen      atomic.Uint64
}

// NewSessionService 创建会话服务
func NewSessionService(profiles *ProfileService, carts *CartService) *SessionService {
	s := &SessionService{profiles: profiles, carts: carts}
	s.auth = func() (string, bool) {
		auth := profiles.store.Auth()
		return auth.Role, auth.Authenticated()
	}
	return s
}

// Bootstrap 执行一次拉取链，被 Detach 或更新的 Bootstrap 取代时返回 ErrStaleResult
func (s *SessionService) Bootstrap(ctx context.Context) (*BootstrapResult, error) {
	gen := s.gen.Add(1)
	role, ok := s.auth()
	if !ok {
		return nil, ErrNotAuthenticated
	}

	profile, err := s.profiles.FetchProfile(ctx)
	if err != nil {
		return nil, err
	}
	if s.gen.Load() != gen {
		logger.Debugw("session_bootstrap_superseded", "stage", "profile", "generation", gen)
		return nil, ErrStaleResult
	}

	if err := s.carts.FetchCart(ctx, profile.ID); err != nil {
		return nil, err
	}
	if s.gen.Load() != gen {
		logger.Debugw("session_bootstrap_superseded", "stage", "cart", "generation", gen)
		return nil, ErrStaleResult
	}

	if role == "" {
		role, _ = s.auth()
	}
	return &BootstrapResult{
		Role:    role,
		Profile: profile,
		Badge:   s.carts.TotalQuantity(),
	}, nil
}

// Detach 丢弃所有进行中的拉取
func (s *SessionService) Detach() {
	s.gen.Add(1)
	s.profiles.Invalidate()
	s.carts.Invalidate()
}
