package service

import (
	"context"
	"sync/atomic"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/store"
)

// ProfileService 用户资料
type ProfileService struct {
	store *store.Store
	api   ProfileAPI
	gen   atomic.Uint64
}

// NewProfileService 创建用户资料服务
func NewProfileService(st *store.Store, profileAPI ProfileAPI) *ProfileService {
	return &ProfileService{store: st, api: profileAPI}
}

// FetchProfile 获取当前用户资料，过期的结果被丢弃
func (s *ProfileService) FetchProfile(ctx context.Context) (*models.UserProfile, error) {
	if !s.store.Auth().Authenticated() {
		return nil, ErrNotAuthenticated
	}
	gen := s.gen.Add(1)
	s.store.Dispatch(store.ActionProfilePending, func(st *store.State) {
		st.Profile.Loading = true
		st.Profile.Error = ""
		st.Profile.Generation = gen
	})

	profile, err := s.api.GetProfile(ctx)
	if err != nil {
		s.store.Dispatch(store.ActionProfileRejected, func(st *store.State) {
			if st.Profile.Generation != gen {
				return
			}
			st.Profile.Loading = false
			st.Profile.Error = api.Message(err)
		})
		logger.Warnw("profile_fetch_failed", "error", err)
		return nil, err
	}

	stale := false
	fetched := *profile
	s.store.Dispatch(store.ActionProfileFulfilled, func(st *store.State) {
		if st.Profile.Generation != gen {
			stale = true
			return
		}
		p := fetched
		st.Profile.Data = &p
		st.Profile.Loading = false
		if st.Auth.Role == "" {
			st.Auth.Role = normalizeRole(p.Role)
		}
		if st.Auth.UserID == 0 {
			st.Auth.UserID = p.ID
		}
	})
	if stale {
		return nil, ErrStaleResult
	}
	return &fetched, nil
}

// UpdateProfile 更新资料
func (s *ProfileService) UpdateProfile(ctx context.Context, input models.ProfileUpdate) (*models.UserProfile, error) {
	profile, err := s.api.UpdateProfile(ctx, input)
	if err != nil {
		s.store.Dispatch(store.ActionProfileRejected, func(st *store.State) {
			st.Profile.Error = api.Message(err)
		})
		return nil, err
	}
	updated := *profile
	s.store.Dispatch(store.ActionProfileUpdated, func(st *store.State) {
		p := updated
		st.Profile.Data = &p
		st.Profile.Error = ""
	})
	return &updated, nil
}

// ListUsers 全部用户（管理员）
func (s *ProfileService) ListUsers(ctx context.Context) ([]models.UserProfile, error) {
	users, err := s.api.ListUsers(ctx)
	if err != nil {
		return nil, err
	}
	s.store.Dispatch(store.ActionProfileUsers, func(st *store.State) {
		st.Profile.AllUsers = users
	})
	return users, nil
}

// Invalidate 使进行中的资料请求失效
func (s *ProfileService) Invalidate() {
	gen := s.gen.Add(1)
	s.store.Dispatch(store.ActionProfileInvalidated, func(st *store.State) {
		st.Profile.Loading = false
		st.Profile.Generation = gen
	})
}
