package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/store"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims Token 中与客户端相关的声明
type TokenClaims struct {
	UserID    uint
	Role      string
	Email     string
	ExpiresAt *time.Time
}

// ParseTokenClaims 读取 Token 声明，签名由后端校验，这里不验证
func ParseTokenClaims(token string) (*TokenClaims, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(token), claims); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	out := &TokenClaims{
		Role:  normalizeRole(stringClaim(claims, "role")),
		Email: stringClaim(claims, "email"),
	}
	for _, key := range []string{"id", "userId", "user_id", "sub"} {
		if id := uintClaim(claims, key); id > 0 {
			out.UserID = id
			break
		}
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		t := exp.Time
		out.ExpiresAt = &t
	}
	return out, nil
}

// AuthService 登录身份管理，身份信息统一写入 auth 切片
type AuthService struct {
	store    *store.Store
	api      AuthAPI
	creds    repository.CredentialRepository
	carts    *CartService
	orders   *OrderService
	session  *SessionService
	validate *validatorv10.Validate
	now      func() time.Time
}

// NewAuthService 创建认证服务
func NewAuthService(st *store.Store, authAPI AuthAPI, creds repository.CredentialRepository) *AuthService {
	return &AuthService{
		store:    st,
		api:      authAPI,
		creds:    creds,
		validate: newValidator(),
		now:      time.Now,
	}
}

// BindSession 登出时需要一并清理的服务
func (s *AuthService) BindSession(carts *CartService, orders *OrderService, session *SessionService) {
	s.carts = carts
	s.orders = orders
	s.session = session
}

// Login 登录并持久化凭据
func (s *AuthService) Login(ctx context.Context, input models.LoginInput) (*store.AuthState, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(s.validate, ErrValidation, input); err != nil {
		return nil, err
	}
	s.store.Dispatch(store.ActionAuthPending, func(st *store.State) {
		st.Auth.Loading = true
		st.Auth.Error = ""
	})

	resp, err := s.api.Login(ctx, input)
	if err != nil {
		s.reject(api.Message(err))
		logger.Warnw("auth_login_failed", "email", input.Email, "error", err)
		return nil, err
	}

	claims, err := ParseTokenClaims(resp.Token)
	if err != nil {
		s.reject(err.Error())
		return nil, err
	}
	credential := &models.Credential{
		Token:     resp.Token,
		Role:      firstNonEmpty(normalizeRole(resp.User.Role), claims.Role, constants.RoleUser),
		UserID:    claims.UserID,
		Email:     firstNonEmpty(resp.User.Email, claims.Email, input.Email),
		ExpiresAt: claims.ExpiresAt,
	}
	if id, err := strconv.ParseUint(resp.User.ID.String(), 10, 64); err == nil && id > 0 {
		credential.UserID = uint(id)
	}
	if s.creds != nil {
		if err := s.creds.Save(credential); err != nil {
			logger.Errorw("auth_credential_save_failed", "error", err)
			return nil, err
		}
	}

	s.store.Dispatch(store.ActionAuthLogin, func(st *store.State) {
		st.Auth = authFromCredential(credential)
	})
	logger.Infow("auth_login_succeeded", "user_id", credential.UserID, "role", credential.Role)
	auth := s.store.Auth()
	return &auth, nil
}

// Register 注册账号
func (s *AuthService) Register(ctx context.Context, input models.RegisterInput) (string, error) {
	input.Email = strings.TrimSpace(input.Email)
	if err := validateStruct(s.validate, ErrValidation, input); err != nil {
		return "", err
	}
	message, err := s.api.Register(ctx, input)
	if err != nil {
		s.reject(api.Message(err))
		return "", err
	}
	return message, nil
}

// Logout 清除凭据与会话相关切片
func (s *AuthService) Logout(ctx context.Context) error {
	if s.session != nil {
		s.session.Detach()
	}
	if s.creds != nil {
		if err := s.creds.Delete(); err != nil {
			logger.Warnw("auth_credential_delete_failed", "error", err)
			return err
		}
	}
	if s.carts != nil {
		s.carts.Clear()
	}
	if s.orders != nil {
		s.orders.Reset()
	}
	s.store.Dispatch(store.ActionAuthLogout, func(st *store.State) {
		st.Auth = store.AuthState{}
		st.Profile = store.ProfileState{Generation: st.Profile.Generation}
		st.Chat = store.ChatState{}
	})
	logger.Infow("auth_logout")
	return nil
}

// Restore 从持久化凭据恢复 auth 切片
func (s *AuthService) Restore(ctx context.Context) (bool, error) {
	if s.creds == nil {
		return false, nil
	}
	credential, err := s.creds.Get()
	if err != nil {
		return false, err
	}
	if credential == nil {
		return false, nil
	}
	if credential.Expired(s.now()) {
		if err := s.creds.Delete(); err != nil {
			logger.Warnw("auth_credential_delete_failed", "error", err)
		}
		logger.Infow("auth_credential_expired", "user_id", credential.UserID)
		return false, ErrCredentialExpired
	}
	s.store.Dispatch(store.ActionAuthRestore, func(st *store.State) {
		st.Auth = authFromCredential(credential)
	})
	return true, nil
}

func (s *AuthService) reject(message string) {
	s.store.Dispatch(store.ActionAuthRejected, func(st *store.State) {
		st.Auth.Loading = false
		st.Auth.Error = message
	})
}

func authFromCredential(c *models.Credential) store.AuthState {
	auth := store.AuthState{
		Token:  c.Token,
		Role:   c.Role,
		UserID: c.UserID,
		Email:  c.Email,
	}
	if c.ExpiresAt != nil {
		t := *c.ExpiresAt
		auth.ExpiresAt = &t
	}
	return auth
}

func normalizeRole(role string) string {
	switch strings.ToUpper(strings.TrimSpace(role)) {
	case constants.RoleAdmin:
		return constants.RoleAdmin
	case constants.RoleUser:
		return constants.RoleUser
	}
	return ""
}

func stringClaim(claims jwt.MapClaims, key string) string {
	if value, ok := claims[key].(string); ok {
		return strings.TrimSpace(value)
	}
	return ""
}

func uintClaim(claims jwt.MapClaims, key string) uint {
	switch value := claims[key].(type) {
	case float64:
		if value > 0 {
			return uint(value)
		}
	case string:
		if id, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64); err == nil {
			return uint(id)
		}
	}
	return 0
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
