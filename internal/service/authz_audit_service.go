package service

import (
	"strings"
	"time"

	"github.com/storefront-next/internal/authz"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

// 审计动作
const (
	AuthzAuditActionRoleCreate   = "role_create"
	AuthzAuditActionPolicyGrant  = "policy_grant"
	AuthzAuditActionPolicyRevoke = "policy_revoke"
)

// AuthzAuditRecordInput 权限审计记录输入
type AuthzAuditRecordInput struct {
	OperatorUserID uint
	OperatorEmail  string
	Action         string
	Role           string
	Object         string
	Method         string
	RequestID      string
}

// AuthzAuditService 权限审计服务
type AuthzAuditService struct {
	repo repository.AuthzAuditLogRepository
	now  func() time.Time
}

// NewAuthzAuditService 创建权限审计服务
func NewAuthzAuditService(repo repository.AuthzAuditLogRepository) *AuthzAuditService {
	return &AuthzAuditService{repo: repo, now: time.Now}
}

// Record 记录权限审计日志，缺少操作人或动作时忽略
func (s *AuthzAuditService) Record(input AuthzAuditRecordInput) error {
	if s == nil || s.repo == nil {
		return nil
	}
	if input.OperatorUserID == 0 || strings.TrimSpace(input.Action) == "" {
		return nil
	}

	role := strings.TrimSpace(input.Role)
	if normalized, err := authz.NormalizeRole(role); err == nil {
		role = normalized
	}
	object := strings.TrimSpace(input.Object)
	if object != "" {
		object = authz.NormalizeObject(object)
	}
	return s.repo.Create(&models.AuthzAuditLog{
		OperatorUserID: input.OperatorUserID,
		OperatorEmail:  strings.TrimSpace(input.OperatorEmail),
		Action:         strings.TrimSpace(input.Action),
		Role:           role,
		Object:         object,
		Method:         authz.NormalizeAction(input.Method),
		RequestID:      strings.TrimSpace(input.RequestID),
		CreatedAt:      s.now(),
	})
}

// List 管理端查询权限审计日志
func (s *AuthzAuditService) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	if s == nil || s.repo == nil {
		return []models.AuthzAuditLog{}, 0, nil
	}
	if filter.Role != "" {
		if normalized, err := authz.NormalizeRole(filter.Role); err == nil {
			filter.Role = normalized
		}
	}
	return s.repo.List(filter)
}
