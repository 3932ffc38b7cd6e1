package admin

import (
	"strings"

	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

type authzRolePayload struct {
	Role string `json:"role" binding:"required"`
}

type authzAuditQuery struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	OperatorUserID uint   `form:"operator_user_id"`
	Action         string `form:"action"`
	Role           string `form:"role"`
}

type authzPolicyPayload struct {
	Role   string `json:"role" binding:"required"`
	Object string `json:"object" binding:"required"`
	Action string `json:"action" binding:"required"`
}

// ListAuthzRoles 获取角色列表
func (h *Handler) ListAuthzRoles(c *gin.Context) {
	roles, err := h.AuthzService.ListRoles()
	if err != nil {
		respondError(c, response.CodeInternal, "获取角色失败", err)
		return
	}
	response.Success(c, roles)
}

// CreateAuthzRole 创建角色
func (h *Handler) CreateAuthzRole(c *gin.Context) {
	var req authzRolePayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	role, err := h.AuthzService.EnsureRole(req.Role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "角色无效", err)
		return
	}
	h.recordAudit(c, service.AuthzAuditRecordInput{Action: service.AuthzAuditActionRoleCreate, Role: role})
	requestLog(c).Infow("admin_authz_role_created", "operator_user_id", currentUserID(c), "role", role)
	response.Success(c, gin.H{"role": role})
}

// GetAuthzRolePolicies 获取角色策略
func (h *Handler) GetAuthzRolePolicies(c *gin.Context) {
	role := decodeRoleParam(c.Param("role"))
	if strings.TrimSpace(role) == "" {
		respondError(c, response.CodeBadRequest, "角色无效", nil)
		return
	}
	policies, err := h.AuthzService.GetRolePolicies(role)
	if err != nil {
		respondError(c, response.CodeBadRequest, "角色无效", err)
		return
	}
	response.Success(c, policies)
}

// GrantAuthzPolicy 授予角色策略
func (h *Handler) GrantAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.AuthzService.GrantRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "授权失败", err)
		return
	}
	h.recordAudit(c, service.AuthzAuditRecordInput{
		Action: service.AuthzAuditActionPolicyGrant,
		Role:   req.Role,
		Object: req.Object,
		Method: req.Action,
	})
	requestLog(c).Infow("admin_authz_policy_granted",
		"operator_user_id", currentUserID(c),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// RevokeAuthzPolicy 撤销角色策略
func (h *Handler) RevokeAuthzPolicy(c *gin.Context) {
	var req authzPolicyPayload
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	if err := h.AuthzService.RevokeRolePolicy(req.Role, req.Object, req.Action); err != nil {
		respondError(c, response.CodeBadRequest, "撤销授权失败", err)
		return
	}
	h.recordAudit(c, service.AuthzAuditRecordInput{
		Action: service.AuthzAuditActionPolicyRevoke,
		Role:   req.Role,
		Object: req.Object,
		Method: req.Action,
	})
	requestLog(c).Infow("admin_authz_policy_revoked",
		"operator_user_id", currentUserID(c),
		"role", req.Role,
		"object", req.Object,
		"action", req.Action,
	)
	response.Success(c, nil)
}

// ListAuthzAuditLogs 权限变更审计日志
func (h *Handler) ListAuthzAuditLogs(c *gin.Context) {
	var query authzAuditQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}
	filter := repository.AuthzAuditLogListFilter{
		Page:           query.Page,
		PageSize:       query.PageSize,
		OperatorUserID: query.OperatorUserID,
		Action:         strings.TrimSpace(query.Action),
		Role:           strings.TrimSpace(query.Role),
	}.Normalized()
	logs, total, err := h.AuthzAuditService.List(filter)
	if err != nil {
		respondError(c, response.CodeInternal, "获取审计日志失败", err)
		return
	}
	response.Success(c, gin.H{
		"items":     logs,
		"total":     total,
		"page":      filter.Page,
		"page_size": filter.PageSize,
	})
}

// recordAudit 审计写入失败只记录日志，不影响授权结果
func (h *Handler) recordAudit(c *gin.Context, input service.AuthzAuditRecordInput) {
	input.OperatorUserID = currentUserID(c)
	input.OperatorEmail = h.Store.Auth().Email
	input.RequestID = c.GetString("request_id")
	if err := h.AuthzAuditService.Record(input); err != nil {
		requestLog(c).Warnw("admin_authz_audit_record_failed", "action", input.Action, "error", err)
	}
}
