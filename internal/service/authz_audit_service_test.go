package service

import (
	"testing"
	"time"

	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
)

type auditRepoStub struct {
	created []models.AuthzAuditLog
	filter  repository.AuthzAuditLogListFilter
}

func (s *auditRepoStub) Create(log *models.AuthzAuditLog) error {
	s.created = append(s.created, *log)
	return nil
}

func (s *auditRepoStub) List(filter repository.AuthzAuditLogListFilter) ([]models.AuthzAuditLog, int64, error) {
	s.filter = filter
	return s.created, int64(len(s.created)), nil
}

func TestAuthzAuditServiceRecordNormalizes(t *testing.T) {
	repo := &auditRepoStub{}
	svc := NewAuthzAuditService(repo)
	fixed := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	err := svc.Record(AuthzAuditRecordInput{
		OperatorUserID: 1,
		OperatorEmail:  " admin@example.com ",
		Action:         AuthzAuditActionPolicyGrant,
		Role:           "support",
		Object:         "api/admin/transactions/",
		Method:         "get",
		RequestID:      "req-1",
	})
	if err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("want one log got %d", len(repo.created))
	}
	got := repo.created[0]
	if got.Role != "role:SUPPORT" || got.Object != "/api/admin/transactions" || got.Method != "GET" {
		t.Fatalf("unexpected normalized log: %+v", got)
	}
	if got.OperatorEmail != "admin@example.com" || !got.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected operator fields: %+v", got)
	}
}

func TestAuthzAuditServiceSkipsAnonymous(t *testing.T) {
	repo := &auditRepoStub{}
	svc := NewAuthzAuditService(repo)
	if err := svc.Record(AuthzAuditRecordInput{Action: AuthzAuditActionRoleCreate, Role: "x"}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if err := svc.Record(AuthzAuditRecordInput{OperatorUserID: 1}); err != nil {
		t.Fatalf("record failed: %v", err)
	}
	if len(repo.created) != 0 {
		t.Fatalf("logs without operator or action should be skipped")
	}

	if _, _, err := svc.List(repository.AuthzAuditLogListFilter{Role: "admin"}); err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if repo.filter.Role != "role:ADMIN" {
		t.Fatalf("list should normalize role filter, got %q", repo.filter.Role)
	}

	var nilSvc *AuthzAuditService
	logs, total, err := nilSvc.List(repository.AuthzAuditLogListFilter{})
	if err != nil || total != 0 || len(logs) != 0 {
		t.Fatalf("nil service should list nothing")
	}
}
