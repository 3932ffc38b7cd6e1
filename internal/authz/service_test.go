package authz

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAuthzServiceTest(t *testing.T) *Service {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	svc, err := NewService(db)
	if err != nil {
		t.Fatalf("new authz service failed: %v", err)
	}
	return svc
}

func TestEnforceWithRolePolicy(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.GrantRolePolicy("support", "/api/admin/transactions", "GET"); err != nil {
		t.Fatalf("grant role policy failed: %v", err)
	}

	allow, err := svc.Enforce("support", "/api/admin/transactions/", "get")
	if err != nil {
		t.Fatalf("enforce allow failed: %v", err)
	}
	if !allow {
		t.Fatalf("expected allow=true")
	}

	allow, err = svc.Enforce("support", "/api/admin/transactions", "POST")
	if err != nil {
		t.Fatalf("enforce deny failed: %v", err)
	}
	if allow {
		t.Fatalf("expected allow=false")
	}

	if err := svc.RevokeRolePolicy("support", "/api/admin/transactions", "GET"); err != nil {
		t.Fatalf("revoke role policy failed: %v", err)
	}
	allow, _ = svc.Enforce("support", "/api/admin/transactions", "GET")
	if allow {
		t.Fatalf("expected revoked policy to deny")
	}
}

func TestEnforceEmptyRoleDenied(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	allow, err := svc.Enforce("", "/api/cart", "GET")
	if err != nil {
		t.Fatalf("enforce failed: %v", err)
	}
	if allow {
		t.Fatalf("anonymous role should be denied")
	}
}

func TestNormalizeObject(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{in: "/api/orders/:orderId", want: "/api/orders/:orderId"},
		{in: "api/cart", want: "/api/cart"},
		{in: "/api/checkout/", want: "/api/checkout"},
		{in: "/", want: "/"},
		{in: "", want: "/"},
	}
	for _, item := range cases {
		got := NormalizeObject(item.in)
		if got != item.want {
			t.Fatalf("normalize object failed, in=%q want=%q got=%q", item.in, item.want, got)
		}
	}
}

func TestNormalizeRole(t *testing.T) {
	for _, in := range []string{"admin", " ADMIN ", "role:admin"} {
		got, err := NormalizeRole(in)
		if err != nil || got != "role:ADMIN" {
			t.Fatalf("normalize role failed, in=%q got=%q err=%v", in, got, err)
		}
	}
	if _, err := NormalizeRole("  "); err == nil {
		t.Fatalf("blank role should be rejected")
	}
}

func TestBootstrapBuiltinRoles(t *testing.T) {
	svc := setupAuthzServiceTest(t)
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap builtin roles failed: %v", err)
	}
	if err := svc.BootstrapBuiltinRoles(); err != nil {
		t.Fatalf("bootstrap should be idempotent: %v", err)
	}

	roles, err := svc.ListRoles()
	if err != nil {
		t.Fatalf("list roles failed: %v", err)
	}
	if len(roles) != 2 || roles[0] != "role:ADMIN" || roles[1] != "role:USER" {
		t.Fatalf("unexpected builtin roles: %v", roles)
	}

	cases := []struct {
		role   string
		path   string
		method string
		want   bool
	}{
		{role: "USER", path: "/api/cart/items/:productId", method: "DELETE", want: true},
		{role: "USER", path: "/api/checkout", method: "POST", want: true},
		{role: "USER", path: "/user/checkout/:orderId", method: "GET", want: true},
		{role: "USER", path: "/api/chats/room", method: "POST", want: true},
		{role: "USER", path: "/api/admin/products", method: "POST", want: false},
		{role: "USER", path: "/api/admin/transactions", method: "GET", want: false},
		{role: "ADMIN", path: "/api/admin/products/:productId", method: "PUT", want: true},
		{role: "ADMIN", path: "/api/admin/transactions", method: "GET", want: true},
		{role: "ADMIN", path: "/api/chats/messages", method: "GET", want: true},
		{role: "ADMIN", path: "/api/checkout", method: "POST", want: true},
	}
	for _, item := range cases {
		allow, err := svc.Enforce(item.role, item.path, item.method)
		if err != nil {
			t.Fatalf("enforce %s %s %s failed: %v", item.role, item.method, item.path, err)
		}
		if allow != item.want {
			t.Fatalf("enforce %s %s %s want %v got %v", item.role, item.method, item.path, item.want, allow)
		}
	}

	policies, err := svc.GetRolePolicies("ADMIN")
	if err != nil {
		t.Fatalf("get role policies failed: %v", err)
	}
	if len(policies) != 1 || policies[0].Object != "/api/admin/*" {
		t.Fatalf("unexpected admin policies: %+v", policies)
	}
}
