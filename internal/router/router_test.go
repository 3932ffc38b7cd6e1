package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/provider"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"
)

// fakeBackend 模拟后端 REST 接口
type fakeBackend struct {
	mu          sync.Mutex
	role        string
	status      string
	createdAt   time.Time
	settleCalls int
	createKeys  []string
}

func (b *fakeBackend) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, status int, v interface{}) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(v)
	}
	order := func() map[string]interface{} {
		return map[string]interface{}{
			"orderId":     41,
			"userId":      7,
			"cartId":      3,
			"totalAmount": 200000,
			"paymentUrl":  "https://pay.example.com/41",
			"createdAt":   b.createdAt.Format(time.RFC3339),
			"status":      b.status,
		}
	}

	mux.HandleFunc("POST /auth/login", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		role := b.role
		b.mu.Unlock()
		token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"id":    7,
			"role":  role,
			"email": "ana@example.com",
			"exp":   time.Now().Add(time.Hour).Unix(),
		})
		signed, err := token.SignedString([]byte("backend-secret"))
		if err != nil {
			t.Errorf("sign token failed: %v", err)
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token": signed,
			"user":  map[string]interface{}{"id": 7, "email": "ana@example.com", "role": role},
		})
	})
	mux.HandleFunc("GET /users/profile", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{"id": 7, "name": "Ana", "email": "ana@example.com"})
	})
	mux.HandleFunc("GET /users/users", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]interface{}{{"id": 7, "name": "Ana"}})
	})
	mux.HandleFunc("GET /carts/{userID}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("userID") != "7" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "cart not found"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"cartId": 3,
			"cartItems": []map[string]interface{}{{
				"cartId":    3,
				"productId": 1,
				"quantity":  2,
				"product":   map[string]interface{}{"productName": "Keyboard", "productPrice": 100000},
			}},
		})
	})
	mux.HandleFunc("POST /orders/checkout", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		b.createKeys = append(b.createKeys, r.Header.Get("Idempotency-Key"))
		b.status = constants.OrderStatusPending
		writeJSON(w, http.StatusCreated, map[string]interface{}{"order": order()})
	})
	mux.HandleFunc("GET /orders/{id}", func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()
		if r.PathValue("id") != "41" {
			writeJSON(w, http.StatusNotFound, map[string]string{"message": "order not found"})
			return
		}
		writeJSON(w, http.StatusOK, order())
	})
	mux.HandleFunc("POST /orders/midtrans-callback", func(w http.ResponseWriter, r *http.Request) {
		var callback models.PaymentCallback
		_ = json.NewDecoder(r.Body).Decode(&callback)
		b.mu.Lock()
		defer b.mu.Unlock()
		b.settleCalls++
		b.status = callback.TransactionStatus
		writeJSON(w, http.StatusOK, map[string]string{"message": "ok"})
	})
	return mux
}

func setupRouterTest(t *testing.T, role string) (*gin.Engine, *fakeBackend) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	backend := &fakeBackend{role: role, status: constants.OrderStatusPending, createdAt: time.Now().UTC()}
	srv := httptest.NewServer(backend.handler(t))
	t.Cleanup(srv.Close)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	oldDB := models.DB
	models.DB = db
	t.Cleanup(func() { models.DB = oldDB })
	if err := models.AutoMigrate(); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "debug"},
		API:    config.APIConfig{BaseURL: srv.URL, TimeoutSeconds: 5},
		Order:  config.OrderConfig{PaymentWindowHours: 24},
		Chat:   config.ChatConfig{AdminID: 1, Channel: "complaints"},
	}
	container := provider.NewContainer(cfg)
	t.Cleanup(func() { _ = container.Close() })
	return SetupRouter(cfg, container), backend
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Msg        string          `json:"msg"`
	Data       json.RawMessage `json:"data"`
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) envelope {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body failed: %v", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("%s %s http status want 200 got %d", method, path, w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s unmarshal failed: %v body=%s", method, path, err, w.Body.String())
	}
	return env
}

func login(t *testing.T, r *gin.Engine) {
	t.Helper()
	env := doRequest(t, r, http.MethodPost, "/api/auth/login", map[string]string{
		"email":    "ana@example.com",
		"password": "secret1",
	})
	if env.StatusCode != 0 {
		t.Fatalf("login status_code want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
}

func TestRouterRejectsAnonymousCart(t *testing.T) {
	r, _ := setupRouterTest(t, constants.RoleUser)

	if env := doRequest(t, r, http.MethodGet, "/api/cart", nil); env.StatusCode != 401 {
		t.Fatalf("status_code want 401 got %d", env.StatusCode)
	}
	if env := doRequest(t, r, http.MethodGet, "/api/health", nil); env.StatusCode != 0 {
		t.Fatalf("health status_code want 0 got %d", env.StatusCode)
	}
	if env := doRequest(t, r, http.MethodGet, "/missing", nil); env.StatusCode != 404 {
		t.Fatalf("no route status_code want 404 got %d", env.StatusCode)
	}
}

func TestRouterSessionAndCart(t *testing.T) {
	r, _ := setupRouterTest(t, constants.RoleUser)
	login(t, r)

	env := doRequest(t, r, http.MethodGet, "/api/session", nil)
	if env.StatusCode != 0 {
		t.Fatalf("session status_code want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	var session struct {
		Role  string `json:"role"`
		Badge int    `json:"badge"`
	}
	if err := json.Unmarshal(env.Data, &session); err != nil {
		t.Fatalf("unmarshal session failed: %v", err)
	}
	if session.Role != constants.RoleUser || session.Badge != 2 {
		t.Fatalf("unexpected session: %+v", session)
	}

	env = doRequest(t, r, http.MethodGet, "/api/cart", nil)
	var cart struct {
		Subtotal      string `json:"subtotal"`
		TotalQuantity int    `json:"total_quantity"`
	}
	if err := json.Unmarshal(env.Data, &cart); err != nil {
		t.Fatalf("unmarshal cart failed: %v", err)
	}
	if cart.Subtotal != "200000.00" || cart.TotalQuantity != 2 {
		t.Fatalf("unexpected cart: %+v", cart)
	}

	// 步进结果小于 1 时不修改
	env = doRequest(t, r, http.MethodPost, "/api/cart/items/1/step", map[string]int{"delta": -5})
	if env.StatusCode != 0 || !strings.Contains(string(env.Data), `"changed":false`) {
		t.Fatalf("step below one should be a no-op, got %d %s", env.StatusCode, string(env.Data))
	}

	if env := doRequest(t, r, http.MethodGet, "/api/admin/users", nil); env.StatusCode != 403 {
		t.Fatalf("user admin status_code want 403 got %d", env.StatusCode)
	}
}

func TestRouterCheckoutSettlesOnce(t *testing.T) {
	r, backend := setupRouterTest(t, constants.RoleUser)
	login(t, r)
	doRequest(t, r, http.MethodGet, "/api/cart", nil)

	env := doRequest(t, r, http.MethodPost, "/api/checkout", nil)
	if env.StatusCode != 0 {
		t.Fatalf("checkout status_code want 0 got %d msg=%s", env.StatusCode, env.Msg)
	}
	var checkout struct {
		NextPath string `json:"next_path"`
	}
	if err := json.Unmarshal(env.Data, &checkout); err != nil {
		t.Fatalf("unmarshal checkout failed: %v", err)
	}
	if checkout.NextPath != "/user/checkout/41" {
		t.Fatalf("next path want /user/checkout/41 got %s", checkout.NextPath)
	}
	if len(backend.createKeys) != 1 || backend.createKeys[0] == "" {
		t.Fatalf("idempotency key should be sent once, got %v", backend.createKeys)
	}

	env = doRequest(t, r, http.MethodGet, "/api/orders/41/countdown", nil)
	var countdown struct {
		Display string `json:"display"`
		Expired bool   `json:"expired"`
	}
	if err := json.Unmarshal(env.Data, &countdown); err != nil {
		t.Fatalf("unmarshal countdown failed: %v", err)
	}
	if countdown.Expired || !strings.HasPrefix(countdown.Display, "2") {
		t.Fatalf("unexpected countdown: %+v", countdown)
	}

	landing := "/user/checkout/41?order_id=41&status_code=200&transaction_status=settlement"
	var outcome struct {
		Outcome struct {
			Action   string `json:"action"`
			NextPath string `json:"next_path"`
		} `json:"outcome"`
	}
	env = doRequest(t, r, http.MethodGet, landing, nil)
	if err := json.Unmarshal(env.Data, &outcome); err != nil {
		t.Fatalf("unmarshal landing failed: %v", err)
	}
	if outcome.Outcome.Action != "settled" || outcome.Outcome.NextPath != constants.PaymentSuccessPath {
		t.Fatalf("first redirect should settle, got %+v", outcome.Outcome)
	}

	env = doRequest(t, r, http.MethodGet, landing, nil)
	if err := json.Unmarshal(env.Data, &outcome); err != nil {
		t.Fatalf("unmarshal landing failed: %v", err)
	}
	if outcome.Outcome.Action != "duplicate" {
		t.Fatalf("repeated redirect should be duplicate, got %+v", outcome.Outcome)
	}
	if backend.settleCalls != 1 {
		t.Fatalf("settle calls want 1 got %d", backend.settleCalls)
	}

	env = doRequest(t, r, http.MethodGet, "/api/orders", nil)
	if env.StatusCode != 0 || !strings.Contains(string(env.Data), `"status":"PAID"`) {
		t.Fatalf("recent orders should contain settled snapshot, got %s", string(env.Data))
	}
}

func TestRouterAdminUsers(t *testing.T) {
	r, _ := setupRouterTest(t, constants.RoleAdmin)
	login(t, r)

	env := doRequest(t, r, http.MethodGet, "/api/admin/users", nil)
	if env.StatusCode != 0 || !strings.Contains(string(env.Data), "Ana") {
		t.Fatalf("admin users want success got %d %s", env.StatusCode, string(env.Data))
	}
	env = doRequest(t, r, http.MethodGet, "/api/admin/authz/roles", nil)
	if env.StatusCode != 0 || !strings.Contains(string(env.Data), "role:ADMIN") {
		t.Fatalf("admin roles want success got %d %s", env.StatusCode, string(env.Data))
	}

	env = doRequest(t, r, http.MethodPost, "/api/admin/authz/policies", map[string]string{
		"role":   "support",
		"object": "/api/admin/transactions",
		"action": "GET",
	})
	if env.StatusCode != 0 {
		t.Fatalf("grant policy want success got %d msg=%s", env.StatusCode, env.Msg)
	}
	env = doRequest(t, r, http.MethodGet, "/api/admin/authz/audit-logs?action=policy_grant", nil)
	var audit struct {
		Total int64 `json:"total"`
		Items []struct {
			OperatorUserID uint   `json:"operator_user_id"`
			Role           string `json:"role"`
			Method         string `json:"method"`
		} `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &audit); err != nil {
		t.Fatalf("unmarshal audit logs failed: %v", err)
	}
	if audit.Total != 1 || audit.Items[0].OperatorUserID != 7 || audit.Items[0].Role != "role:SUPPORT" || audit.Items[0].Method != "GET" {
		t.Fatalf("unexpected audit logs: %+v", audit)
	}
}
