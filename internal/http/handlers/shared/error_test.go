package shared

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/http/response"

	"github.com/gin-gonic/gin"
)

var errLocal = errors.New("local failure")

func decodeCode(t *testing.T, w *httptest.ResponseRecorder) (int, string) {
	t.Helper()
	var resp struct {
		StatusCode int    `json:"status_code"`
		Msg        string `json:"msg"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode, resp.Msg
}

func TestRespondMappedError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	rules := []ErrorRule{{Target: errLocal, Code: response.CodeBadRequest, Msg: "本地错误"}}

	cases := []struct {
		name     string
		err      error
		wantCode int
		wantMsg  string
	}{
		{name: "rule", err: fmt.Errorf("wrap: %w", errLocal), wantCode: response.CodeBadRequest, wantMsg: "本地错误"},
		{name: "conflict", err: &api.APIError{Status: http.StatusConflict, Message: "duplicate order"}, wantCode: response.CodeConflict, wantMsg: "duplicate order"},
		{name: "not_found", err: &api.APIError{Status: http.StatusNotFound, Message: "no order"}, wantCode: response.CodeNotFound, wantMsg: "no order"},
		{name: "unauthorized", err: &api.APIError{Status: http.StatusUnauthorized, Message: "expired"}, wantCode: response.CodeUnauthorized, wantMsg: "expired"},
		{name: "server", err: &api.APIError{Status: http.StatusInternalServerError, Message: "db down"}, wantCode: response.CodeBadGateway, wantMsg: "兜底"},
		{name: "breaker", err: fmt.Errorf("%w: open", api.ErrCircuitOpen), wantCode: response.CodeBadGateway, wantMsg: "兜底"},
		{name: "unknown", err: errors.New("x"), wantCode: response.CodeInternal, wantMsg: "兜底"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			RespondMappedError(c, tc.err, rules, "兜底")
			code, msg := decodeCode(t, w)
			if code != tc.wantCode || msg != tc.wantMsg {
				t.Fatalf("want %d/%s got %d/%s", tc.wantCode, tc.wantMsg, code, msg)
			}
		})
	}
}

func TestGetUserID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	if _, ok := GetUserID(c); ok {
		t.Fatalf("missing user id should fail")
	}
	if code, _ := decodeCode(t, w); code != response.CodeUnauthorized {
		t.Fatalf("status_code want 401 got %d", code)
	}

	w2 := httptest.NewRecorder()
	c2, _ := gin.CreateTestContext(w2)
	c2.Set(ContextUserIDKey, uint(12))
	if id, ok := GetUserID(c2); !ok || id != 12 {
		t.Fatalf("user id want 12 got %d", id)
	}
}
