package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/storefront-next/internal/config"
	"github.com/storefront-next/internal/logger"

	"github.com/sony/gobreaker/v2"
)

// TokenSource 提供当前 Bearer Token
type TokenSource interface {
	Token() string
}

// TokenFunc 函数适配 TokenSource
type TokenFunc func() string

// Token 返回 Token
func (f TokenFunc) Token() string {
	if f == nil {
		return ""
	}
	return f()
}

// Client 后端 REST 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	breaker    *gobreaker.CircuitBreaker[[]byte]
}

// NewClient 创建后端客户端
func NewClient(cfg config.APIConfig, tokens TokenSource) *Client {
	return NewClientWithHTTP(cfg, tokens, &http.Client{Timeout: cfg.Timeout()})
}

// NewClientWithHTTP 使用指定 http.Client 创建后端客户端
func NewClientWithHTTP(cfg config.APIConfig, tokens TokenSource, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout()}
	}
	c := &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/"),
		httpClient: httpClient,
		tokens:     tokens,
	}
	if cfg.Breaker.Enabled {
		c.breaker = newBreaker(cfg.Breaker)
	}
	return c
}

func newBreaker(cfg config.BreakerConfig) *gobreaker.CircuitBreaker[[]byte] {
	failures := uint32(cfg.ConsecutiveFailures)
	if failures == 0 {
		failures = 5
	}
	openFor := time.Duration(cfg.OpenSeconds) * time.Second
	if openFor <= 0 {
		openFor = 30 * time.Second
	}
	return gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:    "storefront-backend",
		Timeout: openFor,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failures
		},
		// 业务拒绝（4xx）不计入熔断
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			var apiErr *APIError
			return errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnw("api_breaker_state_changed", "name", name, "from", from.String(), "to", to.String())
		},
	})
}

// request 单次请求参数
type request struct {
	method  string
	path    string
	query   url.Values
	body    interface{}
	headers map[string]string
}

// do 发送请求并解析响应，out 为 nil 时忽略响应体
func (c *Client) do(ctx context.Context, req request, out interface{}) error {
	call := func() ([]byte, error) {
		return c.send(ctx, req)
	}
	var (
		payload []byte
		err     error
	)
	if c.breaker != nil {
		payload, err = c.breaker.Execute(call)
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("%w: %v", ErrCircuitOpen, err)
		}
	} else {
		payload, err = call()
	}
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseInvalid, err)
	}
	return nil
}

func (c *Client) send(ctx context.Context, req request) ([]byte, error) {
	endpoint := c.baseURL + req.path
	if len(req.query) > 0 {
		endpoint += "?" + req.query.Encode()
	}

	var reader io.Reader
	if req.body != nil {
		data, err := json.Marshal(req.body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(data)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("Accept", "application/json")
	if c.tokens != nil {
		if token := strings.TrimSpace(c.tokens.Token()); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}
	for key, value := range req.headers {
		httpReq.Header.Set(key, value)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		logger.Warnw("api_request_failed", "method", req.method, "path", req.path, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode, Message: extractMessage(body, resp.StatusCode)}
		logger.Debugw("api_request_rejected", "method", req.method, "path", req.path, "status", resp.StatusCode, "message", apiErr.Message)
		return nil, apiErr
	}
	return body, nil
}

// extractMessage 读取 message 或 error 字段
func extractMessage(body []byte, status int) string {
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if len(bytes.TrimSpace(body)) > 0 && json.Unmarshal(body, &payload) == nil {
		if msg := strings.TrimSpace(payload.Message); msg != "" {
			return msg
		}
		if msg := strings.TrimSpace(payload.Error); msg != "" {
			return msg
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return fmt.Sprintf("backend status %d", status)
}

func pathID(value interface{}) string {
	return url.PathEscape(fmt.Sprint(value))
}
