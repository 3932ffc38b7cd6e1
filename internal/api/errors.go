package api

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrRequestFailed   = errors.New("backend request failed")
	ErrResponseInvalid = errors.New("backend response invalid")
	ErrCircuitOpen     = errors.New("backend circuit open")
)

// 错误类别
const (
	KindNetwork      = "network"
	KindValidation   = "validation"
	KindUnauthorized = "unauthorized"
	KindNotFound     = "not_found"
	KindConflict     = "conflict"
	KindBusiness     = "business"
)

// APIError 后端返回的非 2xx 响应
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("backend status %d", e.Status)
	}
	return e.Message
}

// Kind 按状态码归类
func (e *APIError) Kind() string {
	switch {
	case e.Status == http.StatusBadRequest || e.Status == http.StatusUnprocessableEntity:
		return KindValidation
	case e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden:
		return KindUnauthorized
	case e.Status == http.StatusNotFound:
		return KindNotFound
	case e.Status == http.StatusConflict:
		return KindConflict
	case e.Status >= http.StatusInternalServerError:
		return KindNetwork
	default:
		return KindBusiness
	}
}

// KindOf 返回任意错误的类别，无法识别时归为网络错误
func KindOf(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind()
	}
	return KindNetwork
}

// IsConflict 是否为幂等冲突（409）
func IsConflict(err error) bool {
	return KindOf(err) == KindConflict
}

// Message 提取可展示的错误信息
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}
