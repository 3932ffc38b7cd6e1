package shared

import (
	"errors"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		RequestLog(c).Errorw("handler_error",
			"code", appErr.Code,
			"message", appErr.Message,
			"error", err,
		)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// ErrorRule 业务错误到接口错误响应的映射，Msg 为空时直接使用错误文本
type ErrorRule struct {
	Target error
	Code   int
	Msg    string
}

// ConcatErrorRules 合并多组映射规则
func ConcatErrorRules(groups ...[]ErrorRule) []ErrorRule {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]ErrorRule, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

// RespondMappedError 按规则表响应，未命中时按后端错误类别兜底
func RespondMappedError(c *gin.Context, err error, rules []ErrorRule, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.Target) {
			msg := rule.Msg
			if msg == "" {
				msg = err.Error()
			}
			RespondError(c, rule.Code, msg, nil)
			return
		}
	}
	RespondBackendError(c, err, fallbackMsg)
}

// RespondBackendError 后端错误按类别映射状态码，消息优先使用后端返回的文案
func RespondBackendError(c *gin.Context, err error, fallbackMsg string) {
	var apiErr *api.APIError
	if !errors.As(err, &apiErr) {
		code := response.CodeInternal
		if errors.Is(err, api.ErrCircuitOpen) || errors.Is(err, api.ErrRequestFailed) {
			code = response.CodeBadGateway
		}
		RespondError(c, code, fallbackMsg, err)
		return
	}
	msg := api.Message(err)
	if msg == "" {
		msg = fallbackMsg
	}
	switch apiErr.Kind() {
	case api.KindValidation, api.KindBusiness:
		RespondError(c, response.CodeBadRequest, msg, nil)
	case api.KindUnauthorized:
		RespondError(c, response.CodeUnauthorized, msg, nil)
	case api.KindNotFound:
		RespondError(c, response.CodeNotFound, msg, nil)
	case api.KindConflict:
		RespondError(c, response.CodeConflict, msg, nil)
	default:
		RespondError(c, response.CodeBadGateway, fallbackMsg, err)
	}
}
