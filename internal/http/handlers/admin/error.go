package admin

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

var adminErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrValidation, Code: response.CodeBadRequest},
	{Target: service.ErrNotAuthenticated, Code: response.CodeUnauthorized, Msg: "请先登录"},
}

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondAdminError(c *gin.Context, err error, fallback string) {
	handlershared.RespondMappedError(c, err, adminErrorRules, fallback)
}
