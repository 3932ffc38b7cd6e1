package public

import (
	handlershared "github.com/storefront-next/internal/http/handlers/shared"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

var sessionErrorRules = []handlershared.ErrorRule{
	{Target: service.ErrNotAuthenticated, Code: response.CodeUnauthorized, Msg: "请先登录"},
	{Target: service.ErrInvalidToken, Code: response.CodeUnauthorized, Msg: "登录凭证无效"},
	{Target: service.ErrCredentialExpired, Code: response.CodeUnauthorized, Msg: "登录已过期，请重新登录"},
	{Target: service.ErrStaleResult, Code: response.CodeConflict, Msg: "会话已变更，请重试"},
}

var authErrorRules = handlershared.ConcatErrorRules(sessionErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrValidation, Code: response.CodeBadRequest},
})

var cartErrorRules = handlershared.ConcatErrorRules(sessionErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrInvalidQuantity, Code: response.CodeBadRequest, Msg: "数量不能小于 1"},
	{Target: service.ErrCartItemNotFound, Code: response.CodeNotFound, Msg: "购物车中没有该商品"},
})

var orderErrorRules = handlershared.ConcatErrorRules(sessionErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrCartEmpty, Code: response.CodeBadRequest},
	{Target: service.ErrCheckoutInProgress, Code: response.CodeConflict, Msg: "订单正在提交，请勿重复操作"},
	{Target: service.ErrOrderDraftInvalid, Code: response.CodeBadRequest},
	{Target: service.ErrValidation, Code: response.CodeBadRequest},
	{Target: service.ErrOrderConflict, Code: response.CodeConflict, Msg: "订单已提交"},
	{Target: service.ErrOrderNotFound, Code: response.CodeNotFound, Msg: "订单不存在"},
	{Target: service.ErrNoCurrentOrder, Code: response.CodeNotFound, Msg: "当前没有待支付订单"},
	{Target: service.ErrCountdownUnavailable, Code: response.CodeNotFound, Msg: "订单缺少创建时间，无法计时"},
})

var chatErrorRules = handlershared.ConcatErrorRules(sessionErrorRules, []handlershared.ErrorRule{
	{Target: service.ErrChatRoomMissing, Code: response.CodeBadRequest, Msg: "请先打开会话"},
	{Target: service.ErrEmptyMessage, Code: response.CodeBadRequest, Msg: "消息内容不能为空"},
})

func respondAuthError(c *gin.Context, err error, fallback string) {
	handlershared.RespondMappedError(c, err, authErrorRules, fallback)
}

func respondCartError(c *gin.Context, err error, fallback string) {
	handlershared.RespondMappedError(c, err, cartErrorRules, fallback)
}

func respondOrderError(c *gin.Context, err error, fallback string) {
	handlershared.RespondMappedError(c, err, orderErrorRules, fallback)
}

func respondChatError(c *gin.Context, err error, fallback string) {
	handlershared.RespondMappedError(c, err, chatErrorRules, fallback)
}

func respondCatalogError(c *gin.Context, err error, fallback string) {
	handlershared.RespondBackendError(c, err, fallback)
}
