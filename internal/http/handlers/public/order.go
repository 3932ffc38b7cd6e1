package public

import (
	"io"
	"strings"
	"time"

	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/http/response"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/service"

	"github.com/gin-gonic/gin"
)

const recentOrderLimit = 20

// CountdownResponse 支付倒计时
type CountdownResponse struct {
	OrderID          string    `json:"order_id"`
	Display          string    `json:"display"`
	RemainingSeconds int64     `json:"remaining_seconds"`
	Deadline         time.Time `json:"deadline"`
	Expired          bool      `json:"expired"`
}

// CheckoutLandingResponse 结账落地页
type CheckoutLandingResponse struct {
	Order     *models.Order            `json:"order"`
	Countdown *CountdownResponse       `json:"countdown,omitempty"`
	Outcome   *service.RedirectOutcome `json:"outcome,omitempty"`
}

func countdownResponse(orderID string, cd *service.Countdown) *CountdownResponse {
	return &CountdownResponse{
		OrderID:          orderID,
		Display:          cd.Display(),
		RemainingSeconds: int64(cd.Remaining() / time.Second),
		Deadline:         cd.Deadline(),
		Expired:          cd.Expired(),
	}
}

// Checkout 购物车转订单
func (h *Handler) Checkout(c *gin.Context) {
	result, err := h.OrderService.Checkout(c.Request.Context())
	if err != nil {
		respondOrderError(c, err, "下单失败")
		return
	}
	response.Success(c, result)
}

// ListOrders 本地缓存的最近订单
func (h *Handler) ListOrders(c *gin.Context) {
	uid, ok := getUserID(c)
	if !ok {
		return
	}
	snapshots, err := h.OrderService.RecentSnapshots(uid, recentOrderLimit)
	if err != nil {
		respondError(c, response.CodeInternal, "获取订单失败", err)
		return
	}
	if snapshots == nil {
		snapshots = []models.OrderSnapshot{}
	}
	response.Success(c, snapshots)
}

// GetOrder 获取订单并设为当前订单
func (h *Handler) GetOrder(c *gin.Context) {
	order, err := h.OrderService.FetchOrder(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		respondOrderError(c, err, "获取订单失败")
		return
	}
	response.Success(c, order)
}

// DeleteOrder 删除订单
func (h *Handler) DeleteOrder(c *gin.Context) {
	if err := h.OrderService.DeleteOrder(c.Request.Context(), c.Param("orderId")); err != nil {
		respondOrderError(c, err, "删除订单失败")
		return
	}
	response.Success(c, nil)
}

// GetCountdown 当前订单的支付倒计时
func (h *Handler) GetCountdown(c *gin.Context) {
	orderID, cd, ok := h.currentCountdown(c)
	if !ok {
		return
	}
	response.Success(c, countdownResponse(orderID, cd))
}

// StreamCountdown 以 SSE 每秒推送倒计时，归零或客户端断开时结束
func (h *Handler) StreamCountdown(c *gin.Context) {
	orderID, cd, ok := h.currentCountdown(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	ticks := make(chan string, 1)
	go func() {
		defer close(ticks)
		cd.Run(ctx, func(display string) {
			select {
			case ticks <- display:
			case <-ctx.Done():
			}
		})
	}()

	requestLog(c).Debugw("order_countdown_stream_start", "order_id", orderID)
	c.Stream(func(w io.Writer) bool {
		display, open := <-ticks
		if !open {
			return false
		}
		c.SSEvent("countdown", gin.H{"order_id": orderID, "display": display})
		return display != service.FormatRemaining(0)
	})
}

// CheckoutLanding 支付网关回跳落地页
// 带 order_id/status_code/transaction_status 参数时处理回跳
func (h *Handler) CheckoutLanding(c *gin.Context) {
	orderID := strings.TrimSpace(c.Param("orderId"))
	var redirect service.PaymentRedirect
	if err := c.ShouldBindQuery(&redirect); err != nil {
		respondError(c, response.CodeBadRequest, "请求参数错误", err)
		return
	}

	if _, err := h.OrderService.FetchOrder(c.Request.Context(), orderID); err != nil {
		respondOrderError(c, err, "获取订单失败")
		return
	}

	result := CheckoutLandingResponse{}
	if strings.TrimSpace(redirect.OrderID) != "" {
		outcome, err := h.OrderService.HandlePaymentRedirect(c.Request.Context(), redirect)
		if err != nil {
			respondOrderError(c, err, "支付结果处理失败")
			return
		}
		result.Outcome = outcome
	}

	result.Order = h.Store.Order().Current
	if result.Order != nil && result.Order.Status == constants.OrderStatusPending {
		if cd, err := h.OrderService.Countdown(); err == nil {
			result.Countdown = countdownResponse(orderID, cd)
		}
	}
	response.Success(c, result)
}

func (h *Handler) currentCountdown(c *gin.Context) (string, *service.Countdown, bool) {
	orderID := strings.TrimSpace(c.Param("orderId"))
	current := h.Store.Order().Current
	if current == nil || current.OrderID.String() != orderID {
		respondOrderError(c, service.ErrNoCurrentOrder, "获取倒计时失败")
		return "", nil, false
	}
	cd, err := h.OrderService.Countdown()
	if err != nil {
		respondOrderError(c, err, "获取倒计时失败")
		return "", nil, false
	}
	return orderID, cd, true
}
