package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/storefront-next/internal/api"
	"github.com/storefront-next/internal/constants"
	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/models"
	"github.com/storefront-next/internal/repository"
	"github.com/storefront-next/internal/store"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// CheckoutResult 结账结果
type CheckoutResult struct {
	Order    models.Order `json:"order"`
	NextPath string       `json:"next_path"`
}

// PaymentRedirect 支付网关回跳参数
type PaymentRedirect struct {
	OrderID           string `form:"order_id" json:"order_id"`
	StatusCode        string `form:"status_code" json:"status_code"`
	TransactionStatus string `form:"transaction_status" json:"transaction_status"`
}

// 回跳处理结果
const (
	RedirectIgnored   = "ignored"
	RedirectSettled   = "settled"
	RedirectFailed    = "failed"
	RedirectDuplicate = "duplicate"
)

// RedirectOutcome 回跳处理结果
type RedirectOutcome struct {
	Action   string `json:"action"`
	NextPath string `json:"next_path,omitempty"`
}

// OrderServiceOptions 订单服务依赖
type OrderServiceOptions struct {
	Store         *store.Store
	API           OrderAPI
	Snapshots     repository.OrderSnapshotRepository
	Scheduler     PaymentExpiryScheduler
	PaymentWindow time.Duration
	Now           func() time.Time
	NewKey        func() string
}

// OrderService 结账与订单流程
// NoOrder -> Creating -> Created(paymentUrl) -> Settled | Deleted
type OrderService struct {
	store     *store.Store
	api       OrderAPI
	snapshots repository.OrderSnapshotRepository
	scheduler PaymentExpiryScheduler
	validate  *validatorv10.Validate
	window    time.Duration
	now       func() time.Time
	newKey    func() string

	processing atomic.Bool

	settleMu sync.Mutex
	settled  map[string]struct{}
}

// NewOrderService 创建订单服务
func NewOrderService(opts OrderServiceOptions) *OrderService {
	window := opts.PaymentWindow
	if window <= 0 {
		window = constants.DefaultPaymentWindowHours * time.Hour
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	newKey := opts.NewKey
	if newKey == nil {
		newKey = uuid.NewString
	}
	return &OrderService{
		store:     opts.Store,
		api:       opts.API,
		snapshots: opts.Snapshots,
		scheduler: opts.Scheduler,
		validate:  newValidator(),
		window:    window,
		now:       now,
		newKey:    newKey,
		settled:   make(map[string]struct{}),
	}
}

// Processing 是否有进行中的结账
func (s *OrderService) Processing() bool {
	return s.processing.Load()
}

// Checkout 将购物车转换为订单，进行中时重复调用直接拒绝
func (s *OrderService) Checkout(ctx context.Context) (*CheckoutResult, error) {
	if !s.processing.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	s.store.Dispatch(store.ActionOrderCreating, func(st *store.State) {
		st.Order.Processing = true
	})
	defer func() {
		s.processing.Store(false)
		s.store.Dispatch(store.ActionOrderProcessingEnd, func(st *store.State) {
			st.Order.Processing = false
		})
	}()

	cart := s.store.Cart()
	if len(cart.Items) == 0 {
		s.setError(ErrCartEmpty.Error())
		return nil, ErrCartEmpty
	}

	draft := models.OrderDraft{
		OrderID:  s.newKey(),
		CartID:   cart.CartID,
		Products: make([]models.OrderDraftItem, 0, len(cart.Items)),
	}
	for _, item := range cart.Items {
		draft.Products = append(draft.Products, models.OrderDraftItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		})
	}
	if err := validateStruct(s.validate, ErrOrderDraftInvalid, draft); err != nil {
		s.setError(err.Error())
		return nil, err
	}

	s.store.Dispatch(store.ActionOrderCreating, func(st *store.State) {
		d := draft
		st.Order.LastDraft = &d
		st.Order.Loading = true
		st.Order.Error = ""
		if st.Order.Current == nil {
			st.Order.Phase = constants.OrderPhaseCreating
		}
	})

	resp, err := s.api.CreateOrder(ctx, draft)
	if err != nil {
		message := api.Message(err)
		if api.IsConflict(err) {
			err = fmt.Errorf("%w: %w", ErrOrderConflict, err)
		}
		s.store.Dispatch(store.ActionOrderRejected, func(st *store.State) {
			st.Order.Loading = false
			st.Order.Error = message
			if st.Order.Phase == constants.OrderPhaseCreating {
				st.Order.Phase = constants.OrderPhaseNone
			}
		})
		logger.Warnw("order_checkout_failed", "idempotency_key", draft.OrderID, "cart_id", draft.CartID, "error", err)
		return nil, err
	}

	order := resp.Order
	if order.PaymentURL == "" {
		order.PaymentURL = resp.PaymentURL
	}
	if order.Status == "" {
		order.Status = constants.OrderStatusPending
	}
	if order.CartID == 0 {
		order.CartID = draft.CartID
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = s.now()
	}
	s.store.Dispatch(store.ActionOrderCreated, func(st *store.State) {
		o := order
		st.Order.Current = &o
		st.Order.Phase = constants.OrderPhaseCreated
		st.Order.Loading = false
		st.Order.Error = ""
	})
	logger.Infow("order_checkout_created", "order_id", order.OrderID.String(), "idempotency_key", draft.OrderID)

	s.saveSnapshot(order, draft.OrderID)
	s.scheduleExpiry(order)

	return &CheckoutResult{
		Order:    order,
		NextPath: constants.CheckoutPathPrefix + order.OrderID.String(),
	}, nil
}

// FetchOrder 获取订单并设为当前订单
func (s *OrderService) FetchOrder(ctx context.Context, orderID string) (*models.Order, error) {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return nil, ErrOrderNotFound
	}
	s.store.Dispatch(store.ActionOrderFetching, func(st *store.State) {
		st.Order.Loading = true
		st.Order.Error = ""
	})
	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		message := api.Message(err)
		if api.KindOf(err) == api.KindNotFound {
			err = fmt.Errorf("%w: %w", ErrOrderNotFound, err)
		}
		s.store.Dispatch(store.ActionOrderRejected, func(st *store.State) {
			st.Order.Loading = false
			st.Order.Error = message
		})
		return nil, err
	}
	if order.OrderID.IsZero() {
		order.OrderID = models.FlexID(orderID)
	}
	fetched := *order
	s.store.Dispatch(store.ActionOrderFetched, func(st *store.State) {
		o := fetched
		if prev := st.Order.Current; o.CreatedAt.IsZero() && prev != nil && prev.OrderID == o.OrderID {
			o.CreatedAt = prev.CreatedAt
		}
		st.Order.Current = &o
		st.Order.Loading = false
		st.Order.Phase = phaseForStatus(o.Status)
	})

	key := ""
	if s.snapshots != nil {
		if existing, err := s.snapshots.GetByOrderID(fetched.OrderID.String()); err == nil && existing != nil {
			key = existing.IdempotencyKey
		}
	}
	s.saveSnapshot(fetched, key)
	return &fetched, nil
}

// DeleteOrder 删除订单
func (s *OrderService) DeleteOrder(ctx context.Context, orderID string) error {
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return ErrOrderNotFound
	}
	if err := s.api.DeleteOrder(ctx, orderID); err != nil {
		s.setError(api.Message(err))
		logger.Warnw("order_delete_failed", "order_id", orderID, "error", err)
		return err
	}
	s.store.Dispatch(store.ActionOrderDeleted, func(st *store.State) {
		if st.Order.Current != nil && st.Order.Current.OrderID.String() == orderID {
			st.Order.Current = nil
			st.Order.Phase = constants.OrderPhaseDeleted
		}
		st.Order.Loading = false
		st.Order.Error = ""
	})
	if s.snapshots != nil {
		if err := s.snapshots.Delete(orderID); err != nil {
			logger.Warnw("order_snapshot_delete_failed", "order_id", orderID, "error", err)
		}
	}
	return nil
}

// ListTransactions 管理端交易列表
func (s *OrderService) ListTransactions(ctx context.Context) ([]models.Transaction, error) {
	transactions, err := s.api.ListOrders(ctx)
	if err != nil {
		s.setError(api.Message(err))
		return nil, err
	}
	s.store.Dispatch(store.ActionOrderTransactions, func(st *store.State) {
		st.Order.Transactions = transactions
	})
	return transactions, nil
}

// HandlePaymentRedirect 处理支付网关回跳
// 仅当回跳订单为当前订单时生效；settlement 只回写一次 PAID
func (s *OrderService) HandlePaymentRedirect(ctx context.Context, redirect PaymentRedirect) (*RedirectOutcome, error) {
	orderID := strings.TrimSpace(redirect.OrderID)
	current := s.store.Order().Current
	if orderID == "" || current == nil || current.OrderID.String() != orderID {
		logger.Debugw("payment_redirect_ignored", "order_id", orderID, "reason", "not_current_order")
		return &RedirectOutcome{Action: RedirectIgnored}, nil
	}

	status := strings.ToLower(strings.TrimSpace(redirect.TransactionStatus))
	switch {
	case redirect.StatusCode == constants.PaymentStatusCodeOK && status == constants.TransactionStatusSettlement:
		return s.settle(ctx, orderID, current.Status)
	case isFailedTransaction(status):
		s.markFailed(orderID)
		return &RedirectOutcome{Action: RedirectFailed}, nil
	default:
		logger.Warnw("payment_redirect_not_settled", "order_id", orderID, "status_code", redirect.StatusCode, "transaction_status", status)
		return &RedirectOutcome{Action: RedirectIgnored}, nil
	}
}

func (s *OrderService) settle(ctx context.Context, orderID, currentStatus string) (*RedirectOutcome, error) {
	s.settleMu.Lock()
	if _, done := s.settled[orderID]; done || currentStatus == constants.OrderStatusPaid {
		s.settleMu.Unlock()
		return &RedirectOutcome{Action: RedirectDuplicate, NextPath: constants.PaymentSuccessPath}, nil
	}
	s.settled[orderID] = struct{}{}
	s.settleMu.Unlock()

	err := s.api.UpdatePaymentStatus(ctx, models.PaymentCallback{
		OrderID:           models.FlexID(orderID),
		TransactionStatus: constants.OrderStatusPaid,
	})
	if err != nil {
		s.settleMu.Lock()
		delete(s.settled, orderID)
		s.settleMu.Unlock()
		s.setError(api.Message(err))
		logger.Warnw("order_settle_failed", "order_id", orderID, "error", err)
		return nil, err
	}

	s.store.Dispatch(store.ActionOrderSettled, func(st *store.State) {
		if st.Order.Current != nil && st.Order.Current.OrderID.String() == orderID {
			st.Order.Current.Status = constants.OrderStatusPaid
			st.Order.Phase = constants.OrderPhaseSettled
		}
		st.Order.Error = ""
	})
	s.updateSnapshotStatus(orderID, constants.OrderStatusPaid)
	logger.Infow("order_settled", "order_id", orderID)
	return &RedirectOutcome{Action: RedirectSettled, NextPath: constants.PaymentSuccessPath}, nil
}

// MarkExpired 支付窗口结束后检查订单，仍未支付则快照标记为失败并清除当前订单
func (s *OrderService) MarkExpired(ctx context.Context, orderID string) (bool, error) {
	order, err := s.api.GetOrder(ctx, orderID)
	if err != nil {
		if api.KindOf(err) == api.KindNotFound {
			return false, ErrOrderNotFound
		}
		return false, err
	}
	if order.Status != "" && order.Status != constants.OrderStatusPending {
		s.updateSnapshotStatus(orderID, order.Status)
		return false, nil
	}
	s.updateSnapshotStatus(orderID, constants.OrderStatusFailed)
	s.store.Dispatch(store.ActionOrderFailed, func(st *store.State) {
		if st.Order.Current != nil && st.Order.Current.OrderID.String() == orderID &&
			st.Order.Current.Status != constants.OrderStatusPaid {
			st.Order.Current = nil
			st.Order.Phase = constants.OrderPhaseNone
		}
	})
	logger.Infow("order_payment_expired", "order_id", orderID)
	return true, nil
}

// Reset 重置订单切片
func (s *OrderService) Reset() {
	s.store.Dispatch(store.ActionOrderReset, func(st *store.State) {
		st.Order = store.OrderState{Phase: constants.OrderPhaseNone, Processing: s.processing.Load()}
	})
}

// Countdown 当前订单的支付倒计时
func (s *OrderService) Countdown() (*Countdown, error) {
	current := s.store.Order().Current
	if current == nil {
		return nil, ErrNoCurrentOrder
	}
	if current.CreatedAt.IsZero() {
		return nil, ErrCountdownUnavailable
	}
	return NewCountdown(current.CreatedAt, s.window, s.now), nil
}

// RecentSnapshots 本地缓存的订单
func (s *OrderService) RecentSnapshots(userID uint, limit int) ([]models.OrderSnapshot, error) {
	if s.snapshots == nil {
		return nil, nil
	}
	return s.snapshots.ListRecent(userID, limit)
}

func (s *OrderService) markFailed(orderID string) {
	s.store.Dispatch(store.ActionOrderFailed, func(st *store.State) {
		if st.Order.Current != nil && st.Order.Current.OrderID.String() == orderID &&
			st.Order.Current.Status != constants.OrderStatusPaid {
			st.Order.Current.Status = constants.OrderStatusFailed
		}
	})
	s.updateSnapshotStatus(orderID, constants.OrderStatusFailed)
	logger.Infow("order_marked_failed", "order_id", orderID)
}

func (s *OrderService) saveSnapshot(order models.Order, key string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.Upsert(models.NewOrderSnapshot(order, key)); err != nil {
		logger.Warnw("order_snapshot_save_failed", "order_id", order.OrderID.String(), "error", err)
	}
}

func (s *OrderService) updateSnapshotStatus(orderID, status string) {
	if s.snapshots == nil {
		return
	}
	if err := s.snapshots.UpdateStatus(orderID, status); err != nil {
		logger.Warnw("order_snapshot_status_failed", "order_id", orderID, "status", status, "error", err)
	}
}

func (s *OrderService) scheduleExpiry(order models.Order) {
	if s.scheduler == nil {
		return
	}
	if err := s.scheduler.EnqueueOrderPaymentExpire(order.OrderID.String(), order.CreatedAt.Add(s.window)); err != nil {
		logger.Warnw("order_expire_enqueue_failed", "order_id", order.OrderID.String(), "error", err)
	}
}

func (s *OrderService) setError(message string) {
	s.store.Dispatch(store.ActionOrderRejected, func(st *store.State) {
		st.Order.Loading = false
		st.Order.Error = message
	})
}

func phaseForStatus(status string) string {
	if status == constants.OrderStatusPaid {
		return constants.OrderPhaseSettled
	}
	return constants.OrderPhaseCreated
}

func isFailedTransaction(status string) bool {
	switch status {
	case constants.TransactionStatusDeny,
		constants.TransactionStatusCancel,
		constants.TransactionStatusExpire,
		constants.TransactionStatusFailure:
		return true
	}
	return false
}

// IsOrderConflict 是否为重复提交
func IsOrderConflict(err error) bool {
	return errors.Is(err, ErrOrderConflict)
}
