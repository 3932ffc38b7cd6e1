package worker

import (
	"context"
	"errors"

	"github.com/storefront-next/internal/logger"
	"github.com/storefront-next/internal/provider"
	"github.com/storefront-next/internal/queue"
	"github.com/storefront-next/internal/service"

	"github.com/hibiken/asynq"
)

// PaymentExpirer 支付超时处理
type PaymentExpirer interface {
	MarkExpired(ctx context.Context, orderID string) (bool, error)
}

// Consumer 异步任务消费者
type Consumer struct {
	Orders PaymentExpirer
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	if c == nil || c.OrderService == nil {
		return &Consumer{}
	}
	return &Consumer{Orders: c.OrderService}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskOrderPaymentExpire, c.handleOrderPaymentExpire)
}

func (c *Consumer) handleOrderPaymentExpire(ctx context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_order_payment_expire_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	payload, err := queue.ParseOrderPaymentExpirePayload(task)
	if err != nil {
		logger.Warnw("worker_order_payment_expire_unmarshal_failed", "error", err)
		return err
	}
	if payload.OrderID == "" {
		logger.Debugw("worker_order_payment_expire_skip_invalid_payload")
		return nil
	}
	if c.Orders == nil {
		logger.Warnw("worker_order_payment_expire_skip_service_nil", "order_id", payload.OrderID)
		return nil
	}
	expired, err := c.Orders.MarkExpired(ctx, payload.OrderID)
	if err != nil {
		if errors.Is(err, service.ErrOrderNotFound) {
			logger.Debugw("worker_order_payment_expire_skip_order_not_found", "order_id", payload.OrderID)
			return nil
		}
		logger.Warnw("worker_order_payment_expire_failed", "order_id", payload.OrderID, "error", err)
		return err
	}
	logger.Infow("worker_order_payment_expire_done", "order_id", payload.OrderID, "expired", expired)
	return nil
}
