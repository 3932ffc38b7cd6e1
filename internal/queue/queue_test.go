package queue

import (
	"testing"
	"time"

	"github.com/storefront-next/internal/config"
)

func TestDisabledClientIsNoop(t *testing.T) {
	client, err := NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	if client.Enabled() {
		t.Fatalf("disabled client should report disabled")
	}
	if err := client.EnqueueOrderPaymentExpire("41", time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("disabled enqueue should be a no-op, got %v", err)
	}
	if err := client.Close(); err != nil {
		t.Fatalf("close disabled client failed: %v", err)
	}
}

func TestOrderPaymentExpireTaskRoundTrip(t *testing.T) {
	task, err := NewOrderPaymentExpireTask(OrderPaymentExpirePayload{OrderID: "41"})
	if err != nil {
		t.Fatalf("new task failed: %v", err)
	}
	if task.Type() != TaskOrderPaymentExpire {
		t.Fatalf("unexpected task type %s", task.Type())
	}
	payload, err := ParseOrderPaymentExpirePayload(task)
	if err != nil || payload.OrderID != "41" {
		t.Fatalf("parse payload failed: %+v %v", payload, err)
	}
	if got := PaymentExpireTaskID(" 41 "); got != "payment_expire:41" {
		t.Fatalf("unexpected task id %s", got)
	}
}

func TestBuildServerConfig(t *testing.T) {
	opt, cfg := BuildServerConfig(&config.QueueConfig{Host: "redis", Port: 6380, DB: 2})
	if opt.Addr != "redis:6380" || opt.DB != 2 {
		t.Fatalf("unexpected redis opt: %+v", opt)
	}
	if cfg.Concurrency != 10 || cfg.Queues[CriticalQueue] != 2 {
		t.Fatalf("unexpected server config: %+v", cfg)
	}
}
