package service

import (
	"context"
	"fmt"
	"time"
)

// Countdown 支付倒计时，每次读取都按 截止时间-当前时间 计算
type Countdown struct {
	deadline time.Time
	now      func() time.Time
	interval time.Duration
}

// NewCountdown 从下单时间与支付窗口创建倒计时
func NewCountdown(createdAt time.Time, window time.Duration, now func() time.Time) *Countdown {
	if now == nil {
		now = time.Now
	}
	return &Countdown{
		deadline: createdAt.Add(window),
		now:      now,
		interval: time.Second,
	}
}

// WithInterval 调整刷新间隔
func (c *Countdown) WithInterval(interval time.Duration) *Countdown {
	if interval > 0 {
		c.interval = interval
	}
	return c
}

// Deadline 截止时间
func (c *Countdown) Deadline() time.Time {
	return c.deadline
}

// Remaining 剩余时长，到期后为 0
func (c *Countdown) Remaining() time.Duration {
	remaining := c.deadline.Sub(c.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired 是否已到期
func (c *Countdown) Expired() bool {
	return c.Remaining() == 0
}

// Display HH:MM:SS
func (c *Countdown) Display() string {
	return FormatRemaining(c.Remaining())
}

// Run 每个间隔回调一次，到期或 ctx 取消时返回
func (c *Countdown) Run(ctx context.Context, onTick func(display string)) {
	if onTick == nil {
		return
	}
	onTick(c.Display())
	if c.Expired() {
		return
	}
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			onTick(c.Display())
			if c.Expired() {
				return
			}
		}
	}
}

// FormatRemaining 格式化为 HH:MM:SS，不足一秒的部分舍去
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	hours := total / 3600
	minutes := (total % 3600) / 60
	seconds := total % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
}
