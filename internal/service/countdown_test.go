package service

import (
	"context"
	"sync"
	"testing"
	"time"
)

func TestFormatRemaining(t *testing.T) {
	cases := map[time.Duration]string{
		-time.Second:                                   "00:00:00",
		0:                                              "00:00:00",
		999 * time.Millisecond:                         "00:00:00",
		61 * time.Second:                               "00:01:01",
		23*time.Hour + 59*time.Minute + 59*time.Second: "23:59:59",
		30 * time.Hour:                                 "30:00:00",
	}
	for d, want := range cases {
		if got := FormatRemaining(d); got != want {
			t.Fatalf("FormatRemaining(%s) want %s got %s", d, want, got)
		}
	}
}

func TestCountdownRunStopsAtExpiry(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)}
	countdown := NewCountdown(clock.Now().Add(-24*time.Hour).Add(2*time.Second), 24*time.Hour, clock.Now).
		WithInterval(time.Millisecond)

	var (
		mu     sync.Mutex
		ticks  []string
		finish = make(chan struct{})
	)
	go func() {
		countdown.Run(context.Background(), func(display string) {
			mu.Lock()
			ticks = append(ticks, display)
			mu.Unlock()
			clock.Advance(time.Second)
		})
		close(finish)
	}()

	select {
	case <-finish:
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not stop at expiry")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(ticks) == 0 || ticks[0] != "00:00:02" || len(ticks) > 3 {
		t.Fatalf("unexpected ticks: %v", ticks)
	}
	for i := 1; i < len(ticks); i++ {
		if ticks[i] > ticks[i-1] {
			t.Fatalf("countdown went up: %v", ticks)
		}
	}
}

func TestCountdownRunStopsOnCancel(t *testing.T) {
	countdown := NewCountdown(time.Now(), time.Hour, nil).WithInterval(time.Millisecond)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		countdown.Run(ctx, func(string) {})
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("countdown did not stop on cancel")
	}
}
