package service

import (
	"context"
	"testing"
	"time"
)

func TestSleepContextReturnsAfterDelay(t *testing.T) {
	start := time.Now()
	if err := sleepContext(context.Background(), 10*time.Millisecond); err != nil {
		t.Fatalf("sleepContext failed: %v", err)
	}
	if time.Since(start) < 10*time.Millisecond {
		t.Fatal("returned before the delay elapsed")
	}
}

func TestSleepContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := sleepContext(ctx, time.Hour); err != context.Canceled {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestSleepContextZeroDelay(t *testing.T) {
	if err := sleepContext(context.Background(), 0); err != nil {
		t.Fatalf("sleepContext failed: %v", err)
	}
}

func TestPollerDefaultsToRealSleep(t *testing.T) {
	p := Poller{Interval: time.Millisecond, MaxAttempts: 1}
	if err := p.sleep(context.Background()); err != nil {
		t.Fatalf("sleep failed: %v", err)
	}
}

func TestThreadLocksSerialize(t *testing.T) {
	locks := newThreadLocks()

	unlock := locks.lock("thread_1")
	acquired := make(chan struct{})
	go func() {
		u := locks.lock("thread_1")
		close(acquired)
		u()
	}()

	select {
	case <-acquired:
		t.Fatal("second lock acquired while first still held")
	case <-time.After(20 * time.Millisecond):
	}

	unlock()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second lock never acquired")
	}
}

func TestThreadLocksIndependentThreads(t *testing.T) {
	locks := newThreadLocks()

	unlock1 := locks.lock("thread_1")
	defer unlock1()

	done := make(chan struct{})
	go func() {
		u := locks.lock("thread_2")
		u()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("lock on a different thread blocked")
	}
}
