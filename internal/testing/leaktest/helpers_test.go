package leaktest

import (
	"testing"
	"time"
)

func TestGoroutineChecker_NoLeak(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {})
}

func TestGoroutineChecker_FinishedGoroutine(t *testing.T) {
	CheckNoGoroutineLeak(t, func() {
		done := make(chan struct{})
		go func() {
			time.Sleep(5 * time.Millisecond)
			close(done)
		}()
		<-done
	})
}

func TestGoroutineChecker_WithTolerance(t *testing.T) {
	checker := NewGoroutineChecker(t)

	stop := make(chan struct{})
	defer close(stop)
	go func() { <-stop }()

	checker.Check(1)
}
