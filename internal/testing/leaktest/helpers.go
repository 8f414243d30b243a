package leaktest

import (
	"runtime"
	"testing"
	"time"
)

// GoroutineChecker records the goroutine count so a test can assert nothing leaked
type GoroutineChecker struct {
	before int
	t      testing.TB
}

// NewGoroutineChecker records the current goroutine count
func NewGoroutineChecker(t testing.TB) *GoroutineChecker {
	t.Helper()

	runtime.Gosched()
	time.Sleep(10 * time.Millisecond)

	return &GoroutineChecker{before: runtime.NumGoroutine(), t: t}
}

// Check fails the test if more than tolerance goroutines were left behind
func (g *GoroutineChecker) Check(tolerance int) {
	g.t.Helper()

	deadline := time.Now().Add(500 * time.Millisecond)
	for {
		runtime.Gosched()
		leaked := runtime.NumGoroutine() - g.before
		if leaked <= tolerance {
			return
		}
		if time.Now().After(deadline) {
			g.t.Errorf("Potential goroutine leak: before=%d, leaked=%d (tolerance=%d)", g.before, leaked, tolerance)
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// CheckNoGoroutineLeak runs fn and asserts it left no goroutines running
func CheckNoGoroutineLeak(t *testing.T, fn func()) {
	t.Helper()

	checker := NewGoroutineChecker(t)
	fn()
	checker.Check(0)
}
