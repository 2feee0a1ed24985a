package lesson2pdf

import (
	"context"
	"runtime"
)

// Compile slot sizing constants.
const (
	// MinCompileSlots ensures at least one compilation can run.
	MinCompileSlots = 1

	// MaxCompileSlots caps concurrent engine processes to limit memory use.
	MaxCompileSlots = 8

	// cpuDivisor leaves headroom for the engine's own threads.
	cpuDivisor = 2
)

// compileLimiter bounds the number of concurrent engine subprocesses with a
// counting semaphore. Waiting respects context cancellation so a queued
// request cannot outlive its deadline.
type compileLimiter struct {
	slots chan struct{}
}

// newCompileLimiter creates a limiter with n slots.
func newCompileLimiter(n int) *compileLimiter {
	if n < 1 {
		n = 1
	}
	return &compileLimiter{slots: make(chan struct{}, n)}
}

// acquire blocks until a slot is free or ctx is done.
func (l *compileLimiter) acquire(ctx context.Context) error {
	select {
	case l.slots <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// release frees a slot acquired earlier.
func (l *compileLimiter) release() {
	<-l.slots
}

// ResolveCompileSlots determines how many compilations may run at once.
// Priority: explicit value > GOMAXPROCS-based calculation.
// Exported for use by servers and CLIs.
func ResolveCompileSlots(slots int) int {
	// Explicit value takes priority
	if slots > 0 {
		return slots
	}

	// Auto-calculate based on GOMAXPROCS (adjusted by automaxprocs in containers)
	available := runtime.GOMAXPROCS(0)
	n := available / cpuDivisor

	if n < MinCompileSlots {
		return MinCompileSlots
	}
	if n > MaxCompileSlots {
		return MaxCompileSlots
	}
	return n
}
