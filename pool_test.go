package lesson2pdf

import (
	"context"
	"errors"
	"runtime"
	"testing"
	"time"
)

func TestResolveCompileSlots_ExplicitValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		slots int
		want  int
	}{
		{"one slot", 1, 1},
		{"several slots", 4, 4},
		{"explicit value is not capped", 32, 32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := ResolveCompileSlots(tt.slots); got != tt.want {
				t.Errorf("ResolveCompileSlots(%d) = %d, want %d", tt.slots, got, tt.want)
			}
		})
	}
}

func TestResolveCompileSlots_Auto(t *testing.T) {
	t.Parallel()

	want := runtime.GOMAXPROCS(0) / cpuDivisor
	if want < MinCompileSlots {
		want = MinCompileSlots
	}
	if want > MaxCompileSlots {
		want = MaxCompileSlots
	}

	for _, slots := range []int{0, -1} {
		if got := ResolveCompileSlots(slots); got != want {
			t.Errorf("ResolveCompileSlots(%d) = %d, want %d", slots, got, want)
		}
	}
}

func TestResolveCompileSlots_AutoWithinBounds(t *testing.T) {
	t.Parallel()

	got := ResolveCompileSlots(0)

	if got < MinCompileSlots {
		t.Errorf("ResolveCompileSlots(0) = %d, want at least %d", got, MinCompileSlots)
	}
	if got > MaxCompileSlots {
		t.Errorf("ResolveCompileSlots(0) = %d, want at most %d", got, MaxCompileSlots)
	}
}

func TestNewCompileLimiter_MinimumOneSlot(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, -3} {
		l := newCompileLimiter(n)
		if got := cap(l.slots); got != 1 {
			t.Errorf("newCompileLimiter(%d) capacity = %d, want 1", n, got)
		}
	}
}

func TestCompileLimiter_AcquireRelease(t *testing.T) {
	t.Parallel()

	l := newCompileLimiter(2)
	ctx := context.Background()

	if err := l.acquire(ctx); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}
	if err := l.acquire(ctx); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}

	// Both slots taken; a canceled waiter must not hang.
	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if err := l.acquire(canceled); !errors.Is(err, context.Canceled) {
		t.Fatalf("acquire() on a full limiter = %v, want %v", err, context.Canceled)
	}

	l.release()
	if err := l.acquire(ctx); err != nil {
		t.Fatalf("acquire() after release error = %v", err)
	}
}

func TestCompileLimiter_BlocksWhenFull(t *testing.T) {
	t.Parallel()

	l := newCompileLimiter(1)
	ctx := context.Background()

	if err := l.acquire(ctx); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}

	acquired := make(chan error, 1)
	go func() {
		acquired <- l.acquire(ctx)
	}()

	// The waiter must still be queued while the slot is held.
	select {
	case err := <-acquired:
		t.Fatalf("acquire() returned %v before the slot was released", err)
	case <-time.After(50 * time.Millisecond):
	}

	l.release()

	timer := time.NewTimer(2 * time.Second)
	defer timer.Stop()
	select {
	case err := <-acquired:
		if err != nil {
			t.Fatalf("acquire() after release error = %v", err)
		}
	case <-timer.C:
		t.Fatal("acquire() still blocked after the slot was released")
	}
}

func TestCompileLimiter_CanceledWhileWaiting(t *testing.T) {
	t.Parallel()

	l := newCompileLimiter(1)
	if err := l.acquire(context.Background()); err != nil {
		t.Fatalf("acquire() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	acquired := make(chan error, 1)
	go func() {
		acquired <- l.acquire(ctx)
	}()

	cancel()

	timer := time.NewTimer(2 * time.Second)
	defer timer.Stop()
	select {
	case err := <-acquired:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("acquire() error = %v, want %v", err, context.Canceled)
		}
	case <-timer.C:
		t.Fatal("acquire() ignored the canceled context")
	}
}
