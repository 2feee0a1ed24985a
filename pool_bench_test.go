//go:build bench

package lesson2pdf

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"testing"
)

// BenchmarkResolveCompileSlots benchmarks slot count calculation.
func BenchmarkResolveCompileSlots(b *testing.B) {
	slots := []int{0, 1, 2, 4, 8}

	for _, s := range slots {
		b.Run(slotName(s), func(b *testing.B) {
			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				result := ResolveCompileSlots(s)
				_ = result
			}
		})
	}
}

func slotName(s int) string {
	if s == 0 {
		return "auto"
	}
	return fmt.Sprintf("%d", s)
}

// BenchmarkCompileLimiterAcquireRelease benchmarks an uncontended
// acquire/release cycle.
func BenchmarkCompileLimiterAcquireRelease(b *testing.B) {
	sizes := []int{1, 2, 4, 8}
	ctx := context.Background()

	for _, size := range sizes {
		b.Run(limiterSizeName(size), func(b *testing.B) {
			limiter := newCompileLimiter(size)

			b.ReportAllocs()
			b.ResetTimer()

			for i := 0; i < b.N; i++ {
				if err := limiter.acquire(ctx); err != nil {
					b.Fatal(err)
				}
				limiter.release()
			}
		})
	}
}

func limiterSizeName(size int) string {
	return fmt.Sprintf("size_%d", size)
}

// BenchmarkCompileLimiterContention benchmarks the limiter with more
// goroutines than slots.
func BenchmarkCompileLimiterContention(b *testing.B) {
	slots := 4
	goroutines := []int{4, 8, 16, 32}
	ctx := context.Background()

	for _, g := range goroutines {
		b.Run(goroutineName(g), func(b *testing.B) {
			limiter := newCompileLimiter(slots)

			b.ReportAllocs()
			b.ResetTimer()

			var wg sync.WaitGroup
			opsPerGoroutine := b.N / g
			if opsPerGoroutine < 1 {
				opsPerGoroutine = 1
			}

			for i := 0; i < g; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for j := 0; j < opsPerGoroutine; j++ {
						if err := limiter.acquire(ctx); err != nil {
							return
						}
						runtime.Gosched()
						limiter.release()
					}
				}()
			}
			wg.Wait()
		})
	}
}

func goroutineName(g int) string {
	return fmt.Sprintf("goroutines_%d", g)
}

// BenchmarkCompileLimiterParallel benchmarks parallel limiter access.
func BenchmarkCompileLimiterParallel(b *testing.B) {
	limiter := newCompileLimiter(runtime.GOMAXPROCS(0))
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			if err := limiter.acquire(ctx); err != nil {
				return
			}
			limiter.release()
		}
	})
}
