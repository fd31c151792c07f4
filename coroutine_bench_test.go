// ============================================================================
// FIBER POOL PERFORMANCE BENCHMARKS
// ============================================================================

package coroutine

import (
	"sync/atomic"
	"testing"
)

// BenchmarkPool_SubmitWait measures the full submit → schedule → complete →
// wake round trip for empty tasks.
func BenchmarkPool_SubmitWait(b *testing.B) {
	p := NewPool(2, 8, 4096)
	p.Run()
	defer p.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		fut := p.Submit(func() {})
		if fut == nil {
			b.Fatal("submit failed")
		}
		fut.Wait()
	}
}

// BenchmarkPool_YieldRoundTrip measures one CoYield round trip: fiber →
// main context → back around a one-fiber ring.
func BenchmarkPool_YieldRoundTrip(b *testing.B) {
	p := NewPool(1, 1, 16)
	p.Run()
	defer p.Stop()

	var spins atomic.Int64
	fut := p.Submit(func() {
		for spins.Load() >= 0 {
			if !CoYield() {
				return
			}
			if spins.Add(1) < 0 {
				return
			}
		}
	})
	if fut == nil {
		b.Fatal("submit failed")
	}

	b.ResetTimer()
	start := spins.Load()
	for spins.Load()-start < int64(b.N) {
	}
	b.StopTimer()
	spins.Store(-1 << 40) // release the spinner
	fut.Wait()
}

// BenchmarkPool_FanOut measures throughput of a 1024-task burst across the
// whole pool.
func BenchmarkPool_FanOut(b *testing.B) {
	p := NewPool(4, 16, 8192)
	p.Run()
	defer p.Stop()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		futs := make([]*Future, 0, 1024)
		for t := 0; t < 1024; t++ {
			if fut := p.Submit(func() { CoYield() }); fut != nil {
				futs = append(futs, fut)
			}
		}
		for _, fut := range futs {
			fut.Wait()
		}
	}
}
