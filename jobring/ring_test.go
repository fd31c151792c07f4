// ============================================================================
// MPMC JOB RING CORRECTNESS VALIDATION SUITE
// ============================================================================
//
// Single-threaded validation of the bounded MPMC ring: constructor
// clamping, push/pop semantics, the capacity-1 sentinel contract,
// wraparound arithmetic and the owner-only terminal drain. Concurrent
// behavior lives in ring_stress_test.go.

package jobring

import (
	"testing"
	"time"
)

const (
	testBackoff = 10 * time.Microsecond
	testRetries = 3
)

// ============================================================================
// CONSTRUCTOR
// ============================================================================

func TestRing_CapacityClamp(t *testing.T) {
	q := New[int](0, testBackoff, testRetries)
	if q.Cap() != 0 {
		t.Fatalf("capacity 0 should clamp to 1 slot (0 usable), got Cap=%d", q.Cap())
	}
	if !q.IsFull() {
		t.Fatal("a one-slot ring must be born full")
	}
	if !q.IsEmpty() {
		t.Fatal("a one-slot ring must also be born empty")
	}
}

func TestRing_OneSlotRejectsEverything(t *testing.T) {
	q := New[int](1, testBackoff, testRetries)
	v := 7
	if q.Push(&v) {
		t.Fatal("one-slot ring accepted a push; the sentinel slot must stay open")
	}
	if q.Pop() != nil {
		t.Fatal("one-slot ring returned an item from nowhere")
	}
}

// ============================================================================
// BASIC OPERATIONS
// ============================================================================

func TestRing_PushPopRoundtrip(t *testing.T) {
	q := New[int](8, testBackoff, testRetries)
	vals := [3]int{10, 20, 30}
	for i := range vals {
		if !q.Push(&vals[i]) {
			t.Fatalf("push %d rejected on an empty ring", i)
		}
	}
	if q.Len() != 3 {
		t.Fatalf("Len = %d, want 3", q.Len())
	}
	for i := range vals {
		p := q.Pop()
		if p == nil {
			t.Fatalf("pop %d returned nil with items queued", i)
		}
		if *p != vals[i] {
			t.Fatalf("pop %d = %d, want %d (single-consumer order must hold)", i, *p, vals[i])
		}
	}
	if !q.IsEmpty() {
		t.Fatal("ring should be empty after draining every push")
	}
}

func TestRing_NilRejected(t *testing.T) {
	q := New[int](8, testBackoff, testRetries)
	if q.Push(nil) {
		t.Fatal("nil item accepted")
	}
}

func TestRing_PopEmptyImmediate(t *testing.T) {
	q := New[int](8, testBackoff, testRetries)
	start := time.Now()
	if q.Pop() != nil {
		t.Fatal("pop on empty ring returned an item")
	}
	// Empty detection must not consume the retry/backoff budget.
	if elapsed := time.Since(start); elapsed > 50*time.Millisecond {
		t.Fatalf("empty pop took %v; must fail without backing off", elapsed)
	}
}

// ============================================================================
// CAPACITY BOUNDARY
// ============================================================================

func TestRing_FullDetection(t *testing.T) {
	q := New[int](4, testBackoff, testRetries)
	vals := [4]int{0, 1, 2, 3}
	for i := 0; i < 3; i++ {
		if !q.Push(&vals[i]) {
			t.Fatalf("push %d rejected below capacity", i)
		}
	}
	if !q.IsFull() {
		t.Fatal("ring with capacity-1 items should report full")
	}
	if q.Push(&vals[3]) {
		t.Fatal("push into full ring accepted; sentinel slot violated")
	}
	if q.Pop() == nil {
		t.Fatal("pop from full ring failed")
	}
	if q.IsFull() {
		t.Fatal("ring still full after a pop")
	}
	if !q.Push(&vals[3]) {
		t.Fatal("push rejected after a slot was freed")
	}
}

// ============================================================================
// WRAPAROUND
// ============================================================================

func TestRing_CursorWraparound(t *testing.T) {
	q := New[int](4, testBackoff, testRetries)
	vals := make([]int, 64)
	for lap := 0; lap < 16; lap++ {
		for i := 0; i < 3; i++ {
			v := &vals[lap*4+i]
			*v = lap*100 + i
			if !q.Push(v) {
				t.Fatalf("lap %d push %d rejected", lap, i)
			}
		}
		for i := 0; i < 3; i++ {
			p := q.Pop()
			if p == nil {
				t.Fatalf("lap %d pop %d returned nil", lap, i)
			}
			if *p != lap*100+i {
				t.Fatalf("lap %d pop %d = %d, want %d", lap, i, *p, lap*100+i)
			}
		}
	}
}

func TestRing_NonPowerOfTwoCapacity(t *testing.T) {
	// The ring takes arbitrary capacities; exercise the modulo path.
	q := New[int](7, testBackoff, testRetries)
	vals := make([]int, 6)
	for round := 0; round < 21; round++ {
		for i := range vals {
			vals[i] = round*10 + i
			if !q.Push(&vals[i]) {
				t.Fatalf("round %d push %d rejected", round, i)
			}
		}
		for i := range vals {
			p := q.Pop()
			if p == nil || *p != round*10+i {
				t.Fatalf("round %d pop %d mismatch", round, i)
			}
		}
	}
}

// ============================================================================
// TERMINAL DRAIN
// ============================================================================

func TestRing_DrainReleasesEverything(t *testing.T) {
	q := New[int](16, testBackoff, testRetries)
	vals := make([]int, 10)
	for i := range vals {
		vals[i] = i
		if !q.Push(&vals[i]) {
			t.Fatalf("push %d rejected", i)
		}
	}
	seen := make(map[int]bool)
	q.Drain(func(p *int) { seen[*p] = true })
	if len(seen) != len(vals) {
		t.Fatalf("drain released %d items, want %d", len(seen), len(vals))
	}
	if !q.IsEmpty() {
		t.Fatal("ring not empty after drain")
	}
}
