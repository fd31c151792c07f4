// future.go
//
// Single-shot completion handle. The latch is a closed channel: close gives
// the happens-before edge between the fiber's final writes and every
// waiter, and select gives the timed wait the original condition-variable
// design needed a timeout parameter for.

package coroutine

import (
	"sync"
	"time"
)

// Future is the completion handle returned by Submit. It is signaled
// exactly once, by the fiber that ran its task, and may be awaited any
// number of times from any goroutine.
type Future struct {
	once sync.Once
	done chan struct{}
	err  error // written once before done closes
}

func newFuture() *Future {
	return &Future{done: make(chan struct{})}
}

// setFinished flips the handle to finished, recording err (nil on normal
// return, the recovered panic otherwise). Extra calls are ignored.
func (f *Future) setFinished(err error) {
	f.once.Do(func() {
		f.err = err
		close(f.done)
	})
}

// Get waits up to timeout for the task to finish and reports whether it
// did. A negative timeout waits forever. Get times out the waiter only;
// the task keeps running either way.
func (f *Future) Get(timeout time.Duration) bool {
	if timeout < 0 {
		<-f.done
		return true
	}
	select {
	case <-f.done:
		return true
	default:
	}
	if timeout == 0 {
		return false
	}
	t := time.NewTimer(timeout)
	defer t.Stop()
	select {
	case <-f.done:
		return true
	case <-t.C:
		return false
	}
}

// Wait blocks until the task finishes.
func (f *Future) Wait() {
	<-f.done
}

// Err reports how the task ended: nil while running or after a normal
// return, the recovered panic error otherwise.
func (f *Future) Err() error {
	select {
	case <-f.done:
		return f.err
	default:
		return nil
	}
}

// Done exposes the completion latch for select-based waiters.
func (f *Future) Done() <-chan struct{} {
	return f.done
}
