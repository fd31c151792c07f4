// ============================================================================
// FIBER SWITCH - PORTABLE CHANNEL HANDOFF
// ============================================================================
//
// Default control-transfer implementation. Every fiber owns an unbuffered
// gate; the main context owns one too. Exactly one context per worker is
// runnable at any instant: a transfer is "unpark the target, park the
// source", and the unbuffered sends double as the happens-before edges
// between contexts.
//
// Protocol:
//   resume:  worker sends fiber gate, then receives main gate
//   yield:   fiber sends main gate, then receives fiber gate
//   exit:    runner sends main gate and parks back on its own gate
//
// Each user fiber has one persistent runner goroutine, spawned at worker
// start and parked on the gate between tasks; binding a task does not spawn
// anything. Closing the gate at worker shutdown releases the runner, which
// is safe because the worker loop cannot exit while any fiber is bound.
//
// The linkname build (switch_linkname.go) replaces this file with stackful
// switching on the runtime's coroutine support.

//go:build !linkname

package coroutine

// machine is the per-fiber switch state: a single unbuffered gate.
type machine struct {
	gate chan struct{}
}

func (f *Fiber) initMachine() {
	f.m.gate = make(chan struct{})
}

// startRunner parks the fiber's persistent runner. Each gate token admits
// exactly one task execution; the runner hands control home and parks
// again.
func (f *Fiber) startRunner() {
	go func() {
		for range f.m.gate {
			f.execute()
			f.sched.main.m.gate <- struct{}{}
		}
	}()
}

// prime is a no-op here: the parked runner IS the primed trampoline.
func (f *Fiber) prime() {}

// shutdownMachine releases the parked runner at worker exit.
func (f *Fiber) shutdownMachine() {
	close(f.m.gate)
}

// resume transfers control from the worker's main context into the fiber,
// returning when the fiber yields or its task completes.
func (f *Fiber) resume() {
	f.m.gate <- struct{}{}
	<-f.sched.main.m.gate
}

// Yield transfers control from the fiber back to its worker's main
// context, returning when the worker's cursor comes back around. Must only
// be called on the fiber's own context; CoYield is the guarded entry.
func (f *Fiber) Yield() {
	f.sched.main.m.gate <- struct{}{}
	<-f.m.gate
}
