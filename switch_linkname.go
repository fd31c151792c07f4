// ============================================================================
// FIBER SWITCH - RUNTIME COROUTINE FAST PATH
// ============================================================================
//
// Stackful control transfer on the runtime's own coroutine support (the
// machinery behind iter.Pull), reached through linkname. coroswitch is a
// direct same-thread handoff: no scheduler round-trip, no channel, the
// register file swap the runtime already knows how to do.
//
// ⚠️ BUILD CONSTRAINTS — the analogue of "unoptimized builds unsupported":
//   - Requires -tags linkname and, on Go 1.23+, -ldflags=-checklinkname=0
//   - Incompatible with -race: coroswitch bypasses the happens-before
//     instrumentation the detector relies on
//   - The default channel-handoff build (switch_channel.go) has identical
//     semantics and no such constraints
//
// A coroutine is created per task binding; its function runs execute and
// returns, which the runtime turns into coroexit, handing control back to
// the worker for good.

//go:build linkname

package coroutine

import (
	_ "unsafe"
)

type coro struct{}

//go:linkname newcoro runtime.newcoro
func newcoro(func(*coro)) *coro

//go:linkname coroswitch runtime.coroswitch
func coroswitch(*coro)

// machine is the per-fiber switch state: the live runtime coroutine, nil
// while the fiber is idle.
type machine struct {
	coro *coro
}

func (f *Fiber) initMachine() {}

// startRunner is a no-op here: coroutines are created at bind time.
func (f *Fiber) startRunner() {}

// prime creates the coroutine that will carry this binding. It does not
// run until the first resume.
func (f *Fiber) prime() {
	f.m.coro = newcoro(func(*coro) {
		f.execute()
	})
}

// shutdownMachine is a no-op: an unbound fiber has no live coroutine, and
// the worker only shuts down with every fiber unbound.
func (f *Fiber) shutdownMachine() {}

// resume switches from the worker's main context into the fiber.
// coroswitch is symmetric: called from outside it enters the coroutine,
// called from inside it leaves.
func (f *Fiber) resume() {
	coroswitch(f.m.coro)
}

// Yield switches from the fiber back to its worker's main context.
func (f *Fiber) Yield() {
	coroswitch(f.m.coro)
}
