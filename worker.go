// ════════════════════════════════════════════════════════════════════════════════════════════════
// Cooperative Fiber Pool - Worker Loop
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Multi-threaded Cooperative Fiber Pool
// Component: Per-Thread Scheduler (main context + round-robin fiber ring)
//
// Description:
//   Each worker locks an OS thread, builds its private scheduler context
//   (main context, fiber ring, cursor, in-flight count) and round-robins:
//   resume the fiber under the cursor when it is bound; otherwise pull a job
//   from the shared ring and bind it; otherwise rotate past it. When nothing
//   is bound and the ring is empty the worker spin-polls inside the
//   submission hot window and parks on the pool condition variable outside
//   it.
//
// Exit condition:
//   running == false AND inFlight == 0 AND ring empty — drain-before-stop.
//
// Threading model:
//   The scheduler context is confined to the worker goroutine and its
//   fibers, which are strictly serialized by the switch primitive. No field
//   in schedCtx is ever touched across workers.
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package coroutine

import (
	"runtime"

	"github.com/Souma736/simple-coroutine/constants"
	"github.com/Souma736/simple-coroutine/control"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SCHEDULER CONTEXT
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// schedCtx is the per-worker scheduler state. One instance lives on each
// worker goroutine for the lifetime of that worker; fibers hold a back
// pointer to reach the main context and the in-flight counter.
type schedCtx struct {
	pool     *Pool
	worker   int
	main     *Fiber
	fibers   []*Fiber
	cursor   int
	inFlight int
}

// moveCursor rotates the round-robin pointer one step.
func (ctx *schedCtx) moveCursor() {
	if ctx.cursor == len(ctx.fibers)-1 {
		ctx.cursor = 0
	} else {
		ctx.cursor++
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// WORKER LOOP
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// loopWork is the body of worker id. It locks the OS thread it runs on, so
// the main context stays on that thread and CPU pinning applies to it. In
// the default channel build each fiber's runner is a separate goroutine
// that is not locked to this thread.
func (p *Pool) loopWork(id int) {
	defer p.wg.Done()

	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if p.pin {
		setAffinity(id % runtime.NumCPU())
	}

	ctx := &schedCtx{pool: p, worker: id}
	ctx.main = newMainFiber(ctx)
	ctx.fibers = make([]*Fiber, p.fiberCnt)
	for i := range ctx.fibers {
		ctx.fibers[i] = newFiber(ctx)
	}
	// Fibers release their runners on shutdown; safe because the loop below
	// cannot exit while any fiber is bound.
	defer func() {
		for _, f := range ctx.fibers {
			f.shutdownMachine()
		}
	}()

	idleSpins := 0
	for p.started.Load() || ctx.inFlight > 0 || !p.queue.IsEmpty() {
		cur := ctx.fibers[ctx.cursor]

		// A bound fiber gets the CPU before any new work is admitted.
		if cur.hasTask() {
			cur.resume()
			ctx.moveCursor()
			continue
		}

		t := p.queue.Pop()
		if t == nil {
			if ctx.inFlight > 0 {
				// Other fibers still hold tasks; keep rotating.
				ctx.moveCursor()
				continue
			}
			// Fully idle. Spin while submissions are recent, park outside
			// the hot window. The parked predicate is re-checked under the
			// pool mutex, so a Submit broadcast can never be lost.
			control.PollCooldown()
			if control.Hot() && p.started.Load() {
				if idleSpins++; idleSpins >= constants.SpinBudget {
					idleSpins = 0
					runtime.Gosched()
				}
				continue
			}
			p.mu.Lock()
			for p.started.Load() && p.queue.IsEmpty() {
				p.cond.Wait()
			}
			p.mu.Unlock()
			continue
		}

		idleSpins = 0
		cur.bind(t)
		ctx.inFlight++
		cur.resume()
		ctx.moveCursor()
	}
}
