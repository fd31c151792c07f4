// ════════════════════════════════════════════════════════════════════════════════════════════════
// Cooperative Fiber Pool - Fiber & Trampoline
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Multi-threaded Cooperative Fiber Pool
// Component: Fiber State, Task Binding & Public Yield
//
// Description:
//   A Fiber is one cooperative execution context owned by exactly one
//   worker. It is either idle (task == nil) or bound; binding primes the
//   trampoline so the next resume enters execute, which runs the user
//   function behind a recover boundary, signals the future, releases the
//   task and leaves via switch — never by returning into scheduler code.
//
// Address stability:
//   Fibers are allocated once per worker and never move or copy; the switch
//   machinery stores per-fiber state in place. Stacks are runtime-managed
//   goroutine stacks (growable, guarded).
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package coroutine

import (
	"fmt"
	"time"

	"github.com/Souma736/simple-coroutine/debug"
	"github.com/Souma736/simple-coroutine/journal"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// FIBER STATE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Fiber couples the per-mode switch machinery with the bound task and a
// back pointer to its worker's scheduler context. All methods except Yield
// are worker-private.
type Fiber struct {
	m     machine
	task  *task
	sched *schedCtx
}

// newMainFiber builds the worker's bootstrap context, the sole peer user
// fibers yield to. It never binds a task.
func newMainFiber(ctx *schedCtx) *Fiber {
	f := &Fiber{sched: ctx}
	f.initMachine()
	return f
}

// newFiber builds one reusable user fiber and parks its runner.
func newFiber(ctx *schedCtx) *Fiber {
	f := &Fiber{sched: ctx}
	f.initMachine()
	f.startRunner()
	return f
}

// hasTask reports whether the fiber is bound.
func (f *Fiber) hasTask() bool {
	return f.task != nil
}

// bind stores the descriptor and primes the trampoline so the next resume
// enters execute with a fresh context.
func (f *Fiber) bind(t *task) {
	f.task = t
	f.prime()
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// TRAMPOLINE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// execute is the fiber trampoline body: it runs on the fiber's own context,
// strictly serialized with the owning worker. On return the switch
// machinery transfers control back to the main context for good.
//
// Completion order matters: the future is signaled and the in-flight count
// dropped before control returns to the worker, so the drain-before-stop
// condition observes a consistent state.
func (f *Fiber) execute() {
	t := f.task
	key := glsRegister(f)

	var taskErr error
	func() {
		defer func() {
			if r := recover(); r != nil {
				if err, ok := r.(error); ok {
					taskErr = fmt.Errorf("fiber: task panicked: %w", err)
				} else {
					taskErr = fmt.Errorf("fiber: task panicked: %v", r)
				}
				debug.DropError("coroutine: recovered task panic", taskErr)
			}
		}()
		t.fn()
	}()

	glsClear(key)
	t.future.setFinished(taskErr)

	if j := f.sched.pool.jrnl; j != nil {
		outcome := journal.OutcomeOK
		if taskErr != nil {
			outcome = journal.OutcomePanic
		}
		j.Record(journal.Record{
			Worker:      f.sched.worker,
			SubmittedAt: t.submittedAt,
			FinishedAt:  time.Now().UnixNano(),
			Outcome:     outcome,
		})
	}

	f.task = nil
	f.sched.inFlight--
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// PUBLIC YIELD
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// CoYield hands the CPU from the calling task back to its worker's main
// context; the task resumes after the worker's cursor comes back around.
// When the caller is not a pool fiber (the process main goroutine, or a
// goroutine spawned inside a task), it does nothing and returns false.
func CoYield() bool {
	f := currentFiber()
	if f == nil {
		return false
	}
	f.Yield()
	return true
}
