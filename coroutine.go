// ════════════════════════════════════════════════════════════════════════════════════════════════
// Cooperative Fiber Pool - Facade & Lifecycle
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Project: Multi-threaded Cooperative Fiber Pool
// Component: Pool Construction, Submit Path & Drain-Before-Stop Lifecycle
//
// Description:
//   A pool of worker threads, each hosting a fixed ring of cooperatively
//   scheduled fibers. Submitters enqueue nullary tasks into a shared bounded
//   MPMC ring and receive a Future awaitable with a timeout. Fibers run user
//   code until it returns or explicitly yields; there is no preemption, no
//   work stealing, and no cancellation of a running task.
//
// Scheduling model:
//   - Between workers: OS-thread parallelism coupled only through the job
//     ring and one condition variable
//   - Within a worker: strict round-robin over its fiber ring; switches
//     happen only at CoYield calls and at task return
//
// Lifecycle:
//   - Run spawns the workers; Stop drains and joins. A worker exits only
//     when the pool is stopped AND it has no bound fiber AND the job ring is
//     empty, so Stop doubles as "await all submitted work".
//
// Build modes:
//   - Default: portable channel-handoff fiber switching
//   - -tags linkname: stackful switching on runtime.coroswitch; requires
//     -ldflags=-checklinkname=0 and is incompatible with -race
//
// ════════════════════════════════════════════════════════════════════════════════════════════════

package coroutine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/Souma736/simple-coroutine/constants"
	"github.com/Souma736/simple-coroutine/control"
	"github.com/Souma736/simple-coroutine/jobring"
	"github.com/Souma736/simple-coroutine/journal"
)

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CORE DATA STRUCTURES
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// task is the unit handed through the job ring: the user function, its
// completion future, and the submit timestamp for journaling. Ownership
// transfers Submit → ring → fiber; the fiber drops it after completion.
type task struct {
	fn          func()
	future      *Future
	submittedAt int64
}

// Pool owns the shared job ring and the worker threads. All exported
// methods are safe from any goroutine.
type Pool struct {
	workerCnt uint32
	fiberCnt  uint32

	queue   *jobring.Queue[task]
	started atomic.Bool

	mu   sync.Mutex
	cond *sync.Cond
	wg   sync.WaitGroup

	pin  bool
	jrnl *journal.Journal
}

// Option adjusts pool construction beyond the three sizing parameters.
type Option func(*poolConfig)

type poolConfig struct {
	pin     bool
	jrnl    *journal.Journal
	backoff time.Duration
	retries uint32
}

// PinWorkers pins worker i to CPU core i mod NumCPU (Linux; no-op
// elsewhere). Worth enabling only when the pool owns its cores.
func PinWorkers() Option {
	return func(c *poolConfig) { c.pin = true }
}

// WithJournal attaches a completion journal; every finished task records a
// latency row. The journal path never blocks the scheduler.
func WithJournal(j *journal.Journal) Option {
	return func(c *poolConfig) { c.jrnl = j }
}

// WithBackoff overrides the job ring's contention backoff and retry budget.
func WithBackoff(backoff time.Duration, retries uint32) Option {
	return func(c *poolConfig) {
		c.backoff = backoff
		c.retries = retries
	}
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// CONSTRUCTION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// NewPool builds a pool of workerCnt threads, each hosting fiberCnt fibers,
// sharing a job ring of queueCap slots. Every parameter is clamped to at
// least 1; queueCap 0 selects constants.DefaultQueueCapacity. One ring slot
// is reserved for full detection, so the usable queue depth is queueCap-1.
//
// No threads start until Run.
func NewPool(workerCnt, fiberCnt, queueCap uint32, opts ...Option) *Pool {
	cfg := poolConfig{
		backoff: constants.RingBackoff,
		retries: constants.RingRetryTimes,
	}
	for _, o := range opts {
		o(&cfg)
	}
	if workerCnt < constants.MinWorkers {
		workerCnt = constants.MinWorkers
	}
	if fiberCnt < constants.MinFibers {
		fiberCnt = constants.MinFibers
	}
	if queueCap == 0 {
		queueCap = constants.DefaultQueueCapacity
	}
	p := &Pool{
		workerCnt: workerCnt,
		fiberCnt:  fiberCnt,
		queue:     jobring.New[task](queueCap, cfg.backoff, cfg.retries),
		pin:       cfg.pin,
		jrnl:      cfg.jrnl,
	}
	p.cond = sync.NewCond(&p.mu)
	return p
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// LIFECYCLE
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Run starts the worker threads. Reentrant: a second call while running
// returns false and changes nothing. After Stop returns, Run may be called
// again to restart the pool.
func (p *Pool) Run() bool {
	if !p.started.CompareAndSwap(false, true) {
		return false
	}
	p.wg.Add(int(p.workerCnt))
	for i := uint32(0); i < p.workerCnt; i++ {
		go p.loopWork(int(i))
	}
	return true
}

// Stop flips the pool out of the running state, wakes every parked worker
// and joins them. Workers exit only once the ring is drained and no fiber
// is bound, so by the time Stop returns every future accepted before the
// call reports finished. Reentrant no-op when already stopped.
func (p *Pool) Stop() {
	if !p.started.CompareAndSwap(true, false) {
		return
	}
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
	p.wg.Wait()
}

// Close is the defer-friendly teardown: it stops the pool (draining all
// accepted work) and always returns nil.
func (p *Pool) Close() error {
	p.Stop()
	return nil
}

// ═══════════════════════════════════════════════════════════════════════════════════════════════
// SUBMISSION
// ═══════════════════════════════════════════════════════════════════════════════════════════════

// Submit enqueues fn and returns its completion future, or nil when fn is
// nil or the ring rejects the push (full, or contention budget exhausted).
// A nil return means the task was NOT accepted; the caller retries or sheds
// load. Safe from any goroutine, including from inside a running task.
func (p *Pool) Submit(fn func()) *Future {
	if fn == nil {
		return nil
	}
	t := &task{
		fn:          fn,
		future:      newFuture(),
		submittedAt: time.Now().UnixNano(),
	}
	if !p.queue.Push(t) {
		return nil
	}
	control.SignalActivity()
	p.mu.Lock()
	p.cond.Broadcast()
	p.mu.Unlock()
	return t.future
}
