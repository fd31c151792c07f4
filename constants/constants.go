// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: constants.go — Pool-wide scheduler tunables
//
// Purpose:
//   - Defines the default sizing and backoff parameters for the fiber pool,
//     the job ring, and the worker idle strategy.
//
// Notes:
//   - Backoff/retry values mirror the job ring's bounded-cost contract:
//     a push or pop performs at most RetryTimes+1 claim attempts.
//   - Spin values are tuned for worker threads that own their core; they
//     degrade gracefully on shared cores via runtime.Gosched.
//
// ⚠️ No runtime logic here — all values must be compile-time resolvable
// ─────────────────────────────────────────────────────────────────────────────

package constants

import "time"

// ───────────────────────────── Pool Sizing ──────────────────────────────

const (
	// DefaultQueueCapacity is the job ring size used when the caller passes
	// zero. One slot is always kept open as the full-detection sentinel, so
	// the usable depth is DefaultQueueCapacity-1.
	DefaultQueueCapacity = 1024000

	// MinWorkers and MinFibers are the clamp floors for pool construction.
	// A pool always has at least one worker thread hosting one fiber.
	MinWorkers = 1
	MinFibers  = 1
)

// ─────────────────────────── Ring Backoff ─────────────────────────────

const (
	// RingBackoff is the sleep applied between contended ring claim
	// attempts. Microsecond granularity keeps the retry window short
	// without burning a core on a lost CAS.
	RingBackoff = 100 * time.Microsecond

	// RingRetryTimes bounds the claim attempts after the first: a push or
	// pop performs at most RingRetryTimes+1 attempts before reporting
	// transient unavailability.
	RingRetryTimes = 3
)

// ─────────────────────────── Worker Idle ──────────────────────────────

const (
	// SpinBudget is the number of consecutive empty polls a worker tolerates
	// before yielding the processor inside the hot window.
	SpinBudget = 224

	// HotWindow is how long after the last submission a worker keeps
	// spin-polling the ring instead of parking on the pool condition
	// variable. Inside the window wakeup latency stays in the nanosecond
	// range; outside it the worker parks and costs nothing.
	HotWindow = 1 * time.Second
)
