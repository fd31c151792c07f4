// control.go — Global activity and shutdown signaling for pool workers
// ============================================================================
// SCHEDULER CONTROL ORCHESTRATION
// ============================================================================
//
// Control provides lightweight global signaling shared by every pool worker:
// a hot flag that tracks recent submission activity and a stop flag for
// process-level shutdown orchestration.
//
// Architecture overview:
//   • Submitters mark activity via SignalActivity() on every enqueue
//   • Workers consult Hot() to choose between spin-polling and parking
//   • PollCooldown() clears the hot flag after an idle window elapses
//   • Shutdown()/ShouldStop() coordinate driver-level termination
//
// Threading model:
//   • All flags are atomics; any thread may signal or poll
//   • Cooldown is advisory: a stale hot flag costs one spin window, never
//     correctness
//
// The hot window only shapes worker wakeup latency. Drain-before-stop
// correctness lives in the pool lifecycle, not here.

package control

import (
	"sync/atomic"
	"time"

	"github.com/Souma736/simple-coroutine/constants"
)

// ============================================================================
// GLOBAL STATE
// ============================================================================

var (
	hot  atomic.Uint32 // 1 = submissions arrived recently, workers spin
	stop atomic.Uint32 // 1 = process shutdown requested

	lastHot    atomic.Int64             // UnixNano of the most recent submission
	cooldownNs = int64(constants.HotWindow) // idle period before hot clears
)

// ============================================================================
// ACTIVITY SIGNALING (SUBMIT INTEGRATION)
// ============================================================================

// SignalActivity marks the pool as actively fed and stamps the submission
// time. Called on every successful Submit; safe from any thread.
//
//go:inline
func SignalActivity() {
	hot.Store(1)
	lastHot.Store(time.Now().UnixNano())
}

// ============================================================================
// COOLDOWN MANAGEMENT
// ============================================================================

// PollCooldown clears the hot flag once the idle window has elapsed.
// Workers call it inline from their spin loops so an idle pool stops
// burning cycles within one cooldown period.
//
//go:inline
func PollCooldown() {
	if hot.Load() == 1 && time.Now().UnixNano()-lastHot.Load() > cooldownNs {
		hot.Store(0)
	}
}

// Hot reports whether submissions arrived within the cooldown window.
//
//go:inline
func Hot() bool {
	return hot.Load() == 1
}

// ============================================================================
// SYSTEM SHUTDOWN
// ============================================================================

// Shutdown raises the global stop flag. Drivers watching ShouldStop()
// terminate cleanly; the flag is advisory for pools, which drain through
// their own lifecycle.
//
//go:inline
func Shutdown() {
	stop.Store(1)
}

// ShouldStop reports whether Shutdown has been requested.
//
//go:inline
func ShouldStop() bool {
	return stop.Load() == 1
}

// Reset clears all flags. Test hook; never called from scheduler paths.
func Reset() {
	hot.Store(0)
	stop.Store(0)
	lastHot.Store(0)
}
