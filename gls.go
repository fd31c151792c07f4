// gls.go
//
// Fiber-local lookup: maps the goroutine identity of a running task to its
// Fiber so the no-argument CoYield can find its way home. An entry exists
// exactly while a fiber's user function is on-CPU or suspended; everything
// else misses, including goroutines a task spawns, and CoYield declines.
//
// A plain RWMutex map is enough here: the map is touched twice per task
// plus once per yield, all cold next to the work itself.

package coroutine

import "sync"

var (
	glsMu     sync.RWMutex
	glsFibers = make(map[uintptr]*Fiber)
)

// glsRegister publishes f as the fiber of the calling goroutine and
// returns the registry key for the matching glsClear.
func glsRegister(f *Fiber) uintptr {
	k := getg()
	glsMu.Lock()
	glsFibers[k] = f
	glsMu.Unlock()
	return k
}

// glsClear removes the entry before the fiber's final switch-out.
func glsClear(k uintptr) {
	glsMu.Lock()
	delete(glsFibers, k)
	glsMu.Unlock()
}

// currentFiber resolves the calling goroutine to its fiber, or nil for
// anything that is not a pool fiber.
func currentFiber() *Fiber {
	k := getg()
	glsMu.RLock()
	f := glsFibers[k]
	glsMu.RUnlock()
	return f
}
