// getg_arm64.go - Goroutine identity probe, ARM64

//go:build arm64 && gc

package coroutine

// getg returns the current goroutine's g pointer from the dedicated g
// register. Implemented in getg_arm64.s; the pointer is used only as a map
// key and never dereferenced.
func getg() uintptr
