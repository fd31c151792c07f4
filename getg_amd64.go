// getg_amd64.go - Goroutine identity probe, x86-64

//go:build amd64 && gc

package coroutine

// getg returns the current goroutine's g pointer, read straight from the
// TLS slot the runtime keeps it in. Implemented in getg_amd64.s; the
// pointer is used only as a map key and never dereferenced.
func getg() uintptr
