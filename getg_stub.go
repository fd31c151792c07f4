// getg_stub.go - Goroutine identity probe, portable fallback
//
// Architectures without a dedicated probe fall back to parsing the
// goroutine id out of the runtime.Stack header ("goroutine N [...]").
// Slower by three orders of magnitude than the register read, but CoYield
// sits next to a context switch, so the cost stays proportionate. The id
// is unique per live goroutine, which is all the registry needs.

//go:build (!amd64 && !arm64) || !gc

package coroutine

import "runtime"

func getg() uintptr {
	var buf [32]byte
	n := runtime.Stack(buf[:], false)
	b := buf[:n]
	// Skip the "goroutine " prefix, then accumulate digits.
	const prefix = len("goroutine ")
	if len(b) <= prefix {
		return 0
	}
	var id uintptr
	for _, c := range b[prefix:] {
		if c < '0' || c > '9' {
			break
		}
		id = id*10 + uintptr(c-'0')
	}
	return id
}
