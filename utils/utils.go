// utils.go — low-level helpers shared by the scheduler's cold paths.
package utils

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

///////////////////////////////////////////////////////////////////////////////
// Tiny zero-alloc conversions
///////////////////////////////////////////////////////////////////////////////

// S2b converts a string to a []byte **without** allocation.
// ⚠️ The result must never be written to.
//
//go:nosplit
//go:inline
func S2b(s string) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice(unsafe.StringData(s), len(s))
}

// B2s converts a []byte to a string without an allocation.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b)) // caller must keep b immutable
}

///////////////////////////////////////////////////////////////////////////////
// Alloc-free diagnostics sink
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg straight to file descriptor 2, bypassing fmt and
// any buffering. Used only on cold diagnostic paths; the write result is
// deliberately ignored; there is nowhere further to report a failed stderr.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	_, _ = unix.Write(2, S2b(msg))
}

///////////////////////////////////////////////////////////////////////////////
// Integer formatting without fmt
///////////////////////////////////////////////////////////////////////////////

// Utoa appends the decimal form of v to dst and returns the extended slice.
// Stack-friendly replacement for strconv in diagnostic paths.
//
//go:nosplit
//go:inline
func Utoa(dst []byte, v uint64) []byte {
	if v == 0 {
		return append(dst, '0')
	}
	var tmp [20]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte('0' + v%10)
		v /= 10
	}
	return append(dst, tmp[i:]...)
}
