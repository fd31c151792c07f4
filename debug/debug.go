// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — scheduler error logging helper (zero-alloc)
//
// Purpose:
//   - Logs infrequent failure paths without introducing heap pressure.
//   - Used only in cold paths: task panics, journal I/O errors, shutdown.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//   - Concatenation of small strings stays on the stack in practice.
//
// ⚠️ Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "github.com/Souma736/simple-coroutine/utils"

// DropError logs an error with prefix context, writing directly to stderr.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		msg := prefix + ": " + err.Error() + "\n"
		utils.PrintWarning(msg)
	} else {
		msg := prefix + "\n"
		utils.PrintWarning(msg)
	}
}

// DropMessage logs a cold-path diagnostic message that carries no error
// value, such as a lifecycle transition.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	msg := prefix + ": " + message + "\n"
	utils.PrintWarning(msg)
}

// DropCount logs a labeled counter without going through fmt.
//
//go:inline
func DropCount(prefix string, n uint64) {
	buf := make([]byte, 0, len(prefix)+24)
	buf = append(buf, prefix...)
	buf = append(buf, ':', ' ')
	buf = utils.Utoa(buf, n)
	buf = append(buf, '\n')
	utils.PrintWarning(utils.B2s(buf))
}
