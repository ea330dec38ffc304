package document

import (
	"fmt"
	"log/slog"
)

// StrictInvariants makes Violation panic. It defaults to true in builds
// tagged scanedit_debug.
var StrictInvariants = strictInvariants

// Violation reports a broken document invariant. Strict builds panic; release
// builds log and let the caller repair the state.
func Violation(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if StrictInvariants {
		panic("document invariant violated: " + msg)
	}
	slog.Warn("document invariant violated", "detail", msg)
}
