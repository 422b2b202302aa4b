package aspic

import (
	"log/slog"
	"os"
	"sync/atomic"
)

// Lightweight, opt-in tracing for argument construction and attack
// derivation. Enable by setting env var GOASPIC_TRACE=1 or by calling
// EnableTrace() directly — modeled on the teacher's own
// GOKANDO_WFS_TRACE toggle, but logging structured fields through
// log/slog rather than log.Printf. Records are logged with slog.Debug,
// so they are printed only when the default slog handler accepts the
// Debug level (the standard default handler stops at Info).

var traceEnabled atomic.Bool

func init() {
	if os.Getenv("GOASPIC_TRACE") == "1" {
		traceEnabled.Store(true)
	}
}

// EnableTrace turns on construction/attack tracing for the process.
func EnableTrace() { traceEnabled.Store(true) }

// DisableTrace turns it back off.
func DisableTrace() { traceEnabled.Store(false) }

func trace(msg string, args ...any) {
	if !traceEnabled.Load() {
		return
	}
	slog.Debug(msg, args...)
}
