// Package goroutine launches background work with panic recovery.
package goroutine

import (
	"fmt"
	"runtime/debug"

	"github.com/corvid-crm/corvid/internal/shared/logger"
)

// SafeGo runs fn in a new goroutine; a panic is logged with its stack instead
// of crashing the process.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer Recover(log, name)
		fn()
	}()
}

// Recover logs a recovered panic. It must be deferred directly.
func Recover(log logger.Interface, name string, kv ...any) {
	if r := recover(); r != nil {
		fields := append([]any{
			"goroutine", name,
			"panic", fmt.Sprintf("%v", r),
			"stack", string(debug.Stack()),
		}, kv...)
		log.Errorw("recovered from panic", fields...)
	}
}
