// Package goroutine wraps goroutine launches with panic recovery.
package goroutine

import (
	"runtime/debug"

	"github.com/slatepos/slate/internal/shared/logger"
)

// SafeGo runs fn on its own goroutine and converts a panic into an error
// log with the stack attached. A crashed bus handler or broadcast must
// never take the register down with it.
func SafeGo(log logger.Interface, name string, fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("recovered panic in goroutine",
					"goroutine", name,
					"panic", r,
					"stack", string(debug.Stack()),
				)
			}
		}()
		fn()
	}()
}
