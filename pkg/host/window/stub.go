//go:build !cgo

package window

import "context"

// Run reports ErrUnavailable: this build has no window backend.
func (w *Window) Run(context.Context) error {
	return ErrUnavailable
}
