// Package host drives a scene: it measures frame time, feeds input into the
// camera and presents finished frames to a terminal, a desktop window or
// PNG files.
package host

import (
	"context"
	"time"
)

// FrameFunc updates and draws one frame, dt seconds after the previous one.
// Returning false ends the loop.
type FrameFunc func(dt float64) bool

// Loop calls a FrameFunc repeatedly with the elapsed time.
type Loop struct {
	// FPS caps the frame rate by sleeping out the rest of each frame.
	// Zero runs unthrottled.
	FPS int
	// MaxDelta clamps dt after stalls (a suspended terminal, a debugger).
	// Zero disables the clamp.
	MaxDelta float64
	// Step, when positive, replaces the measured dt. Frames run back to
	// back without sleeping, which makes headless output reproducible.
	Step float64

	now   func() time.Time
	sleep func(time.Duration)
}

// NewLoop returns a loop capped at fps with dt clamped to 0.1s.
func NewLoop(fps int) *Loop {
	return &Loop{FPS: fps, MaxDelta: 0.1}
}

// NewFixedLoop returns a loop that advances exactly step seconds per frame.
func NewFixedLoop(step float64) *Loop {
	return &Loop{Step: step}
}

// Run calls frame until it returns false or ctx is done. The first frame
// sees dt = 0 unless Step is set.
func (l *Loop) Run(ctx context.Context, frame FrameFunc) error {
	now, sleep := l.now, l.sleep
	if now == nil {
		now = time.Now
	}
	if sleep == nil {
		sleep = time.Sleep
	}

	var budget time.Duration
	if l.FPS > 0 && l.Step <= 0 {
		budget = time.Second / time.Duration(l.FPS)
	}

	last := now()
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		start := now()
		dt := start.Sub(last).Seconds()
		last = start
		if l.Step > 0 {
			dt = l.Step
		} else if l.MaxDelta > 0 && dt > l.MaxDelta {
			dt = l.MaxDelta
		}

		if !frame(dt) {
			return nil
		}

		if budget > 0 {
			if elapsed := now().Sub(start); elapsed < budget {
				sleep(budget - elapsed)
			}
		}
	}
}
