// Package wheel holds the animation driver contract and a timed reference
// driver. The driver is a black box to the rest of the system: given a
// target segment it plays a spin of bounded, non-zero duration and signals
// completion exactly once, after landing, never before.
package wheel

import (
	"math/rand"
	"sync"
	"time"

	"github.com/google/logger"
)

// RandomTarget asks the driver to land on a uniformly random segment. It is
// used only when no authoritative segment index is available; the outcome
// shown to the user is never derived from where the wheel lands.
const RandomTarget = -1

// Driver plays one spin animation at a time.
type Driver interface {
	// Spin starts an animation over segmentCount segments landing on
	// target (or a random segment for RandomTarget) and calls done exactly
	// once after landing. A Spin requested while one is in flight is
	// ignored.
	Spin(segmentCount, target int, done func(landed int))
}

// DefaultSpinDuration matches the five second animation of the visual
// wheel widget.
const DefaultSpinDuration = 5 * time.Second

// TimedDriver is a real-time Driver: every spin takes a fixed floor
// duration before the completion callback fires.
type TimedDriver struct {
	duration time.Duration

	mu       sync.Mutex
	spinning bool
}

// NewTimedDriver creates a driver with the given animation duration. A
// non-positive duration falls back to DefaultSpinDuration.
func NewTimedDriver(duration time.Duration) *TimedDriver {
	if duration <= 0 {
		duration = DefaultSpinDuration
	}
	return &TimedDriver{duration: duration}
}

// Spin implements Driver.
func (d *TimedDriver) Spin(segmentCount, target int, done func(landed int)) {
	d.mu.Lock()
	if d.spinning {
		d.mu.Unlock()
		logger.Warningf("wheel driver: spin requested while animating, ignoring")
		return
	}
	d.spinning = true
	d.mu.Unlock()

	landed := target
	if landed < 0 || landed >= segmentCount {
		landed = rand.Intn(segmentCount)
	}

	time.AfterFunc(d.duration, func() {
		d.mu.Lock()
		d.spinning = false
		d.mu.Unlock()
		done(landed)
	})
}
