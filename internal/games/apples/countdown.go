package apples

import "fmt"

// Countdown turns simulation frames into whole seconds for the round timer.
// It only counts while armed; disarming drops any partial second so a
// paused or finished round never receives a late tick.
type Countdown struct {
	framesPerSecond int
	frames          int
	armed           bool
}

// NewCountdown creates a disarmed countdown for the given frame rate.
func NewCountdown(framesPerSecond int) Countdown {
	if framesPerSecond <= 0 {
		framesPerSecond = 60
	}
	return Countdown{framesPerSecond: framesPerSecond}
}

// Arm starts counting frames. Arming an armed countdown is a no-op.
func (c *Countdown) Arm() {
	c.armed = true
}

// Disarm stops counting and forgets the partial second.
func (c *Countdown) Disarm() {
	c.armed = false
	c.frames = 0
}

// Advance records one frame and reports whether a full second has passed.
func (c *Countdown) Advance() bool {
	if !c.armed {
		return false
	}
	c.frames++
	if c.frames < c.framesPerSecond {
		return false
	}
	c.frames = 0
	return true
}

// Urgency classifies how close the timer is to running out.
type Urgency string

const (
	UrgencyNone    Urgency = "normal"
	UrgencyWarning Urgency = "warning"
	UrgencyDanger  Urgency = "danger"
)

// UrgencyFor returns the urgency for the seconds left on the clock.
func UrgencyFor(remaining, warningAt, dangerAt int) Urgency {
	switch {
	case remaining <= dangerAt:
		return UrgencyDanger
	case remaining <= warningAt:
		return UrgencyWarning
	default:
		return UrgencyNone
	}
}

// FormatClock renders seconds as mm:ss.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
