package session

import (
	"time"

	"github.com/park285/cheese-desk/internal/chess"
)

// ClockState is a value copy of both sides' clocks.
type ClockState struct {
	White      time.Duration
	Black      time.Duration
	Increment  time.Duration
	Enabled    bool
	Expired    bool
	Flagged    chess.Color
	LastSample time.Time
}

func (s ClockState) Remaining(side chess.Color) time.Duration {
	if side == chess.White {
		return s.White
	}
	return s.Black
}

// Clock counts down the side to move. Expiry is one-way until Reset or Configure.
type Clock struct {
	st ClockState
}

// Configure loads a profile. Zero minutes disables the clock.
func (c *Clock) Configure(p TimeControlProfile, now time.Time) {
	c.st = ClockState{
		White:      p.Initial(),
		Black:      p.Initial(),
		Increment:  p.Increment(),
		Enabled:    p.Enabled(),
		LastSample: now,
	}
}

// Tick samples now and, when active, charges the elapsed time to side.
func (c *Clock) Tick(now time.Time, side chess.Color, active bool) {
	if c.st.LastSample.IsZero() {
		c.st.LastSample = now
		return
	}
	elapsed := now.Sub(c.st.LastSample)
	if elapsed <= 0 {
		return
	}
	c.st.LastSample = now
	if !active || !c.st.Enabled || c.st.Expired {
		return
	}

	remaining := c.st.Remaining(side) - elapsed
	if remaining <= 0 {
		remaining = 0
		c.st.Expired = true
		c.st.Flagged = side
	}
	if side == chess.White {
		c.st.White = remaining
	} else {
		c.st.Black = remaining
	}
}

// ApplyIncrement credits the side that just moved.
func (c *Clock) ApplyIncrement(side chess.Color) {
	if !c.st.Enabled || c.st.Expired || c.st.Increment <= 0 {
		return
	}
	if side == chess.White {
		c.st.White += c.st.Increment
	} else {
		c.st.Black += c.st.Increment
	}
}

func (c *Clock) Reset() { c.st = ClockState{} }

func (c *Clock) Expired() bool { return c.st.Expired }

func (c *Clock) Enabled() bool { return c.st.Enabled }

func (c *Clock) State() ClockState { return c.st }
