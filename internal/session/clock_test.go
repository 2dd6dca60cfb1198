package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/park285/cheese-desk/internal/chess"
)

func TestClock_Configure(t *testing.T) {
	var c Clock
	c.Configure(TimeControlProfile{Minutes: 3, IncrementSeconds: 2}, t0)
	st := c.State()
	assert.Equal(t, 3*time.Minute, st.White)
	assert.Equal(t, 3*time.Minute, st.Black)
	assert.Equal(t, 2*time.Second, st.Increment)
	assert.True(t, st.Enabled)
	assert.Equal(t, t0, st.LastSample)

	c.Configure(noClock, t0)
	assert.False(t, c.Enabled())
}

func TestClock_TickChargesActiveSide(t *testing.T) {
	var c Clock
	c.Configure(TimeControlProfile{Minutes: 1}, t0)

	c.Tick(t0.Add(10*time.Second), chess.White, true)
	assert.Equal(t, 50*time.Second, c.State().White)

	// inactive ticks still move the sample point
	c.Tick(t0.Add(20*time.Second), chess.Black, false)
	c.Tick(t0.Add(25*time.Second), chess.Black, true)
	assert.Equal(t, 55*time.Second, c.State().Black)

	// time going backwards is ignored
	c.Tick(t0, chess.Black, true)
	assert.Equal(t, 55*time.Second, c.State().Black)
}

func TestClock_FirstTickOnlySamples(t *testing.T) {
	var c Clock
	c.Tick(t0, chess.White, true)
	assert.Equal(t, t0, c.State().LastSample)
	assert.Zero(t, c.State().White)
	assert.False(t, c.Expired())
}

func TestClock_ExpiryIsSticky(t *testing.T) {
	var c Clock
	c.Configure(TimeControlProfile{Minutes: 1, IncrementSeconds: 5}, t0)
	c.Tick(t0.Add(2*time.Minute), chess.Black, true)

	st := c.State()
	assert.True(t, st.Expired)
	assert.Equal(t, chess.Black, st.Flagged)
	assert.Zero(t, st.Black)
	assert.Equal(t, time.Minute, st.White)

	c.ApplyIncrement(chess.Black)
	c.Tick(t0.Add(3*time.Minute), chess.White, true)
	assert.Zero(t, c.State().Black)
	assert.Equal(t, time.Minute, c.State().White)

	c.Reset()
	assert.Equal(t, ClockState{}, c.State())
}

func TestClock_ApplyIncrement(t *testing.T) {
	var c Clock
	c.Configure(TimeControlProfile{Minutes: 5, IncrementSeconds: 3}, t0)
	c.ApplyIncrement(chess.White)
	assert.Equal(t, 5*time.Minute+3*time.Second, c.State().White)
	assert.Equal(t, 5*time.Minute, c.State().Black)

	c.Configure(TimeControlProfile{Minutes: 5}, t0)
	c.ApplyIncrement(chess.Black)
	assert.Equal(t, 5*time.Minute, c.State().Black)
}

func TestClockState_Remaining(t *testing.T) {
	st := ClockState{White: time.Second, Black: 2 * time.Second}
	assert.Equal(t, time.Second, st.Remaining(chess.White))
	assert.Equal(t, 2*time.Second, st.Remaining(chess.Black))
}

func TestClock_ZeroElapsedIsIdempotent(t *testing.T) {
	var c Clock
	c.Configure(TimeControlProfile{Minutes: 3}, t0)
	c.Tick(t0.Add(time.Second), chess.White, true)
	before := c.State()
	for i := 0; i < 3; i++ {
		c.Tick(t0.Add(time.Second), chess.White, true)
	}
	assert.Equal(t, before, c.State())
}
