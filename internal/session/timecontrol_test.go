package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindTimeControl(t *testing.T) {
	cases := []struct {
		in      string
		minutes int
		inc     int
		ok      bool
	}{
		{"Blitz 5+2", 5, 2, true},
		{"blitz 3+2", 3, 2, true},
		{"15+10", 15, 10, true},
		{"1", 0, 0, true},
		{"2", 1, 0, true},
		{"off", 0, 0, true},
		{"7+5", 7, 5, true},
		{"99", 0, 0, false},
		{"", 0, 0, false},
		{"fast", 0, 0, false},
		{"-3+2", 0, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			p, ok := FindTimeControl(tc.in)
			require.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.minutes, p.Minutes)
			assert.Equal(t, tc.inc, p.IncrementSeconds)
		})
	}
}

func TestTimeControlProfile(t *testing.T) {
	p := TimeControlProfile{Minutes: 15, IncrementSeconds: 10}
	assert.True(t, p.Enabled())
	assert.Equal(t, 15*time.Minute, p.Initial())
	assert.Equal(t, 10*time.Second, p.Increment())
	assert.Equal(t, "15+10", p.Short())
	assert.Equal(t, "-", noClock.Short())
}

func TestTimeControls_ReturnsCopy(t *testing.T) {
	list := TimeControls()
	require.NotEmpty(t, list)
	assert.Equal(t, "No clock", list[0].Label)
	list[0].Label = "changed"
	assert.Equal(t, "No clock", TimeControls()[0].Label)
}
