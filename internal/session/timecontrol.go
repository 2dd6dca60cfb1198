package session

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TimeControlProfile is one entry of the fixed time-control catalog.
type TimeControlProfile struct {
	Label            string
	Minutes          int
	IncrementSeconds int
}

func (p TimeControlProfile) Enabled() bool { return p.Minutes > 0 }

func (p TimeControlProfile) Initial() time.Duration {
	return time.Duration(p.Minutes) * time.Minute
}

func (p TimeControlProfile) Increment() time.Duration {
	return time.Duration(p.IncrementSeconds) * time.Second
}

// Short renders "5+2", or "-" without a clock.
func (p TimeControlProfile) Short() string {
	if !p.Enabled() {
		return "-"
	}
	return fmt.Sprintf("%d+%d", p.Minutes, p.IncrementSeconds)
}

var timeControls = []TimeControlProfile{
	{Label: "No clock", Minutes: 0, IncrementSeconds: 0},
	{Label: "Bullet 1+0", Minutes: 1, IncrementSeconds: 0},
	{Label: "Blitz 3+2", Minutes: 3, IncrementSeconds: 2},
	{Label: "Blitz 5+0", Minutes: 5, IncrementSeconds: 0},
	{Label: "Blitz 5+2", Minutes: 5, IncrementSeconds: 2},
	{Label: "Rapid 10+0", Minutes: 10, IncrementSeconds: 0},
	{Label: "Rapid 15+10", Minutes: 15, IncrementSeconds: 10},
	{Label: "Classical 30+0", Minutes: 30, IncrementSeconds: 0},
}

// TimeControls returns a copy of the catalog in display order.
func TimeControls() []TimeControlProfile {
	return append([]TimeControlProfile(nil), timeControls...)
}

// FindTimeControl resolves a label, a "m+i" pair or a 1-based catalog index.
func FindTimeControl(s string) (TimeControlProfile, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TimeControlProfile{}, false
	}
	for _, p := range timeControls {
		if strings.EqualFold(p.Label, s) || p.Short() == s {
			return p, true
		}
	}
	if strings.EqualFold(s, "none") || strings.EqualFold(s, "off") {
		return timeControls[0], true
	}
	if idx, err := strconv.Atoi(s); err == nil {
		if idx >= 1 && idx <= len(timeControls) {
			return timeControls[idx-1], true
		}
		return TimeControlProfile{}, false
	}
	var m, inc int
	if _, err := fmt.Sscanf(s, "%d+%d", &m, &inc); err == nil && m >= 0 && inc >= 0 {
		return TimeControlProfile{Label: fmt.Sprintf("Custom %d+%d", m, inc), Minutes: m, IncrementSeconds: inc}, true
	}
	return TimeControlProfile{}, false
}
