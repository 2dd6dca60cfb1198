package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAIMoveScheduler(t *testing.T) {
	s := NewAIMoveScheduler(time.Second)
	assert.False(t, s.Poll(t0, true), "not armed")

	s.Arm(t0)
	assert.True(t, s.Armed())
	assert.Equal(t, t0.Add(time.Second), s.Deadline())
	assert.False(t, s.Poll(t0.Add(999*time.Millisecond), true))
	assert.True(t, s.Poll(t0.Add(time.Second), true))
	assert.False(t, s.Armed())
	assert.False(t, s.Poll(t0.Add(2*time.Second), true), "fires once per arm")
}

func TestAIMoveScheduler_IneligibleConsumesArm(t *testing.T) {
	s := NewAIMoveScheduler(time.Second)
	s.Arm(t0)
	assert.False(t, s.Poll(t0.Add(time.Second), false))
	assert.False(t, s.Armed())
	assert.False(t, s.Poll(t0.Add(2*time.Second), true))
}

func TestAIMoveScheduler_DisarmAndDelay(t *testing.T) {
	s := NewAIMoveScheduler(-time.Second)
	assert.Zero(t, s.Delay())

	s.Arm(t0)
	s.Disarm()
	assert.True(t, s.Deadline().IsZero())
	assert.False(t, s.Poll(t0.Add(time.Hour), true))
}
