package session

import "time"

const DefaultAIDelay = time.Second

// AIMoveScheduler delays the engine reply so the loop keeps rendering while
// the engine "thinks". One arm yields at most one engine request.
type AIMoveScheduler struct {
	delay    time.Duration
	armed    bool
	deadline time.Time
}

func NewAIMoveScheduler(delay time.Duration) *AIMoveScheduler {
	if delay < 0 {
		delay = 0
	}
	return &AIMoveScheduler{delay: delay}
}

func (s *AIMoveScheduler) Arm(now time.Time) {
	s.armed = true
	s.deadline = now.Add(s.delay)
}

func (s *AIMoveScheduler) Disarm() {
	s.armed = false
	s.deadline = time.Time{}
}

func (s *AIMoveScheduler) Armed() bool { return s.armed }

func (s *AIMoveScheduler) Deadline() time.Time { return s.deadline }

func (s *AIMoveScheduler) Delay() time.Duration { return s.delay }

// Poll fires once when the deadline has passed. The arm is consumed even when
// eligible is false, so a turn that stopped being the engine's is never replayed.
func (s *AIMoveScheduler) Poll(now time.Time, eligible bool) bool {
	if !s.armed || now.Before(s.deadline) {
		return false
	}
	s.Disarm()
	return eligible
}
