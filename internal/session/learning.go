package session

import "github.com/park285/cheese-desk/internal/chess"

// LearningProgress tracks how far the learner is into a scripted opening.
type LearningProgress struct {
	Title    string
	Sequence []string
	Step     int
}

func (p LearningProgress) Exhausted() bool { return p.Step >= len(p.Sequence) }

// Next returns the scripted move expected at Step.
func (p LearningProgress) Next() (string, bool) {
	if p.Exhausted() {
		return "", false
	}
	return p.Sequence[p.Step], true
}

func (p LearningProgress) advance() LearningProgress {
	if !p.Exhausted() {
		p.Step++
	}
	return p
}

type LearningVerdict int

const (
	Reject LearningVerdict = iota
	AcceptAdvance
	AcceptExplore
)

func (v LearningVerdict) String() string {
	switch v {
	case AcceptAdvance:
		return "advance"
	case AcceptExplore:
		return "explore"
	default:
		return "reject"
	}
}

// ValidateLearningMove judges candidate against the script, or against the
// book once the script is exhausted. It has no side effects.
func ValidateLearningMove(pos chess.Position, candidate string, progress LearningProgress, book Book) LearningVerdict {
	if next, ok := progress.Next(); ok {
		if candidate == next {
			return AcceptAdvance
		}
		return Reject
	}
	if book == nil || pos == nil {
		return Reject
	}
	for _, mv := range book.Suggestions(pos) {
		if mv == candidate {
			return AcceptExplore
		}
	}
	return Reject
}
