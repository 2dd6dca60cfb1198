package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/park285/cheese-desk/internal/chess"
)

func TestValidateLearningMove(t *testing.T) {
	rules := chess.NewStandardRules()
	start := rules.Start()
	afterE5, err := rules.Replay([]string{"e2e4", "e7e5"})
	require.NoError(t, err)
	book := fakeBook{"e2e4 e7e5": {"g1f3"}}

	progress := LearningProgress{Title: "Open Game", Sequence: []string{"e2e4", "e7e5"}}
	cases := []struct {
		name      string
		pos       chess.Position
		candidate string
		progress  LearningProgress
		book      Book
		want      LearningVerdict
	}{
		{"scripted move", start, "e2e4", progress, book, AcceptAdvance},
		{"off script", start, "d2d4", progress, book, Reject},
		{"book move after script", afterE5, "g1f3", LearningProgress{Sequence: progress.Sequence, Step: 2}, book, AcceptExplore},
		{"non-book after script", afterE5, "b1c3", LearningProgress{Sequence: progress.Sequence, Step: 2}, book, Reject},
		{"no book after script", afterE5, "g1f3", LearningProgress{Sequence: progress.Sequence, Step: 2}, nil, Reject},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ValidateLearningMove(tc.pos, tc.candidate, tc.progress, tc.book))
		})
	}
}

func TestLearningProgress(t *testing.T) {
	p := LearningProgress{Sequence: []string{"e2e4"}}
	next, ok := p.Next()
	assert.True(t, ok)
	assert.Equal(t, "e2e4", next)

	p = p.advance().advance()
	assert.Equal(t, 1, p.Step)
	assert.True(t, p.Exhausted())
	_, ok = p.Next()
	assert.False(t, ok)

	assert.Equal(t, "explore", AcceptExplore.String())
}
