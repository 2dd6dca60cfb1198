package sessiondto

import "time"

type MaterialScore struct {
	White int
	Black int
}

type CapturedPieces struct {
	White []string
	Black []string
}

type ClockView struct {
	Enabled   bool
	Expired   bool
	Flagged   string
	White     time.Duration
	Black     time.Duration
	Increment time.Duration
}

type PromotionView struct {
	From string
	To   string
}

type LearningView struct {
	Title string
	Step  int
	Total int
	Next  string
}

type ChallengeView struct {
	ID         string
	Challenger string
	Minutes    int
	Increment  int
	Status     string
}

type OnlineView struct {
	Connected  bool
	Account    string
	GameID     string
	Color      string
	Matching   bool
	Challenges []ChallengeView
}

type TimeControlView struct {
	Label     string
	Minutes   int
	Increment int
}

// Snapshot is the read-only view of a session handed to a renderer each frame.
type Snapshot struct {
	Mode        string
	Kind        string
	FEN         string
	Turn        string
	PlayerColor string
	Selected    string
	LastMove    string
	MovesUCI    []string
	Pending     *PromotionView
	Clock       ClockView
	Hints       []string
	Opening     string
	Status      string
	GameOver    bool
	Result      string
	AIThinking  bool
	Material    MaterialScore
	Captured    CapturedPieces
	Learning    *LearningView
	Online      *OnlineView

	TimeControls []TimeControlView
	Openings     []string
}
