package session

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/archive"
	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/msgcat"
	"github.com/park285/cheese-desk/internal/online"
)

// Rules is the legality provider.
type Rules interface {
	Start() chess.Position
	Replay(moves []string) (chess.Position, error)
	LegalMoves(pos chess.Position) []chess.Move
	Apply(pos chess.Position, mv chess.Move) (chess.Position, error)
	IsGameOver(pos chess.Position) bool
	Result(pos chess.Position) string
}

// EngineProcess is the engine opponent.
type EngineProcess interface {
	Start(ctx context.Context) error
	SetPosition(moves []string)
	Search(ctx context.Context, budget time.Duration) (string, error)
	Close() error
}

// Book suggests candidate moves for a position.
type Book interface {
	Suggestions(pos chess.Position) []string
}

type openingNamer interface {
	OpeningName(pos chess.Position) (string, string)
}

// Openings is the learning catalog.
type Openings interface {
	Names() []string
	Sequence(name string) ([]string, bool)
}

// Bridge is the remote game service as seen from the loop. Every method returns promptly.
type Bridge interface {
	Connect(ctx context.Context, token string) (bool, string)
	FindOpponent(minutes, increment int) (bool, string)
	Challenge(name string, minutes, increment int) (bool, string)
	CancelMatch()
	CheckStatus() (bool, *online.MatchResult)
	Accept(ctx context.Context, challengeID string) (bool, string)
	RefreshChallenges()
	Challenges() []online.Challenge
	SubmitMoveAsync(uci string)
	Drain() (online.InboundEvent, bool)
	Resign()
	Disconnect()
	Session() online.NetworkSession
}

// Recorder archives finished games without blocking.
type Recorder interface {
	Record(rec archive.GameRecord) bool
}

const (
	engineStartTimeout = 10 * time.Second
	searchGrace        = 5 * time.Second
	connectTimeout     = 10 * time.Second
)

// defaultSeek is used when matchmaking is requested without a clock.
var defaultSeek = TimeControlProfile{Label: "Rapid 10+0", Minutes: 10}

type Option func(*Controller)

func WithEngine(e EngineProcess) Option     { return func(c *Controller) { c.engine = e } }
func WithBook(b Book) Option                { return func(c *Controller) { c.book = b } }
func WithBridge(b Bridge) Option            { return func(c *Controller) { c.bridge = b } }
func WithRecorder(r Recorder) Option        { return func(c *Controller) { c.recorder = r } }
func WithOpenings(o Openings) Option        { return func(c *Controller) { c.openings = o } }
func WithMessages(m *msgcat.Catalog) Option { return func(c *Controller) { c.msgs = m } }
func WithLogger(l *zap.Logger) Option       { return func(c *Controller) { c.logger = l } }

// WithClock overrides the time source used for event handling.
func WithClock(now func() time.Time) Option { return func(c *Controller) { c.now = now } }

func WithAIDelay(d time.Duration) Option { return func(c *Controller) { c.ai = NewAIMoveScheduler(d) } }

// WithSearchBudget sets the engine think time; zero defers to the engine preset.
func WithSearchBudget(d time.Duration) Option { return func(c *Controller) { c.searchBudget = d } }

// WithEngineLabel names the engine side in archived games.
func WithEngineLabel(s string) Option { return func(c *Controller) { c.engineLabel = s } }

// Controller is the session state machine. It is driven by a single loop
// goroutine and is not safe for concurrent use.
type Controller struct {
	rules    Rules
	engine   EngineProcess
	book     Book
	bridge   Bridge
	recorder Recorder
	openings Openings
	msgs     *msgcat.Catalog
	logger   *zap.Logger
	now      func() time.Time

	searchBudget time.Duration
	engineLabel  string

	state       State
	pos         chess.Position
	clock       Clock
	ai          *AIMoveScheduler
	learning    LearningProgress
	engineReady bool

	startedAt time.Time
	recorded  bool
	lastSync  []string
	opponents [2]string

	hintsFEN string
	hints    []string

	openingFEN string
	opening    string
}

func New(rules Rules, opts ...Option) *Controller {
	c := &Controller{rules: rules, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	if c.msgs == nil {
		c.msgs = msgcat.Default()
	}
	if c.ai == nil {
		c.ai = NewAIMoveScheduler(DefaultAIDelay)
	}
	if c.engineLabel == "" {
		c.engineLabel = "Engine"
	}
	c.state = newState()
	c.pos = rules.Start()
	c.state.Status = c.text("session.menu", nil)
	return c
}

func (c *Controller) State() State { return c.state }

func (c *Controller) Position() chess.Position { return c.pos }

func (c *Controller) ClockState() ClockState { return c.clock.State() }

func (c *Controller) Learning() LearningProgress { return c.learning }

func (c *Controller) AIArmed() bool { return c.ai.Armed() }

// Handle applies one input event. Events the current mode does not accept are dropped.
func (c *Controller) Handle(ev Event) {
	if ev == nil {
		return
	}
	k := ev.kind()
	if !accepts(c.state.Mode, k) {
		c.logger.Debug("event_ignored", zap.String("event", k.String()), zap.String("mode", c.state.Mode.String()))
		return
	}

	switch e := ev.(type) {
	case SelectMode:
		c.selectMode(e.Kind)
	case ChooseTimeControl:
		c.chooseTimeControl(e.Profile)
	case ChooseSide:
		c.chooseSide(e.Color)
	case ChooseOpening:
		c.chooseOpening(e.Name)
	case ClickSquare:
		c.clickSquare(e.Square)
	case AttemptMove:
		c.attemptMove(e.From, e.To)
	case ChoosePromotion:
		c.choosePromotion(e.Piece)
	case CancelPromotion:
		c.cancelPromotion()
	case Reset:
		c.reset()
	case Back:
		c.back()
	case Resign:
		c.resign()
	case Connect:
		c.connect(e.Token)
	case FindOpponent:
		c.findOpponent(e.Profile)
	case ChallengePlayer:
		c.challengePlayer(e.Name, e.Profile)
	case CancelMatch:
		if c.bridge != nil {
			c.bridge.CancelMatch()
		}
	case OpenChallenges:
		c.openChallenges()
	case RefreshChallenges:
		if c.bridge != nil {
			c.bridge.RefreshChallenges()
		}
	case AcceptChallenge:
		c.acceptChallenge(e.ID)
	}
}

// Update advances time-driven state: the clock, a due engine move, a finished
// match attempt and at most one inbound network event.
func (c *Controller) Update(now time.Time) {
	c.clock.Tick(now, c.pos.Turn(), c.clockActive())
	if c.clock.Expired() && !c.state.GameOver && c.state.Mode == ModePlaying {
		c.flagFall()
	}

	if c.ai.Poll(now, c.aiEligible()) {
		c.playEngineMove()
	}

	if c.bridge == nil {
		return
	}
	if _, res := c.bridge.CheckStatus(); res != nil {
		c.handleMatchResult(res)
	}
	// Inbound events wait in the queue until the game is on the board.
	if c.state.Kind == KindOnline && c.state.Mode.onlineBoard() {
		if ev, ok := c.bridge.Drain(); ok {
			c.handleInbound(ev)
		}
	}
}

func (c *Controller) clockActive() bool {
	return c.state.Mode == ModePlaying && c.clock.Enabled() && !c.clock.Expired() && !c.state.GameOver
}

func (c *Controller) aiEligible() bool {
	return c.state.Mode == ModePlaying &&
		c.state.Kind == KindAI &&
		c.engineReady &&
		c.pos.Turn() != c.state.PlayerColor &&
		!c.state.GameOver &&
		!c.clock.Expired()
}

func (c *Controller) selectMode(kind Kind) {
	if kind == KindNone {
		return
	}
	c.reset()
	c.state.Kind = kind
	switch kind {
	case KindPvP, KindAI:
		c.state.Mode = ModeTimeSelect
		c.state.Status = c.text("session.time_select", nil)
	case KindLearning:
		c.state.Mode = ModeOpeningMenu
		c.state.Status = c.text("session.opening_menu", nil)
	case KindOnline:
		c.state.Mode = ModeOnlineMenu
		c.state.Status = c.text("online.menu", nil)
	}
	c.logger.Info("session_mode_selected", zap.String("kind", kind.String()))
}

func (c *Controller) chooseTimeControl(p TimeControlProfile) {
	c.state.Profile = p
	c.clock.Configure(p, c.now())
	switch c.state.Kind {
	case KindAI:
		c.state.Mode = ModeSelectSide
		c.state.Status = c.text("session.select_side", nil)
	default:
		c.startBoard()
		c.state.Mode = ModePlaying
		c.state.Status = c.turnStatus()
	}
}

func (c *Controller) chooseSide(color chess.Color) {
	c.state.PlayerColor = color
	c.startBoard()
	c.state.Mode = ModePlaying
	c.engineReady = c.startEngine()
	if !c.engineReady {
		c.state.Status = c.text("session.engine_unavailable", nil)
		return
	}
	c.state.Status = c.turnStatus()
	if c.pos.Turn() != color {
		c.ai.Arm(c.now())
	}
}

func (c *Controller) startEngine() bool {
	if c.engine == nil {
		c.logger.Warn("engine_missing")
		return false
	}
	ctx, cancel := context.WithTimeout(context.Background(), engineStartTimeout)
	defer cancel()
	if err := c.engine.Start(ctx); err != nil {
		c.logger.Warn("engine_start_failed", zap.Error(err))
		return false
	}
	return true
}

func (c *Controller) chooseOpening(name string) {
	var seq []string
	ok := false
	if c.openings != nil {
		seq, ok = c.openings.Sequence(name)
	}
	if !ok {
		c.state.Status = c.text("learning.unknown", map[string]any{"Name": name})
		return
	}
	c.learning = LearningProgress{Title: name, Sequence: seq}
	c.startBoard()
	c.state.Mode = ModeLearning
	c.state.Status = c.learningStatus()
}

// startBoard puts a fresh game on the board.
func (c *Controller) startBoard() {
	c.pos = c.rules.Start()
	c.state.Selected = chess.NoSquare
	c.state.Pending = nil
	c.state.LastMove = ""
	c.state.GameOver = false
	c.state.Result = ""
	c.startedAt = c.now()
	c.recorded = false
	c.lastSync = nil
	c.opponents = [2]string{}
	c.ai.Disarm()
}

func (c *Controller) canMove() bool {
	return c.state.Mode.boardMode() && !c.state.GameOver && !c.clock.Expired()
}

// ownsTurn reports whether the local user may move the side to move.
func (c *Controller) ownsTurn() bool {
	switch c.state.Kind {
	case KindAI, KindOnline:
		return c.pos.Turn() == c.state.PlayerColor
	default:
		return true
	}
}

func (c *Controller) clickSquare(sq chess.Square) {
	if !c.canMove() || !sq.Valid() {
		c.state.Selected = chess.NoSquare
		return
	}
	if !c.state.HasSelection() {
		piece, ok := c.pos.PieceAt(sq)
		if ok && piece.Color == c.pos.Turn() && c.ownsTurn() {
			c.state.Selected = sq
		}
		return
	}
	from := c.state.Selected
	if from == sq {
		c.state.Selected = chess.NoSquare
		return
	}
	c.attemptMove(from, sq)
}

func (c *Controller) attemptMove(from, to chess.Square) {
	c.state.Selected = chess.NoSquare
	if !c.canMove() || !c.ownsTurn() {
		return
	}
	candidates := c.legalFor(from, to)
	if len(candidates) == 0 {
		c.logger.Debug("move_rejected", zap.String("from", from.String()), zap.String("to", to.String()))
		return
	}
	for _, mv := range candidates {
		if mv.Promotion != chess.NoPieceKind {
			c.state.Pending = &PendingPromotion{From: from, To: to, Return: c.state.Mode}
			c.state.Mode = ModePromoting
			c.state.Status = c.text("session.promotion", nil)
			return
		}
	}
	c.tryCommit(candidates[0])
}

func (c *Controller) legalFor(from, to chess.Square) []chess.Move {
	var out []chess.Move
	for _, mv := range c.rules.LegalMoves(c.pos) {
		if mv.From == from && mv.To == to {
			out = append(out, mv)
		}
	}
	return out
}

func (c *Controller) choosePromotion(piece chess.PieceKind) {
	p := c.state.Pending
	if p == nil {
		c.reset()
		return
	}
	if piece.Letter() == "" {
		return
	}
	c.state.Pending = nil
	c.state.Mode = p.Return
	want := chess.Move{From: p.From, To: p.To, Promotion: piece}
	for _, mv := range c.legalFor(p.From, p.To) {
		if mv == want {
			c.tryCommit(mv)
			return
		}
	}
	c.state.Status = c.turnStatus()
}

func (c *Controller) cancelPromotion() {
	if p := c.state.Pending; p != nil {
		c.state.Mode = p.Return
	}
	c.state.Pending = nil
	c.state.Selected = chess.NoSquare
	c.refreshStatus()
}

// tryCommit runs the learning check when needed, then commits.
func (c *Controller) tryCommit(mv chess.Move) bool {
	if c.state.Mode == ModeLearning {
		switch ValidateLearningMove(c.pos, mv.UCI(), c.learning, c.book) {
		case Reject:
			if c.learning.Exhausted() && len(c.bookMoves()) == 0 {
				c.state.Status = c.text("learning.off_book", nil)
			}
			c.logger.Debug("learning_move_rejected", zap.String("move", mv.UCI()), zap.Int("step", c.learning.Step))
			return false
		case AcceptAdvance:
			c.learning = c.learning.advance()
		}
	}
	return c.commit(mv)
}

// commit is the single path every move takes onto the board.
func (c *Controller) commit(mv chess.Move) bool {
	mover := c.pos.Turn()
	next, err := c.rules.Apply(c.pos, mv)
	if err != nil {
		c.logger.Warn("move_apply_failed", zap.String("move", mv.UCI()), zap.Error(err))
		return false
	}
	c.pos = next
	c.state.Selected = chess.NoSquare
	c.state.LastMove = mv.UCI()
	c.clock.ApplyIncrement(mover)

	if c.state.Mode == ModeOnline && c.bridge != nil {
		c.bridge.SubmitMoveAsync(mv.UCI())
	}

	if c.rules.IsGameOver(c.pos) {
		token, termination := splitResult(c.rules.Result(c.pos))
		c.finish(token, termination, c.text("session.game_over", map[string]any{"Result": c.rules.Result(c.pos)}))
		return true
	}

	c.refreshStatus()
	if c.state.Kind == KindAI && c.engineReady && c.pos.Turn() != c.state.PlayerColor {
		c.ai.Arm(c.now())
	}
	return true
}

func (c *Controller) playEngineMove() {
	c.engine.SetPosition(c.pos.Moves())
	budget := c.searchBudget
	ctx, cancel := context.WithTimeout(context.Background(), budget+searchGrace)
	defer cancel()

	started := time.Now()
	uci, err := c.engine.Search(ctx, budget)
	if err != nil {
		c.logger.Warn("engine_move_failed", zap.Error(err))
		c.engineLost()
		return
	}
	if mv, err := chess.ParseMove(uci); err == nil {
		for _, legal := range c.legalFor(mv.From, mv.To) {
			if legal == mv {
				c.logger.Debug("engine_move", zap.String("move", uci), zap.Duration("took", time.Since(started)))
				c.commit(mv)
				return
			}
		}
	}
	c.logger.Warn("engine_move_illegal", zap.String("move", uci))
	c.engineLost()
}

// engineLost stops asking the engine for moves for the rest of the game.
func (c *Controller) engineLost() {
	c.engineReady = false
	c.ai.Disarm()
	c.state.Status = c.text("session.engine_unavailable", nil)
}

func (c *Controller) flagFall() {
	st := c.clock.State()
	result := "0-1"
	if st.Flagged == chess.Black {
		result = "1-0"
	}
	c.finish(result, "time forfeit", c.text("session.flag", map[string]any{"Side": titleColor(st.Flagged)}))
}

func (c *Controller) resign() {
	if c.state.GameOver {
		return
	}
	loser := c.pos.Turn()
	if c.state.Kind == KindAI || c.state.Kind == KindOnline {
		loser = c.state.PlayerColor
	}
	if c.state.Kind == KindOnline && c.bridge != nil {
		c.bridge.Resign()
	}
	result := "0-1"
	if loser == chess.Black {
		result = "1-0"
	}
	c.finish(result, "resign", c.text("session.resigned", nil))
}

// finish freezes the board and hands the game to the archive once.
func (c *Controller) finish(result, termination, status string) {
	c.ai.Disarm()
	c.state.Status = status
	c.state.Selected = chess.NoSquare
	if c.state.GameOver {
		return
	}
	c.state.GameOver = true
	c.state.Result = result
	c.logger.Info("game_finished",
		zap.String("kind", c.state.Kind.String()),
		zap.String("result", result),
		zap.String("termination", termination),
		zap.Int("plies", len(c.pos.Moves())),
	)
	c.record(result, termination)
}

func (c *Controller) record(result, termination string) {
	if c.recorder == nil || c.recorded || c.state.Kind == KindLearning {
		return
	}
	c.recorded = true
	white, black := c.playerNames()
	rec := archive.GameRecord{
		ID:          archive.NewID(),
		Kind:        c.state.Kind.String(),
		White:       white,
		Black:       black,
		MovesUCI:    c.pos.Moves(),
		Result:      result,
		Termination: termination,
		TimeControl: c.state.Profile.Short(),
		StartedAt:   c.startedAt,
		EndedAt:     c.now(),
	}
	if !c.recorder.Record(rec) {
		c.logger.Warn("game_not_archived", zap.String("game_id", rec.ID))
	}
}

func (c *Controller) playerNames() (string, string) {
	switch c.state.Kind {
	case KindAI:
		if c.state.PlayerColor == chess.White {
			return "You", c.engineLabel
		}
		return c.engineLabel, "You"
	case KindOnline:
		white, black := c.opponents[0], c.opponents[1]
		if c.bridge != nil {
			account := c.bridge.Session().Account
			if c.state.PlayerColor == chess.White && white == "" {
				white = account
			}
			if c.state.PlayerColor == chess.Black && black == "" {
				black = account
			}
		}
		return white, black
	default:
		return "White", "Black"
	}
}

func (c *Controller) back() {
	switch c.state.Mode {
	case ModePromoting:
		c.cancelPromotion()
	case ModeChallenges:
		c.state.Mode = ModeOnlineMenu
		c.state.Status = c.text("online.menu", nil)
	default:
		c.reset()
	}
}

// reset returns to the main menu. Calling it twice is the same as once.
func (c *Controller) reset() {
	if c.bridge != nil {
		ns := c.bridge.Session()
		if ns.InGame() {
			c.bridge.Disconnect()
		} else if ns.Matching {
			c.bridge.CancelMatch()
		}
	}
	c.ai.Disarm()
	c.clock.Reset()
	c.learning = LearningProgress{}
	c.engineReady = false
	c.state = newState()
	c.pos = c.rules.Start()
	c.lastSync = nil
	c.opponents = [2]string{}
	c.recorded = false
	c.hintsFEN, c.hints = "", nil
	c.openingFEN, c.opening = "", ""
	c.state.Status = c.text("session.menu", nil)
}

func (c *Controller) connect(token string) {
	if c.bridge == nil {
		c.state.Status = c.text("online.not_connected", nil)
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	_, msg := c.bridge.Connect(ctx, token)
	c.state.Status = msg
}

func seekProfile(p TimeControlProfile) TimeControlProfile {
	if !p.Enabled() {
		return defaultSeek
	}
	return p
}

func (c *Controller) findOpponent(p TimeControlProfile) {
	if c.bridge == nil {
		c.state.Status = c.text("online.not_connected", nil)
		return
	}
	p = seekProfile(p)
	c.state.Profile = p
	_, msg := c.bridge.FindOpponent(p.Minutes, p.IncrementSeconds)
	c.state.Status = msg
}

func (c *Controller) challengePlayer(name string, p TimeControlProfile) {
	if c.bridge == nil {
		c.state.Status = c.text("online.not_connected", nil)
		return
	}
	p = seekProfile(p)
	c.state.Profile = p
	_, msg := c.bridge.Challenge(name, p.Minutes, p.IncrementSeconds)
	c.state.Status = msg
}

func (c *Controller) openChallenges() {
	if c.bridge == nil || !c.bridge.Session().Connected {
		c.state.Status = c.text("online.not_connected", nil)
		return
	}
	c.bridge.RefreshChallenges()
	c.state.Mode = ModeChallenges
	c.state.Status = c.text("online.challenges", map[string]any{"Count": len(c.bridge.Challenges())})
}

func (c *Controller) acceptChallenge(id string) {
	if c.bridge == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	ok, msg := c.bridge.Accept(ctx, id)
	c.state.Status = msg
	if !ok {
		return
	}
	for _, ch := range c.bridge.Challenges() {
		if ch.ID == id {
			c.state.Profile = TimeControlProfile{Label: "Challenge", Minutes: ch.Minutes, IncrementSeconds: ch.Increment}
		}
	}
	c.enterOnlineGame(c.bridge.Session().Color, msg)
}

func (c *Controller) handleMatchResult(res *online.MatchResult) {
	c.state.Status = res.Message
	if !res.OK {
		return
	}
	if c.state.Kind != KindOnline {
		// The user left the online screens while the match was pending.
		c.bridge.Disconnect()
		return
	}
	c.enterOnlineGame(res.Color, res.Message)
}

func (c *Controller) enterOnlineGame(color chess.Color, status string) {
	profile := c.state.Profile
	c.clock.Reset()
	c.state.Kind = KindOnline
	c.state.PlayerColor = color
	c.startBoard()
	c.state.Profile = profile
	c.state.Mode = ModeOnline
	c.state.Status = status
	c.logger.Info("online_game_entered", zap.String("color", color.String()))
}

func (c *Controller) handleInbound(ev online.InboundEvent) {
	switch e := ev.(type) {
	case online.FullEvent:
		c.opponents = [2]string{e.White, e.Black}
		c.resync(e.Moves, "", "")
	case online.StateEvent:
		c.resync(e.Moves, e.Status, e.Winner)
	case online.ErrorEvent:
		c.logger.Warn("online_inbound_error", zap.String("message", e.Message), zap.Bool("rollback", e.Rollback))
		if e.Rollback && !c.state.GameOver {
			c.resync(c.lastSync, "", "")
		}
		c.state.Status = e.Message
	}
}

// resync replaces the local board with the server's move list.
func (c *Controller) resync(moves []string, status, winner string) {
	pos, err := c.rules.Replay(moves)
	if err != nil {
		c.logger.Warn("online_resync_failed", zap.Strings("moves", moves), zap.Error(err))
		c.state.Status = c.text("online.stream_error", map[string]any{"Message": "bad move list"})
		return
	}
	c.pos = pos
	c.lastSync = append([]string(nil), moves...)
	c.state.Selected = chess.NoSquare
	if c.state.Mode == ModePromoting {
		c.state.Pending = nil
		c.state.Mode = ModeOnline
	}
	c.state.LastMove = ""
	if n := len(moves); n > 0 {
		c.state.LastMove = moves[n-1]
	}

	switch {
	case online.IsTerminalStatus(status):
		c.finish(online.ResultFor(status, winner), status, c.text("online.ended", map[string]any{"Status": status}))
	case c.rules.IsGameOver(c.pos):
		token, termination := splitResult(c.rules.Result(c.pos))
		c.finish(token, termination, c.text("session.game_over", map[string]any{"Result": c.rules.Result(c.pos)}))
	default:
		if !c.state.GameOver {
			c.state.Status = c.turnStatus()
		}
	}
}

func (c *Controller) refreshStatus() {
	switch {
	case c.state.GameOver:
	case c.state.Mode == ModeLearning:
		c.state.Status = c.learningStatus()
	case c.state.Kind == KindAI && !c.engineReady:
		c.state.Status = c.text("session.engine_unavailable", nil)
	case c.state.Mode.boardMode():
		c.state.Status = c.turnStatus()
	}
}

func (c *Controller) turnStatus() string {
	turn := c.pos.Turn()
	switch c.state.Kind {
	case KindAI, KindOnline:
		if turn == c.state.PlayerColor {
			return c.text("session.your_move", map[string]any{"Color": turn.String()})
		}
		return c.text("session.waiting_opponent", nil)
	default:
		return c.text("session.to_move", map[string]any{"Turn": titleColor(turn)})
	}
}

func (c *Controller) learningStatus() string {
	if c.learning.Exhausted() {
		return c.text("learning.complete", map[string]any{"Title": c.learning.Title})
	}
	return c.text("learning.step", map[string]any{
		"Title": c.learning.Title,
		"Step":  c.learning.Step + 1,
		"Total": len(c.learning.Sequence),
	})
}

func (c *Controller) bookMoves() []string {
	if c.book == nil {
		return nil
	}
	fen := c.pos.FEN()
	if fen != c.hintsFEN {
		c.hintsFEN = fen
		c.hints = c.book.Suggestions(c.pos)
	}
	return c.hints
}

func (c *Controller) text(key string, data map[string]any) string {
	return c.msgs.Text(key, data)
}

func titleColor(col chess.Color) string {
	if col == chess.White {
		return "White"
	}
	return "Black"
}

// splitResult turns "1-0 (Checkmate)" into ("1-0", "Checkmate").
func splitResult(s string) (string, string) {
	s = strings.TrimSpace(s)
	token, rest, found := strings.Cut(s, " ")
	if !found {
		return token, ""
	}
	rest = strings.TrimSpace(rest)
	rest = strings.TrimSuffix(strings.TrimPrefix(rest, "("), ")")
	return token, rest
}
