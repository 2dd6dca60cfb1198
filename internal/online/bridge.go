package online

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/park285/cheese-desk/internal/chess"
	"github.com/park285/cheese-desk/internal/msgcat"
)

const (
	TransportHTTP = "http"
	TransportWS   = "ws"

	defaultBaseURL        = "https://lichess.org"
	defaultMatchTimeout   = 60 * time.Second
	defaultRequestTimeout = 10 * time.Second
	shutdownCallTimeout   = 5 * time.Second
)

type Config struct {
	BaseURL        string
	WSURL          string
	Transport      string
	MatchTimeout   time.Duration
	RequestTimeout time.Duration
	Retries        int
	Messages       *msgcat.Catalog
	Logger         *zap.Logger
}

// Bridge runs every remote-game operation off the session loop. The loop
// reads results through Drain, CheckStatus and Session; none of them block.
type Bridge struct {
	client  *Client
	streams StreamDialer
	seeks   *HTTPStreams
	msgs    *msgcat.Catalog
	logger  *zap.Logger

	matchTimeout   time.Duration
	requestTimeout time.Duration

	mu          sync.Mutex
	token       string
	session     NetworkSession
	matchCancel context.CancelFunc
	gameCancel  context.CancelFunc

	matching   atomic.Bool
	result     atomic.Pointer[MatchResult]
	challenges atomic.Pointer[[]Challenge]
	queue      eventQueue

	rootCtx    context.Context
	rootCancel context.CancelFunc
	wg         sync.WaitGroup
}

func NewBridge(cfg Config) (*Bridge, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.MatchTimeout <= 0 {
		cfg.MatchTimeout = defaultMatchTimeout
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	if cfg.Messages == nil {
		cfg.Messages = msgcat.Default()
	}

	b := &Bridge{
		msgs:           cfg.Messages,
		logger:         cfg.Logger,
		matchTimeout:   cfg.MatchTimeout,
		requestTimeout: cfg.RequestTimeout,
	}
	b.rootCtx, b.rootCancel = context.WithCancel(context.Background())

	headers := HeaderProvider(b.authHeader)
	clientOpts := []Option{WithTimeout(cfg.RequestTimeout), WithHeaderProvider(headers)}
	if cfg.Retries > 0 {
		clientOpts = append(clientOpts, WithRetry(cfg.Retries))
	}
	b.client = NewClient(cfg.BaseURL, clientOpts...)
	b.seeks = NewHTTPStreams(cfg.BaseURL, nil, headers)

	switch strings.ToLower(strings.TrimSpace(cfg.Transport)) {
	case "", TransportHTTP:
		b.streams = b.seeks
	case TransportWS:
		wsURL := cfg.WSURL
		if wsURL == "" {
			wsURL = httpToWS(cfg.BaseURL)
		}
		b.streams = NewWSStreams(wsURL, headers)
	default:
		return nil, fmt.Errorf("unknown stream transport %q", cfg.Transport)
	}
	return b, nil
}

func (b *Bridge) authHeader() map[string]string {
	b.mu.Lock()
	token := b.token
	b.mu.Unlock()
	if token == "" {
		return nil
	}
	return map[string]string{"Authorization": "Bearer " + token}
}

// Connect validates token against the account endpoint. It is a short,
// bounded round trip and never returns an error to the caller.
func (b *Bridge) Connect(ctx context.Context, token string) (bool, string) {
	token = strings.TrimSpace(token)
	if token == "" {
		return false, b.text("online.empty_token", nil)
	}
	ctx, cancel := context.WithTimeout(ctx, b.requestTimeout)
	defer cancel()

	account, err := b.client.Account(ctx, token)
	if err != nil {
		b.logger.Warn("online_connect_failed", zap.Error(err))
		return false, b.describeConnectError(err)
	}

	b.mu.Lock()
	b.token = token
	b.session.Connected = true
	b.session.Account = account
	b.mu.Unlock()
	b.logger.Info("online_connected", zap.String("account", account))
	return true, b.text("online.connected", map[string]any{"Account": account})
}

func (b *Bridge) describeConnectError(err error) string {
	var statusErr *StatusError
	switch {
	case errors.Is(err, ErrUnauthorized):
		return b.text("online.invalid_token", nil)
	case errors.As(err, &statusErr):
		return b.text("online.http_status", map[string]any{"Status": statusErr.Code})
	case IsTimeout(err):
		return b.text("online.timeout", nil)
	case IsUnreachable(err):
		return b.text("online.unreachable", map[string]any{"Host": hostOf(b.client.BaseURL())})
	default:
		return b.text("online.failed", map[string]any{"Error": truncate(err.Error(), 40)})
	}
}

// FindOpponent posts an open seek and waits in the background for a game to start.
func (b *Bridge) FindOpponent(minutes, increment int) (bool, string) {
	ctx, err := b.beginMatch()
	if err != nil {
		return false, b.matchErrorText(err)
	}
	seek := func(ctx context.Context) error {
		form := url.Values{}
		form.Set("rated", "false")
		form.Set("time", strconv.Itoa(minutes))
		form.Set("increment", strconv.Itoa(increment))
		return b.seeks.Hold(ctx, "/api/board/seek", form)
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runMatch(ctx, seek, "")
	}()
	return true, b.text("online.matching", nil)
}

// Challenge targets a named opponent. A decline ends the wait early.
func (b *Bridge) Challenge(name string, minutes, increment int) (bool, string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return false, b.text("online.challenge_failed", map[string]any{"Error": "empty name"})
	}
	ctx, err := b.beginMatch()
	if err != nil {
		return false, b.matchErrorText(err)
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.runMatch(ctx, nil, name, minutes, increment)
	}()
	return true, b.text("online.challenge_sent", map[string]any{"Name": name})
}

func (b *Bridge) requireConnected() (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.session.Connected {
		return "", ErrNotConnected
	}
	return b.session.Account, nil
}

func (b *Bridge) beginMatch() (context.Context, error) {
	if _, err := b.requireConnected(); err != nil {
		return nil, err
	}
	if !b.matching.CompareAndSwap(false, true) {
		return nil, ErrAlreadyMatching
	}
	b.result.Store(nil)

	ctx, cancel := context.WithTimeout(b.rootCtx, b.matchTimeout)
	b.mu.Lock()
	if b.matchCancel != nil {
		b.matchCancel()
	}
	b.matchCancel = cancel
	b.session.GameID = ""
	b.mu.Unlock()
	return ctx, nil
}

func (b *Bridge) matchErrorText(err error) string {
	switch {
	case errors.Is(err, ErrNotConnected):
		return b.text("online.not_connected", nil)
	case errors.Is(err, ErrAlreadyMatching):
		return b.text("online.already_matching", nil)
	default:
		return b.text("online.failed", map[string]any{"Error": truncate(err.Error(), 40)})
	}
}

type watchResult struct {
	start    *accountEvent
	declined string
	err      error
}

// runMatch waits for gameStart on the account stream while seek (or a
// challenge request) is outstanding, then publishes exactly one MatchResult.
func (b *Bridge) runMatch(ctx context.Context, seek func(context.Context) error, opponent string, clock ...int) {
	defer b.matching.Store(false)
	defer func() {
		b.mu.Lock()
		if b.matchCancel != nil {
			b.matchCancel()
			b.matchCancel = nil
		}
		b.mu.Unlock()
	}()

	// Listen before posting so a fast gameStart is not missed.
	events := make(chan watchResult, 4)
	watchReady := make(chan struct{})
	go b.watchAccount(ctx, events, watchReady)
	select {
	case <-watchReady:
	case <-ctx.Done():
	}

	var challengeID string
	if seek != nil {
		go func() {
			if err := seek(ctx); err != nil && ctx.Err() == nil {
				b.logger.Warn("online_seek_failed", zap.Error(err))
				select {
				case events <- watchResult{err: err}:
				default:
				}
			}
		}()
	} else {
		minutes, increment := 10, 0
		if len(clock) == 2 {
			minutes, increment = clock[0], clock[1]
		}
		reqCtx, cancel := context.WithTimeout(ctx, b.requestTimeout)
		id, err := b.client.CreateChallenge(reqCtx, opponent, minutes, increment)
		cancel()
		if err != nil {
			b.logger.Warn("online_challenge_failed", zap.String("opponent", opponent), zap.Error(err))
			b.publish(MatchResult{Message: b.text("online.challenge_failed", map[string]any{"Error": truncate(errorText(err), 30)})})
			return
		}
		challengeID = id
		b.logger.Info("online_challenge_created", zap.String("challenge_id", id), zap.String("opponent", opponent))
	}

	for {
		select {
		case res := <-events:
			switch {
			case res.start != nil:
				gameID := res.start.gameID()
				color := res.start.color()
				b.startGame(gameID, color)
				b.publish(MatchResult{OK: true, GameID: gameID, Color: color, Message: b.startedText(color)})
				return
			case res.declined != "":
				if challengeID != "" && res.declined == challengeID {
					b.publish(MatchResult{Message: b.text("online.challenge_declined", nil)})
					return
				}
			case res.err != nil:
				b.publish(MatchResult{Message: b.text("online.match_failed", map[string]any{"Error": truncate(errorText(res.err), 30)})})
				return
			}
		case <-ctx.Done():
			switch {
			case errors.Is(ctx.Err(), context.DeadlineExceeded) && challengeID != "":
				b.publish(MatchResult{Message: b.text("online.challenge_declined", nil)})
			case errors.Is(ctx.Err(), context.DeadlineExceeded):
				b.publish(MatchResult{Message: b.text("online.match_timeout", nil)})
			default:
				b.publish(MatchResult{Message: b.text("online.match_cancelled", nil)})
			}
			return
		}
	}
}

func (b *Bridge) watchAccount(ctx context.Context, out chan<- watchResult, ready chan<- struct{}) {
	send := func(r watchResult) {
		select {
		case out <- r:
		case <-ctx.Done():
		}
	}
	stream, err := b.streams.Dial(ctx, "/api/stream/event")
	close(ready)
	if err != nil {
		if ctx.Err() == nil {
			send(watchResult{err: err})
		}
		return
	}
	defer stream.Close()

	for {
		raw, err := stream.Next()
		if err != nil {
			if ctx.Err() == nil {
				if errors.Is(err, io.EOF) {
					err = errors.New("event stream closed")
				}
				send(watchResult{err: err})
			}
			return
		}
		ev, ok := decodeAccountEvent(raw)
		if !ok {
			continue
		}
		switch ev.Type {
		case "gameStart":
			if ev.gameID() == "" {
				continue
			}
			e := ev
			send(watchResult{start: &e})
			return
		case "challengeDeclined":
			send(watchResult{declined: ev.Challenge.ID})
		}
	}
}

func (b *Bridge) publish(r MatchResult) {
	b.result.Store(&r)
	b.logger.Info("online_match_result",
		zap.Bool("ok", r.OK),
		zap.String("game_id", r.GameID),
		zap.String("message", r.Message),
	)
}

// CheckStatus reports whether a match is in progress. A finished attempt's
// result is handed out once; later calls return nil until the next attempt ends.
func (b *Bridge) CheckStatus() (bool, *MatchResult) {
	if b.matching.Load() {
		return true, nil
	}
	return false, b.result.Swap(nil)
}

// CancelMatch abandons a running seek or challenge wait.
func (b *Bridge) CancelMatch() {
	b.mu.Lock()
	cancel := b.matchCancel
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}

// Accept accepts a challenge, reads the first game document to learn our
// color, then starts the game stream.
func (b *Bridge) Accept(ctx context.Context, challengeID string) (bool, string) {
	account, err := b.requireConnected()
	if err != nil {
		return false, b.matchErrorText(err)
	}

	reqCtx, cancel := context.WithTimeout(ctx, b.requestTimeout)
	defer cancel()
	gameID, err := b.client.AcceptChallenge(reqCtx, challengeID)
	if err != nil {
		b.logger.Warn("online_accept_failed", zap.String("challenge_id", challengeID), zap.Error(err))
		return false, b.text("online.accept_failed", nil)
	}

	color, err := b.readAssignedColor(reqCtx, gameID, account)
	if err != nil {
		b.logger.Warn("online_game_start_failed", zap.String("game_id", gameID), zap.Error(err))
		return false, b.text("online.game_start_failed", nil)
	}
	b.markChallenge(challengeID, ChallengeAccepted)
	b.startGame(gameID, color)
	return true, b.startedText(color)
}

func (b *Bridge) readAssignedColor(ctx context.Context, gameID, account string) (chess.Color, error) {
	stream, err := b.streams.Dial(ctx, "/api/board/game/stream/"+url.PathEscape(gameID))
	if err != nil {
		return chess.White, err
	}
	defer stream.Close()
	for {
		raw, err := stream.Next()
		if err != nil {
			return chess.White, err
		}
		ev, _, ok := decodeGameEvent(raw)
		if ok && ev.Type == "gameFull" {
			return colorForAccount(ev, account), nil
		}
	}
}

// RefreshChallenges fetches incoming challenges in the background.
func (b *Bridge) RefreshChallenges() {
	b.mu.Lock()
	connected := b.session.Connected
	b.mu.Unlock()
	if !connected {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(b.rootCtx, b.requestTimeout)
		defer cancel()
		list, err := b.client.IncomingChallenges(ctx)
		if err != nil {
			b.logger.Warn("online_challenges_failed", zap.Error(err))
			return
		}
		b.challenges.Store(&list)
	}()
}

func (b *Bridge) markChallenge(id string, status ChallengeStatus) {
	list := b.Challenges()
	for i := range list {
		if list[i].ID == id {
			list[i].Status = status
		}
	}
	b.challenges.Store(&list)
}

func (b *Bridge) Challenges() []Challenge {
	p := b.challenges.Load()
	if p == nil {
		return nil
	}
	return append([]Challenge(nil), (*p)...)
}

func (b *Bridge) startGame(gameID string, color chess.Color) {
	ctx, cancel := context.WithCancel(b.rootCtx)
	b.mu.Lock()
	if b.gameCancel != nil {
		b.gameCancel()
	}
	b.gameCancel = cancel
	b.session.GameID = gameID
	b.session.Color = color
	b.mu.Unlock()

	b.logger.Info("online_game_started", zap.String("game_id", gameID), zap.String("color", color.String()))
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.streamGame(ctx, gameID)
	}()
}

// streamGame forwards game documents to the queue until the stream ends.
// There is no reconnect; a transport failure is reported once.
func (b *Bridge) streamGame(ctx context.Context, gameID string) {
	stream, err := b.streams.Dial(ctx, "/api/board/game/stream/"+url.PathEscape(gameID))
	if err != nil {
		if ctx.Err() == nil {
			b.logger.Warn("online_stream_open_failed", zap.String("game_id", gameID), zap.Error(err))
			b.queue.push(gameID, ErrorEvent{Message: b.text("online.stream_error", map[string]any{"Message": truncate(errorText(err), 40)})})
		}
		return
	}
	defer stream.Close()

	finished := false
	for {
		raw, err := stream.Next()
		if err != nil {
			if ctx.Err() != nil || (finished && errors.Is(err, io.EOF)) {
				return
			}
			b.logger.Warn("online_stream_failed", zap.String("game_id", gameID), zap.Error(err))
			b.queue.push(gameID, ErrorEvent{Message: b.text("online.stream_error", map[string]any{"Message": truncate(errorText(err), 40)})})
			return
		}
		ev, inbound, ok := decodeGameEvent(raw)
		if !ok {
			continue
		}
		b.queue.push(gameID, inbound)
		if ev.Type == "gameFull" && IsTerminalStatus(ev.State.Status) {
			b.queue.push(gameID, StateEvent{Moves: ParseMoves(ev.State.Moves), Status: ev.State.Status, Winner: ev.State.Winner})
			finished = true
		}
		if ev.Type == "gameState" && IsTerminalStatus(ev.Status) {
			finished = true
		}
	}
}

// SubmitMove sends a move; a nil error means the server accepted it.
func (b *Bridge) SubmitMove(ctx context.Context, uci string) error {
	b.mu.Lock()
	gameID := b.session.GameID
	b.mu.Unlock()
	if gameID == "" {
		return fmt.Errorf("submit %s: %w", uci, ErrNoGame)
	}
	ctx, cancel := context.WithTimeout(ctx, b.requestTimeout)
	defer cancel()
	if err := b.client.Move(ctx, gameID, uci); err != nil {
		b.logger.Warn("online_move_failed", zap.String("game_id", gameID), zap.String("move", uci), zap.Error(err))
		return fmt.Errorf("submit %s: %w", uci, err)
	}
	return nil
}

// SubmitMoveAsync sends the move in the background and queues a rollback on failure.
func (b *Bridge) SubmitMoveAsync(uci string) {
	b.mu.Lock()
	gameID := b.session.GameID
	b.mu.Unlock()
	if gameID == "" {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		if err := b.SubmitMove(b.rootCtx, uci); err != nil {
			b.queue.push(gameID, ErrorEvent{Message: b.text("online.move_rejected", nil), Rollback: true})
		}
	}()
}

// Drain pops at most one event for the current game. Events left over from
// a previous game are discarded.
func (b *Bridge) Drain() (InboundEvent, bool) {
	b.mu.Lock()
	current := b.session.GameID
	b.mu.Unlock()
	for {
		item, ok := b.queue.pop()
		if !ok {
			return nil, false
		}
		if current != "" && item.gameID == current {
			return item.event, true
		}
	}
}

// Resign is best effort: local state clears now, the request runs in the background.
func (b *Bridge) Resign() {
	b.mu.Lock()
	gameID := b.session.GameID
	b.session.GameID = ""
	b.session.Color = chess.White
	cancel := b.gameCancel
	b.gameCancel = nil
	b.mu.Unlock()
	if cancel != nil {
		cancel()
	}
	if gameID == "" {
		return
	}
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), shutdownCallTimeout)
		defer cancel()
		if err := b.client.Resign(ctx, gameID); err != nil {
			b.logger.Warn("online_resign_failed", zap.String("game_id", gameID), zap.Error(err))
		}
	}()
}

// Disconnect resigns any game, abandons matching and forgets the token.
func (b *Bridge) Disconnect() {
	b.CancelMatch()
	b.Resign()
	b.mu.Lock()
	b.session = NetworkSession{}
	b.token = ""
	b.mu.Unlock()
	b.queue.clear()
	b.result.Store(nil)
	b.challenges.Store(nil)
}

// Session returns a snapshot of the connection state.
func (b *Bridge) Session() NetworkSession {
	b.mu.Lock()
	s := b.session
	b.mu.Unlock()
	s.Matching = b.matching.Load()
	return s
}

// Close stops all goroutines. Pending background calls get until ctx ends.
func (b *Bridge) Close(ctx context.Context) error {
	b.Disconnect()
	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		b.rootCancel()
		return nil
	case <-ctx.Done():
		b.rootCancel()
		return ctx.Err()
	}
}

func (b *Bridge) startedText(color chess.Color) string {
	return b.text("online.game_started", map[string]any{"Color": color.String()})
}

func (b *Bridge) text(key string, data map[string]any) string {
	return b.msgs.Text(key, data)
}

func errorText(err error) string {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		if statusErr.Body != "" {
			return statusErr.Body
		}
		return "HTTP " + strconv.Itoa(statusErr.Code)
	}
	return err.Error()
}

func hostOf(base string) string {
	u, err := url.Parse(base)
	if err != nil || u.Host == "" {
		return base
	}
	return u.Host
}

func httpToWS(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	default:
		return base
	}
}
