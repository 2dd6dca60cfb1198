package online

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// fakeServer imitates the board API closely enough for the bridge.
type fakeServer struct {
	srv  *httptest.Server
	done chan struct{}

	events chan string

	mu           sync.Mutex
	accountCode  int
	accountHits  int
	account      string
	seekSeen     chan struct{}
	challengeID  string
	declineOnNew bool
	acceptBody   string
	gameLines    map[string][]string
	holdGame     bool
	moveCode     int
	moves        []string
	resigned     []string
	incoming     string
}

func newFakeServer(t *testing.T) *fakeServer {
	t.Helper()
	f := &fakeServer{
		done:        make(chan struct{}),
		events:      make(chan string, 16),
		accountCode: http.StatusOK,
		account:     `{"id":"alice","username":"Alice"}`,
		seekSeen:    make(chan struct{}, 1),
		challengeID: "c1",
		acceptBody:  `{"ok":true}`,
		gameLines:   map[string][]string{},
		holdGame:    true,
		moveCode:    http.StatusOK,
		incoming:    `{"in":[]}`,
	}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/account", f.handleAccount)
	mux.HandleFunc("GET /api/stream/event", f.handleEvents)
	mux.HandleFunc("POST /api/board/seek", f.handleSeek)
	mux.HandleFunc("GET /api/board/game/stream/{id}", f.handleGameStream)
	mux.HandleFunc("POST /api/board/game/{id}/move/{uci}", f.handleMove)
	mux.HandleFunc("POST /api/board/game/{id}/resign", f.handleResign)
	mux.HandleFunc("GET /api/challenge", f.handleIncoming)
	mux.HandleFunc("POST /api/challenge/{id}/accept", f.handleAccept)
	mux.HandleFunc("POST /api/challenge/{name}", f.handleCreateChallenge)

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	t.Cleanup(func() { close(f.done) })
	return f
}

func (f *fakeServer) URL() string { return f.srv.URL }

func (f *fakeServer) push(line string) { f.events <- line }

func (f *fakeServer) setGame(id string, holdOpen bool, lines ...string) {
	f.mu.Lock()
	f.gameLines[id] = lines
	f.holdGame = holdOpen
	f.mu.Unlock()
}

func (f *fakeServer) submittedMoves() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.moves...)
}

func (f *fakeServer) accountRequests() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.accountHits
}

func (f *fakeServer) resignedGames() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.resigned...)
}

func (f *fakeServer) handleAccount(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.accountHits++
	code, body := f.accountCode, f.account
	f.mu.Unlock()
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		code = http.StatusUnauthorized
	}
	w.WriteHeader(code)
	fmt.Fprint(w, body)
}

func (f *fakeServer) handleEvents(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher := w.(http.Flusher)
	flusher.Flush()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-f.done:
			return
		case line := <-f.events:
			fmt.Fprintln(w, line)
			flusher.Flush()
		}
	}
}

func (f *fakeServer) handleSeek(w http.ResponseWriter, r *http.Request) {
	select {
	case f.seekSeen <- struct{}{}:
	default:
	}
	select {
	case <-r.Context().Done():
	case <-f.done:
	}
}

func (f *fakeServer) handleGameStream(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	lines, ok := f.gameLines[r.PathValue("id")]
	hold := f.holdGame
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "application/x-ndjson")
	w.WriteHeader(http.StatusOK)
	flusher := w.(http.Flusher)
	for _, line := range lines {
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	flusher.Flush()
	if !hold {
		return
	}
	select {
	case <-r.Context().Done():
	case <-f.done:
	}
}

func (f *fakeServer) handleMove(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	code := f.moveCode
	if code == http.StatusOK {
		f.moves = append(f.moves, r.PathValue("uci"))
	}
	f.mu.Unlock()
	w.WriteHeader(code)
	fmt.Fprint(w, `{"ok":true}`)
}

func (f *fakeServer) handleResign(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.resigned = append(f.resigned, r.PathValue("id"))
	f.mu.Unlock()
	fmt.Fprint(w, `{"ok":true}`)
}

func (f *fakeServer) handleIncoming(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	body := f.incoming
	f.mu.Unlock()
	fmt.Fprint(w, body)
}

func (f *fakeServer) handleAccept(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	body := f.acceptBody
	f.mu.Unlock()
	fmt.Fprint(w, body)
}

func (f *fakeServer) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	id, decline := f.challengeID, f.declineOnNew
	f.mu.Unlock()
	fmt.Fprintf(w, `{"challenge":{"id":%q,"status":"created"}}`, id)
	if decline {
		f.push(fmt.Sprintf(`{"type":"challengeDeclined","challenge":{"id":%q}}`, id))
	}
}
