package online

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/valyala/fasthttp"
)

// HeaderProvider injects per-request headers such as the bearer token.
type HeaderProvider func() map[string]string

// StatusError is a non-2xx reply from the game service.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("game service error: status=%d body=%s", e.Code, e.Body)
}

var ErrUnauthorized = errors.New("unauthorized")

func (e *StatusError) Is(target error) bool {
	return target == ErrUnauthorized && e.Code == fasthttp.StatusUnauthorized
}

// Client performs the short request/response calls of the board API.
type Client struct {
	baseURL string
	http    *fasthttp.Client
	headers HeaderProvider

	defaultTimeout time.Duration
	retryMax       int
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}

func WithHeaderProvider(h HeaderProvider) Option {
	return func(c *Client) { c.headers = h }
}

func WithRetry(max int) Option {
	return func(c *Client) { c.retryMax = max }
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: 10 * time.Second, WriteTimeout: 10 * time.Second, MaxConnsPerHost: 16},
		defaultTimeout: 10 * time.Second,
		retryMax:       3,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) BaseURL() string { return c.baseURL }

type accountResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// Account validates token and returns the account name.
func (c *Client) Account(ctx context.Context, token string) (string, error) {
	var resp accountResponse
	hdr := map[string]string{"Authorization": "Bearer " + token}
	if err := c.do(ctx, fasthttp.MethodGet, "/api/account", hdr, nil, &resp, true); err != nil {
		return "", err
	}
	name := resp.Username
	if name == "" {
		name = resp.ID
	}
	if name == "" {
		name = "Unknown"
	}
	return name, nil
}

type challengeCreated struct {
	ID        string `json:"id"`
	Challenge struct {
		ID string `json:"id"`
	} `json:"challenge"`
}

// CreateChallenge sends a casual challenge and returns its id.
func (c *Client) CreateChallenge(ctx context.Context, username string, minutes, increment int) (string, error) {
	form := url.Values{}
	form.Set("rated", "false")
	form.Set("clock.limit", strconv.Itoa(minutes*60))
	form.Set("clock.increment", strconv.Itoa(increment))

	var resp challengeCreated
	path := "/api/challenge/" + url.PathEscape(username)
	if err := c.do(ctx, fasthttp.MethodPost, path, nil, form, &resp, false); err != nil {
		return "", err
	}
	id := resp.Challenge.ID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		return "", errors.New("challenge id missing in response")
	}
	return id, nil
}

type acceptResponse struct {
	ID   string `json:"id"`
	Game struct {
		ID string `json:"id"`
	} `json:"game"`
}

// AcceptChallenge accepts an incoming challenge; the returned game id falls back to the challenge id.
func (c *Client) AcceptChallenge(ctx context.Context, challengeID string) (string, error) {
	var resp acceptResponse
	path := "/api/challenge/" + url.PathEscape(challengeID) + "/accept"
	if err := c.do(ctx, fasthttp.MethodPost, path, nil, nil, &resp, false); err != nil {
		return "", err
	}
	switch {
	case resp.Game.ID != "":
		return resp.Game.ID, nil
	case resp.ID != "":
		return resp.ID, nil
	default:
		return challengeID, nil
	}
}

type challengeJSON struct {
	ID         string `json:"id"`
	Status     string `json:"status"`
	Challenger struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"challenger"`
	TimeControl struct {
		Type      string `json:"type"`
		Limit     int    `json:"limit"`
		Increment int    `json:"increment"`
	} `json:"timeControl"`
}

type challengeListResponse struct {
	In []challengeJSON `json:"in"`
}

// IncomingChallenges lists challenges addressed to the account.
func (c *Client) IncomingChallenges(ctx context.Context) ([]Challenge, error) {
	var resp challengeListResponse
	if err := c.do(ctx, fasthttp.MethodGet, "/api/challenge", nil, nil, &resp, true); err != nil {
		return nil, err
	}
	out := make([]Challenge, 0, len(resp.In))
	for _, ch := range resp.In {
		if ch.ID == "" {
			continue
		}
		name := ch.Challenger.Name
		if name == "" {
			name = ch.Challenger.ID
		}
		status := ChallengePending
		switch strings.ToLower(ch.Status) {
		case "accepted":
			status = ChallengeAccepted
		case "declined", "canceled", "offline":
			status = ChallengeDeclined
		}
		out = append(out, Challenge{
			ID:         ch.ID,
			Challenger: name,
			Minutes:    ch.TimeControl.Limit / 60,
			Increment:  ch.TimeControl.Increment,
			Status:     status,
		})
	}
	return out, nil
}

func (c *Client) Move(ctx context.Context, gameID, uci string) error {
	path := "/api/board/game/" + url.PathEscape(gameID) + "/move/" + url.PathEscape(uci)
	return c.do(ctx, fasthttp.MethodPost, path, nil, nil, nil, false)
}

func (c *Client) Resign(ctx context.Context, gameID string) error {
	path := "/api/board/game/" + url.PathEscape(gameID) + "/resign"
	return c.do(ctx, fasthttp.MethodPost, path, nil, nil, nil, false)
}

func (c *Client) do(ctx context.Context, method, path string, extra map[string]string, form url.Values, out any, retry bool) error {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(c.baseURL + path)
	req.Header.Set("Accept", "application/json")
	if c.headers != nil {
		for k, v := range c.headers() {
			if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
				req.Header.Set(k, v)
			}
		}
	}
	for k, v := range extra {
		req.Header.Set(k, v)
	}
	if form != nil {
		req.Header.SetContentType("application/x-www-form-urlencoded")
		req.SetBodyString(form.Encode())
	}

	attempts := 1
	if retry && c.retryMax > 1 {
		attempts = c.retryMax
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx))
		if err != nil {
			lastErr = fmt.Errorf("request failed: %w", err)
			if attempt == attempts || !retry || !isTransient(err) {
				return lastErr
			}
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		status := resp.StatusCode()
		if status < 200 || status >= 300 {
			err := &StatusError{Code: status, Body: truncate(string(resp.Body()), 512)}
			if attempt == attempts || !retry || !shouldRetryStatus(status) {
				return err
			}
			lastErr = err
			if sleepErr := sleepWithContext(ctx, backoffDuration(attempt)); sleepErr != nil {
				return lastErr
			}
			continue
		}

		if out != nil && len(resp.Body()) > 0 {
			if err := json.Unmarshal(resp.Body(), out); err != nil {
				return fmt.Errorf("decode response: %w", err)
			}
		}
		return nil
	}

	if lastErr == nil {
		lastErr = errors.New("unknown error")
	}
	return lastErr
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

// IsTimeout reports whether err came from a request or dial deadline.
func IsTimeout(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, fasthttp.ErrTimeout) || errors.Is(err, fasthttp.ErrDialTimeout) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// IsUnreachable reports whether err is a connection-level failure.
func IsUnreachable(err error) bool {
	if err == nil || IsTimeout(err) {
		return false
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr) || errors.Is(err, fasthttp.ErrNoFreeConns)
}

func isTransient(err error) bool {
	return IsTimeout(err) || errors.Is(err, fasthttp.ErrConnectionClosed)
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func backoffDuration(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	if attempt > 6 {
		attempt = 6
	}
	return time.Duration(1<<uint(attempt-1)) * 100 * time.Millisecond
}

func shouldRetryStatus(code int) bool {
	switch code {
	case 500, 502, 503, 504:
		return true
	default:
		return false
	}
}

// truncate keeps at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
