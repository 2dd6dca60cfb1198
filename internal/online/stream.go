package online

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Stream yields one JSON document per call. It ends when the context it was
// dialed with is cancelled or the server closes it.
type Stream interface {
	Next() ([]byte, error)
	Close() error
}

// StreamDialer opens server-push streams by API path.
type StreamDialer interface {
	Dial(ctx context.Context, path string) (Stream, error)
}

// HTTPStreams reads newline-delimited JSON over plain HTTP and also holds
// long-running POSTs such as seeks.
type HTTPStreams struct {
	baseURL string
	client  *http.Client
	headers HeaderProvider
}

func NewHTTPStreams(baseURL string, client *http.Client, headers HeaderProvider) *HTTPStreams {
	if client == nil {
		// No client timeout: stream lifetime is bounded by the request context.
		client = &http.Client{Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			ResponseHeaderTimeout: 15 * time.Second,
			IdleConnTimeout:       90 * time.Second,
		}}
	}
	return &HTTPStreams{baseURL: strings.TrimRight(baseURL, "/"), client: client, headers: headers}
}

func (h *HTTPStreams) Dial(ctx context.Context, path string) (Stream, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("build stream request: %w", err)
	}
	req.Header.Set("Accept", "application/x-ndjson")
	h.applyHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("open stream %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		resp.Body.Close()
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	sc := bufio.NewScanner(resp.Body)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)
	return &ndjsonStream{body: resp.Body, scanner: sc}, nil
}

// Hold POSTs form to path and blocks until the server answers or ctx ends.
func (h *HTTPStreams) Hold(ctx context.Context, path string, form url.Values) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	h.applyHeaders(req)

	resp, err := h.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	_, err = io.Copy(io.Discard, resp.Body)
	return err
}

func (h *HTTPStreams) applyHeaders(req *http.Request) {
	if h.headers == nil {
		return
	}
	for k, v := range h.headers() {
		if strings.TrimSpace(k) != "" && strings.TrimSpace(v) != "" {
			req.Header.Set(k, v)
		}
	}
}

type ndjsonStream struct {
	body    io.ReadCloser
	scanner *bufio.Scanner
}

// Next skips keep-alive blank lines.
func (s *ndjsonStream) Next() ([]byte, error) {
	for s.scanner.Scan() {
		line := bytes.TrimSpace(s.scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		out := make([]byte, len(line))
		copy(out, line)
		return out, nil
	}
	if err := s.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func (s *ndjsonStream) Close() error { return s.body.Close() }
