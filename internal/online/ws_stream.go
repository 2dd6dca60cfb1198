package online

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nhooyr.io/websocket"
)

// WSStreams reads the same event documents as JSON websocket frames, one per message.
type WSStreams struct {
	wsURL   string
	headers HeaderProvider
}

func NewWSStreams(wsURL string, headers HeaderProvider) *WSStreams {
	return &WSStreams{wsURL: strings.TrimRight(wsURL, "/"), headers: headers}
}

func (w *WSStreams) Dial(ctx context.Context, path string) (Stream, error) {
	dialCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(dialCtx, w.wsURL+path, &websocket.DialOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
		HTTPHeader:      w.buildHeaders(),
	})
	if err != nil {
		return nil, fmt.Errorf("dial ws stream %s: %w", path, err)
	}
	conn.SetReadLimit(1 << 20)
	return &wsStream{ctx: ctx, conn: conn}, nil
}

func (w *WSStreams) buildHeaders() http.Header {
	hdr := http.Header{}
	if w.headers == nil {
		return hdr
	}
	for k, v := range w.headers() {
		if strings.TrimSpace(k) == "" || strings.TrimSpace(v) == "" {
			continue
		}
		hdr.Set(k, v)
	}
	return hdr
}

type wsStream struct {
	ctx  context.Context
	conn *websocket.Conn
}

func (s *wsStream) Next() ([]byte, error) {
	for {
		typ, data, err := s.conn.Read(s.ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || errors.Is(err, io.EOF) {
				return nil, io.EOF
			}
			return nil, err
		}
		if typ != websocket.MessageText {
			continue
		}
		data = bytes.TrimSpace(data)
		if len(data) == 0 {
			continue
		}
		return data, nil
	}
}

func (s *wsStream) Close() error {
	return s.conn.Close(websocket.StatusNormalClosure, "close")
}
