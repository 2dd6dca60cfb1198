package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/park285/cheese-desk/internal/online"
)

// onlinecheck verifies a token against the game service and watches the
// account event stream for a short window.
func main() {
	baseURL := strings.TrimRight(strings.TrimSpace(os.Getenv("ONLINE_BASE_URL")), "/")
	token := strings.TrimSpace(os.Getenv("ONLINE_TOKEN"))
	transport := strings.ToLower(strings.TrimSpace(os.Getenv("ONLINE_STREAM_TRANSPORT")))
	wsURL := strings.TrimSpace(os.Getenv("ONLINE_WS_URL"))

	if baseURL == "" {
		baseURL = "https://lichess.org"
	}
	if token == "" {
		log.Fatal("ONLINE_TOKEN is required")
	}

	headers := func() map[string]string {
		return map[string]string{"Authorization": "Bearer " + token}
	}
	client := online.NewClient(baseURL,
		online.WithHeaderProvider(headers),
		online.WithTimeout(8*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	account, err := client.Account(ctx, token)
	if err != nil {
		log.Fatalf("/api/account error: %v", err)
	}
	log.Printf("/api/account ok: %s", account)

	challenges, err := client.IncomingChallenges(ctx)
	if err != nil {
		log.Printf("/api/challenge error: %v", err)
	} else {
		log.Printf("/api/challenge ok: %d incoming", len(challenges))
		for _, ch := range challenges {
			fmt.Printf("challenge id=%s from=%s %d+%d\n", ch.ID, ch.Challenger, ch.Minutes, ch.Increment)
		}
	}

	var dialer online.StreamDialer
	switch transport {
	case "ws":
		if wsURL == "" {
			if strings.HasPrefix(baseURL, "https") {
				wsURL = "wss" + strings.TrimPrefix(baseURL, "https")
			} else {
				wsURL = "ws" + strings.TrimPrefix(baseURL, "http")
			}
		}
		dialer = online.NewWSStreams(wsURL, headers)
	default:
		dialer = online.NewHTTPStreams(baseURL, nil, headers)
	}

	// Observe for a short window
	sctx, scancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer scancel()
	stream, err := dialer.Dial(sctx, "/api/stream/event")
	if err != nil {
		log.Printf("event stream error: %v", err)
		return
	}
	defer stream.Close()
	log.Printf("event stream open (%s)", transportName(transport))
	for {
		raw, err := stream.Next()
		if err != nil {
			log.Printf("event stream closed: %v", err)
			return
		}
		fmt.Printf("event %s\n", raw)
	}
}

func transportName(t string) string {
	if t == "" {
		return online.TransportHTTP
	}
	return t
}
