package http

import (
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/config"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
)

func testConfig() config.Config {
	cfg := config.Default()
	cfg.MessagesPerMinute = 0
	return cfg
}

func startTestServer(t *testing.T, cfg config.Config) (*httptest.Server, *core.Registry) {
	t.Helper()

	logger := zerolog.Nop()
	registry := core.NewRegistry(core.Options{
		HistoryLimit:  cfg.HistoryLimit,
		MaxMessageLen: cfg.MaxMessageLen,
	})

	ts := httptest.NewServer(NewRouter(registry, cfg, &logger))
	t.Cleanup(ts.Close)

	return ts, registry
}

func dialWS(t *testing.T, ctx context.Context, ts *httptest.Server) *websocket.Conn {
	t.Helper()

	wsURL := strings.Replace(ts.URL, "http", "ws", 1) + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("ws dial: %v", err)
	}
	t.Cleanup(func() {
		conn.Close(websocket.StatusNormalClosure, "done")
	})
	return conn
}

func readEnvelope(t *testing.T, ctx context.Context, conn *websocket.Conn) map[string]any {
	t.Helper()

	var envelope map[string]any
	if err := wsjson.Read(ctx, conn, &envelope); err != nil {
		t.Fatalf("read envelope: %v", err)
	}
	return envelope
}

func mustType(t *testing.T, envelope map[string]any, wantType string) {
	t.Helper()

	if got, _ := envelope["type"].(string); got != wantType {
		t.Fatalf("envelope type = %q, want %q (%+v)", got, wantType, envelope)
	}
}

func waitFor(t *testing.T, timeout time.Duration, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met before deadline")
}
