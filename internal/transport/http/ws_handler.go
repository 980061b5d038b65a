package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	stdhttp "net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/config"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/proto"
)

// WSHandler upgrades HTTP connections and bridges them to core.Client.
// Each connection runs three goroutines: a read loop dispatching
// inbound envelopes to the registry, a write loop draining the client's
// event sink, and a heartbeat loop probing liveness.
type WSHandler struct {
	registry *core.Registry
	cfg      config.Config
	log      *zerolog.Logger
}

// NewWSHandler builds a new WebSocket handler.
func NewWSHandler(registry *core.Registry, cfg config.Config, logger *zerolog.Logger) stdhttp.Handler {
	return &WSHandler{registry: registry, cfg: cfg, log: logger}
}

func (h *WSHandler) ServeHTTP(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		h.log.Error().Err(err).Msg("ws accept error")
		return
	}
	defer conn.Close(websocket.StatusInternalError, "internal error")

	client := core.NewClient(uuid.NewString())
	h.registry.Register(client)
	// Disconnect runs exactly once per connection regardless of which
	// path closed it: client close, heartbeat timeout or shutdown.
	defer h.registry.Disconnect(client)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	limiter := newRateLimiter(h.cfg.MessagesPerMinute)
	stop := make(chan struct{})
	defer close(stop)
	limiter.startReset(stop)

	errCh := make(chan error, 3)
	go func() {
		errCh <- h.readLoop(ctx, conn, client, limiter)
	}()
	go func() {
		errCh <- h.writeLoop(ctx, conn, client)
	}()
	go func() {
		errCh <- h.heartbeatLoop(ctx, conn, client)
	}()

	err = <-errCh
	cancel() // stop the other goroutines
	<-errCh
	<-errCh

	status := websocket.StatusNormalClosure
	reason := "closing"
	if err != nil && !errors.Is(err, context.Canceled) {
		if errors.Is(err, io.EOF) {
			err = nil
		}
		if s := websocket.CloseStatus(err); s != -1 {
			status = s
		}
		if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
			err = nil
		}
		if err != nil {
			if status == websocket.StatusNormalClosure {
				status = websocket.StatusInternalError
			}
			reason = err.Error()
			h.log.Warn().Err(err).Str("client_id", client.ID).Msg("ws connection closed with error")
		}
	}

	conn.Close(status, reason)
}

func (h *WSHandler) readLoop(ctx context.Context, conn *websocket.Conn, client *core.Client, limiter *rateLimiter) error {
	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return err
		}

		// A malformed envelope is answered with an error reply and
		// nothing else; it never tears down the connection.
		var inbound proto.Inbound
		if err := json.Unmarshal(data, &inbound); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("malformed inbound envelope")
			if werr := h.writeError(ctx, conn, "Invalid request"); werr != nil {
				return werr
			}
			continue
		}

		if err := h.dispatch(ctx, conn, client, limiter, inbound); err != nil {
			return err
		}
	}
}

// dispatch handles one parsed envelope. The returned error is a
// transport failure; domain errors are reported to the sender only.
func (h *WSHandler) dispatch(ctx context.Context, conn *websocket.Conn, client *core.Client, limiter *rateLimiter, inbound proto.Inbound) error {
	if strings.TrimSpace(inbound.RoomCode) == "" {
		return h.writeError(ctx, conn, "Room code is required")
	}

	switch inbound.Type {
	case proto.TypeCreateRoom:
		if err := h.registry.Create(client, inbound.RoomCode); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("create room rejected")
			return h.writeError(ctx, conn, clientMessage(err))
		}
	case proto.TypeJoinRoom:
		if err := h.registry.Join(client, inbound.RoomCode); err != nil {
			h.log.Debug().Err(err).Str("client_id", client.ID).Msg("join room rejected")
			return h.writeError(ctx, conn, clientMessage(err))
		}
	case proto.TypeMessage:
		if !limiter.allow() {
			return h.writeError(ctx, conn, "Too many messages")
		}
		if err := h.registry.Post(client, inbound.Message); err != nil {
			return h.writeError(ctx, conn, clientMessage(err))
		}
	default:
		return h.writeError(ctx, conn, "Invalid request type")
	}
	return nil
}

func (h *WSHandler) writeLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	for {
		select {
		case event, ok := <-client.Events:
			if !ok {
				return nil
			}
			if err := wsjson.Write(ctx, conn, outboundFromEvent(event)); err != nil {
				h.log.Error().Err(err).Str("client_id", client.ID).Msg("write ws event")
				return err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// heartbeatLoop pings the peer on a fixed interval. A missing pong
// within the grace window terminates the connection, which takes the
// ordinary close path.
func (h *WSHandler) heartbeatLoop(ctx context.Context, conn *websocket.Conn, client *core.Client) error {
	ticker := time.NewTicker(h.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			pingCtx, cancel := context.WithTimeout(ctx, h.cfg.HeartbeatGrace)
			err := conn.Ping(pingCtx)
			cancel()
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				h.log.Info().Str("client_id", client.ID).Msg("heartbeat timeout, terminating connection")
				return fmt.Errorf("heartbeat: %w", err)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *WSHandler) writeError(ctx context.Context, conn *websocket.Conn, message string) error {
	return wsjson.Write(ctx, conn, proto.ErrorReply{Type: proto.TypeError, Message: message})
}

func clientMessage(err error) string {
	var relayErr *core.RelayError
	if errors.As(err, &relayErr) {
		return relayErr.Message
	}
	return "Internal error"
}
