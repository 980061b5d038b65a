package http

import (
	"context"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/Yash-jaiswal2509/simple-chat-application/internal/proto"
)

func TestCreateJoinMessageLeaveFlow(t *testing.T) {
	ts, _ := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	connB := dialWS(t, ctx, ts)

	// A creates the room.
	if err := wsjson.Write(ctx, connA, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "ABC123"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}
	created := readEnvelope(t, ctx, connA)
	mustType(t, created, proto.TypeRoomCreated)
	if created["roomCode"] != "ABC123" {
		t.Fatalf("unexpected roomCreated: %+v", created)
	}
	creatorID, _ := created["userId"].(string)
	if creatorID == "" {
		t.Fatalf("roomCreated missing userId: %+v", created)
	}

	// B joins and receives an empty history snapshot.
	if err := wsjson.Write(ctx, connB, proto.Inbound{Type: proto.TypeJoinRoom, RoomCode: "ABC123"}); err != nil {
		t.Fatalf("write joinRoom: %v", err)
	}
	joined := readEnvelope(t, ctx, connB)
	mustType(t, joined, proto.TypeRoomJoined)
	if msgs, ok := joined["messages"].([]any); !ok || len(msgs) != 0 {
		t.Fatalf("expected empty history, got %+v", joined["messages"])
	}
	if joined["usersOnline"] != float64(2) {
		t.Fatalf("joiner usersOnline = %v, want 2", joined["usersOnline"])
	}

	// A sees the join notice with the post-join count.
	notice := readEnvelope(t, ctx, connA)
	mustType(t, notice, proto.TypeUserJoined)
	if notice["usersOnline"] != float64(2) {
		t.Fatalf("userJoined usersOnline = %v, want 2", notice["usersOnline"])
	}

	// A posts; both A and B receive the broadcast.
	if err := wsjson.Write(ctx, connA, proto.Inbound{Type: proto.TypeMessage, RoomCode: "ABC123", Message: "hi"}); err != nil {
		t.Fatalf("write message: %v", err)
	}
	for _, conn := range []*websocket.Conn{connA, connB} {
		msg := readEnvelope(t, ctx, conn)
		mustType(t, msg, proto.TypeMessage)
		if msg["message"] != "hi" || msg["userId"] != creatorID {
			t.Fatalf("unexpected message broadcast: %+v", msg)
		}
		if msg["id"] == "" || msg["time"] == "" {
			t.Fatalf("message missing id or time: %+v", msg)
		}
	}

	// B disconnects; A sees the leave notice.
	connB.Close(websocket.StatusNormalClosure, "bye")
	left := readEnvelope(t, ctx, connA)
	mustType(t, left, proto.TypeUserLeft)
	if left["usersOnline"] != float64(1) {
		t.Fatalf("userLeft usersOnline = %v, want 1", left["usersOnline"])
	}
}

func TestJoinDeliversHistorySnapshot(t *testing.T) {
	ts, _ := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	if err := wsjson.Write(ctx, connA, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "hist"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}
	readEnvelope(t, ctx, connA) // roomCreated

	for _, text := range []string{"one", "two"} {
		if err := wsjson.Write(ctx, connA, proto.Inbound{Type: proto.TypeMessage, RoomCode: "hist", Message: text}); err != nil {
			t.Fatalf("write message: %v", err)
		}
		readEnvelope(t, ctx, connA) // own echo
	}

	connB := dialWS(t, ctx, ts)
	if err := wsjson.Write(ctx, connB, proto.Inbound{Type: proto.TypeJoinRoom, RoomCode: "hist"}); err != nil {
		t.Fatalf("write joinRoom: %v", err)
	}
	joined := readEnvelope(t, ctx, connB)
	mustType(t, joined, proto.TypeRoomJoined)

	msgs, _ := joined["messages"].([]any)
	if len(msgs) != 2 {
		t.Fatalf("history length = %d, want 2", len(msgs))
	}
	first, _ := msgs[0].(map[string]any)
	if first["message"] != "one" {
		t.Fatalf("history out of order: %+v", msgs)
	}
}

func TestErrorReplies(t *testing.T) {
	ts, _ := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	connA := dialWS(t, ctx, ts)
	if err := wsjson.Write(ctx, connA, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "taken"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}
	readEnvelope(t, ctx, connA)

	connB := dialWS(t, ctx, ts)

	cases := []struct {
		name    string
		inbound proto.Inbound
		want    string
	}{
		{"missing room code", proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "   "}, "Room code is required"},
		{"unknown type", proto.Inbound{Type: "shout", RoomCode: "taken"}, "Invalid request type"},
		{"duplicate room", proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "taken"}, "Room already exists"},
		{"unknown room", proto.Inbound{Type: proto.TypeJoinRoom, RoomCode: "ghost"}, "Room does not exist"},
		{"message without binding", proto.Inbound{Type: proto.TypeMessage, RoomCode: "taken", Message: "hi"}, "Join a room first"},
	}

	for _, tc := range cases {
		if err := wsjson.Write(ctx, connB, tc.inbound); err != nil {
			t.Fatalf("%s: write: %v", tc.name, err)
		}
		reply := readEnvelope(t, ctx, connB)
		mustType(t, reply, proto.TypeError)
		if reply["message"] != tc.want {
			t.Fatalf("%s: error message = %v, want %q", tc.name, reply["message"], tc.want)
		}
	}
}

func TestMalformedEnvelopeDoesNotKillConnection(t *testing.T) {
	ts, _ := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)

	if err := conn.Write(ctx, websocket.MessageText, []byte("{not json")); err != nil {
		t.Fatalf("write garbage: %v", err)
	}
	reply := readEnvelope(t, ctx, conn)
	mustType(t, reply, proto.TypeError)

	// The connection survives and still accepts valid requests.
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "alive"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}
	created := readEnvelope(t, ctx, conn)
	mustType(t, created, proto.TypeRoomCreated)
}

func TestSecondBindIsRejected(t *testing.T) {
	ts, _ := startTestServer(t, testConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "one"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}
	readEnvelope(t, ctx, conn)

	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "two"}); err != nil {
		t.Fatalf("write second createRoom: %v", err)
	}
	reply := readEnvelope(t, ctx, conn)
	mustType(t, reply, proto.TypeError)
	if reply["message"] != "Already in a room" {
		t.Fatalf("unexpected rebind reply: %+v", reply)
	}
}

func TestMessageRateLimit(t *testing.T) {
	cfg := testConfig()
	cfg.MessagesPerMinute = 2
	ts, _ := startTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "limited"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}
	readEnvelope(t, ctx, conn)

	for i := 0; i < 3; i++ {
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.TypeMessage, RoomCode: "limited", Message: "spam"}); err != nil {
			t.Fatalf("write message %d: %v", i, err)
		}
	}

	readEnvelope(t, ctx, conn) // first echo
	readEnvelope(t, ctx, conn) // second echo
	reply := readEnvelope(t, ctx, conn)
	mustType(t, reply, proto.TypeError)
	if reply["message"] != "Too many messages" {
		t.Fatalf("unexpected rate limit reply: %+v", reply)
	}
}

func TestHeartbeatTerminatesSilentPeer(t *testing.T) {
	cfg := testConfig()
	cfg.HeartbeatInterval = 50 * time.Millisecond
	cfg.HeartbeatGrace = 50 * time.Millisecond
	ts, registry := startTestServer(t, cfg)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn := dialWS(t, ctx, ts)
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.TypeCreateRoom, RoomCode: "silent"}); err != nil {
		t.Fatalf("write createRoom: %v", err)
	}

	// The peer never reads, so it never answers pings. The server must
	// terminate it and remove its membership exactly once.
	waitFor(t, 3*time.Second, func() bool {
		info, ok := registry.RoomInfo("silent")
		return ok && info.UsersOnline == 0
	})
	waitFor(t, time.Second, func() bool {
		return registry.Stats().Connections == 0
	})
}
