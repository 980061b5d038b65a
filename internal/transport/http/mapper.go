package http

import (
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/core"
	"github.com/Yash-jaiswal2509/simple-chat-application/internal/proto"
)

func outboundFromEvent(event *core.Event) any {
	switch event.Kind {
	case core.EventRoomCreated:
		return proto.RoomCreated{
			Type:     proto.TypeRoomCreated,
			RoomCode: event.Room,
			UserID:   event.UserID,
		}
	case core.EventRoomJoined:
		messages := make([]proto.ChatMessage, 0, len(event.History))
		for _, msg := range event.History {
			messages = append(messages, wireMessage(msg))
		}
		return proto.RoomJoined{
			Type:        proto.TypeRoomJoined,
			RoomCode:    event.Room,
			UserID:      event.UserID,
			Messages:    messages,
			UsersOnline: event.UsersOnline,
		}
	case core.EventUserJoined:
		return proto.UserNotice{
			Type:        proto.TypeUserJoined,
			Message:     event.Notice,
			UsersOnline: event.UsersOnline,
		}
	case core.EventUserLeft:
		return proto.UserNotice{
			Type:        proto.TypeUserLeft,
			Message:     event.Notice,
			UsersOnline: event.UsersOnline,
		}
	case core.EventMessage:
		return proto.MessageEvent{
			Type:        proto.TypeMessage,
			ChatMessage: wireMessage(*event.Message),
		}
	default:
		return proto.ErrorReply{Type: proto.TypeError, Message: "Unknown event"}
	}
}

func wireMessage(msg core.Message) proto.ChatMessage {
	return proto.ChatMessage{
		ID:      msg.ID,
		Message: msg.Text,
		Time:    msg.SentAt,
		UserID:  msg.AuthorID,
	}
}
