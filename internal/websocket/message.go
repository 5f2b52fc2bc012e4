package websocket

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type MessageType string

const (
	// Client to Server
	MessageTypePing MessageType = "PING"

	// Server to Client
	MessageTypeWelcome        MessageType = "WELCOME"
	MessageTypePong           MessageType = "PONG"
	MessageTypePostCreated    MessageType = "POST_CREATED"
	MessageTypePostUpdated    MessageType = "POST_UPDATED"
	MessageTypePostDeleted    MessageType = "POST_DELETED"
	MessageTypeLikeToggled    MessageType = "LIKE_TOGGLED"
	MessageTypeCommentCreated MessageType = "COMMENT_CREATED"
	MessageTypeCommentDeleted MessageType = "COMMENT_DELETED"
	MessageTypeError          MessageType = "ERROR"
)

type Message struct {
	Type      MessageType     `json:"type"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"`
	Seq       uint64          `json:"seq,omitempty"`
}

func NewMessage(msgType MessageType, payload interface{}) (*Message, error) {
	payloadBytes, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return &Message{
		Type:      msgType,
		Payload:   payloadBytes,
		Timestamp: time.Now().UnixMilli(),
	}, nil
}

// Server to Client payloads

type WelcomePayload struct {
	UserID  uuid.UUID `json:"userId"`
	Clients int       `json:"clients"`
}

type PostDeletedPayload struct {
	PostID uuid.UUID `json:"postId"`
}

type LikeToggledPayload struct {
	PostID     uuid.UUID `json:"postId"`
	UserID     uuid.UUID `json:"userId"`
	Liked      bool      `json:"liked"`
	LikesCount int       `json:"likesCount"`
}

type CommentDeletedPayload struct {
	CommentID uuid.UUID `json:"commentId"`
	PostID    uuid.UUID `json:"postId"`
	Deleted   int64     `json:"deleted"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
