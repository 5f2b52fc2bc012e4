package handlers

import "github.com/dom/postgram/internal/websocket"

// Broadcaster publishes live events. *websocket.Hub implements it.
type Broadcaster interface {
	Broadcast(msgType websocket.MessageType, payload interface{})
}
