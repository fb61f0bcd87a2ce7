package server

import (
	"encoding/json"
	"time"

	"github.com/lox/blackjack/internal/game"
)

// MessageType identifies the payload of a Message.
type MessageType string

const (
	// MessageTypeSnapshot carries a game.Snapshot.
	MessageTypeSnapshot MessageType = "snapshot"
	// MessageTypeError carries ErrorData.
	MessageTypeError MessageType = "error"
)

// Message is the envelope of everything written to a spectator.
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// NewMessage wraps data in an envelope stamped with now.
func NewMessage(messageType MessageType, data any, now time.Time) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: now,
	}, nil
}

// Snapshot decodes the payload of a snapshot message.
func (m *Message) Snapshot() (game.Snapshot, error) {
	var snap game.Snapshot
	err := json.Unmarshal(m.Data, &snap)
	return snap, err
}
