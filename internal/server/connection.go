package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/coder/quartz"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Spectators only send control frames and close requests.
	maxMessageSize = 512

	sendBuffer = 64
)

// Spectator is one read-only websocket client.
type Spectator struct {
	conn       *websocket.Conn
	send       chan []byte
	done       chan struct{}
	closeOnce  sync.Once
	clock      quartz.Clock
	pingPeriod time.Duration
	logger     zerolog.Logger
}

func newSpectator(conn *websocket.Conn, clock quartz.Clock, ping time.Duration, logger zerolog.Logger) *Spectator {
	return &Spectator{
		conn:       conn,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
		clock:      clock,
		pingPeriod: ping,
		logger:     logger.With().Str("remote", conn.RemoteAddr().String()).Logger(),
	}
}

// Start begins handling the connection
func (sp *Spectator) Start() {
	go sp.writePump()
	go sp.readPump()
}

// Send queues data without blocking. It reports false when the buffer is
// full or the spectator is gone.
func (sp *Spectator) Send(data []byte) bool {
	select {
	case <-sp.done:
		return false
	default:
	}

	select {
	case sp.send <- data:
		return true
	default:
		return false
	}
}

// Done is closed once the spectator has disconnected.
func (sp *Spectator) Done() <-chan struct{} {
	return sp.done
}

// RemoteAddr is the peer address.
func (sp *Spectator) RemoteAddr() string {
	return sp.conn.RemoteAddr().String()
}

// Close disconnects the spectator. It is safe to call more than once.
func (sp *Spectator) Close() {
	sp.closeOnce.Do(func() {
		close(sp.done)
	})
}

// readPump discards everything but control frames and notices disconnects.
func (sp *Spectator) readPump() {
	defer sp.Close()

	sp.conn.SetReadLimit(maxMessageSize)
	_ = sp.conn.SetReadDeadline(time.Now().Add(pongWait))
	sp.conn.SetPongHandler(func(string) error {
		_ = sp.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := sp.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				sp.logger.Debug().Err(err).Msg("Spectator read failed")
			}
			return
		}
		sp.sendError("read_only", "Spectators cannot act on the table")
	}
}

func (sp *Spectator) sendError(code, message string) {
	msg, err := NewMessage(MessageTypeError, ErrorData{Code: code, Message: message}, sp.clock.Now())
	if err != nil {
		sp.logger.Error().Err(err).Msg("Failed to create error message")
		return
	}
	data, err := json.Marshal(msg)
	if err != nil {
		sp.logger.Error().Err(err).Msg("Failed to encode error message")
		return
	}
	_ = sp.Send(data) // Ignore send errors during error handling
}

// writePump is the only writer on the connection.
func (sp *Spectator) writePump() {
	ticker := sp.clock.NewTicker(sp.pingPeriod, "spectator", "ping")
	defer func() {
		ticker.Stop()
		_ = sp.conn.Close() // Ignore close errors during cleanup
		sp.Close()
	}()

	for {
		select {
		case data := <-sp.send:
			_ = sp.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sp.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				sp.logger.Debug().Err(err).Msg("Failed to write message")
				return
			}

		case <-ticker.C:
			_ = sp.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := sp.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-sp.done:
			_ = sp.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = sp.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseGoingAway, "table closed"))
			return
		}
	}
}
