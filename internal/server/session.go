// Package server runs the websocket endpoint, the fixed 10 ms tick timer
// and the broadcast pipeline on top of the world simulation.
package server

import (
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Session is one connected client. The snake-side fields (SnakeID, skin,
// name, death timestamp) are guarded by the server's simulation lock; the
// write mutex only serializes socket writes.
type Session struct {
	ID string
	ws *websocket.Conn

	writeMu sync.Mutex
	closed  bool

	ProtocolVersion uint8

	// 0 means not spawned; such sessions receive no game broadcasts.
	SnakeID uint16

	// Wall-clock ms of the death transition, 0 while alive. A non-zero
	// value suppresses game traffic until the delayed close fires.
	DeathTimestamp int64

	// Last inbound message time, used for the client-time delta header.
	// Atomic: the read goroutine stamps it, the tick goroutine reads it.
	lastMessageAt atomic.Int64

	Skin           uint8
	Name           string
	CustomSkinData []byte

	// Free-text blurb from the victory packet, echoed in logs only.
	Message string
}

// NewSession wraps an upgraded websocket connection.
func NewSession(ws *websocket.Conn, now int64) *Session {
	s := &Session{
		ID: uuid.New().String(),
		ws: ws,
	}
	s.lastMessageAt.Store(now)
	return s
}

// Modern reports whether the client negotiated the sector-relative dialect.
func (s *Session) Modern() bool { return s.ProtocolVersion >= 25 }

// Touch stamps the last inbound message time.
func (s *Session) Touch(now int64) { s.lastMessageAt.Store(now) }

// Send patches the client-time delta into the packet header and writes it as
// one binary message. The packet buffer may be shared between sessions; the
// caller serializes sends, so patching in place is safe.
func (s *Session) Send(pkt []byte, now int64) error {
	delta := now - s.lastMessageAt.Load()
	if delta < 0 {
		delta = 0
	} else if delta > 0xffff {
		delta = 0xffff
	}
	pkt[0] = byte(delta >> 8)
	pkt[1] = byte(delta)

	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return nil
	}
	return s.ws.WriteMessage(websocket.BinaryMessage, pkt)
}

// Close sends a close frame with the given status and tears the socket down.
// Safe to call more than once.
func (s *Session) Close(code int) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	msg := websocket.FormatCloseMessage(code, "")
	s.ws.WriteMessage(websocket.CloseMessage, msg)
	s.ws.Close()
}
