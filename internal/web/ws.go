package web

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const wsIdlePingInterval = 30 * time.Second

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// ws streams the JSON game state: once on connect and after every move.
// Clients may send {"type":"request_state"} to get the current state again.
func (h *handlers) ws(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := h.svc.Get(id); !ok {
		http.NotFound(w, r)
		return
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Debug().Err(err).Str("game", id).Msg("ws-upgrade")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	updates, unsub := h.svc.Subscribe(ctx, id)
	defer unsub()

	send := make(chan []byte, 16)
	requests := make(chan struct{}, 1)
	go func() {
		defer cancel()
		for {
			_, message, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var msg wsMessage
			if err := json.Unmarshal(message, &msg); err != nil {
				continue
			}
			if msg.Type == "request_state" {
				select {
				case requests <- struct{}{}:
				default:
				}
			}
		}
	}()

	writeErr := make(chan error, 1)
	go func() { writeErr <- writeWSWithHeartbeat(conn, send) }()

	push := func() bool {
		gs, ok := h.svc.Get(id)
		if !ok {
			return false
		}
		payload, err := json.Marshal(newStateDTO(*gs, h.labels))
		if err != nil {
			h.log.Error().Err(err).Str("game", id).Msg("ws-encode")
			return false
		}
		data, _ := json.Marshal(wsMessage{Type: "state", Payload: payload})
		select {
		case send <- data:
		default:
		}
		return true
	}

	push()
	defer close(send)
	for {
		select {
		case <-ctx.Done():
			return
		case err := <-writeErr:
			if err != nil {
				h.log.Debug().Err(err).Str("game", id).Msg("ws-write")
			}
			return
		case <-requests:
			if !push() {
				return
			}
		case _, ok := <-updates:
			if !ok || !push() {
				return
			}
		}
	}
}

func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte) error {
	ticker := time.NewTicker(wsIdlePingInterval)
	defer ticker.Stop()
	lastWrite := time.Now()
	ping, _ := json.Marshal(wsMessage{Type: "ping"})

	for {
		select {
		case msg, ok := <-send:
			if !ok {
				return nil
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return err
			}
			lastWrite = time.Now()
		case <-ticker.C:
			if time.Since(lastWrite) < wsIdlePingInterval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, ping); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
