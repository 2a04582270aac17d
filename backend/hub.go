package main

import (
	"encoding/json"
	"sync"
)

// Hub fans game events out to the websocket clients watching each session.
type Hub struct {
	mu              sync.Mutex
	clients         map[*Client]struct{}
	broadcastStatus chan sessionStatusPayload
	broadcastConfig chan Config
}

type Client struct {
	hub     *Hub
	session string
	send    chan []byte
}

type wsMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type sessionStatusPayload struct {
	Session string         `json:"session"`
	Status  StatusSnapshot `json:"status"`
}

func NewHub() *Hub {
	return &Hub{
		clients:         make(map[*Client]struct{}),
		broadcastStatus: make(chan sessionStatusPayload, 32),
		broadcastConfig: make(chan Config, 8),
	}
}

func (h *Hub) Run(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case payload := <-h.broadcastStatus:
			msg := wsMessage{Type: "status", Payload: mustMarshal(payload)}
			h.mu.Lock()
			for client := range h.clients {
				if client.session == payload.Session {
					client.sendJSON(msg)
				}
			}
			h.mu.Unlock()
		case cfg := <-h.broadcastConfig:
			msg := wsMessage{Type: "config", Payload: mustMarshal(cfg)}
			h.mu.Lock()
			for client := range h.clients {
				client.sendJSON(msg)
			}
			h.mu.Unlock()
		}
	}
}

// PublishStatus never blocks the game; a full queue drops the update and
// clients catch up on the next one.
func (h *Hub) PublishStatus(session string, status StatusSnapshot) {
	select {
	case h.broadcastStatus <- sessionStatusPayload{Session: session, Status: status}:
	default:
	}
}

func (h *Hub) PublishConfig(cfg Config) {
	select {
	case h.broadcastConfig <- cfg:
	default:
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = struct{}{}
	h.mu.Unlock()
}

func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	h.mu.Unlock()
}

func (c *Client) sendJSON(msg wsMessage) {
	data, err := json.Marshal(msg)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}
