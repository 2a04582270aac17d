package main

import (
	"time"

	"github.com/gorilla/websocket"
)

const defaultWSPingInterval = 30 * time.Second

func wsPingInterval(cfg Config) time.Duration {
	if cfg.WsPingIntervalMs <= 0 {
		return defaultWSPingInterval
	}
	return time.Duration(cfg.WsPingIntervalMs) * time.Millisecond
}

// writeWSWithHeartbeat drains send into conn and writes a ping message
// whenever the connection has been idle for interval.
func writeWSWithHeartbeat(conn *websocket.Conn, send <-chan []byte, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	lastWrite := time.Now()
	pingPayload := mustMarshal(wsMessage{Type: "ping"})

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
			if time.Since(lastWrite) < interval {
				continue
			}
			if err := conn.WriteMessage(websocket.TextMessage, pingPayload); err != nil {
				return err
			}
			lastWrite = time.Now()
		}
	}
}
