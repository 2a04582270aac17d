package main

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

const sessionHeader = "X-Game-Session"

type api struct {
	sessions *SessionStore
	hub      *Hub
	logger   zerolog.Logger
}

type moveRequest struct {
	PieceID      string `json:"piece_id"`
	TargetSquare string `json:"target_square"`
}

type promoteRequest struct {
	PieceID       string `json:"piece_id"`
	PromotionType string `json:"promotion_type"`
}

func newRouter(a *api) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/api/ping", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
	})
	r.Get("/api/config", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, GetConfig())
	})
	r.Post("/api/config", a.handleConfigUpdate)

	r.Route("/chess", func(r chi.Router) {
		r.Post("/initialize", a.handleInitialize)
		r.Get("/board", a.handleBoard)
		r.Post("/move", a.handleMove)
		r.Get("/moves/{pieceId}", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, a.controller(r).LegalMovesFor(chi.URLParam(r, "pieceId")))
		})
		r.Get("/ai-move", a.handleAIMove)
		r.Post("/ai-move", a.handleAIMove)
		r.Get("/hint", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, a.controller(r).Hint(r.Context()))
		})
		r.Get("/status", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, a.controller(r).Status())
		})
		r.Post("/promote", a.handlePromote)
	})

	r.Get("/ws/", func(w http.ResponseWriter, r *http.Request) {
		serveWS(a, w, r)
	})
	return r
}

func (a *api) controller(r *http.Request) *GameController {
	return a.sessions.Get(sessionID(r))
}

// sessionID reads the session header, falling back to a query parameter
// for clients such as browsers' websockets that cannot set headers.
func sessionID(r *http.Request) string {
	if id := r.Header.Get(sessionHeader); id != "" {
		return id
	}
	if id := r.URL.Query().Get("session"); id != "" {
		return id
	}
	return defaultSessionID
}

func (a *api) handleInitialize(w http.ResponseWriter, r *http.Request) {
	var payload initializeRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	settings, err := payload.settings(DefaultGameSettings(a.sessions.Config()))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusCreated, a.controller(r).Initialize(settings))
}

func (a *api) handleBoard(w http.ResponseWriter, r *http.Request) {
	controller := a.controller(r)
	if match := r.Header.Get("If-None-Match"); match != "" && match == controller.ETag() {
		w.Header().Set("ETag", match)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	snapshot, etag := controller.SnapshotWithETag()
	w.Header().Set("ETag", etag)
	writeJSON(w, http.StatusOK, snapshot)
}

func (a *api) handleMove(w http.ResponseWriter, r *http.Request) {
	var payload moveRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	writeJSON(w, http.StatusOK, a.controller(r).Move(payload.PieceID, payload.TargetSquare))
}

func (a *api) handleAIMove(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.controller(r).AIMove(r.Context()))
}

func (a *api) handlePromote(w http.ResponseWriter, r *http.Request) {
	var payload promoteRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	writeJSON(w, http.StatusOK, a.controller(r).Promote(payload.PieceID, payload.PromotionType))
}

// handleConfigUpdate overlays the posted fields on the current config.
// Running games keep their rules; new sessions pick the change up.
func (a *api) handleConfigUpdate(w http.ResponseWriter, r *http.Request) {
	cfg := GetConfig()
	if err := decodeJSON(r, &cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid payload"})
		return
	}
	if err := configStore.Update(cfg); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}
	applyLogLevel(cfg)
	a.sessions.Configure(cfg)
	a.hub.PublishConfig(cfg)
	a.logger.Info().Int("ai_depth", cfg.AiDepth).Int("ai_timeout_ms", cfg.AiTimeoutMs).Msg("config updated")
	writeJSON(w, http.StatusOK, cfg)
}

func serveWS(a *api, w http.ResponseWriter, r *http.Request) {
	upgrader := websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	session := sessionID(r)
	controller := a.sessions.Get(session)
	client := &Client{hub: a.hub, session: session, send: make(chan []byte, 16)}
	a.hub.Register(client)

	sendStatus := func() {
		client.sendJSON(wsMessage{Type: "status", Payload: mustMarshal(sessionStatusPayload{
			Session: session,
			Status:  controller.Status(),
		})})
	}
	sendStatus()

	interval := wsPingInterval(GetConfig())
	go func() {
		defer conn.Close()
		if err := writeWSWithHeartbeat(conn, client.send, interval); err != nil {
			a.logger.Debug().Err(err).Str("session", session).Msg("websocket write failed")
		}
	}()

	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			a.hub.Unregister(client)
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(message, &msg); err != nil {
			continue
		}
		switch msg.Type {
		case "request_status":
			sendStatus()
		}
	}
}

// decodeJSON treats an empty body as an empty object.
func decodeJSON(r *http.Request, v any) error {
	err := json.NewDecoder(r.Body).Decode(v)
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
