package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// selfplay drives a running backend through complete engine-vs-engine
// games and reports how they ended. Each game uses its own session.
type selfplay struct {
	client       *http.Client
	baseURL      string
	logger       zerolog.Logger
	rng          *rand.Rand
	games        int
	depth        int
	openingPlies int
	maxPlies     int
}

type pieceDTO struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	ID    string `json:"id"`
}

type squareDTO struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

type boardResponse struct {
	Board      [8][8]*pieceDTO `json:"board"`
	SideToMove string          `json:"side_to_move"`
	GameOver   bool            `json:"game_over"`
	Winner     string          `json:"winner"`
	FEN        string          `json:"fen"`
}

type movesResponse struct {
	Moves []squareDTO `json:"moves"`
}

type moveResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Failure string `json:"failure"`
}

type aiMoveResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Failure    string `json:"failure"`
	SearchInfo *struct {
		ElapsedMs int64 `json:"elapsed_ms"`
		Degraded  bool  `json:"degraded"`
	} `json:"search_info"`
}

type gameOutcome struct {
	Winner   string
	Plies    int
	Degraded int
	FEN      string
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}).With().Timestamp().Logger()
	s := &selfplay{
		client:       &http.Client{Timeout: 60 * time.Second},
		baseURL:      getenv("BACKEND_URL", "http://localhost:8080"),
		logger:       logger,
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		games:        getenvInt("SELFPLAY_GAMES", 4),
		depth:        getenvInt("SELFPLAY_DEPTH", 2),
		openingPlies: getenvInt("SELFPLAY_OPENING_PLIES", 4),
		maxPlies:     getenvInt("SELFPLAY_MAX_PLIES", 200),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := s.waitBackendReady(ctx); err != nil {
		logger.Fatal().Err(err).Str("backend", s.baseURL).Msg("backend not reachable")
	}
	tally := map[string]int{}
	for i := 0; i < s.games; i++ {
		session := fmt.Sprintf("selfplay-%d-%d", time.Now().Unix(), i)
		outcome, err := s.playGame(ctx, session)
		if err != nil {
			logger.Error().Err(err).Str("session", session).Msg("game aborted")
			if ctx.Err() != nil {
				break
			}
			continue
		}
		winner := outcome.Winner
		if winner == "" {
			winner = "unfinished"
		}
		tally[winner]++
		logger.Info().
			Str("session", session).
			Str("result", winner).
			Int("plies", outcome.Plies).
			Int("degraded", outcome.Degraded).
			Str("fen", outcome.FEN).
			Msg("game finished")
	}
	logger.Info().
		Int("white", tally["white"]).
		Int("black", tally["black"]).
		Int("draw", tally["draw"]).
		Int("unfinished", tally["unfinished"]).
		Msg("selfplay done")
}

func (s *selfplay) playGame(ctx context.Context, session string) (gameOutcome, error) {
	settings := map[string]any{"ai_enabled": false, "search_depth": s.depth}
	if err := s.postJSON(session, "/chess/initialize", settings, nil); err != nil {
		return gameOutcome{}, err
	}
	var outcome gameOutcome
	for ply := 0; ply < s.maxPlies; ply++ {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		var board boardResponse
		if err := s.getJSON(session, "/chess/board", &board); err != nil {
			return outcome, err
		}
		outcome.FEN = board.FEN
		if board.GameOver {
			outcome.Winner = board.Winner
			return outcome, nil
		}
		if ply < s.openingPlies {
			if err := s.playRandomMove(session, board); err != nil {
				return outcome, err
			}
		} else {
			var resp aiMoveResponse
			if err := s.postJSON(session, "/chess/ai-move", map[string]any{}, &resp); err != nil {
				return outcome, err
			}
			if !resp.Success {
				return outcome, errors.Errorf("ai move rejected: %s (%s)", resp.Message, resp.Failure)
			}
			if resp.SearchInfo != nil && resp.SearchInfo.Degraded {
				outcome.Degraded++
			}
		}
		outcome.Plies++
	}
	return outcome, nil
}

// playRandomMove picks a random piece of the side to move that has at
// least one legal move and plays one of them.
func (s *selfplay) playRandomMove(session string, board boardResponse) error {
	var candidates []pieceDTO
	for _, row := range board.Board {
		for _, piece := range row {
			if piece != nil && piece.Color == board.SideToMove {
				candidates = append(candidates, *piece)
			}
		}
	}
	s.rng.Shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	for _, piece := range candidates {
		var moves movesResponse
		if err := s.getJSON(session, "/chess/moves/"+piece.ID, &moves); err != nil {
			return err
		}
		if len(moves.Moves) == 0 {
			continue
		}
		target := moves.Moves[s.rng.Intn(len(moves.Moves))]
		var resp moveResponse
		payload := map[string]string{"piece_id": piece.ID, "target_square": algebraic(target)}
		if err := s.postJSON(session, "/chess/move", payload, &resp); err != nil {
			return err
		}
		if !resp.Success {
			return errors.Errorf("random move rejected: %s (%s)", resp.Message, resp.Failure)
		}
		return nil
	}
	return errors.New("no piece with a legal move")
}

func algebraic(sq squareDTO) string {
	return fmt.Sprintf("%c%d", 'a'+sq.Col, 8-sq.Row)
}

func (s *selfplay) waitBackendReady(ctx context.Context) error {
	deadline := time.Now().Add(60 * time.Second)
	for time.Now().Before(deadline) {
		if err := s.getJSON("", "/api/ping", &map[string]bool{}); err == nil {
			return nil
		}
		if !sleepWithContext(ctx, time.Second) {
			return ctx.Err()
		}
	}
	return errors.New("timeout after 60s")
}

func (s *selfplay) getJSON(session, path string, out any) error {
	req, err := http.NewRequest(http.MethodGet, s.baseURL+path, nil)
	if err != nil {
		return errors.WithStack(err)
	}
	return s.do(session, req, out)
}

func (s *selfplay) postJSON(session, path string, payload any, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return errors.WithStack(err)
	}
	req, err := http.NewRequest(http.MethodPost, s.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return errors.WithStack(err)
	}
	req.Header.Set("Content-Type", "application/json")
	return s.do(session, req, out)
}

func (s *selfplay) do(session string, req *http.Request, out any) error {
	if session != "" {
		req.Header.Set("X-Game-Session", session)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "%s %s", req.Method, req.URL.Path)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Errorf("%s %s -> %d: %s", req.Method, req.URL.Path, resp.StatusCode, string(body))
	}
	if out == nil {
		return nil
	}
	return errors.WithStack(json.NewDecoder(resp.Body).Decode(out))
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	var parsed int
	if _, err := fmt.Sscanf(value, "%d", &parsed); err != nil || parsed <= 0 {
		return fallback
	}
	return parsed
}
