package main

import (
	"encoding/json"
	"fmt"
)

type PieceDTO struct {
	Type  string `json:"type"`
	Color string `json:"color"`
	ID    string `json:"id"`
}

type GameSettingsDTO struct {
	AIEnabled   bool   `json:"ai_enabled"`
	HumanSide   string `json:"human_side"`
	SearchDepth int    `json:"search_depth"`
}

type historyEntryDTO struct {
	From       string    `json:"from"`
	To         string    `json:"to"`
	Piece      PieceDTO  `json:"piece"`
	Captured   *PieceDTO `json:"captured"`
	Side       string    `json:"side"`
	ElapsedMs  float64   `json:"elapsed_ms"`
	IsAI       bool      `json:"is_ai"`
	Depth      int       `json:"depth"`
	Score      int       `json:"score"`
	Degraded   bool      `json:"degraded"`
	PromotedTo string    `json:"promoted_to,omitempty"`
}

// GameSnapshot is the full client-facing view of one game.
type GameSnapshot struct {
	Board          [boardSize][boardSize]*PieceDTO `json:"board"`
	SideToMove     string                          `json:"side_to_move"`
	Status         string                          `json:"status"`
	GameOver       bool                            `json:"game_over"`
	Winner         string                          `json:"winner"`
	InCheck        bool                            `json:"in_check"`
	CapturedPieces []PieceDTO                      `json:"captured_pieces"`
	FEN            string                          `json:"fen"`
	Hash           string                          `json:"hash"`
	Settings       GameSettingsDTO                 `json:"settings"`
	History        []historyEntryDTO               `json:"history"`
}

type StatusSnapshot struct {
	SideToMove     string     `json:"side_to_move"`
	Terminal       bool       `json:"terminal"`
	Status         string     `json:"status"`
	Winner         string     `json:"winner"`
	InCheck        bool       `json:"in_check"`
	CapturedPieces []PieceDTO `json:"captured_pieces"`
	MoveCount      int        `json:"move_count"`
	Hash           string     `json:"hash"`
}

func pieceToDTO(p Piece) PieceDTO {
	return PieceDTO{Type: p.Kind.String(), Color: p.Side.String(), ID: p.ID}
}

func piecePtrToDTO(p Piece) *PieceDTO {
	if p.IsEmpty() {
		return nil
	}
	dto := pieceToDTO(p)
	return &dto
}

func capturedToDTO(captured []Piece) []PieceDTO {
	result := make([]PieceDTO, 0, len(captured))
	for _, p := range captured {
		result = append(result, pieceToDTO(p))
	}
	return result
}

func settingsToDTO(settings GameSettings) GameSettingsDTO {
	return GameSettingsDTO{
		AIEnabled:   settings.AIEnabled,
		HumanSide:   settings.HumanSide.String(),
		SearchDepth: settings.SearchDepth,
	}
}

type initializeRequest struct {
	AIEnabled   *bool  `json:"ai_enabled"`
	HumanSide   string `json:"human_side"`
	SearchDepth int    `json:"search_depth"`
}

// settings overlays the request on base; omitted fields keep base's value.
func (req initializeRequest) settings(base GameSettings) (GameSettings, error) {
	settings := base
	if req.AIEnabled != nil {
		settings.AIEnabled = *req.AIEnabled
	}
	if req.HumanSide != "" {
		side, err := ParseSide(req.HumanSide)
		if err != nil {
			return base, err
		}
		settings.HumanSide = side
	}
	if req.SearchDepth != 0 {
		settings.SearchDepth = req.SearchDepth
	}
	return settings.normalized(), nil
}

// winnerString reports "white"/"black" on checkmate, "draw" on stalemate
// and "" while the game is running.
func winnerString(state *GameState) string {
	switch state.Status {
	case StatusCheckmate:
		return state.Winner.String()
	case StatusStalemate:
		return "draw"
	default:
		return ""
	}
}

func hashString(hash uint64) string {
	return fmt.Sprintf("%016x", hash)
}

func historyEntryToDTO(entry HistoryEntry) historyEntryDTO {
	dto := historyEntryDTO{
		From:      SquareToAlgebraic(entry.From),
		To:        SquareToAlgebraic(entry.To),
		Piece:     pieceToDTO(entry.Piece),
		Captured:  piecePtrToDTO(entry.Captured),
		Side:      entry.Side.String(),
		ElapsedMs: entry.ElapsedMs,
		IsAI:      entry.IsAI,
		Depth:     entry.Depth,
		Score:     entry.Score,
		Degraded:  entry.Degraded,
	}
	if entry.PromotedTo != KindNone {
		dto.PromotedTo = entry.PromotedTo.String()
	}
	return dto
}

func historyToDTO(history MoveHistory) []historyEntryDTO {
	entries := history.All()
	result := make([]historyEntryDTO, 0, len(entries))
	for _, entry := range entries {
		result = append(result, historyEntryToDTO(entry))
	}
	return result
}

func mustMarshal(v any) json.RawMessage {
	data, _ := json.Marshal(v)
	return data
}
