package main

import "encoding/json"

// FailureKind tags why an operation was rejected. FailureNone means success.
type FailureKind int

const (
	FailureNone FailureKind = iota
	FailureNotFound
	FailureTurnViolation
	FailureIllegalMove
	FailureInvalidPromotion
	FailureNoMovesAvailable
	FailureGameOver
	FailureInvalidSquare
)

func (f FailureKind) String() string {
	switch f {
	case FailureNotFound:
		return "not_found"
	case FailureTurnViolation:
		return "turn_violation"
	case FailureIllegalMove:
		return "illegal_move"
	case FailureInvalidPromotion:
		return "invalid_promotion"
	case FailureNoMovesAvailable:
		return "no_moves_available"
	case FailureGameOver:
		return "game_over"
	case FailureInvalidSquare:
		return "invalid_square"
	default:
		return ""
	}
}

func (f FailureKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.String())
}

type CaptureInfo struct {
	Piece  PieceDTO `json:"piece"`
	Square string   `json:"square"`
}

type MoveResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Failure FailureKind   `json:"failure,omitempty"`
	Capture *CaptureInfo  `json:"capture"`
	State   *GameSnapshot `json:"game_state,omitempty"`
}

type SquarePair struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type SearchInfo struct {
	Depth     int   `json:"depth"`
	ElapsedMs int64 `json:"elapsed_ms"`
	Score     int   `json:"score"`
	Nodes     int64 `json:"nodes"`
	Degraded  bool  `json:"degraded"`
}

type AIMoveResult struct {
	Success    bool          `json:"success"`
	Message    string        `json:"message"`
	Failure    FailureKind   `json:"failure,omitempty"`
	Move       *SquarePair   `json:"move,omitempty"`
	Capture    *CaptureInfo  `json:"capture"`
	PromotedTo string        `json:"promoted_to,omitempty"`
	State      *GameSnapshot `json:"game_state,omitempty"`
	SearchInfo *SearchInfo   `json:"search_info,omitempty"`
}

type Hint struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Score     int    `json:"score"`
	PieceType string `json:"piece_type"`
}

type HintResult struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Failure FailureKind `json:"failure,omitempty"`
	Hint    *Hint       `json:"hint,omitempty"`
}

type PromotionResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	Failure FailureKind   `json:"failure,omitempty"`
	State   *GameSnapshot `json:"game_state,omitempty"`
}

type LegalMovesResult struct {
	Moves []Square `json:"moves"`
}

type InitializeResult struct {
	Success bool          `json:"success"`
	Message string        `json:"message"`
	State   *GameSnapshot `json:"game_state"`
}
