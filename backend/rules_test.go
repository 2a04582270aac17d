package main

import (
	"sort"
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Positions without castling rights, en passant or pending promotions, so
// both reference generators agree with ours move for move.
var oraclePositions = []string{
	startFEN,
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR b - - 0 1",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w - - 0 1",
	"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R b - - 0 1",
	"4k3/8/8/8/8/8/4r3/4K3 w - - 0 1",
	"4k3/4r3/8/8/8/8/4K3/8 w - - 0 1",
	"4k3/8/8/8/8/4r3/4N3/4K3 w - - 0 1",
	"8/8/3k4/8/2B5/8/3K4/8 b - - 0 1",
	"r1b1k2r/ppp2ppp/2n2q2/3pp3/1b1PP3/2N2N2/PPPB1PPP/R2QKB1R w - - 0 1",
	"6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1",
	"R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1",
	"7k/5Q2/6K1/8/8/8/8/8 b - - 0 1",
}

func legalPairs(t *testing.T, fen string) []string {
	t.Helper()
	state := stateFromFEN(t, fen)
	searcher := NewSearcher(NewRules(DefaultConfig()), zerolog.Nop())
	pairs := []string{}
	for _, m := range searcher.GenerateMoves(&state, state.ToMove) {
		pairs = append(pairs, SquareToAlgebraic(m.From)+SquareToAlgebraic(m.To))
	}
	sort.Strings(pairs)
	return pairs
}

func TestLegalMovesMatchNotnilChess(t *testing.T) {
	for _, fen := range oraclePositions {
		t.Run(fen, func(t *testing.T) {
			opt, err := chess.FEN(fen)
			require.NoError(t, err)
			game := chess.NewGame(opt)
			expected := []string{}
			for _, m := range game.ValidMoves() {
				expected = append(expected, m.S1().String()+m.S2().String())
			}
			sort.Strings(expected)
			assert.Equal(t, expected, legalPairs(t, fen))
		})
	}
}

func TestLegalMoveCountsMatchDragontooth(t *testing.T) {
	for _, fen := range oraclePositions {
		t.Run(fen, func(t *testing.T) {
			board := dragontoothmg.ParseFen(fen)
			assert.Len(t, legalPairs(t, fen), len(board.GenerateLegalMoves()))
		})
	}
}

func TestKingCannotRetreatAlongCheckingLine(t *testing.T) {
	state := stateFromFEN(t, "4k3/4r3/8/8/8/8/4K3/8 w - - 0 1")
	king := sq(t, "e2")

	rules := NewRules(DefaultConfig())
	moves := rules.LegalMoves(&state.Board, king, nil)
	assert.NotContains(t, moves, sq(t, "e1"))
	assert.NotContains(t, moves, sq(t, "e3"))
	assert.Contains(t, moves, sq(t, "d1"))
	failure, reason := rules.ValidateMove(&state.Board, king, sq(t, "e1"))
	assert.Equal(t, FailureIllegalMove, failure)
	assert.Equal(t, "Invalid move - would leave king in check", reason)

	// Generation-time filtering alone only sees e1 through the king itself.
	cfg := DefaultConfig()
	cfg.RevalidateKingMoves = false
	legacy := NewRules(cfg)
	assert.Contains(t, legacy.LegalMoves(&state.Board, king, nil), sq(t, "e1"))
}

func TestPinnedPieceHasNoMoves(t *testing.T) {
	state := stateFromFEN(t, "4k3/8/8/8/8/4r3/4N3/4K3 w - - 0 1")
	rules := NewRules(DefaultConfig())
	knight := sq(t, "e2")

	assert.Empty(t, rules.LegalMoves(&state.Board, knight, nil))
	failure, reason := rules.ValidateMove(&state.Board, knight, sq(t, "c3"))
	assert.Equal(t, FailureIllegalMove, failure)
	assert.Equal(t, "Invalid move - would leave king in check", reason)

	failure, reason = rules.ValidateMove(&state.Board, knight, sq(t, "e4"))
	assert.Equal(t, FailureIllegalMove, failure)
	assert.Equal(t, "Invalid move - against chess rules", reason)
}

func TestLegalMovesNeverLeaveKingAttacked(t *testing.T) {
	rules := NewRules(DefaultConfig())
	for _, fen := range oraclePositions {
		state := stateFromFEN(t, fen)
		side := state.ToMove
		state.Board.Each(func(from Square, p Piece) {
			if p.Side != side {
				return
			}
			for _, to := range rules.LegalMoves(&state.Board, from, nil) {
				after := state.Clone()
				after.apply(from, to)
				assert.Falsef(t, IsKingInCheck(&after.Board, side), "%s: %s%s leaves king attacked", fen, from, to)
			}
		})
	}
}

func TestIsSquareAttacked(t *testing.T) {
	state := stateFromFEN(t, "4k3/8/8/3p4/8/8/8/R3K3 w - - 0 1")
	board := &state.Board

	// Pawns attack diagonally forward whether or not the square is occupied.
	assert.True(t, IsSquareAttacked(board, sq(t, "c4"), Black))
	assert.True(t, IsSquareAttacked(board, sq(t, "e4"), Black))
	assert.False(t, IsSquareAttacked(board, sq(t, "d4"), Black))

	assert.True(t, IsSquareAttacked(board, sq(t, "a8"), White))
	assert.True(t, IsSquareAttacked(board, sq(t, "d1"), White))
	assert.False(t, IsSquareAttacked(board, sq(t, "a1"), White), "a piece never attacks its own square")
	assert.False(t, IsKingInCheck(board, White))
	assert.False(t, IsKingInCheck(board, Black))
}

func TestWouldLeaveKingInCheckRestoresBoard(t *testing.T) {
	state := stateFromFEN(t, "4k3/8/8/8/8/4r3/4N3/4K3 w - - 0 1")
	before := state.Board
	assert.False(t, WouldLeaveKingInCheck(&state.Board, sq(t, "e2"), sq(t, "c3"), White))
	assert.True(t, WouldLeaveKingInCheck(&state.Board, sq(t, "e1"), sq(t, "d1"), White))
	assert.Equal(t, before, state.Board)
}

func TestPawnMoves(t *testing.T) {
	state := stateFromFEN(t, "4k3/8/8/8/3p4/2P1P3/P7/4K3 w - - 0 1")
	rules := NewRules(DefaultConfig())

	assert.ElementsMatch(t, []Square{sq(t, "a3"), sq(t, "a4")}, rules.LegalMoves(&state.Board, sq(t, "a2"), nil))
	assert.ElementsMatch(t, []Square{sq(t, "c4"), sq(t, "d4")}, rules.LegalMoves(&state.Board, sq(t, "c3"), nil))
	// Not on the start row: no double step.
	assert.ElementsMatch(t, []Square{sq(t, "e4"), sq(t, "d4")}, rules.LegalMoves(&state.Board, sq(t, "e3"), nil))

	blocked := stateFromFEN(t, "4k3/8/8/8/8/4p3/4P3/4K3 w - - 0 1")
	assert.Empty(t, rules.LegalMoves(&blocked.Board, sq(t, "e2"), nil))
}

func TestEvaluateStatus(t *testing.T) {
	rules := NewRules(DefaultConfig())
	tests := []struct {
		name   string
		fen    string
		status GameStatus
		winner string
	}{
		{"start", startFEN, StatusOngoing, ""},
		{"back rank mate", "R5k1/5ppp/8/8/8/8/8/6K1 b - - 0 1", StatusCheckmate, "white"},
		{"queen stalemate", "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1", StatusStalemate, "draw"},
		{"check with escape", "4k3/8/8/8/8/8/4r3/4K3 w - - 0 1", StatusOngoing, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := stateFromFEN(t, tt.fen)
			rules.EvaluateStatus(&state)
			assert.Equal(t, tt.status, state.Status)
			assert.Equal(t, tt.winner, winnerString(&state))
		})
	}
}
