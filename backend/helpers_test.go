package main

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func testConfig() Config {
	cfg := DefaultConfig()
	cfg.LogPretty = false
	cfg.AiTimeoutMs = 0
	return cfg
}

func stateFromFEN(t *testing.T, fen string) GameState {
	t.Helper()
	board, toMove, err := BoardFromFEN(fen)
	require.NoError(t, err)
	return GameState{Board: board, ToMove: toMove, Winner: White}
}

// newTestGame starts a game on fen, or on the standard setup when fen is
// empty.
func newTestGame(t *testing.T, fen string, settings GameSettings) *Game {
	t.Helper()
	g := NewGame(settings, testConfig(), zerolog.Nop())
	if fen != "" {
		g.state = stateFromFEN(t, fen)
		g.rules.EvaluateStatus(&g.state)
	}
	return &g
}

func humanVsHuman() GameSettings {
	settings := DefaultGameSettings(testConfig())
	settings.AIEnabled = false
	settings.SearchDepth = 1
	return settings
}

func sq(t *testing.T, algebraic string) Square {
	t.Helper()
	square, err := AlgebraicToSquare(algebraic)
	require.NoError(t, err)
	return square
}

func mustMove(t *testing.T, g *Game, pieceID, target string) MoveResult {
	t.Helper()
	result := g.Move(pieceID, target)
	require.Truef(t, result.Success, "move %s -> %s rejected: %s", pieceID, target, result.Message)
	return result
}
