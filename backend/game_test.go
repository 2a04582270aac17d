package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playFoolsMate(t *testing.T, g *Game) MoveResult {
	t.Helper()
	mustMove(t, g, "pawn_6_5", "f3")
	mustMove(t, g, "pawn_1_4", "e5")
	mustMove(t, g, "pawn_6_6", "g4")
	return mustMove(t, g, "queen_0_3", "h4")
}

func TestFoolsMate(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	result := playFoolsMate(t, g)

	require.NotNil(t, result.State)
	assert.True(t, result.State.GameOver)
	assert.Equal(t, "checkmate", result.State.Status)
	assert.Equal(t, "black", result.State.Winner)
	assert.True(t, result.State.InCheck)
	assert.Equal(t, StatusCheckmate, g.state.Status)
	assert.Equal(t, Black, g.state.Winner)
	assert.Equal(t, 4, g.History().Size())

	// Terminal is sticky: nothing moves afterwards.
	before := g.State()
	rejected := g.Move("pawn_6_0", "a3")
	assert.False(t, rejected.Success)
	assert.Equal(t, FailureGameOver, rejected.Failure)
	assert.Equal(t, FailureGameOver, g.AIMove(context.Background()).Failure)
	assert.Equal(t, FailureGameOver, g.Hint(context.Background()).Failure)
	assert.Equal(t, before, g.State())
}

func TestMoveRejections(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	before := g.State()
	etag := g.ETag()

	tests := []struct {
		name    string
		piece   string
		target  string
		failure FailureKind
		message string
	}{
		{"unknown piece", "dragon_3_3", "e4", FailureNotFound, "Piece not found"},
		{"bad square", "pawn_6_4", "z9", FailureInvalidSquare, "Invalid target square"},
		{"opponent piece", "pawn_1_4", "e5", FailureTurnViolation, "Invalid move - not your turn"},
		{"pawn triple step", "pawn_6_4", "e5", FailureIllegalMove, "Invalid move - against chess rules"},
		{"rook through pawn", "rook_7_0", "a4", FailureIllegalMove, "Invalid move - against chess rules"},
		{"same square", "pawn_6_4", "e2", FailureIllegalMove, "Invalid move - against chess rules"},
		{"onto own piece", "knight_7_1", "d2", FailureIllegalMove, "Invalid move - against chess rules"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := g.Move(tt.piece, tt.target)
			assert.False(t, result.Success)
			assert.Equal(t, tt.failure, result.Failure)
			assert.Equal(t, tt.message, result.Message)
			assert.Nil(t, result.State)
		})
	}
	assert.Equal(t, before, g.State())
	assert.Equal(t, etag, g.ETag())
	assert.Zero(t, g.History().Size())
}

func TestMoveIntoCheckRejected(t *testing.T) {
	g := newTestGame(t, "4k3/8/8/8/8/4r3/4N3/4K3 w - - 0 1", humanVsHuman())
	result := g.Move("knight_6_4", "c3")
	assert.Equal(t, FailureIllegalMove, result.Failure)
	assert.Equal(t, "Invalid move - would leave king in check", result.Message)

	result = g.Move("king_7_4", "e2")
	assert.Equal(t, FailureIllegalMove, result.Failure)
}

func TestCaptureBookkeeping(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	mustMove(t, g, "pawn_6_4", "e4")
	mustMove(t, g, "pawn_1_3", "d5")
	result := mustMove(t, g, "pawn_6_4", "d5")

	assert.Equal(t, "Captured black pawn", result.Message)
	require.NotNil(t, result.Capture)
	assert.Equal(t, "d5", result.Capture.Square)
	assert.Equal(t, PieceDTO{Type: "pawn", Color: "black", ID: "pawn_1_3"}, result.Capture.Piece)

	state := g.State()
	require.Len(t, state.Captured, 1)
	assert.Equal(t, Piece{Kind: Pawn, Side: Black, ID: "pawn_1_3"}, state.Captured[0])
	assert.Equal(t, Piece{Kind: Pawn, Side: White, ID: "pawn_6_4"}, state.Board.At(sq(t, "d5")))
	assert.Equal(t, 15, state.Board.Count(Black))
	assert.Equal(t, []PieceDTO{{Type: "pawn", Color: "black", ID: "pawn_1_3"}}, result.State.CapturedPieces)

	last, ok := g.History().Last()
	require.True(t, ok)
	assert.Equal(t, Pawn, last.Captured.Kind)
	assert.False(t, last.IsAI)
}

func TestLegalMovesFor(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	assert.ElementsMatch(t, []Square{sq(t, "a3"), sq(t, "c3")}, g.LegalMovesFor("knight_7_1").Moves)
	assert.ElementsMatch(t, []Square{sq(t, "e3"), sq(t, "e4")}, g.LegalMovesFor("pawn_6_4").Moves)
	// The opponent's pieces can be inspected too.
	assert.ElementsMatch(t, []Square{sq(t, "f6"), sq(t, "h6")}, g.LegalMovesFor("knight_0_6").Moves)

	missing := g.LegalMovesFor("dragon_0_0")
	assert.NotNil(t, missing.Moves)
	assert.Empty(t, missing.Moves)
}

func TestAIMoveRespectsHumanSide(t *testing.T) {
	settings := DefaultGameSettings(testConfig())
	settings.SearchDepth = 1
	g := newTestGame(t, "", settings)

	result := g.AIMove(context.Background())
	assert.False(t, result.Success)
	assert.Equal(t, FailureTurnViolation, result.Failure)
	assert.Zero(t, g.History().Size())

	mustMove(t, g, "pawn_6_4", "e4")
	result = g.AIMove(context.Background())
	require.True(t, result.Success, result.Message)
	require.NotNil(t, result.Move)
	require.NotNil(t, result.SearchInfo)
	assert.Equal(t, 1, result.SearchInfo.Depth)
	assert.False(t, result.SearchInfo.Degraded)
	assert.Equal(t, White, g.state.ToMove)

	last, ok := g.History().Last()
	require.True(t, ok)
	assert.True(t, last.IsAI)
	assert.Equal(t, Black, last.Side)
}

func TestAIMovePlaysEitherSideWhenDisabled(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	for i := 0; i < 4; i++ {
		result := g.AIMove(context.Background())
		require.True(t, result.Success, result.Message)
	}
	assert.Equal(t, 4, g.History().Size())
}

func TestAIMoveWithoutMoves(t *testing.T) {
	// The position is stalemate, but the status was never evaluated.
	g := newTestGame(t, "", humanVsHuman())
	g.state = stateFromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	result := g.AIMove(context.Background())
	assert.Equal(t, FailureNoMovesAvailable, result.Failure)
	assert.Equal(t, "No valid AI move found", result.Message)
}

func TestAICapturesAndReports(t *testing.T) {
	settings := humanVsHuman()
	g := newTestGame(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", settings)
	result := g.AIMove(context.Background())
	require.True(t, result.Success)
	assert.Equal(t, "AI captured black queen", result.Message)
	assert.Equal(t, &SquarePair{From: "e4", To: "d5"}, result.Move)
	require.NotNil(t, result.Capture)
	assert.Equal(t, "queen", result.Capture.Piece.Type)
}

func TestHintDoesNotMove(t *testing.T) {
	settings := DefaultGameSettings(testConfig())
	settings.SearchDepth = 1
	g := newTestGame(t, "4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1", settings)
	before := g.State()

	result := g.Hint(context.Background())
	require.True(t, result.Success)
	assert.Equal(t, "Hint available", result.Message)
	assert.Equal(t, &Hint{From: "e4", To: "d5", Score: result.Hint.Score, PieceType: "pawn"}, result.Hint)
	assert.Equal(t, before, g.State())
	assert.Zero(t, g.History().Size())
}

func TestInitializeResets(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	mustMove(t, g, "pawn_6_4", "e4")
	etag := g.ETag()

	settings := DefaultGameSettings(testConfig())
	settings.HumanSide = Black
	settings.SearchDepth = -2
	result := g.Initialize(settings)
	assert.True(t, result.Success)
	assert.Equal(t, "Game initialized successfully", result.Message)
	require.NotNil(t, result.State)
	assert.Equal(t, startFEN, result.State.FEN)
	assert.Equal(t, "black", result.State.Settings.HumanSide)
	assert.Equal(t, 1, result.State.Settings.SearchDepth)
	assert.Empty(t, result.State.History)
	assert.NotEqual(t, etag, g.ETag())
}

func TestETagTracksVisibleChanges(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	first := g.ETag()
	assert.Equal(t, first, g.ETag())

	mustMove(t, g, "knight_7_6", "f3")
	mustMove(t, g, "knight_0_6", "f6")
	mustMove(t, g, "knight_7_6", "g1")
	mustMove(t, g, "knight_0_6", "g8")

	// Same position, different history.
	start := DefaultGameState()
	assert.Equal(t, PositionHash(&start), g.Hash())
	assert.NotEqual(t, first, g.ETag())
}

func TestSnapshotBoard(t *testing.T) {
	g := newTestGame(t, "", humanVsHuman())
	snapshot := g.Snapshot()
	assert.Equal(t, &PieceDTO{Type: "king", Color: "white", ID: "king_7_4"}, snapshot.Board[7][4])
	assert.Nil(t, snapshot.Board[4][4])
	assert.Equal(t, "white", snapshot.SideToMove)
	assert.Equal(t, "ongoing", snapshot.Status)
	assert.Equal(t, "", snapshot.Winner)
	assert.Equal(t, hashString(g.Hash()), snapshot.Hash)

	status := g.Status()
	assert.False(t, status.Terminal)
	assert.Zero(t, status.MoveCount)
	assert.Equal(t, snapshot.Hash, status.Hash)
}
