package main

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func newTestAIPlayer() *AIPlayer {
	return NewAIPlayer(newTestSearcher(), zerolog.Nop(), true)
}

func TestAIPlayerStopWithoutSearch(t *testing.T) {
	player := newTestAIPlayer()
	player.Stop()
	if player.IsThinking() {
		t.Fatalf("expected idle player")
	}
}

func TestAIPlayerChooseMoveCompletes(t *testing.T) {
	player := newTestAIPlayer()
	state := stateFromFEN(t, "6k1/5ppp/8/8/8/8/8/R5K1 w - - 0 1")

	decision, ok := player.ChooseMove(context.Background(), state, White, 2, "test")
	if !ok {
		t.Fatalf("expected a move")
	}
	if decision.Degraded {
		t.Fatalf("expected a full search")
	}
	if decision.Result.Score != MateScore {
		t.Fatalf("expected mate score, got %d", decision.Result.Score)
	}
	if decision.Stats.Nodes == 0 {
		t.Fatalf("expected search stats to be reported")
	}
	player.Stop()
	if player.IsThinking() {
		t.Fatalf("expected worker to be finished")
	}
}

func TestAIPlayerDeadlineFallsBack(t *testing.T) {
	player := newTestAIPlayer()
	defer player.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	decision, ok := player.ChooseMove(ctx, DefaultGameState(), White, maxSearchDepth, "test")
	if !ok {
		t.Fatalf("expected a fallback move")
	}
	if !decision.Degraded {
		t.Fatalf("expected degraded decision")
	}
	if decision.Result.Depth != 0 {
		t.Fatalf("expected fallback depth 0, got %d", decision.Result.Depth)
	}

	// The next search waits for the abandoned worker before starting.
	decision, ok = player.ChooseMove(context.Background(), DefaultGameState(), White, 1, "test")
	if !ok || decision.Degraded {
		t.Fatalf("expected a full search after the fallback, ok=%v degraded=%v", ok, decision.Degraded)
	}
}

func TestAIPlayerNoMoves(t *testing.T) {
	player := newTestAIPlayer()
	state := stateFromFEN(t, "7k/5Q2/6K1/8/8/8/8/8 b - - 0 1")
	if _, ok := player.ChooseMove(context.Background(), state, Black, 2, "test"); ok {
		t.Fatalf("expected no move for a stalemated side")
	}
}
