package main

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// GameController serialises every operation on one game.
type GameController struct {
	mu        sync.Mutex
	game      Game
	aiTimeout time.Duration
	publisher func(StatusSnapshot)
}

func NewGameController(settings GameSettings, cfg Config, logger zerolog.Logger) *GameController {
	return &GameController{
		game:      NewGame(settings, cfg, logger),
		aiTimeout: time.Duration(cfg.AiTimeoutMs) * time.Millisecond,
	}
}

// SetPublisher registers a callback fired with the new status after every
// state change. It runs with the controller locked and must not call back.
func (gc *GameController) SetPublisher(publisher func(StatusSnapshot)) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	gc.publisher = publisher
}

func (gc *GameController) publish() {
	if gc.publisher != nil {
		gc.publisher(gc.game.Status())
	}
}

func (gc *GameController) Initialize(settings GameSettings) InitializeResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	result := gc.game.Initialize(settings)
	gc.publish()
	return result
}

func (gc *GameController) Snapshot() GameSnapshot {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Snapshot()
}

func (gc *GameController) Move(pieceID, target string) MoveResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	result := gc.game.Move(pieceID, target)
	if result.Success {
		gc.publish()
	}
	return result
}

func (gc *GameController) LegalMovesFor(pieceID string) LegalMovesResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.LegalMovesFor(pieceID)
}

// AIMove plays the engine's move, falling back to a degraded move when the
// configured timeout runs out first.
func (gc *GameController) AIMove(ctx context.Context) AIMoveResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	ctx, cancel := gc.withDeadline(ctx)
	defer cancel()
	result := gc.game.AIMove(ctx)
	if result.Success {
		gc.publish()
	}
	return result
}

func (gc *GameController) Hint(ctx context.Context) HintResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	ctx, cancel := gc.withDeadline(ctx)
	defer cancel()
	return gc.game.Hint(ctx)
}

func (gc *GameController) Status() StatusSnapshot {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Status()
}

func (gc *GameController) Promote(pieceID, kind string) PromotionResult {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	result := gc.game.Promote(pieceID, kind)
	if result.Success {
		gc.publish()
	}
	return result
}

func (gc *GameController) State() GameState {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.State()
}

func (gc *GameController) Settings() GameSettings {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Settings()
}

func (gc *GameController) History() MoveHistory {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.History()
}

func (gc *GameController) ETag() string {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.ETag()
}

// SnapshotWithETag reads both under one lock so they always agree.
func (gc *GameController) SnapshotWithETag() (GameSnapshot, string) {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Snapshot(), gc.game.ETag()
}

func (gc *GameController) Hash() uint64 {
	gc.mu.Lock()
	defer gc.mu.Unlock()
	return gc.game.Hash()
}

// Stop waits for any search left running by an expired deadline.
func (gc *GameController) Stop() {
	gc.mu.Lock()
	ai := gc.game.ai
	gc.mu.Unlock()
	ai.Stop()
}

func (gc *GameController) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if gc.aiTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, gc.aiTimeout)
}
