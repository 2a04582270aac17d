package main

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

// AIPlayer runs searches on a worker goroutine so a caller can give up on
// a slow search and play a fallback move instead.
type AIPlayer struct {
	searcher   Searcher
	logger     zerolog.Logger
	logStats   bool
	mu         sync.Mutex
	workerDone chan struct{}
	thinking   atomic.Bool
	stopSignal atomic.Bool
}

type aiDecision struct {
	Result   SearchResult
	Stats    SearchStats
	Degraded bool
}

type searchOutcome struct {
	result SearchResult
	ok     bool
	stats  SearchStats
}

func NewAIPlayer(searcher Searcher, logger zerolog.Logger, logStats bool) *AIPlayer {
	return &AIPlayer{searcher: searcher, logger: logger, logStats: logStats}
}

func (a *AIPlayer) IsThinking() bool {
	return a.thinking.Load()
}

// ChooseMove searches state for side. If ctx ends first the running search
// is told to stop and the first move in search order is returned, marked
// degraded. ok is false only when side has no legal move.
func (a *AIPlayer) ChooseMove(ctx context.Context, state GameState, side Side, depth int, tag string) (aiDecision, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.workerDone != nil {
		<-a.workerDone
	}
	a.stopSignal.Store(false)
	a.thinking.Store(true)

	stateCopy := state.Clone()
	done := make(chan struct{})
	a.workerDone = done
	resultCh := make(chan searchOutcome, 1)
	go func() {
		defer close(done)
		defer a.thinking.Store(false)
		stats := &SearchStats{}
		result, ok := a.searcher.BestMove(stateCopy, side, SearchSettings{
			Depth:      depth,
			ShouldStop: func() bool { return a.stopSignal.Load() },
			Stats:      stats,
		})
		resultCh <- searchOutcome{result: result, ok: ok, stats: *stats}
	}()

	select {
	case outcome := <-resultCh:
		if a.logStats && outcome.ok {
			logSearchStats(a.logger, tag, side, &outcome.stats, outcome.result)
		}
		return aiDecision{Result: outcome.result, Stats: outcome.stats}, outcome.ok
	case <-ctx.Done():
		a.stopSignal.Store(true)
		start := time.Now()
		result, ok := a.searcher.FallbackMove(state, side)
		a.logger.Warn().
			Str("tag", tag).
			Str("side", side.String()).
			Int("depth", depth).
			Err(ctx.Err()).
			Msg("search deadline reached, playing fallback move")
		return aiDecision{
			Result:   result,
			Stats:    SearchStats{Start: start, Elapsed: time.Since(start)},
			Degraded: true,
		}, ok
	}
}

// Stop asks a running search to finish early and waits for it.
func (a *AIPlayer) Stop() {
	a.stopSignal.Store(true)
	a.mu.Lock()
	done := a.workerDone
	a.mu.Unlock()
	if done != nil {
		<-done
	}
}
