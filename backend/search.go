package main

import (
	"slices"
	"time"

	"github.com/rs/zerolog"
)

// MateScore is returned when the side to move has no legal move inside the
// search. Checkmate and stalemate are deliberately not told apart here.
const MateScore = 1_000_000_000

const searchInfinity = 2 * MateScore

type SearchMove struct {
	From     Square
	To       Square
	Piece    Piece
	Captured Piece
}

type SearchSettings struct {
	Depth           int
	DisablePruning  bool
	DisableOrdering bool
	ShouldStop      func() bool
	Stats           *SearchStats
}

type SearchStats struct {
	Nodes           int64
	LeafEvaluations int64
	Cutoffs         int64
	RootMoves       int
	Start           time.Time
	Elapsed         time.Duration
}

type SearchResult struct {
	Move  SearchMove
	Score int
	Depth int
}

type Searcher struct {
	rules  Rules
	logger zerolog.Logger
}

func NewSearcher(rules Rules, logger zerolog.Logger) Searcher {
	return Searcher{rules: rules, logger: logger}
}

// GenerateMoves lists every legal move of side, scanning the board in
// row-major order.
func (s Searcher) GenerateMoves(state *GameState, side Side) []SearchMove {
	moves := make([]SearchMove, 0, 40)
	var scratch [32]Square
	for i := range state.Board.cells {
		piece := state.Board.cells[i]
		if piece.IsEmpty() || piece.Side != side {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		for _, to := range s.rules.LegalMoves(&state.Board, from, scratch[:0]) {
			moves = append(moves, SearchMove{
				From:     from,
				To:       to,
				Piece:    piece,
				Captured: state.Board.At(to),
			})
		}
	}
	return moves
}

// orderMoves puts the most valuable captures first, then moves of the most
// valuable pieces. The sort is stable so equal keys keep generation order.
func orderMoves(moves []SearchMove) {
	slices.SortStableFunc(moves, func(a, b SearchMove) int {
		if a.Captured.Value() != b.Captured.Value() {
			return b.Captured.Value() - a.Captured.Value()
		}
		return b.Piece.Value() - a.Piece.Value()
	})
}

// BestMove searches depth plies ahead for side. White maximises, black
// minimises. The given state is never modified.
func (s Searcher) BestMove(state GameState, side Side, settings SearchSettings) (SearchResult, bool) {
	stats := settings.Stats
	if stats == nil {
		stats = &SearchStats{}
		settings.Stats = stats
	}
	stats.Start = time.Now()
	defer func() { stats.Elapsed = time.Since(stats.Start) }()

	depth := settings.Depth
	if depth < 1 {
		depth = 1
	}
	root := state.Clone()
	root.ToMove = side
	moves := s.GenerateMoves(&root, side)
	stats.RootMoves = len(moves)
	if len(moves) == 0 {
		return SearchResult{}, false
	}
	if !settings.DisableOrdering {
		orderMoves(moves)
	}

	alpha := -searchInfinity
	beta := searchInfinity
	bestScore := searchInfinity
	if side == White {
		bestScore = -searchInfinity
	}
	var best SearchMove
	found := false
	for i, move := range moves {
		if settings.ShouldStop != nil && settings.ShouldStop() {
			return SearchResult{}, false
		}
		child := root.Clone()
		child.apply(move.From, move.To)
		score := s.minimax(&child, depth-1, alpha, beta, side == Black, settings)
		if side == White {
			if score > bestScore {
				bestScore = score
				best = move
				found = true
				alpha = max(alpha, score)
			}
		} else {
			if score < bestScore {
				bestScore = score
				best = move
				found = true
				beta = min(beta, score)
			}
		}
		if !settings.DisablePruning && beta <= alpha {
			stats.Cutoffs++
			s.logger.Debug().Int("pruned", len(moves)-i-1).Msg("root cutoff")
			break
		}
	}
	if !found {
		return SearchResult{}, false
	}
	return SearchResult{Move: best, Score: bestScore, Depth: depth}, true
}

func (s Searcher) minimax(state *GameState, depth, alpha, beta int, maximizing bool, settings SearchSettings) int {
	if settings.ShouldStop != nil && settings.ShouldStop() {
		// The caller discards the result of a stopped search.
		return 0
	}
	if depth == 0 {
		settings.Stats.LeafEvaluations++
		return Evaluate(&state.Board)
	}
	settings.Stats.Nodes++

	side := Black
	if maximizing {
		side = White
	}
	moves := s.GenerateMoves(state, side)
	if len(moves) == 0 {
		if maximizing {
			return -MateScore
		}
		return MateScore
	}
	if !settings.DisableOrdering {
		orderMoves(moves)
	}

	if maximizing {
		best := -searchInfinity
		for _, move := range moves {
			child := state.Clone()
			child.apply(move.From, move.To)
			score := s.minimax(&child, depth-1, alpha, beta, false, settings)
			best = max(best, score)
			alpha = max(alpha, score)
			if !settings.DisablePruning && beta <= alpha {
				settings.Stats.Cutoffs++
				break
			}
		}
		return best
	}
	best := searchInfinity
	for _, move := range moves {
		child := state.Clone()
		child.apply(move.From, move.To)
		score := s.minimax(&child, depth-1, alpha, beta, true, settings)
		best = min(best, score)
		beta = min(beta, score)
		if !settings.DisablePruning && beta <= alpha {
			settings.Stats.Cutoffs++
			break
		}
	}
	return best
}

// FallbackMove picks the first move in search order and scores it
// statically. Used when a search runs past its deadline.
func (s Searcher) FallbackMove(state GameState, side Side) (SearchResult, bool) {
	root := state.Clone()
	root.ToMove = side
	moves := s.GenerateMoves(&root, side)
	if len(moves) == 0 {
		return SearchResult{}, false
	}
	orderMoves(moves)
	move := moves[0]
	child := root.Clone()
	child.apply(move.From, move.To)
	return SearchResult{Move: move, Score: Evaluate(&child.Board), Depth: 0}, true
}

func logSearchStats(logger zerolog.Logger, tag string, side Side, stats *SearchStats, result SearchResult) {
	if stats == nil {
		return
	}
	nps := 0.0
	if stats.Elapsed > 0 {
		nps = float64(stats.Nodes+stats.LeafEvaluations) / stats.Elapsed.Seconds()
	}
	logger.Debug().
		Str("tag", tag).
		Str("side", side.String()).
		Int("depth", result.Depth).
		Int("score", result.Score).
		Int("root_moves", stats.RootMoves).
		Int64("nodes", stats.Nodes).
		Int64("leaves", stats.LeafEvaluations).
		Int64("cutoffs", stats.Cutoffs).
		Float64("nps", nps).
		Dur("elapsed", stats.Elapsed).
		Msg("search stats")
}
