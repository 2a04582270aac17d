package main

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type Game struct {
	settings    GameSettings
	rules       Rules
	state       GameState
	history     MoveHistory
	ai          *AIPlayer
	aiPromotion PieceKind
	turnStart   time.Time
	revision    uint64
	logger      zerolog.Logger
}

func NewGame(settings GameSettings, cfg Config, logger zerolog.Logger) Game {
	rules := NewRules(cfg)
	g := Game{
		rules:       rules,
		ai:          NewAIPlayer(NewSearcher(rules, logger), logger, cfg.AiLogSearchStats),
		aiPromotion: cfg.promotionKind(),
		logger:      logger,
	}
	g.Reset(settings)
	return g
}

func (g *Game) Reset(settings GameSettings) {
	g.settings = settings.normalized()
	g.state.Reset()
	g.history.Clear()
	g.turnStart = time.Now()
	g.revision++
	g.logMatchup()
}

func (g *Game) Initialize(settings GameSettings) InitializeResult {
	g.Reset(settings)
	snapshot := g.Snapshot()
	return InitializeResult{Success: true, Message: "Game initialized successfully", State: &snapshot}
}

func (g *Game) State() GameState {
	return g.state.Clone()
}

func (g *Game) Settings() GameSettings {
	return g.settings
}

func (g *Game) History() MoveHistory {
	return MoveHistory{entries: g.history.All()}
}

func (g *Game) Hash() uint64 {
	return PositionHash(&g.state)
}

// ETag changes whenever anything visible in a snapshot changes.
func (g *Game) ETag() string {
	return fmt.Sprintf(`"%s-%d"`, hashString(g.Hash()), g.revision)
}

func (g *Game) Snapshot() GameSnapshot {
	snapshot := GameSnapshot{
		SideToMove:     g.state.ToMove.String(),
		Status:         g.state.Status.String(),
		GameOver:       g.state.IsTerminal(),
		Winner:         winnerString(&g.state),
		InCheck:        IsKingInCheck(&g.state.Board, g.state.ToMove),
		CapturedPieces: capturedToDTO(g.state.Captured),
		FEN:            g.state.Board.FEN(g.state.ToMove),
		Hash:           hashString(g.Hash()),
		Settings:       settingsToDTO(g.settings),
		History:        historyToDTO(g.history),
	}
	g.state.Board.Each(func(sq Square, p Piece) {
		snapshot.Board[sq.Row][sq.Col] = piecePtrToDTO(p)
	})
	return snapshot
}

func (g *Game) Status() StatusSnapshot {
	return StatusSnapshot{
		SideToMove:     g.state.ToMove.String(),
		Terminal:       g.state.IsTerminal(),
		Status:         g.state.Status.String(),
		Winner:         winnerString(&g.state),
		InCheck:        IsKingInCheck(&g.state.Board, g.state.ToMove),
		CapturedPieces: capturedToDTO(g.state.Captured),
		MoveCount:      g.history.Size(),
		Hash:           hashString(g.Hash()),
	}
}

// Move validates and plays a move for the side to move. The game is left
// untouched on any failure.
func (g *Game) Move(pieceID, target string) MoveResult {
	if g.state.IsTerminal() {
		return MoveResult{Message: "Game is over", Failure: FailureGameOver}
	}
	from, ok := g.state.Board.FindPieceByIdentity(pieceID)
	if !ok {
		return MoveResult{Message: "Piece not found", Failure: FailureNotFound}
	}
	to, err := AlgebraicToSquare(target)
	if err != nil {
		return MoveResult{Message: "Invalid target square", Failure: FailureInvalidSquare}
	}
	if g.state.Board.At(from).Side != g.state.ToMove {
		return MoveResult{Message: "Invalid move - not your turn", Failure: FailureTurnViolation}
	}
	if failure, reason := g.rules.ValidateMove(&g.state.Board, from, to); failure != FailureNone {
		g.logger.Debug().Str("piece", pieceID).Str("to", target).Str("reason", reason).Msg("move rejected")
		return MoveResult{Message: reason, Failure: failure}
	}

	entry := g.commit(from, to, KindNone)
	g.record(entry)

	result := MoveResult{Success: true, Message: "Move executed successfully"}
	if !entry.Captured.IsEmpty() {
		result.Message = fmt.Sprintf("Captured %s %s", entry.Captured.Side, entry.Captured.Kind)
		result.Capture = &CaptureInfo{Piece: pieceToDTO(entry.Captured), Square: SquareToAlgebraic(to)}
	}
	snapshot := g.Snapshot()
	result.State = &snapshot
	return result
}

func (g *Game) LegalMovesFor(pieceID string) LegalMovesResult {
	from, ok := g.state.Board.FindPieceByIdentity(pieceID)
	if !ok {
		return LegalMovesResult{Moves: []Square{}}
	}
	moves := g.rules.LegalMoves(&g.state.Board, from, make([]Square, 0, 28))
	return LegalMovesResult{Moves: moves}
}

// AIMove searches and plays a move for the side to move. With the AI
// enabled it refuses to move for the human's side.
func (g *Game) AIMove(ctx context.Context) AIMoveResult {
	if g.state.IsTerminal() {
		return AIMoveResult{Message: "Game is over", Failure: FailureGameOver}
	}
	side := g.state.ToMove
	if g.settings.AIEnabled && side == g.settings.HumanSide {
		return AIMoveResult{Message: "Invalid move - not your turn", Failure: FailureTurnViolation}
	}
	decision, ok := g.ai.ChooseMove(ctx, g.state, side, g.settings.SearchDepth, "ai-move")
	if !ok {
		return AIMoveResult{Message: "No valid AI move found", Failure: FailureNoMovesAvailable}
	}
	move := decision.Result.Move
	entry := g.commit(move.From, move.To, g.aiPromotion)
	entry.IsAI = true
	entry.Depth = decision.Result.Depth
	entry.Score = decision.Result.Score
	entry.Degraded = decision.Degraded
	g.record(entry)

	result := AIMoveResult{
		Success: true,
		Message: "AI move executed",
		Move:    &SquarePair{From: SquareToAlgebraic(move.From), To: SquareToAlgebraic(move.To)},
		SearchInfo: &SearchInfo{
			Depth:     decision.Result.Depth,
			ElapsedMs: decision.Stats.Elapsed.Milliseconds(),
			Score:     decision.Result.Score,
			Nodes:     decision.Stats.Nodes + decision.Stats.LeafEvaluations,
			Degraded:  decision.Degraded,
		},
	}
	if !entry.Captured.IsEmpty() {
		result.Message = fmt.Sprintf("AI captured %s %s", entry.Captured.Side, entry.Captured.Kind)
		result.Capture = &CaptureInfo{Piece: pieceToDTO(entry.Captured), Square: SquareToAlgebraic(move.To)}
	}
	if entry.PromotedTo != KindNone {
		result.PromotedTo = entry.PromotedTo.String()
	}
	snapshot := g.Snapshot()
	result.State = &snapshot
	return result
}

// Hint runs the same search for the human side without playing it.
func (g *Game) Hint(ctx context.Context) HintResult {
	if g.state.IsTerminal() {
		return HintResult{Message: "Game is over", Failure: FailureGameOver}
	}
	side := g.settings.HumanSide
	decision, ok := g.ai.ChooseMove(ctx, g.state, side, g.settings.SearchDepth, "hint")
	if !ok {
		return HintResult{Message: "No hint available", Failure: FailureNoMovesAvailable}
	}
	move := decision.Result.Move
	return HintResult{
		Success: true,
		Message: "Hint available",
		Hint: &Hint{
			From:      SquareToAlgebraic(move.From),
			To:        SquareToAlgebraic(move.To),
			Score:     decision.Result.Score,
			PieceType: move.Piece.Kind.String(),
		},
	}
}

// Promote turns a pawn standing on its last rank into kind.
func (g *Game) Promote(pieceID, kind string) PromotionResult {
	if g.state.IsTerminal() {
		return PromotionResult{Message: "Game is over", Failure: FailureGameOver}
	}
	sq, newKind, failure, reason := validatePromotion(&g.state.Board, pieceID, kind)
	if failure != FailureNone {
		return PromotionResult{Message: reason, Failure: failure}
	}
	piece := promoteAt(&g.state.Board, sq, newKind)
	g.history.markPromotion(sq, newKind)
	g.revision++
	g.logger.Info().
		Str("square", SquareToAlgebraic(sq)).
		Str("side", piece.Side.String()).
		Str("kind", newKind.String()).
		Msg("pawn promoted")
	// The new piece may give check or take away the last legal reply.
	g.rules.EvaluateStatus(&g.state)
	g.logGameEnd()
	snapshot := g.Snapshot()
	return PromotionResult{
		Success: true,
		Message: fmt.Sprintf("Pawn promoted to %s", newKind),
		State:   &snapshot,
	}
}

// commit plays an already validated move, optionally promoting a pawn that
// lands on its last rank, then re-evaluates the game status.
func (g *Game) commit(from, to Square, promoteTo PieceKind) HistoryEntry {
	piece := g.state.Board.At(from)
	entry := HistoryEntry{
		From:      from,
		To:        to,
		Piece:     piece,
		Side:      piece.Side,
		ElapsedMs: float64(time.Since(g.turnStart).Milliseconds()),
	}
	entry.Captured = g.state.apply(from, to)
	if promoteTo != KindNone && awaitingPromotion(piece, to) {
		promoteAt(&g.state.Board, to, promoteTo)
		entry.PromotedTo = promoteTo
	}
	g.rules.EvaluateStatus(&g.state)
	g.turnStart = time.Now()
	g.revision++
	return entry
}

func (g *Game) record(entry HistoryEntry) {
	g.history.Push(entry)
	g.logMovePlayed(entry)
	g.logGameEnd()
}

func (g *Game) logMatchup() {
	label := func(side Side) string {
		if g.settings.AIEnabled && side == g.settings.AISide() {
			return "AI"
		}
		return "Human"
	}
	g.logger.Info().
		Str("white", label(White)).
		Str("black", label(Black)).
		Int("depth", g.settings.SearchDepth).
		Msg("new game")
}

func (g *Game) logMovePlayed(entry HistoryEntry) {
	event := g.logger.Info().
		Str("side", entry.Side.String()).
		Str("piece", entry.Piece.Kind.String()).
		Str("from", SquareToAlgebraic(entry.From)).
		Str("to", SquareToAlgebraic(entry.To)).
		Bool("ai", entry.IsAI).
		Float64("elapsed_ms", entry.ElapsedMs)
	if !entry.Captured.IsEmpty() {
		event = event.Str("captured", entry.Captured.String())
	}
	if entry.PromotedTo != KindNone {
		event = event.Str("promoted_to", entry.PromotedTo.String())
	}
	if entry.IsAI {
		event = event.Int("depth", entry.Depth).Int("score", entry.Score).Bool("degraded", entry.Degraded)
	}
	event.Msg("move played")
}

func (g *Game) logGameEnd() {
	switch g.state.Status {
	case StatusCheckmate:
		g.logger.Info().
			Str("winner", g.state.Winner.String()).
			Str("fen", g.state.Board.FEN(g.state.ToMove)).
			Msg("checkmate")
	case StatusStalemate:
		g.logger.Info().
			Str("fen", g.state.Board.FEN(g.state.ToMove)).
			Msg("stalemate")
	}
}
