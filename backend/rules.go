package main

// Rules holds the legality strategy. King moves are always pre-filtered at
// generation time by destination attack; with revalidateKingMoves they also
// go through the simulate/undo check like every other piece.
type Rules struct {
	revalidateKingMoves bool
}

func NewRules(config Config) Rules {
	return Rules{revalidateKingMoves: config.RevalidateKingMoves}
}

// IsSquareAttacked reports whether any piece of by attacks sq, whether or not
// sq is occupied.
func IsSquareAttacked(board *Board, sq Square, by Side) bool {
	for i, p := range &board.cells {
		if p.IsEmpty() || p.Side != by {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		if p.Kind == Pawn {
			if sq.Row == from.Row+by.Forward() && abs(sq.Col-from.Col) == 1 {
				return true
			}
			continue
		}
		if matchesPattern(board, p, from, sq) {
			return true
		}
	}
	return false
}

func IsKingInCheck(board *Board, side Side) bool {
	king, ok := board.FindKing(side)
	if !ok {
		return false
	}
	return IsSquareAttacked(board, king, side.Opponent())
}

// WouldLeaveKingInCheck returns true when the move is SAFE, i.e. the mover's
// king is not attacked afterwards. The board is restored before returning.
func WouldLeaveKingInCheck(board *Board, from, to Square, side Side) bool {
	moving := board.At(from)
	captured := board.At(to)
	board.Set(to, moving)
	board.Remove(from)
	inCheck := IsKingInCheck(board, side)
	board.Set(from, moving)
	board.Set(to, captured)
	return !inCheck
}

// LegalMoves appends the legal destinations of the piece on from.
func (r Rules) LegalMoves(board *Board, from Square, dst []Square) []Square {
	piece := board.At(from)
	if piece.IsEmpty() {
		return dst
	}
	var scratch [32]Square
	for _, to := range pseudoLegalMoves(board, from, scratch[:0]) {
		if piece.Kind == King && !r.revalidateKingMoves {
			dst = append(dst, to)
			continue
		}
		if WouldLeaveKingInCheck(board, from, to, piece.Side) {
			dst = append(dst, to)
		}
	}
	return dst
}

func (r Rules) HasAnyLegalMove(board *Board, side Side) bool {
	var scratch [32]Square
	for i, p := range &board.cells {
		if p.IsEmpty() || p.Side != side {
			continue
		}
		from := Square{Row: i / boardSize, Col: i % boardSize}
		if len(r.LegalMoves(board, from, scratch[:0])) > 0 {
			return true
		}
	}
	return false
}

// ValidateMove checks a requested move and reports why it is rejected.
func (r Rules) ValidateMove(board *Board, from, to Square) (FailureKind, string) {
	piece := board.At(from)
	if piece.IsEmpty() {
		return FailureNotFound, "Piece not found"
	}
	if !to.InBounds() || to == from {
		return FailureIllegalMove, "Invalid move - against chess rules"
	}
	var scratch [32]Square
	reachable := false
	for _, candidate := range pseudoLegalMoves(board, from, scratch[:0]) {
		if candidate == to {
			reachable = true
			break
		}
	}
	if !reachable {
		if piece.Kind == King && canLand(board, to, piece.Side) && matchesPattern(board, piece, from, to) {
			return FailureIllegalMove, "Invalid move - would leave king in check"
		}
		return FailureIllegalMove, "Invalid move - against chess rules"
	}
	if piece.Kind == King && !r.revalidateKingMoves {
		return FailureNone, ""
	}
	if !WouldLeaveKingInCheck(board, from, to, piece.Side) {
		return FailureIllegalMove, "Invalid move - would leave king in check"
	}
	return FailureNone, ""
}

// EvaluateStatus classifies the position for the side to move.
func (r Rules) EvaluateStatus(state *GameState) {
	if r.HasAnyLegalMove(&state.Board, state.ToMove) {
		state.Status = StatusOngoing
		return
	}
	if IsKingInCheck(&state.Board, state.ToMove) {
		state.Status = StatusCheckmate
		state.Winner = state.ToMove.Opponent()
		return
	}
	state.Status = StatusStalemate
}
