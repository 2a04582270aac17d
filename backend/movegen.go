package main

type direction struct {
	dRow int
	dCol int
}

var (
	knightOffsets = [8]direction{
		{-2, -1}, {-2, 1},
		{-1, -2}, {-1, 2},
		{1, -2}, {1, 2},
		{2, -1}, {2, 1},
	}
	diagonalDirs   = []direction{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	orthogonalDirs = []direction{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
	allDirs        = []direction{
		{-1, 0}, {1, 0}, {0, -1}, {0, 1},
		{-1, -1}, {-1, 1}, {1, -1}, {1, 1},
	}
	kingOffsets = [8]direction{
		{-1, -1}, {-1, 0}, {-1, 1},
		{0, -1}, {0, 1},
		{1, -1}, {1, 0}, {1, 1},
	}
)

// pseudoLegalMoves appends every destination the piece on from can reach by
// its movement pattern and board occupancy. Own-king safety is not checked,
// except that the king never steps onto a square the opponent attacks.
func pseudoLegalMoves(board *Board, from Square, dst []Square) []Square {
	piece := board.At(from)
	switch piece.Kind {
	case Pawn:
		return pawnMoves(board, from, piece.Side, dst)
	case Knight:
		for _, off := range knightOffsets {
			to := from.Offset(off.dRow, off.dCol)
			if canLand(board, to, piece.Side) {
				dst = append(dst, to)
			}
		}
		return dst
	case Bishop:
		return slidingMoves(board, from, piece.Side, diagonalDirs, dst)
	case Rook:
		return slidingMoves(board, from, piece.Side, orthogonalDirs, dst)
	case Queen:
		return slidingMoves(board, from, piece.Side, allDirs, dst)
	case King:
		opponent := piece.Side.Opponent()
		for _, off := range kingOffsets {
			to := from.Offset(off.dRow, off.dCol)
			if canLand(board, to, piece.Side) && !IsSquareAttacked(board, to, opponent) {
				dst = append(dst, to)
			}
		}
		return dst
	default:
		return dst
	}
}

func pawnMoves(board *Board, from Square, side Side, dst []Square) []Square {
	dir := side.Forward()
	one := from.Offset(dir, 0)
	if !one.InBounds() {
		return dst
	}
	if board.IsEmpty(one) {
		dst = append(dst, one)
		if from.Row == side.PawnStartRow() {
			two := from.Offset(2*dir, 0)
			if board.IsEmpty(two) {
				dst = append(dst, two)
			}
		}
	}
	for _, dCol := range [2]int{-1, 1} {
		to := from.Offset(dir, dCol)
		if !to.InBounds() {
			continue
		}
		target := board.At(to)
		if !target.IsEmpty() && target.Side != side {
			dst = append(dst, to)
		}
	}
	return dst
}

func slidingMoves(board *Board, from Square, side Side, dirs []direction, dst []Square) []Square {
	for _, d := range dirs {
		to := from.Offset(d.dRow, d.dCol)
		for to.InBounds() {
			target := board.At(to)
			if target.IsEmpty() {
				dst = append(dst, to)
			} else {
				if target.Side != side {
					dst = append(dst, to)
				}
				break
			}
			to = to.Offset(d.dRow, d.dCol)
		}
	}
	return dst
}

func canLand(board *Board, to Square, side Side) bool {
	if !to.InBounds() {
		return false
	}
	target := board.At(to)
	return target.IsEmpty() || target.Side != side
}

// matchesPattern reports whether piece on from could move to to by its
// movement pattern with a clear path, ignoring what stands on to. Pawns are
// handled by the caller since their attacks differ from their moves.
func matchesPattern(board *Board, piece Piece, from, to Square) bool {
	dRow := abs(to.Row - from.Row)
	dCol := abs(to.Col - from.Col)
	if dRow == 0 && dCol == 0 {
		return false
	}
	switch piece.Kind {
	case Knight:
		return (dRow == 2 && dCol == 1) || (dRow == 1 && dCol == 2)
	case Bishop:
		return dRow == dCol && pathClear(board, from, to)
	case Rook:
		return (dRow == 0 || dCol == 0) && pathClear(board, from, to)
	case Queen:
		return (dRow == dCol || dRow == 0 || dCol == 0) && pathClear(board, from, to)
	case King:
		return dRow <= 1 && dCol <= 1
	default:
		return false
	}
}

// pathClear checks the squares strictly between from and to on a straight or
// diagonal line.
func pathClear(board *Board, from, to Square) bool {
	stepRow := sign(to.Row - from.Row)
	stepCol := sign(to.Col - from.Col)
	cur := from.Offset(stepRow, stepCol)
	for cur != to {
		if !board.IsEmpty(cur) {
			return false
		}
		cur = cur.Offset(stepRow, stepCol)
	}
	return true
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
