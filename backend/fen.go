package main

import (
	"strings"

	"github.com/pkg/errors"
)

var ErrInvalidFEN = errors.New("invalid FEN")

// BoardFromFEN reads the placement and side-to-move fields. Any castling or
// en-passant fields are ignored. Piece IDs are derived from the squares the
// pieces start on, as for the standard setup.
func BoardFromFEN(fen string) (Board, Side, error) {
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return Board{}, White, errors.Wrap(ErrInvalidFEN, "empty")
	}
	rows := strings.Split(fields[0], "/")
	if len(rows) != boardSize {
		return Board{}, White, errors.Wrapf(ErrInvalidFEN, "expected %d ranks, got %d", boardSize, len(rows))
	}
	board := Board{}
	for row, rank := range rows {
		col := 0
		for _, r := range rank {
			if r >= '1' && r <= '8' {
				col += int(r - '0')
				continue
			}
			side := White
			upper := r
			if r >= 'a' && r <= 'z' {
				side = Black
				upper = r - ('a' - 'A')
			}
			kind := kindFromFENRune(upper)
			if kind == KindNone {
				return Board{}, White, errors.Wrapf(ErrInvalidFEN, "unknown piece %q", r)
			}
			if col >= boardSize {
				return Board{}, White, errors.Wrapf(ErrInvalidFEN, "rank %d overflows", boardSize-row)
			}
			board.Set(Square{Row: row, Col: col}, NewPiece(kind, side, row, col))
			col++
		}
		if col != boardSize {
			return Board{}, White, errors.Wrapf(ErrInvalidFEN, "rank %d has %d files", boardSize-row, col)
		}
	}
	toMove := White
	if len(fields) > 1 {
		switch fields[1] {
		case "w":
		case "b":
			toMove = Black
		default:
			return Board{}, White, errors.Wrapf(ErrInvalidFEN, "side %q", fields[1])
		}
	}
	return board, toMove, nil
}

func kindFromFENRune(r rune) PieceKind {
	switch r {
	case 'P':
		return Pawn
	case 'N':
		return Knight
	case 'B':
		return Bishop
	case 'R':
		return Rook
	case 'Q':
		return Queen
	case 'K':
		return King
	default:
		return KindNone
	}
}
