package main

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

type PieceKind int

const (
	KindNone PieceKind = iota
	Pawn
	Knight
	Bishop
	Rook
	Queen
	King
)

type Side int

const (
	White Side = iota
	Black
)

var ErrUnknownPieceKind = errors.New("unknown piece kind")

// Piece is stored by value on the board; the zero value is an empty square.
type Piece struct {
	Kind PieceKind
	Side Side
	ID   string
}

func NewPiece(kind PieceKind, side Side, row, col int) Piece {
	return Piece{Kind: kind, Side: side, ID: originID(kind, row, col)}
}

func (p Piece) IsEmpty() bool {
	return p.Kind == KindNone
}

func (p Piece) Value() int {
	return p.Kind.Value()
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Side.String() + " " + p.Kind.String()
}

func originID(kind PieceKind, row, col int) string {
	return fmt.Sprintf("%s_%d_%d", kind, row, col)
}

// promotedID names a promoted piece after the pawn it replaced, so two
// promotions on the same file never share an ID.
func promotedID(kind PieceKind, pawn Piece, at Square) string {
	origin, ok := strings.CutPrefix(pawn.ID, Pawn.String()+"_")
	if !ok || origin == "" {
		origin = fmt.Sprintf("%d_%d", at.Row, at.Col)
	}
	return fmt.Sprintf("%s_promoted_%s_%s", kind, pawn.Side, origin)
}

func (k PieceKind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Value is the material value used by evaluation and move ordering.
func (k PieceKind) Value() int {
	switch k {
	case Pawn:
		return 100
	case Knight:
		return 320
	case Bishop:
		return 330
	case Rook:
		return 500
	case Queen:
		return 900
	case King:
		return 20000
	default:
		return 0
	}
}

// FENRune returns the white (upper case) FEN letter for the kind.
func (k PieceKind) FENRune() rune {
	switch k {
	case Pawn:
		return 'P'
	case Knight:
		return 'N'
	case Bishop:
		return 'B'
	case Rook:
		return 'R'
	case Queen:
		return 'Q'
	case King:
		return 'K'
	default:
		return '.'
	}
}

func ParsePieceKind(raw string) (PieceKind, error) {
	switch raw {
	case "pawn":
		return Pawn, nil
	case "knight":
		return Knight, nil
	case "bishop":
		return Bishop, nil
	case "rook":
		return Rook, nil
	case "queen":
		return Queen, nil
	case "king":
		return King, nil
	default:
		return KindNone, errors.Wrapf(ErrUnknownPieceKind, "%q", raw)
	}
}

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

func (s Side) Opponent() Side {
	if s == White {
		return Black
	}
	return White
}

// Forward is the row delta of a pawn advance for this side.
func (s Side) Forward() int {
	if s == White {
		return -1
	}
	return 1
}

func (s Side) PawnStartRow() int {
	if s == White {
		return 6
	}
	return 1
}

func (s Side) LastRow() int {
	if s == White {
		return 0
	}
	return 7
}

func ParseSide(raw string) (Side, error) {
	switch raw {
	case "white":
		return White, nil
	case "black":
		return Black, nil
	default:
		return White, errors.Errorf("unknown side %q", raw)
	}
}
