package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
)

const boardSize = 8

var ErrInvalidSquare = errors.New("invalid square")

type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) InBounds() bool {
	return s.Row >= 0 && s.Col >= 0 && s.Row < boardSize && s.Col < boardSize
}

func (s Square) Offset(dRow, dCol int) Square {
	return Square{Row: s.Row + dRow, Col: s.Col + dCol}
}

func (s Square) String() string {
	if !s.InBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return SquareToAlgebraic(s)
}

// SquareToAlgebraic panics on an off-board square; internal callers must
// only pass squares produced by the generator.
func SquareToAlgebraic(s Square) string {
	if !s.InBounds() {
		panic(fmt.Sprintf("square out of range: (%d,%d)", s.Row, s.Col))
	}
	return string(rune('a'+s.Col)) + strconv.Itoa(boardSize-s.Row)
}

func AlgebraicToSquare(raw string) (Square, error) {
	if len(raw) != 2 {
		return Square{}, errors.Wrapf(ErrInvalidSquare, "%q", raw)
	}
	file := raw[0]
	rank := raw[1]
	if file < 'a' || file > 'h' || rank < '1' || rank > '8' {
		return Square{}, errors.Wrapf(ErrInvalidSquare, "%q", raw)
	}
	return Square{Row: boardSize - int(rank-'0'), Col: int(file - 'a')}, nil
}

// Board is a value type: assigning it copies every square.
type Board struct {
	cells [boardSize * boardSize]Piece
}

func NewStandardBoard() Board {
	b := Board{}
	b.Reset()
	return b
}

func (b *Board) Reset() {
	b.cells = [boardSize * boardSize]Piece{}
	backRank := [boardSize]PieceKind{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for col := 0; col < boardSize; col++ {
		b.Set(Square{Row: 0, Col: col}, NewPiece(backRank[col], Black, 0, col))
		b.Set(Square{Row: 1, Col: col}, NewPiece(Pawn, Black, 1, col))
		b.Set(Square{Row: 6, Col: col}, NewPiece(Pawn, White, 6, col))
		b.Set(Square{Row: 7, Col: col}, NewPiece(backRank[col], White, 7, col))
	}
}

func (b *Board) At(s Square) Piece {
	return b.cells[index(s)]
}

func (b *Board) Set(s Square, p Piece) {
	b.cells[index(s)] = p
}

func (b *Board) Remove(s Square) {
	b.cells[index(s)] = Piece{}
}

func (b *Board) IsEmpty(s Square) bool {
	return b.At(s).IsEmpty()
}

func (b *Board) Clone() Board {
	return *b
}

// Each calls fn for every occupied square in row-major order.
func (b *Board) Each(fn func(sq Square, p Piece)) {
	for i, p := range &b.cells {
		if p.IsEmpty() {
			continue
		}
		fn(Square{Row: i / boardSize, Col: i % boardSize}, p)
	}
}

func (b *Board) Count(side Side) int {
	count := 0
	for _, p := range &b.cells {
		if !p.IsEmpty() && p.Side == side {
			count++
		}
	}
	return count
}

func (b *Board) FindKing(side Side) (Square, bool) {
	for i, p := range &b.cells {
		if p.Kind == King && p.Side == side {
			return Square{Row: i / boardSize, Col: i % boardSize}, true
		}
	}
	return Square{}, false
}

// FindPieceByIdentity resolves "<kind>_<row>_<col>" against the live board
// first, then falls back to matching the stored piece ID.
func (b *Board) FindPieceByIdentity(id string) (Square, bool) {
	parts := strings.Split(id, "_")
	if len(parts) >= 3 {
		kind, kindErr := ParsePieceKind(parts[0])
		row, rowErr := strconv.Atoi(parts[1])
		col, colErr := strconv.Atoi(parts[2])
		if kindErr == nil && rowErr == nil && colErr == nil {
			sq := Square{Row: row, Col: col}
			if sq.InBounds() && b.At(sq).Kind == kind {
				return sq, true
			}
		}
	}
	for i, p := range &b.cells {
		if !p.IsEmpty() && p.ID == id {
			return Square{Row: i / boardSize, Col: i % boardSize}, true
		}
	}
	return Square{}, false
}

// Validate reports every piece-count invariant violation at once.
func (b *Board) Validate() error {
	var result error
	for _, side := range []Side{White, Black} {
		if count := b.Count(side); count > 16 {
			result = multierror.Append(result, errors.Errorf("%s has %d pieces", side, count))
		}
		kings := 0
		for _, p := range &b.cells {
			if p.Kind == King && p.Side == side {
				kings++
			}
		}
		if kings != 1 {
			result = multierror.Append(result, errors.Errorf("%s has %d kings", side, kings))
		}
	}
	return result
}

// FEN renders piece placement and side to move. Castling and en-passant
// fields are always "-".
func (b *Board) FEN(toMove Side) string {
	var sb strings.Builder
	for row := 0; row < boardSize; row++ {
		empty := 0
		for col := 0; col < boardSize; col++ {
			p := b.At(Square{Row: row, Col: col})
			if p.IsEmpty() {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			r := p.Kind.FENRune()
			if p.Side == Black {
				r += 'a' - 'A'
			}
			sb.WriteRune(r)
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row < boardSize-1 {
			sb.WriteByte('/')
		}
	}
	if toMove == White {
		sb.WriteString(" w")
	} else {
		sb.WriteString(" b")
	}
	sb.WriteString(" - - 0 1")
	return sb.String()
}

func index(s Square) int {
	return s.Row*boardSize + s.Col
}
