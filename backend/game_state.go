package main

type GameStatus int

const (
	StatusOngoing GameStatus = iota
	StatusCheckmate
	StatusStalemate
)

type GameState struct {
	Board    Board
	ToMove   Side
	Status   GameStatus
	Winner   Side
	Captured []Piece
}

func DefaultGameState() GameState {
	state := GameState{}
	state.Reset()
	return state
}

func (s *GameState) Reset() {
	s.Board = NewStandardBoard()
	s.ToMove = White
	s.Status = StatusOngoing
	s.Winner = White
	s.Captured = nil
}

func (s GameState) Clone() GameState {
	clone := s
	clone.Board = s.Board.Clone()
	clone.Captured = append([]Piece(nil), s.Captured...)
	return clone
}

func (s GameState) IsTerminal() bool {
	return s.Status != StatusOngoing
}

// apply moves a piece without any legality checks and passes the turn.
// Returns the captured piece, empty if none.
func (s *GameState) apply(from, to Square) Piece {
	piece := s.Board.At(from)
	captured := s.Board.At(to)
	if !captured.IsEmpty() {
		s.Captured = append(s.Captured, captured)
	}
	s.Board.Set(to, piece)
	s.Board.Remove(from)
	s.ToMove = s.ToMove.Opponent()
	return captured
}

func (st GameStatus) String() string {
	switch st {
	case StatusCheckmate:
		return "checkmate"
	case StatusStalemate:
		return "stalemate"
	default:
		return "ongoing"
	}
}
