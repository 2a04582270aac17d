package main

import "sync"

// ZobristTable holds one key per (kind, side, square) plus a side-to-move
// key. Keys are deterministic so hashes are stable across restarts.
type ZobristTable struct {
	pieces [int(King) + 1][2][boardSize * boardSize]uint64
	black  uint64
}

var (
	zobristOnce  sync.Once
	zobristTable *ZobristTable
)

func GetZobrist() *ZobristTable {
	zobristOnce.Do(func() {
		rng := splitmix64{state: uint64(0x9e3779b97f4a7c15) ^ uint64(boardSize)}
		table := &ZobristTable{}
		for kind := Pawn; kind <= King; kind++ {
			for side := range table.pieces[kind] {
				for sq := range table.pieces[kind][side] {
					table.pieces[kind][side][sq] = rng.next()
				}
			}
		}
		table.black = rng.next()
		zobristTable = table
	})
	return zobristTable
}

func (z *ZobristTable) piece(p Piece, sq int) uint64 {
	return z.pieces[p.Kind][p.Side][sq]
}

// PositionHash covers placement and side to move. Piece IDs and capture
// history are not part of the position.
func PositionHash(state *GameState) uint64 {
	z := GetZobrist()
	var hash uint64
	for i, p := range &state.Board.cells {
		if p.IsEmpty() {
			continue
		}
		hash ^= z.piece(p, i)
	}
	if state.ToMove == Black {
		hash ^= z.black
	}
	return hash
}

type splitmix64 struct {
	state uint64
}

func (s *splitmix64) next() uint64 {
	s.state += 0x9e3779b97f4a7c15
	z := s.state
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}
