package main

type HistoryEntry struct {
	From       Square
	To         Square
	Piece      Piece
	Captured   Piece
	Side       Side
	ElapsedMs  float64
	IsAI       bool
	Depth      int
	Score      int
	Degraded   bool
	PromotedTo PieceKind
}

type MoveHistory struct {
	entries []HistoryEntry
}

func (h *MoveHistory) Clear() {
	h.entries = nil
}

func (h *MoveHistory) Push(entry HistoryEntry) {
	h.entries = append(h.entries, entry)
}

// markPromotion annotates the last move if it landed on sq.
func (h *MoveHistory) markPromotion(sq Square, kind PieceKind) {
	if len(h.entries) == 0 {
		return
	}
	last := &h.entries[len(h.entries)-1]
	if last.To == sq {
		last.PromotedTo = kind
	}
}

func (h MoveHistory) Size() int {
	return len(h.entries)
}

func (h MoveHistory) Last() (HistoryEntry, bool) {
	if len(h.entries) == 0 {
		return HistoryEntry{}, false
	}
	return h.entries[len(h.entries)-1], true
}

func (h MoveHistory) All() []HistoryEntry {
	return append([]HistoryEntry(nil), h.entries...)
}
