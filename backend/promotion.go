package main

import "github.com/pkg/errors"

var ErrInvalidPromotionKind = errors.New("invalid promotion kind")

// parsePromotionKind accepts only the four kinds a pawn may become.
func parsePromotionKind(raw string) (PieceKind, error) {
	kind, err := ParsePieceKind(raw)
	if err != nil {
		return KindNone, errors.Wrapf(ErrInvalidPromotionKind, "%q", raw)
	}
	switch kind {
	case Queen, Rook, Bishop, Knight:
		return kind, nil
	default:
		return KindNone, errors.Wrapf(ErrInvalidPromotionKind, "%q", raw)
	}
}

func awaitingPromotion(p Piece, sq Square) bool {
	return p.Kind == Pawn && sq.Row == p.Side.LastRow()
}

// promoteAt replaces the pawn on sq in place and returns the new piece.
func promoteAt(board *Board, sq Square, kind PieceKind) Piece {
	p := board.At(sq)
	p.ID = promotedID(kind, p, sq)
	p.Kind = kind
	board.Set(sq, p)
	return p
}

// validatePromotion checks a promotion request against the board.
func validatePromotion(board *Board, pieceID, rawKind string) (Square, PieceKind, FailureKind, string) {
	sq, ok := board.FindPieceByIdentity(pieceID)
	if !ok {
		return Square{}, KindNone, FailureNotFound, "Piece not found"
	}
	piece := board.At(sq)
	if piece.Kind != Pawn {
		return sq, KindNone, FailureInvalidPromotion, "Not a pawn"
	}
	kind, err := parsePromotionKind(rawKind)
	if err != nil {
		return sq, KindNone, FailureInvalidPromotion, "Invalid promotion type"
	}
	if !awaitingPromotion(piece, sq) {
		return sq, KindNone, FailureInvalidPromotion, "Pawn not on promotion rank"
	}
	return sq, kind, FailureNone, ""
}
