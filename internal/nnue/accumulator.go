package nnue

import "github.com/Mohammed0101-lgtm/shahrazad/internal/board"

// Accumulator stores the accumulated hidden layer values for incremental updates.
// Each side has its own accumulator from its perspective.
type Accumulator struct {
	// Hidden layer values for white and black perspectives
	// Stored as int16 for quantized arithmetic
	White [L1Size]int16
	Black [L1Size]int16

	// Track if accumulator is computed
	Computed bool
}

// AccumulatorStack manages accumulators during search.
type AccumulatorStack struct {
	stack [128]Accumulator // One per ply
	top   int
}

// NewAccumulatorStack creates a new accumulator stack.
func NewAccumulatorStack() *AccumulatorStack {
	return &AccumulatorStack{}
}

// Push saves current accumulator state.
func (s *AccumulatorStack) Push() {
	if s.top < 127 {
		s.stack[s.top+1] = s.stack[s.top]
		s.top++
	}
}

// Pop restores previous accumulator state.
func (s *AccumulatorStack) Pop() {
	if s.top > 0 {
		s.top--
	}
}

// Current returns the current accumulator.
func (s *AccumulatorStack) Current() *Accumulator {
	return &s.stack[s.top]
}

// Reset resets the stack to initial state.
func (s *AccumulatorStack) Reset() {
	s.top = 0
	s.stack[0].Computed = false
}

// side returns a pointer to the perspective array for c.
func (acc *Accumulator) side(c board.Color) *[L1Size]int16 {
	if c == board.White {
		return &acc.White
	}
	return &acc.Black
}

// refreshSide recomputes one perspective's accumulator from scratch. HalfKP
// indexes every feature by its own king's exact square, so this is the only
// sound way to bring a perspective up to date once its own king has moved.
func (acc *Accumulator) refreshSide(pos *board.Position, net *Network, side board.Color) {
	dst := acc.side(side)
	copy(dst[:], net.L1Bias[:])
	for _, idx := range GetActiveFeaturesSide(pos, side) {
		for i := 0; i < L1Size; i++ {
			dst[i] += net.L1Weights[idx][i]
		}
	}
}

func (acc *Accumulator) applyDelta(side board.Color, add, rem []int, net *Network) {
	dst := acc.side(side)
	for _, idx := range rem {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				dst[i] -= net.L1Weights[idx][i]
			}
		}
	}
	for _, idx := range add {
		if idx >= 0 && idx < HalfKPSize {
			for i := 0; i < L1Size; i++ {
				dst[i] += net.L1Weights[idx][i]
			}
		}
	}
}

// ComputeFull computes both perspectives' accumulators from scratch for a position.
func (acc *Accumulator) ComputeFull(pos *board.Position, net *Network) {
	acc.refreshSide(pos, net, board.White)
	acc.refreshSide(pos, net, board.Black)
	acc.Computed = true
}

// UpdateIncremental updates the accumulator incrementally for a move.
// This is the key efficiency optimization - O(changed pieces) instead of O(all pieces).
// Should be called AFTER the move has been made on the position.
//
// A king move only invalidates the mover's own perspective (its features are
// anchored to its king's exact square); the other perspective never encodes
// a king as a feature, so it only needs attention when the move also touched
// a non-king piece the other side's accumulator does track - a captured
// piece, or the rook in a castling move. Both of those are handled by a
// refresh rather than chasing the delta, since the king-move early return in
// GetChangedFeatures makes the incremental path unavailable on this ply.
func (acc *Accumulator) UpdateIncremental(pos *board.Position, m board.Move, captured board.Piece, net *Network) {
	if !acc.Computed {
		acc.ComputeFull(pos, net)
		return
	}

	movedPiece := pos.PieceAt(m.To())
	if movedPiece == board.NoPiece {
		// Invalid state, recompute
		acc.Computed = false
		return
	}

	if movedPiece.Type() == board.King {
		mover := movedPiece.Color()
		other := mover.Other()
		acc.refreshSide(pos, net, mover)
		if m.IsCastling() || captured != board.NoPiece {
			acc.refreshSide(pos, net, other)
		}
		return
	}

	whiteAdd, whiteRem, blackAdd, blackRem := GetChangedFeatures(pos, m, captured)
	acc.applyDelta(board.White, whiteAdd, whiteRem, net)
	acc.applyDelta(board.Black, blackAdd, blackRem, net)
}
