package engine

import "github.com/Mohammed0101-lgtm/shahrazad/internal/board"

// capturedPieceBeforeMove returns the piece the move captures, read before
// MakeMove mutates the position. En passant captures a pawn on a square the
// move's To() doesn't name, so it's special-cased here rather than left to
// PieceAt after the fact.
func (w *Worker) capturedPieceBeforeMove(m board.Move) board.Piece {
	if m.IsEnPassant() {
		return board.NewPiece(board.Pawn, w.pos.SideToMove.Other())
	}
	return w.pos.PieceAt(m.To())
}

// pushNNUE saves the current accumulator before a move is made.
func (w *Worker) pushNNUE() {
	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Push()
	}
}

// popNNUE restores the accumulator saved by the matching pushNNUE, after the
// move has been unmade.
func (w *Worker) popNNUE() {
	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Pop()
	}
}

// updateNNUE brings the current accumulator up to date for a move just made
// on w.pos, either incrementally or via a per-perspective refresh.
func (w *Worker) updateNNUE(m board.Move, captured board.Piece) {
	if w.useNNUE && w.nnueEval != nil {
		w.nnueEval.Update(w.pos, m, captured)
	}
}
