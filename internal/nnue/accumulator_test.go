package nnue

import (
	"testing"

	"github.com/Mohammed0101-lgtm/shahrazad/internal/board"
)

func accumulatorsEqual(a, b *Accumulator) bool {
	return a.White == b.White && a.Black == b.Black
}

// TestIncrementalMatchesFullRefresh checks that after a sequence of moves,
// an accumulator updated incrementally move-by-move matches one recomputed
// from scratch at the final position - the central correctness property of
// the per-perspective refresh scheme (see Open Question 4 in DESIGN.md).
func TestIncrementalMatchesFullRefresh(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(1)

	pos := board.NewPosition()

	incremental := &Accumulator{}
	incremental.ComputeFull(pos, net)

	moves := []string{"e2e4", "e7e5", "g1f3", "b8c6", "f1c4"}
	for _, uci := range moves {
		move, captured := findMove(t, pos, uci)
		pos.MakeMove(move)
		incremental.UpdateIncremental(pos, move, captured, net)
	}

	fromScratch := &Accumulator{}
	fromScratch.ComputeFull(pos, net)

	if !accumulatorsEqual(incremental, fromScratch) {
		t.Fatal("incrementally updated accumulator diverged from a full refresh after a quiet-move sequence")
	}
}

// TestIncrementalMatchesFullRefreshAcrossCapture exercises the non-king
// capture path (applyDelta on both perspectives) specifically.
func TestIncrementalMatchesFullRefreshAcrossCapture(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(7)

	pos, err := board.ParseFEN("rnbqkbnr/ppp1pppp/8/3p4/4P3/8/PPPP1PPP/RNBQKBNR w KQkq d6 0 2")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	incremental := &Accumulator{}
	incremental.ComputeFull(pos, net)

	move, captured := findMove(t, pos, "e4d5")
	pos.MakeMove(move)
	incremental.UpdateIncremental(pos, move, captured, net)

	fromScratch := &Accumulator{}
	fromScratch.ComputeFull(pos, net)

	if !accumulatorsEqual(incremental, fromScratch) {
		t.Fatal("incrementally updated accumulator diverged from a full refresh after a pawn capture")
	}
}

// TestKingMoveRefreshesOnlyMoverPerspective checks that moving a king leaves
// the non-mover's accumulator half untouched when nothing else about the
// position changed from that side's perspective.
func TestKingMoveRefreshesOnlyMoverPerspective(t *testing.T) {
	net := NewNetwork()
	net.InitRandom(3)

	pos, err := board.ParseFEN("4k3/8/8/8/8/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	acc := &Accumulator{}
	acc.ComputeFull(pos, net)
	blackBefore := acc.Black

	move, captured := findMove(t, pos, "e1d1")
	pos.MakeMove(move)
	acc.UpdateIncremental(pos, move, captured, net)

	if acc.Black != blackBefore {
		t.Fatal("white king move should not change black's accumulator half")
	}
}

// findMove looks up a legal move by its UCI string (e.g. "e2e4") and returns
// it along with the piece it captures, read before the move is made.
func findMove(t *testing.T, pos *board.Position, uci string) (board.Move, board.Piece) {
	t.Helper()

	from := board.NewSquare(int(uci[0]-'a'), int(uci[1]-'1'))
	to := board.NewSquare(int(uci[2]-'a'), int(uci[3]-'1'))

	var captured board.Piece
	if to == pos.EnPassant && pos.PieceAt(from).Type() == board.Pawn {
		captured = board.NewPiece(board.Pawn, pos.SideToMove.Other())
	} else {
		captured = pos.PieceAt(to)
	}

	moves := pos.GenerateLegalMoves()
	for i := 0; i < moves.Len(); i++ {
		m := moves.Get(i)
		if m.From() == from && m.To() == to {
			return m, captured
		}
	}

	t.Fatalf("move %s not found among legal moves", uci)
	return board.NoMove, board.NoPiece
}
