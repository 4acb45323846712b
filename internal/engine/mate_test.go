package engine

import (
	"testing"
	"time"

	"github.com/Mohammed0101-lgtm/shahrazad/internal/board"
)

// TestFindsMateInOne checks the full search stack picks the only mating move
// in a simple back-rank position rather than settling for a merely good one.
func TestFindsMateInOne(t *testing.T) {
	// White: Ra1, Kg1. Black: Kh8, pawns g7/h7 boxed in.
	// Ra1-a8 is mate.
	pos, err := board.ParseFEN("7k/6pp/8/8/8/8/8/R5K1 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	limits := SearchLimits{
		Depth:    6,
		MoveTime: 2 * time.Second,
	}

	move := eng.SearchWithLimits(pos, limits)
	if move == board.NoMove {
		t.Fatal("search returned no move in a mate-in-1 position")
	}

	want := board.NewMove(board.A1, board.A8)
	if move != want {
		t.Errorf("expected mating move %s, got %s", want.String(), move.String())
	}

	undo := pos.MakeMove(move)
	defer pos.UnmakeMove(move, undo)
	pos.UpdateCheckers()

	if !pos.IsCheckmate() {
		t.Error("chosen move did not actually deliver checkmate")
	}
}

// TestAvoidsStalemateWhenWinning checks the search does not walk into a
// stalemate trap when a clearly won position has one available.
func TestAvoidsStalemateWhenWinning(t *testing.T) {
	// White king b6 and queen d6 against a lone black king on a8, White to
	// move: Qc7 is the classic stalemate trap (a7, b7 and b8 all covered,
	// no check), while Qd8 mates.
	pos, err := board.ParseFEN("k7/8/1K1Q4/8/8/8/8/8 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	eng := NewEngine(16)
	limits := SearchLimits{
		Depth:    8,
		MoveTime: 2 * time.Second,
	}

	move := eng.SearchWithLimits(pos, limits)
	if move == board.NoMove {
		t.Fatal("search returned no move in a winning position")
	}

	undo := pos.MakeMove(move)
	defer pos.UnmakeMove(move, undo)
	pos.UpdateCheckers()

	if pos.IsStalemate() {
		t.Errorf("search chose move %s which stalemates a winning position", move.String())
	}
}
