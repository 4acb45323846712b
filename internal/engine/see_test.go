package engine

import (
	"testing"

	"github.com/Mohammed0101-lgtm/shahrazad/internal/board"
)

// TestSEEWinningCapture checks a pawn capturing an undefended queen reports
// a large positive gain.
func TestSEEWinningCapture(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/3q4/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	move := board.NewMove(board.E4, board.D5)
	gain := SEE(pos, move)
	if gain <= 0 {
		t.Errorf("expected positive SEE for pawn takes undefended queen, got %d", gain)
	}
}

// TestSEELosingCapture checks a queen capturing a pawn defended by another
// pawn reports a negative gain (queen is lost for a pawn).
func TestSEELosingCapture(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/2p5/3p4/8/8/8/3QK3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	move := board.NewMove(board.D1, board.D5)
	gain := SEE(pos, move)
	if gain >= 0 {
		t.Errorf("expected negative SEE for queen takes pawn defended by pawn, got %d", gain)
	}
}

// TestSEENonCaptureIsZero checks a quiet move (no piece on the target
// square) reports zero rather than panicking on a missing victim.
func TestSEENonCaptureIsZero(t *testing.T) {
	pos, err := board.ParseFEN("4k3/8/8/8/4P3/8/8/4K3 w - - 0 1")
	if err != nil {
		t.Fatalf("ParseFEN: %v", err)
	}

	move := board.NewMove(board.E4, board.E5)
	if gain := SEE(pos, move); gain != 0 {
		t.Errorf("expected SEE 0 for a quiet move, got %d", gain)
	}
}
