package engine

import (
	"testing"

	"github.com/Mohammed0101-lgtm/shahrazad/internal/board"
)

// TestTTCutoffIdempotent checks that probing the same key repeatedly returns
// an identical entry, and that Cutoff's verdict for a fixed (depth, alpha,
// beta) window does not change across repeated calls — a torn read or a
// replacement race would otherwise make the cutoff decision flicker.
func TestTTCutoffIdempotent(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(0xABCDEF0123456789)
	move := board.NewMove(board.E2, board.E4)

	tt.Store(hash, 10, 55, 40, BoundExact, move, true)

	first, found := tt.Probe(hash)
	if !found {
		t.Fatal("expected probe hit right after store")
	}

	for i := 0; i < 100; i++ {
		entry, ok := tt.Probe(hash)
		if !ok {
			t.Fatalf("iteration %d: expected probe hit", i)
		}
		if entry.Move() != first.Move() || entry.Score() != first.Score() ||
			entry.Depth() != first.Depth() || entry.Bound() != first.Bound() {
			t.Fatalf("iteration %d: probe returned a different entry across repeated reads", i)
		}
		if !entry.Cutoff(8, -100, 100) {
			t.Fatalf("iteration %d: expected cutoff to hold for depth<=stored and wide window", i)
		}
	}
}

// TestTTBoundSemantics checks that Cutoff honors lower/upper/exact bound
// semantics against the search window, not just the stored score.
func TestTTBoundSemantics(t *testing.T) {
	tt := NewTranspositionTable(1)
	hash := uint64(42)
	move := board.NoMove

	tt.Store(hash, 5, 100, 100, BoundLower, move, false)
	entry, _ := tt.Probe(hash)
	if !entry.Cutoff(5, -1000, 50) {
		t.Error("lower bound of 100 should cut off when beta=50")
	}
	if entry.Cutoff(5, -1000, 200) {
		t.Error("lower bound of 100 should not cut off when beta=200")
	}

	tt.Store(hash, 5, -100, -100, BoundUpper, move, false)
	entry, _ = tt.Probe(hash)
	if !entry.Cutoff(5, -50, 1000) {
		t.Error("upper bound of -100 should cut off when alpha=-50")
	}
	if entry.Cutoff(5, -200, 1000) {
		t.Error("upper bound of -100 should not cut off when alpha=-200")
	}
}

// TestTTAdjustScoreRoundTrip checks mate scores survive the ply-relative /
// ply-independent translation used when storing and reading back from the TT.
func TestTTAdjustScoreRoundTrip(t *testing.T) {
	cases := []struct {
		score, ply int
	}{
		{MateScore - 3, 5},
		{-MateScore + 3, 5},
		{250, 7},
		{-250, 7},
	}

	for _, c := range cases {
		stored := AdjustScoreToTT(c.score, c.ply)
		back := AdjustScoreFromTT(stored, c.ply)
		if back != c.score {
			t.Errorf("score %d at ply %d: round-trip gave %d", c.score, c.ply, back)
		}
	}
}
