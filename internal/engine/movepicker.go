package engine

import (
	"github.com/Mohammed0101-lgtm/shahrazad/internal/board"
)

// pickerStage enumerates the explicit stages a MovePicker walks through for
// one node, per §4.6. Stage transitions are an explicit switch in Next(),
// not hidden behind a lazy iterator, so tests can assert emission order.
type pickerStage int

const (
	stageTTMove pickerStage = iota
	stageGenNoisy
	stageGoodNoisy
	stageKiller1
	stageKiller2
	stageCounter
	stageGenQuiet
	stageQuiet
	stageGenBadNoisy
	stageBadNoisy
	stageDone
)

// seeThreshold is the stage-dependent SEE floor below which a noisy move is
// deferred to the bad-noisy stage instead of being tried early.
const seeThreshold = -1

// MovePicker yields moves for one search node in staged order: TT move,
// good captures/promotions by SEE, killers, counter-move, quiet moves by
// history, then deferred bad captures. qsearch callers construct it with
// qsearchOnly=true, which limits generation to tactical moves only (all
// moves when the side to move is in check, handled by the caller passing
// inCheck).
type MovePicker struct {
	pos      *board.Position
	orderer  *MoveOrderer
	ttMove   board.Move
	prevMove board.Move
	ply      int

	stage pickerStage

	all     board.MoveList
	noisy   []board.Move
	noisySc []int
	quiet   []board.Move
	quietSc []int
	bad     []board.Move
	badSc   []int

	idx int

	qsearchOnly bool
	inCheck     bool

	emittedTT      bool
	emittedKiller1 bool
	emittedKiller2 bool
	emittedCounter bool
	killer1        board.Move
	killer2        board.Move
	counterMove    board.Move
}

// NewMovePicker builds a picker for a normal search node.
func NewMovePicker(pos *board.Position, orderer *MoveOrderer, ttMove, prevMove board.Move, ply int) *MovePicker {
	return &MovePicker{
		pos:      pos,
		orderer:  orderer,
		ttMove:   ttMove,
		prevMove: prevMove,
		ply:      ply,
		stage:    stageTTMove,
		killer1:  orderer.killers[ply][0],
		killer2:  orderer.killers[ply][1],
	}
}

// NewQSearchMovePicker builds a picker for quiescence search: only tactical
// moves are emitted unless inCheck, in which case all legal moves are tried.
func NewQSearchMovePicker(pos *board.Position, orderer *MoveOrderer, ttMove board.Move, inCheck bool) *MovePicker {
	return &MovePicker{
		pos:         pos,
		orderer:     orderer,
		ttMove:      ttMove,
		stage:       stageTTMove,
		qsearchOnly: !inCheck,
		inCheck:     inCheck,
	}
}

// Next returns the next move in stage order, or board.NoMove once exhausted.
// When skipQuiet is true, killer/counter/quiet stages are bypassed (used by
// late-move pruning and always in qsearch outside of check).
func (mp *MovePicker) Next(skipQuiet bool) board.Move {
	for {
		switch mp.stage {
		case stageTTMove:
			mp.stage = stageGenNoisy
			if mp.ttMove != board.NoMove && isPseudoLegalForStage(mp.pos, mp.ttMove, mp.qsearchOnly) {
				return mp.ttMove
			}

		case stageGenNoisy:
			mp.generateNoisy()
			mp.stage = stageGoodNoisy

		case stageGoodNoisy:
			if mp.idx < len(mp.noisy) {
				m, ok := mp.pickBest(mp.noisy, mp.noisySc, mp.idx)
				if !ok {
					mp.idx = len(mp.noisy)
					mp.stage = stageKiller1
					continue
				}
				if SEE(mp.pos, m) < seeThreshold {
					// defer to bad-noisy stage
					mp.bad = append(mp.bad, m)
					mp.badSc = append(mp.badSc, mp.noisySc[mp.idx])
					mp.idx++
					continue
				}
				mp.idx++
				if m == mp.ttMove {
					continue
				}
				return m
			}
			mp.stage = stageKiller1

		case stageKiller1:
			mp.stage = stageKiller2
			if mp.qsearchOnly || skipQuiet {
				continue
			}
			if mp.killer1 != board.NoMove && mp.killer1 != mp.ttMove &&
				mp.pos.IsPseudoLegal(mp.killer1) && !mp.killer1.IsCapture(mp.pos) {
				return mp.killer1
			}

		case stageKiller2:
			mp.stage = stageCounter
			if mp.qsearchOnly || skipQuiet {
				continue
			}
			if mp.killer2 != board.NoMove && mp.killer2 != mp.ttMove && mp.killer2 != mp.killer1 &&
				mp.pos.IsPseudoLegal(mp.killer2) && !mp.killer2.IsCapture(mp.pos) {
				return mp.killer2
			}

		case stageCounter:
			mp.stage = stageGenQuiet
			if mp.qsearchOnly || skipQuiet {
				continue
			}
			mp.counterMove = mp.orderer.GetCounterMove(mp.prevMove, mp.pos)
			if mp.counterMove != board.NoMove && mp.counterMove != mp.ttMove &&
				mp.counterMove != mp.killer1 && mp.counterMove != mp.killer2 &&
				mp.pos.IsPseudoLegal(mp.counterMove) && !mp.counterMove.IsCapture(mp.pos) {
				return mp.counterMove
			}

		case stageGenQuiet:
			mp.stage = stageQuiet
			mp.idx = 0
			if mp.qsearchOnly || skipQuiet {
				mp.stage = stageGenBadNoisy
				continue
			}
			mp.generateQuiet()

		case stageQuiet:
			if mp.idx < len(mp.quiet) {
				m, ok := mp.pickBest(mp.quiet, mp.quietSc, mp.idx)
				mp.idx++
				if !ok {
					continue
				}
				if m == mp.ttMove || m == mp.killer1 || m == mp.killer2 || m == mp.counterMove {
					continue
				}
				return m
			}
			mp.stage = stageGenBadNoisy

		case stageGenBadNoisy:
			mp.idx = 0
			mp.stage = stageBadNoisy

		case stageBadNoisy:
			if mp.idx < len(mp.bad) {
				m, ok := mp.pickBest(mp.bad, mp.badSc, mp.idx)
				mp.idx++
				if !ok || m == mp.ttMove {
					continue
				}
				return m
			}
			mp.stage = stageDone

		case stageDone:
			return board.NoMove
		}
	}
}

// pickBest performs one lazy partial-selection-sort step starting at index
// i, swapping the best-scored remaining move into place and returning it.
func (mp *MovePicker) pickBest(moves []board.Move, scores []int, i int) (board.Move, bool) {
	if i >= len(moves) {
		return board.NoMove, false
	}
	best := i
	for j := i + 1; j < len(moves); j++ {
		if scores[j] > scores[best] {
			best = j
		}
	}
	moves[i], moves[best] = moves[best], moves[i]
	scores[i], scores[best] = scores[best], scores[i]
	return moves[i], true
}

func (mp *MovePicker) generateNoisy() {
	ml := mp.pos.GeneratePseudoLegalMoves()
	for i := 0; i < ml.Len(); i++ {
		m := ml.Get(i)
		if !mp.pos.IsLegal(m) {
			continue
		}
		if m.IsCapture(mp.pos) || m.IsPromotion() {
			mp.noisy = append(mp.noisy, m)
			mp.noisySc = append(mp.noisySc, mp.orderer.scoreMove(mp.pos, m, mp.ply, mp.ttMove))
		} else if mp.qsearchOnly && mp.inCheck {
			// evasions: every legal move is tactical in the qsearch sense
			mp.quiet = append(mp.quiet, m)
			mp.quietSc = append(mp.quietSc, mp.orderer.scoreMove(mp.pos, m, mp.ply, mp.ttMove))
		} else if !mp.qsearchOnly {
			mp.quiet = append(mp.quiet, m)
			mp.quietSc = append(mp.quietSc, mp.orderer.scoreMove(mp.pos, m, mp.ply, mp.ttMove))
		}
	}
}

// generateQuiet is a no-op when generateNoisy already captured quiets
// (normal-search case); it exists so qsearch-in-check can reuse the same
// staged flow without a second generation pass.
func (mp *MovePicker) generateQuiet() {}

func isPseudoLegalForStage(pos *board.Position, m board.Move, tacticalOnly bool) bool {
	if !pos.IsPseudoLegal(m) {
		return false
	}
	if tacticalOnly && !m.IsCapture(pos) && !m.IsPromotion() {
		return false
	}
	return pos.IsLegal(m)
}
