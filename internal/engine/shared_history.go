package engine

import "sync/atomic"

// SharedHistory is a butterfly history table shared across all Lazy SMP
// workers, so a quiet-move pattern one worker learns feeds the ordering of
// every other worker immediately rather than after the next Clear(). Updates
// race by design; atomics only guarantee each individual read/write is not
// torn, not that concurrent updates serialize cleanly.
type SharedHistory struct {
	table [64][64]int32
}

// NewSharedHistory creates an empty shared history table.
func NewSharedHistory() *SharedHistory {
	return &SharedHistory{}
}

// Get returns the current shared history score for a (from, to) pair.
func (h *SharedHistory) Get(from, to int) int {
	return int(atomic.LoadInt32(&h.table[from][to]))
}

// Update adds bonus to the (from, to) entry. A result above 400000 is halved
// and a result below -400000 is clamped to -400000; other entries are untouched.
func (h *SharedHistory) Update(from, to, bonus int) {
	slot := &h.table[from][to]
	for {
		old := atomic.LoadInt32(slot)
		next := old + int32(bonus)
		if next > 400000 {
			next /= 2
		} else if next < -400000 {
			next = -400000
		}
		if atomic.CompareAndSwapInt32(slot, old, next) {
			return
		}
	}
}
