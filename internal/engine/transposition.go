package engine

import (
	"github.com/cespare/xxhash/v2"
	"github.com/Mohammed0101-lgtm/shahrazad/internal/board"
)

// TTBound indicates the type of bound stored in the transposition table.
type TTBound uint8

const (
	BoundNone  TTBound = iota // empty slot
	BoundUpper                // failed low, score is an upper bound
	BoundLower                // failed high, score is a lower bound
	BoundExact                // exact score within the search window
)

// bucketSize is the number of entries sharing one index, per §4.5.
const bucketSize = 3

// TTEntry is the 10-byte record described in §3. Every field is one or two
// bytes wide, so Go adds no padding and it occupies 10 bytes in memory; the
// wire-relevant parts are key16, depth, bound and age/pv packed into genBound.
type TTEntry struct {
	key16    uint16     // truncated position key, collision-checked on probe
	eval     int16      // raw static eval, independent of bound
	score    int16      // search value, mate-adjusted on the way in and out
	move     board.Move // packed best/refutation move
	depth    uint8      // depth this entry was stored at
	genBound uint8      // bit 7: was-PV, bits 2-6: age/generation, bits 0-1: TTBound
}

const ttAgeMask uint8 = 0x1F // 5 bits of generation

func packGenBound(age uint8, bound TTBound) uint8 {
	return ((age & ttAgeMask) << 2) | uint8(bound)
}

func (e *TTEntry) bound() TTBound { return TTBound(e.genBound & 0x3) }
func (e *TTEntry) age() uint8     { return (e.genBound >> 2) & ttAgeMask }

// ttBucket groups bucketSize entries under one index. entries[i].key16 is
// stored XORed with a checksum of the rest of the slot so a torn read during
// a concurrent write is statistically detectable (the Hyatt lock-less
// scheme, §5/§9): a writer updates the data fields first, and the key field
// last, always as `storedKey ^ slotChecksum(data)`; a reader recomputes the
// checksum over what it read and compares. A mismatch — whether from a torn
// read or a genuine miss — is treated identically: a probe miss.
type ttBucket struct {
	entries [bucketSize]TTEntry
}

// slotChecksum folds the mutable fields of an entry into one 16-bit value
// used to guard the stored key fragment against torn concurrent writes.
func slotChecksum(e TTEntry) uint16 {
	h := uint16(e.eval) ^ uint16(e.score) ^ uint16(e.move) ^ uint16(e.depth) ^ uint16(e.genBound)<<8
	return h
}

// TranspositionTable is the bucketed, age-aware, lock-free-write cache
// shared by every worker. There is no synchronization around reads or
// writes; races are tolerated and surface only as probe misses, never as
// corrupted memory, matching §5's ordering guarantees.
type TranspositionTable struct {
	buckets []ttBucket
	mask    uint64
	age     uint8

	hits   uint64
	probes uint64
}

// NewTranspositionTable allocates a table of the given size in megabytes,
// rounding the bucket count down to a power of two so indexing is a mask.
func NewTranspositionTable(sizeMB int) *TranspositionTable {
	bucketBytes := uint64(bucketSize) * 10 // each TTEntry occupies 10 bytes
	numBuckets := (uint64(sizeMB) * 1024 * 1024) / bucketBytes
	numBuckets = roundDownToPowerOf2(numBuckets)
	if numBuckets == 0 {
		numBuckets = 1
	}
	return &TranspositionTable{
		buckets: make([]ttBucket, numBuckets),
		mask:    numBuckets - 1,
	}
}

func roundDownToPowerOf2(n uint64) uint64 {
	if n == 0 {
		return 0
	}
	n |= n >> 1
	n |= n >> 2
	n |= n >> 4
	n |= n >> 8
	n |= n >> 16
	n |= n >> 32
	return (n + 1) >> 1
}

// index hashes the 64-bit Zobrist key with xxhash's finalizer (spec §4.5
// asks for "any uniform hash"; the reference multiplicative finalizer is
// swapped here for a vetted non-cryptographic hash rather than a hand-rolled
// multiply-shift) and reduces it to a bucket index.
func (tt *TranspositionTable) index(hash uint64) uint64 {
	var b [8]byte
	b[0] = byte(hash)
	b[1] = byte(hash >> 8)
	b[2] = byte(hash >> 16)
	b[3] = byte(hash >> 24)
	b[4] = byte(hash >> 32)
	b[5] = byte(hash >> 40)
	b[6] = byte(hash >> 48)
	b[7] = byte(hash >> 56)
	return xxhash.Sum64(b[:]) & tt.mask
}

// Probe looks up a position key. A torn or absent entry both report a miss.
func (tt *TranspositionTable) Probe(hash uint64) (TTEntry, bool) {
	tt.probes++
	bucket := &tt.buckets[tt.index(hash)]
	want := uint16(hash)
	for i := range bucket.entries {
		e := bucket.entries[i]
		storedKey := e.key16 ^ slotChecksum(e)
		if storedKey == want && e.genBound != 0 {
			tt.hits++
			return e, true
		}
	}
	return TTEntry{}, false
}

// Store inserts or updates an entry, replacing the lowest-priority slot in
// the bucket when full. Priority favors high depth and current-generation
// entries, per §4.5; an exact bound beats an inexact one at equal priority.
func (tt *TranspositionTable) Store(hash uint64, depth int, score int, eval int, bound TTBound, move board.Move, wasPV bool) {
	bucket := &tt.buckets[tt.index(hash)]
	want := uint16(hash)

	replace := 0
	replacePriority := int(^uint(0) >> 1) // max int: first candidate always wins
	for i := range bucket.entries {
		e := bucket.entries[i]
		storedKey := e.key16 ^ slotChecksum(e)
		if e.genBound == 0 {
			replace = i
			break
		}
		if storedKey == want {
			replace = i
			break
		}
		ageDelta := int(tt.age) - int(e.age())
		if ageDelta < 0 {
			ageDelta += int(ttAgeMask) + 1
		}
		priority := int(e.depth) - ageDelta*8
		if e.bound() == BoundExact {
			priority += 1 // exact entries are stickier at equal priority
		}
		if priority < replacePriority {
			replacePriority = priority
			replace = i
		}
	}

	entry := TTEntry{
		eval:  int16(eval),
		score: int16(score),
		move:  move,
		depth: uint8(depth),
	}
	pvBit := uint8(0)
	if wasPV {
		pvBit = 1
	}
	entry.genBound = packGenBound(tt.age, bound) | pvBit<<7
	entry.key16 = want ^ slotChecksum(entry)
	bucket.entries[replace] = entry
}

// WasPV reports whether the stored entry came from a PV search, packed into
// the high bit of genBound per §4.5's "age/bound/was-PV flags packed into
// one byte".
func (e *TTEntry) WasPV() bool { return e.genBound&0x80 != 0 }

func (e *TTEntry) Move() board.Move { return e.move }
func (e *TTEntry) Eval() int        { return int(e.eval) }
func (e *TTEntry) Score() int       { return int(e.score) }
func (e *TTEntry) Depth() int       { return int(e.depth) }
func (e *TTEntry) Bound() TTBound   { return e.bound() }

// Cutoff implements the cutoff contract of §4.5: a stored value may be used
// to short-circuit the current node when its depth is sufficient and its
// bound is consistent with the search window.
func (e *TTEntry) Cutoff(depth int, alpha, beta int) bool {
	if int(e.depth) < depth {
		return false
	}
	switch e.bound() {
	case BoundExact:
		return true
	case BoundLower:
		return int(e.score) >= beta
	case BoundUpper:
		return int(e.score) <= alpha
	default:
		return false
	}
}

// NewSearch advances the generation counter; called once per root iteration
// so replacement naturally discards entries from stale searches.
func (tt *TranspositionTable) NewSearch() {
	tt.age = (tt.age + 1) & ttAgeMask
}

func (tt *TranspositionTable) Clear() {
	for i := range tt.buckets {
		tt.buckets[i] = ttBucket{}
	}
	tt.age = 0
	tt.hits = 0
	tt.probes = 0
}

// HashFull samples the first 1000 entries across buckets for the permille
// of the table currently occupied by the active generation.
func (tt *TranspositionTable) HashFull() int {
	sampleBuckets := 1000 / bucketSize
	if sampleBuckets > len(tt.buckets) {
		sampleBuckets = len(tt.buckets)
	}
	if sampleBuckets == 0 {
		return 0
	}
	used := 0
	total := 0
	for i := 0; i < sampleBuckets; i++ {
		for _, e := range tt.buckets[i].entries {
			total++
			if e.genBound != 0 && e.age() == tt.age {
				used++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return (used * 1000) / total
}

func (tt *TranspositionTable) HitRate() float64 {
	if tt.probes == 0 {
		return 0
	}
	return float64(tt.hits) / float64(tt.probes) * 100
}

func (tt *TranspositionTable) Size() uint64 {
	return uint64(len(tt.buckets)) * bucketSize
}

// AdjustScoreFromTT and AdjustScoreToTT translate mate scores between the
// ply-independent form stored in the table and the ply-relative form used
// during search, per the standard mate-distance bookkeeping.
func AdjustScoreFromTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score - ply
	}
	if score < -MateScore+MaxPly {
		return score + ply
	}
	return score
}

func AdjustScoreToTT(score int, ply int) int {
	if score > MateScore-MaxPly {
		return score + ply
	}
	if score < -MateScore+MaxPly {
		return score - ply
	}
	return score
}
