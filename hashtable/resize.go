package hashtable

import (
	"context"
	"log/slog"
)

// resize allocates the bucket array if there is none, and otherwise
// doubles it, moving every chain into its two successor buckets.
// Once the array has MaxCapacity buckets it is left as it is and the
// table stops trying to grow.
func (t *Table[K, V]) resize() {
	old := t.buckets
	oldCap := len(old)
	var newCap int
	switch {
	case oldCap >= MaxCapacity:
		t.threshold = maxThreshold
		t.log(slog.LevelWarn, "hashtable capacity saturated", "cap", oldCap, "len", t.size)
		return
	case oldCap > 0:
		newCap = oldCap << 1
	case t.threshold > 0:
		// Capacity requested at construction.
		newCap = t.threshold
	default:
		newCap = DefaultCapacity
	}
	t.threshold = thresholdFor(newCap, t.loadFactor)
	buckets := make([]*entry[K, V], newCap)
	t.buckets = buckets
	for i, e := range old {
		if e == nil {
			continue
		}
		old[i] = nil
		if e.next == nil {
			buckets[int(e.hash)&(newCap-1)] = e
			continue
		}
		buckets[i], buckets[i+oldCap] = split(e, uint32(oldCap))
	}
	t.log(slog.LevelDebug, "hashtable resized", "oldCap", oldCap, "cap", newCap, "threshold", t.threshold, "len", t.size)
}

// split partitions the chain starting at e by the hash bit that
// distinguishes index i from index i+bit after doubling. Both
// returned chains keep the relative order they had in the input chain.
func split[K, V any](e *entry[K, V], bit uint32) (lo, hi *entry[K, V]) {
	var loTail, hiTail *entry[K, V]
	for next := e; e != nil; e = next {
		next = e.next
		if e.hash&bit == 0 {
			if loTail == nil {
				lo = e
			} else {
				loTail.next = e
			}
			loTail = e
		} else {
			if hiTail == nil {
				hi = e
			} else {
				hiTail.next = e
			}
			hiTail = e
		}
	}
	if loTail != nil {
		loTail.next = nil
	}
	if hiTail != nil {
		hiTail.next = nil
	}
	return lo, hi
}

func (t *Table[K, V]) log(level slog.Level, msg string, args ...any) {
	if t.logger == nil {
		return
	}
	t.logger.Log(context.Background(), level, msg, args...)
}
