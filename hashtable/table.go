// Package hashtable implements a mutable hash table with separate
// chaining, built on a power-of-two array of singly linked chains
// rather than on Go's built-in map.
//
// The table is not safe for concurrent use. What it does detect is a
// traversal whose visitor changes the table's structure: see
// [Table.ForEach].
package hashtable

import (
	"fmt"
	"iter"
	"log/slog"
	"strings"
)

// Entry is a key/value association, as stored in or exported
// from a Table.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// entry is a link in a bucket chain. Its hash is the spread hash
// of key, computed once on insertion.
type entry[K, V any] struct {
	hash  uint32
	key   K
	value V
	next  *entry[K, V]
}

// Table is a hash-table-based mapping from keys K to values V.
//
// Just as with map[K]V, a nil *Table is a valid empty table
// for read-only operations.
type Table[K, V any] struct {
	hasher Hasher[K]

	// buckets holds the chain heads. Its length is zero before
	// the first Put and a power of two after.
	buckets []*entry[K, V]

	// size holds the number of live entries.
	size int

	// threshold holds the size above which the bucket array doubles.
	// Before the first allocation it holds the capacity to allocate,
	// or zero for DefaultCapacity.
	threshold int

	loadFactor float32

	// mods counts structural changes: new keys, removals and clears.
	mods uint64

	// walkers counts traversals in progress. While it is non-zero,
	// growth is postponed and Clear leaves the walked array intact.
	walkers       int
	resizePending bool

	logger *slog.Logger
}

// New returns an empty table that hashes keys with a [ComparableHasher].
func New[K comparable, V any](opts ...Option) *Table[K, V] {
	return NewWithHasher[K, V](ComparableHasher[K]{}, opts...)
}

// NewWithHasher returns an empty table that uses h to hash and compare keys.
func NewWithHasher[K, V any](h Hasher[K], opts ...Option) *Table[K, V] {
	if h == nil {
		panic("hashtable: nil Hasher")
	}
	var cfg Config
	for _, opt := range opts {
		opt(&cfg)
	}
	cfg.normalize()
	t := &Table[K, V]{
		hasher:     h,
		loadFactor: cfg.loadFactor,
		logger:     cfg.logger,
	}
	if cfg.hasSizeHint {
		t.threshold = tableSizeFor(cfg.sizeHint)
	}
	return t
}

// FromSeq returns a table holding the pairs of seq. When a key
// occurs more than once, the last value wins.
func FromSeq[K comparable, V any](seq iter.Seq2[K, V], opts ...Option) *Table[K, V] {
	t := New[K, V](opts...)
	t.PutAll(seq)
	return t
}

// Len returns the number of entries in the table.
func (t *Table[K, V]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// IsEmpty reports whether the table holds no entries.
func (t *Table[K, V]) IsEmpty() bool {
	return t.Len() == 0
}

// Cap returns the current length of the bucket array,
// zero if it has not been allocated yet.
func (t *Table[K, V]) Cap() int {
	if t == nil {
		return 0
	}
	return len(t.buckets)
}

func (t *Table[K, V]) hash(k K) uint32 {
	return spread(t.hasher.Hash(k))
}

func (t *Table[K, V]) find(k K) *entry[K, V] {
	if t == nil || len(t.buckets) == 0 {
		return nil
	}
	h := t.hash(k)
	for e := t.buckets[int(h)&(len(t.buckets)-1)]; e != nil; e = e.next {
		if e.hash == h && t.hasher.Equal(k, e.key) {
			return e
		}
	}
	return nil
}

// Get returns the value for key k and reports whether it was found.
func (t *Table[K, V]) Get(k K) (V, bool) {
	if e := t.find(k); e != nil {
		return e.value, true
	}
	return *new(V), false
}

// At returns the value for key k, or the zero value of V if not present.
func (t *Table[K, V]) At(k K) V {
	v, _ := t.Get(k)
	return v
}

// ContainsKey reports whether the table holds an entry for k.
func (t *Table[K, V]) ContainsKey(k K) bool {
	return t.find(k) != nil
}

// ContainsValueFunc reports whether some entry's value satisfies match.
// It visits every entry in the worst case.
func (t *Table[K, V]) ContainsValueFunc(match func(V) bool) bool {
	if t.Len() == 0 {
		return false
	}
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			if match(e.value) {
				return true
			}
		}
	}
	return false
}

// ContainsValue reports whether some entry of t has the value v.
func ContainsValue[K any, V comparable](t *Table[K, V], v V) bool {
	return t.ContainsValueFunc(func(x V) bool {
		return x == v
	})
}

// Put sets the value for k to v. If k was already present, Put
// returns the value it replaced and true; replacing a value is not a
// structural change.
func (t *Table[K, V]) Put(k K, v V) (prev V, replaced bool) {
	if t == nil {
		panic("(*Table).Put called on nil *Table")
	}
	if len(t.buckets) == 0 {
		t.resize()
	}
	h := t.hash(k)
	i := int(h) & (len(t.buckets) - 1)
	e := t.buckets[i]
	if e == nil {
		t.buckets[i] = &entry[K, V]{hash: h, key: k, value: v}
	} else {
		for {
			if e.hash == h && t.hasher.Equal(k, e.key) {
				prev, e.value = e.value, v
				return prev, true
			}
			if e.next == nil {
				break
			}
			e = e.next
		}
		// Append, so each chain stays in insertion order.
		e.next = &entry[K, V]{hash: h, key: k, value: v}
	}
	t.mods++
	t.size++
	if t.size > t.threshold {
		if t.walkers > 0 {
			t.resizePending = true
		} else {
			t.resize()
		}
	}
	return prev, false
}

// PutAll puts every pair of seq in order and returns
// the number of keys that were not present before.
func (t *Table[K, V]) PutAll(seq iter.Seq2[K, V]) int {
	added := 0
	for k, v := range seq {
		if _, replaced := t.Put(k, v); !replaced {
			added++
		}
	}
	return added
}

// Remove removes the entry with key k, if present, returning its
// value and whether it was found.
func (t *Table[K, V]) Remove(k K) (old V, removed bool) {
	if t == nil || len(t.buckets) == 0 {
		return old, false
	}
	h := t.hash(k)
	i := int(h) & (len(t.buckets) - 1)
	var pred *entry[K, V]
	for e := t.buckets[i]; e != nil; pred, e = e, e.next {
		if e.hash != h || !t.hasher.Equal(k, e.key) {
			continue
		}
		if pred == nil {
			t.buckets[i] = e.next
		} else {
			pred.next = e.next
		}
		t.mods++
		t.size--
		return e.value, true
	}
	return old, false
}

// Clear removes all entries. The bucket array keeps its length.
func (t *Table[K, V]) Clear() {
	if t == nil {
		return
	}
	t.mods++
	if len(t.buckets) == 0 || t.size == 0 {
		return
	}
	t.size = 0
	if t.walkers > 0 {
		// A traversal is still walking the current array.
		t.buckets = make([]*entry[K, V], len(t.buckets))
		return
	}
	clear(t.buckets)
}

// ForEach calls visit for every entry, bucket by bucket and in chain
// order within each bucket.
//
// If visit inserts a new key, removes a key or clears the table,
// ForEach still completes the pass and then returns an error
// matching [ErrConcurrentModification]. Entries present when ForEach
// started and not removed by visit are each visited exactly once.
// Replacing the value of an existing key is allowed.
func (t *Table[K, V]) ForEach(visit func(K, V)) error {
	if visit == nil {
		panic("hashtable: ForEach called with nil visitor")
	}
	if t.Len() == 0 {
		return nil
	}
	mods := t.mods
	t.walk(func(e *entry[K, V]) bool {
		visit(e.key, e.value)
		return true
	})
	if t.mods != mods {
		return &ConcurrentModificationError{Expected: mods, Actual: t.mods}
	}
	return nil
}

// walk calls f for each entry until f returns false.
// The bucket array is not replaced while walk runs.
func (t *Table[K, V]) walk(f func(e *entry[K, V]) bool) {
	if t == nil || len(t.buckets) == 0 {
		return
	}
	t.walkers++
	defer t.endWalk()
	for _, e := range t.buckets {
		for ; e != nil; e = e.next {
			if !f(e) {
				return
			}
		}
	}
}

func (t *Table[K, V]) endWalk() {
	t.walkers--
	if t.walkers == 0 && t.resizePending {
		t.resizePending = false
		// The visitor may have added more than one doubling's worth.
		for t.size > t.threshold {
			t.resize()
		}
	}
}

// All returns an iterator over all (key, value) pairs in the
// same order as ForEach.
//
// Unlike ForEach, All does not report structural changes made
// during iteration. Entries removed before they are reached are not
// yielded; entries inserted during iteration may or may not be.
func (t *Table[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		t.walk(func(e *entry[K, V]) bool {
			return yield(e.key, e.value)
		})
	}
}

// Keys returns an iterator over the keys in the same order as All.
func (t *Table[K, V]) Keys() iter.Seq[K] {
	return func(yield func(K) bool) {
		t.walk(func(e *entry[K, V]) bool {
			return yield(e.key)
		})
	}
}

// Values returns an iterator over the values in the same order as All.
func (t *Table[K, V]) Values() iter.Seq[V] {
	return func(yield func(V) bool) {
		t.walk(func(e *entry[K, V]) bool {
			return yield(e.value)
		})
	}
}

// Entries returns the live entries in the same order as All.
func (t *Table[K, V]) Entries() []Entry[K, V] {
	entries := make([]Entry[K, V], 0, t.Len())
	for k, v := range t.All() {
		entries = append(entries, Entry[K, V]{Key: k, Value: v})
	}
	return entries
}

// String formats the table like fmt formats a map,
// with entries in traversal order.
func (t *Table[K, V]) String() string {
	var b strings.Builder
	b.WriteString("map[")
	first := true
	for k, v := range t.All() {
		if !first {
			b.WriteByte(' ')
		}
		first = false
		fmt.Fprintf(&b, "%v:%v", k, v)
	}
	b.WriteByte(']')
	return b.String()
}
