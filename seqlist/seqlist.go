// Package seqlist moves entries between hash tables and the
// ordered lists of github.com/emirpasic/gods.
//
// Lists hold [hashtable.Entry] values. Nothing here depends on how a
// particular list stores its elements: loading reads [lists.List]
// Values and exporting only calls Add.
package seqlist

import (
	"cmp"
	"fmt"

	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/google/btree"

	"github.com/theAngryBeavers/collections/hashtable"
)

// btreeDegree is the degree of the temporary trees used for sorting.
const btreeDegree = 16

// FromList returns a new table holding the entries of l. When a key
// occurs more than once, the last entry wins.
func FromList[K comparable, V any](l lists.List, opts ...hashtable.Option) (*hashtable.Table[K, V], error) {
	entries, err := entriesOf[K, V](l)
	if err != nil {
		return nil, err
	}
	t := hashtable.New[K, V](append([]hashtable.Option{hashtable.WithCapacity(capacityFor(len(entries)))}, opts...)...)
	for _, e := range entries {
		t.Put(e.Key, e.Value)
	}
	return t, nil
}

// LoadList puts the entries of l into t in list order and returns the
// number of keys that were not present before. If any element of l
// is not a hashtable.Entry[K, V], LoadList returns an error and t is
// left unchanged.
func LoadList[K, V any](t *hashtable.Table[K, V], l lists.List) (int, error) {
	entries, err := entriesOf[K, V](l)
	if err != nil {
		return 0, err
	}
	added := 0
	for _, e := range entries {
		if _, replaced := t.Put(e.Key, e.Value); !replaced {
			added++
		}
	}
	return added, nil
}

func entriesOf[K, V any](l lists.List) ([]hashtable.Entry[K, V], error) {
	values := l.Values()
	entries := make([]hashtable.Entry[K, V], len(values))
	for i, x := range values {
		e, ok := x.(hashtable.Entry[K, V])
		if !ok {
			return nil, fmt.Errorf("seqlist: element %d has type %T, want %T", i, x, e)
		}
		entries[i] = e
	}
	return entries, nil
}

// capacityFor returns a bucket count that holds n entries
// at the default load factor without growing.
func capacityFor(n int) int {
	return max(hashtable.DefaultCapacity, int(float32(n)/hashtable.DefaultLoadFactor)+1)
}

// ToList returns a doubly linked list of t's entries
// in traversal order.
func ToList[K, V any](t *hashtable.Table[K, V]) *doublylinkedlist.List {
	l := doublylinkedlist.New()
	AppendTo(t, l)
	return l
}

// AppendTo adds t's entries to the end of l in traversal order.
func AppendTo[K, V any](t *hashtable.Table[K, V], l lists.List) {
	values := make([]any, 0, t.Len())
	for k, v := range t.All() {
		values = append(values, hashtable.Entry[K, V]{Key: k, Value: v})
	}
	l.Add(values...)
}

// Sorted returns t's entries ordered by key according to less.
// Keys that less considers equal collapse to the one visited last.
func Sorted[K, V any](t *hashtable.Table[K, V], less func(a, b K) bool) []hashtable.Entry[K, V] {
	tree := btree.NewG[hashtable.Entry[K, V]](btreeDegree, func(a, b hashtable.Entry[K, V]) bool {
		return less(a.Key, b.Key)
	})
	for k, v := range t.All() {
		tree.ReplaceOrInsert(hashtable.Entry[K, V]{Key: k, Value: v})
	}
	entries := make([]hashtable.Entry[K, V], 0, tree.Len())
	tree.Ascend(func(e hashtable.Entry[K, V]) bool {
		entries = append(entries, e)
		return true
	})
	return entries
}

// SortedByKey is Sorted using the natural order of K.
func SortedByKey[K cmp.Ordered, V any](t *hashtable.Table[K, V]) []hashtable.Entry[K, V] {
	return Sorted(t, cmp.Less[K])
}

// SortedList is like Sorted but returns the entries
// as a doubly linked list.
func SortedList[K, V any](t *hashtable.Table[K, V], less func(a, b K) bool) *doublylinkedlist.List {
	l := doublylinkedlist.New()
	for _, e := range Sorted(t, less) {
		l.Add(e)
	}
	return l
}
