package hashtable

import (
	"math"
	"testing"

	"github.com/go-quicktest/qt"
)

// identityHasher places key k in bucket k&(cap-1) for small k.
var identityHasher = FuncHasher[int]{
	HashFunc:  func(k int) uint32 { return uint32(k) },
	EqualFunc: func(x, y int) bool { return x == y },
}

func chainKeys[V any](t *Table[int, V], i int) []int {
	var keys []int
	for e := t.buckets[i]; e != nil; e = e.next {
		keys = append(keys, e.key)
	}
	return keys
}

var tableSizeForTests = []struct {
	n    int
	want int
}{
	{-5, 1},
	{0, 1},
	{1, 1},
	{2, 2},
	{3, 4},
	{16, 16},
	{17, 32},
	{1000, 1024},
	{MaxCapacity - 1, MaxCapacity},
	{MaxCapacity, MaxCapacity},
	{MaxCapacity + 1, MaxCapacity},
}

func TestTableSizeFor(t *testing.T) {
	for _, test := range tableSizeForTests {
		qt.Check(t, qt.Equals(tableSizeFor(test.n), test.want), qt.Commentf("n=%d", test.n))
	}
}

func TestThresholdFor(t *testing.T) {
	qt.Assert(t, qt.Equals(thresholdFor(16, 0.75), 12))
	qt.Assert(t, qt.Equals(thresholdFor(16, 0.3), 4))
	qt.Assert(t, qt.Equals(thresholdFor(1, 0.75), 0))
	qt.Assert(t, qt.Equals(thresholdFor(MaxCapacity, 0.75), maxThreshold))
	qt.Assert(t, qt.Equals(thresholdFor(1<<29, 4), maxThreshold))
	qt.Assert(t, qt.Equals(thresholdFor(16, float32(math.Inf(1))), maxThreshold))
}

func TestSpread(t *testing.T) {
	qt.Assert(t, qt.Equals(spread(0), 0))
	qt.Assert(t, qt.Equals(spread(0xffff), 0xffff))
	qt.Assert(t, qt.Equals(spread(0x12340000), 0x12341234))
	qt.Assert(t, qt.Equals(spread(0xffffffff), 0xffff0000))
}

func TestConfigNormalize(t *testing.T) {
	tests := []struct {
		opts          []Option
		wantThreshold int
		wantLoad      float32
	}{
		{nil, 0, DefaultLoadFactor},
		{[]Option{WithLoadFactor(0)}, 0, DefaultLoadFactor},
		{[]Option{WithLoadFactor(-1)}, 0, DefaultLoadFactor},
		{[]Option{WithLoadFactor(float32(math.NaN()))}, 0, DefaultLoadFactor},
		{[]Option{WithLoadFactor(0.5)}, 0, 0.5},
		{[]Option{WithCapacity(100)}, 128, DefaultLoadFactor},
		{[]Option{WithCapacity(0)}, 1, DefaultLoadFactor},
		{[]Option{WithCapacity(-1)}, DefaultCapacity, DefaultLoadFactor},
		{[]Option{WithCapacity(MaxCapacity + 1)}, MaxCapacity, DefaultLoadFactor},
	}
	for i, test := range tests {
		tab := NewWithHasher[int, int](identityHasher, test.opts...)
		qt.Check(t, qt.Equals(tab.threshold, test.wantThreshold), qt.Commentf("test %d", i))
		qt.Check(t, qt.Equals(tab.loadFactor, test.wantLoad), qt.Commentf("test %d", i))
		qt.Check(t, qt.IsNil(tab.buckets), qt.Commentf("test %d", i))
	}
}

func TestPendingCapacityUsedOnFirstPut(t *testing.T) {
	tab := NewWithHasher[int, int](identityHasher, WithCapacity(100))
	tab.Put(1, 1)
	qt.Assert(t, qt.Equals(len(tab.buckets), 128))
	qt.Assert(t, qt.Equals(tab.threshold, 96))
}

func TestChainKeepsInsertionOrder(t *testing.T) {
	tab := NewWithHasher[int, string](identityHasher)
	for _, k := range []int{1, 17, 33, 49, 65} {
		tab.Put(k, "")
	}
	qt.Assert(t, qt.DeepEquals(chainKeys(tab, 1), []int{1, 17, 33, 49, 65}))

	tab.Remove(33)
	qt.Assert(t, qt.DeepEquals(chainKeys(tab, 1), []int{1, 17, 49, 65}))
	tab.Remove(1)
	qt.Assert(t, qt.DeepEquals(chainKeys(tab, 1), []int{17, 49, 65}))
	tab.Put(33, "")
	qt.Assert(t, qt.DeepEquals(chainKeys(tab, 1), []int{17, 49, 65, 33}))
}

func TestResizeSplitPreservesOrder(t *testing.T) {
	tab := NewWithHasher[int, string](identityHasher)
	// All in bucket 1 of 16; 17 and 49 move to bucket 17 of 32.
	for _, k := range []int{1, 17, 33, 49, 65} {
		tab.Put(k, "")
	}
	for k := 2; k <= 8; k++ {
		tab.Put(k, "")
	}
	qt.Assert(t, qt.Equals(tab.size, 12))
	qt.Assert(t, qt.Equals(len(tab.buckets), 16))

	tab.Put(9, "")
	qt.Assert(t, qt.Equals(len(tab.buckets), 32))
	qt.Assert(t, qt.Equals(tab.threshold, 24))
	qt.Assert(t, qt.DeepEquals(chainKeys(tab, 1), []int{1, 33, 65}))
	qt.Assert(t, qt.DeepEquals(chainKeys(tab, 17), []int{17, 49}))
	for k := 2; k <= 9; k++ {
		qt.Assert(t, qt.DeepEquals(chainKeys(tab, k), []int{k}))
	}
}

func TestSplitAllLowOrAllHigh(t *testing.T) {
	chain := func(hashes ...uint32) *entry[int, int] {
		var head, tail *entry[int, int]
		for i, h := range hashes {
			e := &entry[int, int]{hash: h, key: i}
			if tail == nil {
				head = e
			} else {
				tail.next = e
			}
			tail = e
		}
		return head
	}
	keys := func(e *entry[int, int]) []int {
		var ks []int
		for ; e != nil; e = e.next {
			ks = append(ks, e.key)
		}
		return ks
	}

	lo, hi := split(chain(3, 3+32, 3+64), 16)
	qt.Assert(t, qt.DeepEquals(keys(lo), []int{0, 1, 2}))
	qt.Assert(t, qt.IsNil(hi))

	lo, hi = split(chain(3+16, 3+48), 16)
	qt.Assert(t, qt.IsNil(lo))
	qt.Assert(t, qt.DeepEquals(keys(hi), []int{0, 1}))
}

func TestResizeDeferredDuringForEach(t *testing.T) {
	tab := NewWithHasher[int, int](identityHasher)
	for k := range 12 {
		tab.Put(k, k)
	}
	err := tab.ForEach(func(k, v int) {
		if k < 12 {
			for j := range 10 {
				tab.Put(1000+k*10+j, v)
			}
			qt.Check(t, qt.Equals(len(tab.buckets), 16))
		}
	})
	qt.Assert(t, qt.ErrorIs(err, ErrConcurrentModification))
	qt.Assert(t, qt.Equals(tab.walkers, 0))
	qt.Assert(t, qt.IsFalse(tab.resizePending))
	qt.Assert(t, qt.Equals(tab.size, 132))
	qt.Assert(t, qt.Equals(len(tab.buckets), 256))
	qt.Assert(t, qt.Equals(tab.threshold, 192))
}
