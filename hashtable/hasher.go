package hashtable

import (
	"bytes"
	"hash/maphash"

	"github.com/cespare/xxhash/v2"
	"golang.org/x/exp/constraints"
)

// A Hasher defines a hash function and an equivalence relation over
// values of type T. Equal values must hash identically.
//
// The hashers in this package, apart from FuncHasher,
// hash the zero value of T to 0.
type Hasher[T any] interface {
	Hash(T) uint32
	Equal(x, y T) bool
}

// seed is shared by all ComparableHashers, so hashes are stable
// for the lifetime of the process.
var seed = maphash.MakeSeed()

// ComparableHasher is an implementation of [Hasher] for comparable types.
// Its Equal(x, y) method is consistent with x == y.
type ComparableHasher[T comparable] struct {
	_ [0]func(T) // disallow comparison, and conversion between ComparableHasher[X] and ComparableHasher[Y]
}

func (ComparableHasher[T]) Hash(v T) uint32 {
	var zero T
	if v == zero {
		return 0
	}
	return fold(maphash.Comparable(seed, v))
}

func (ComparableHasher[T]) Equal(x, y T) bool { return x == y }

// IntHasher hashes integers by folding their 64-bit representation,
// so small non-negative keys hash to themselves.
type IntHasher[T constraints.Integer] struct{}

func (IntHasher[T]) Hash(v T) uint32 { return fold(uint64(v)) }

func (IntHasher[T]) Equal(x, y T) bool { return x == y }

// StringHasher hashes strings with xxhash.
type StringHasher struct{}

func (StringHasher) Hash(s string) uint32 {
	if s == "" {
		return 0
	}
	return fold(xxhash.Sum64String(s))
}

func (StringHasher) Equal(x, y string) bool { return x == y }

// BytesHasher hashes byte slices by content with xxhash.
// A nil slice and an empty slice are the same key.
type BytesHasher struct{}

func (BytesHasher) Hash(b []byte) uint32 {
	if len(b) == 0 {
		return 0
	}
	return fold(xxhash.Sum64(b))
}

func (BytesHasher) Equal(x, y []byte) bool { return bytes.Equal(x, y) }

// FuncHasher adapts a pair of functions to the Hasher interface.
type FuncHasher[T any] struct {
	HashFunc  func(T) uint32
	EqualFunc func(x, y T) bool
}

func (h FuncHasher[T]) Hash(v T) uint32 { return h.HashFunc(v) }

func (h FuncHasher[T]) Equal(x, y T) bool { return h.EqualFunc(x, y) }

func fold(h uint64) uint32 {
	return uint32(h ^ h>>32)
}

// spread mixes the high half of h into the low half. Bucket indexes
// only use the low bits, so without this, hashes that differ only in
// their high bits would always collide.
func spread(h uint32) uint32 {
	return h ^ h>>16
}
