package hashtable

import (
	"errors"
	"fmt"
)

// ErrConcurrentModification is matched (via errors.Is) by the error
// ForEach returns when its visitor inserted a new key, removed a key
// or cleared the table.
var ErrConcurrentModification = errors.New("hashtable: concurrent modification")

// ConcurrentModificationError records the modification count
// observed before and after a traversal.
type ConcurrentModificationError struct {
	Expected uint64
	Actual   uint64
}

func (e *ConcurrentModificationError) Error() string {
	return fmt.Sprintf("hashtable: concurrent modification during traversal (%d structural changes)", e.Actual-e.Expected)
}

// Is reports whether target is ErrConcurrentModification.
func (e *ConcurrentModificationError) Is(target error) bool {
	return target == ErrConcurrentModification
}
