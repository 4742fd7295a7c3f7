package ast

import (
	"fmt"

	"fortio.org/safecast"
)

// Arena is a compact slice-backed store handing out 1-based indices, so the
// zero value of every ID type means "absent".
type Arena[T any] struct {
	data []T
}

// NewArena creates an arena whose backing slice is preallocated to capHint.
func NewArena[T any](capHint uint) *Arena[T] {
	return &Arena[T]{
		data: make([]T, 0, capHint),
	}
}

// Allocate appends value and returns its 1-based index.
func (a *Arena[T]) Allocate(value T) uint32 {
	if _, err := safecast.Conv[uint32](len(a.data) + 1); err != nil {
		panic(fmt.Errorf("ast arena overflow: %w", err))
	}
	a.data = append(a.data, value)
	return uint32(len(a.data))
}

// Get returns a pointer into the arena, or nil for index 0 / out of range.
func (a *Arena[T]) Get(index uint32) *T {
	if a == nil || index == 0 || int(index) > len(a.data) {
		return nil
	}
	return &a.data[index-1]
}

func (a *Arena[T]) Len() uint32 {
	if a == nil {
		return 0
	}
	return uint32(len(a.data))
}
