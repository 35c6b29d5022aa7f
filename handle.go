package impulse

import (
	"fmt"
	"math"
)

// BodyRef identifies a body inserted into a World. The zero BodyRef is never valid.
type BodyRef struct {
	index, generation uint32
}

func (ref BodyRef) String() string {
	return fmt.Sprintf("body(%d#%d)", ref.index, ref.generation)
}

// ConstraintRef identifies a distance constraint inserted into a World. The zero
// ConstraintRef is never valid.
type ConstraintRef struct {
	index, generation uint32
}

func (ref ConstraintRef) String() string {
	return fmt.Sprintf("constraint(%d#%d)", ref.index, ref.generation)
}

// CustomRef identifies a custom constraint inserted into a World. The zero
// CustomRef is never valid.
type CustomRef struct {
	index, generation uint32
}

func (ref CustomRef) String() string {
	return fmt.Sprintf("custom(%d#%d)", ref.index, ref.generation)
}

type slot[T any] struct {
	value      T
	generation uint32
	live       bool
}

// slots is a generational arena. Freed slots are reused last-in first-out with a
// bumped generation so handles to the old occupant stop resolving.
type slots[T any] struct {
	entries []slot[T]
	free    []uint32
	count   int
}

func (s *slots[T]) insert(value T) (index, generation uint32) {
	if n := len(s.free); n > 0 {
		index = s.free[n-1]
		s.free = s.free[:n-1]
	} else {
		index = uint32(len(s.entries))
		s.entries = append(s.entries, slot[T]{generation: 1})
	}
	e := &s.entries[index]
	e.value = value
	e.live = true
	s.count++
	return index, e.generation
}

func (s *slots[T]) get(index, generation uint32) (*T, bool) {
	if int(index) >= len(s.entries) {
		return nil, false
	}
	e := &s.entries[index]
	if !e.live || e.generation != generation {
		return nil, false
	}
	return &e.value, true
}

func (s *slots[T]) remove(index, generation uint32) bool {
	if _, ok := s.get(index, generation); !ok {
		return false
	}
	e := &s.entries[index]
	var zero T
	e.value = zero
	e.live = false
	if e.generation == math.MaxUint32 {
		e.generation = 1
	} else {
		e.generation++
	}
	s.free = append(s.free, index)
	s.count--
	return true
}

// each visits live slots in ascending index order.
func (s *slots[T]) each(f func(index, generation uint32, value *T)) {
	for i := range s.entries {
		e := &s.entries[i]
		if e.live {
			f(uint32(i), e.generation, &e.value)
		}
	}
}

func (s *slots[T]) len() int {
	return s.count
}
