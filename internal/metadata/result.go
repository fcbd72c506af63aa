package metadata

import (
	"fmt"
	"reflect"
)

// resultState is the completion state of a lookup.
type resultState int

const (
	stateSearching resultState = iota
	stateFound
	stateNotFound
)

// Result is the three-state outcome of a metadata lookup: a resolution that
// has not completed yet (Searching), a completed resolution with a value
// (Found), or a completed resolution with no value (NotFound).
//
// Searching covers both "in flight" and "launched just now"; callers cannot
// distinguish the two and should re-poll after the resolver's update signal.
type Result[T any] struct {
	state resultState
	value T
}

// Searching returns a Result for a resolution that has not completed.
func Searching[T any]() Result[T] {
	return Result[T]{state: stateSearching}
}

// Found returns a completed Result carrying a value.
func Found[T any](value T) Result[T] {
	return Result[T]{state: stateFound, value: value}
}

// NotFound returns a completed Result with no value.
func NotFound[T any]() Result[T] {
	return Result[T]{state: stateNotFound}
}

// IsSearching reports whether the resolution has not completed yet.
func (r Result[T]) IsSearching() bool {
	return r.state == stateSearching
}

// Value returns the resolved value and whether one was found.
func (r Result[T]) Value() (T, bool) {
	return r.value, r.state == stateFound
}

// Equal reports whether two results are in the same state, comparing values
// only when both are Found.
func (r Result[T]) Equal(other Result[T]) bool {
	if r.state != other.state {
		return false
	}
	if r.state != stateFound {
		return true
	}
	return reflect.DeepEqual(r.value, other.value)
}

func (r Result[T]) String() string {
	switch r.state {
	case stateFound:
		return fmt.Sprintf("found(%v)", r.value)
	case stateNotFound:
		return "not found"
	default:
		return "searching"
	}
}
