// Package queue maintains an ordered sequence of playable item references
// with a single movable cursor marking the current item.
package queue

// Item is a reference to one playable entry.
type Item struct {
	Path string
	Size int64 // bytes, 0 when unknown (filled during ingestion)
}

// Queue is an ordered item sequence with a cursor. The cursor is -1 when
// unset and is never clamped: removals are out of scope here, but external
// staleness (an index at or past the end) is tolerated by every read.
//
// A Queue has a single mutating owner; it is not safe for concurrent
// writers.
type Queue struct {
	items  []Item
	cursor int
}

// New creates an empty queue with an unset cursor.
func New() *Queue {
	return &Queue{cursor: -1}
}

// Len returns the number of items.
func (q *Queue) Len() int {
	return len(q.items)
}

// Items returns a copy of all items in playback order.
func (q *Queue) Items() []Item {
	result := make([]Item, len(q.items))
	copy(result, q.items)
	return result
}

// Cursor returns the raw cursor index (-1 if unset). The value may be out of
// range; Current is the tolerant read.
func (q *Queue) Cursor() int {
	return q.cursor
}

// Current returns the item at the cursor. An unset cursor reads as the start
// of the sequence without being changed; a set-but-out-of-range cursor means
// no current item.
func (q *Queue) Current() *Item {
	switch {
	case q.cursor == -1:
		if len(q.items) == 0 {
			return nil
		}
		return &q.items[0]
	case q.cursor >= 0 && q.cursor < len(q.items):
		return &q.items[q.cursor]
	default:
		return nil
	}
}

// PeekNext returns the item Advance would move to, without mutating state.
// An unset cursor peeks at the first item; an out-of-range cursor peeks at
// nothing.
func (q *Queue) PeekNext() *Item {
	i := q.nextIndex()
	if i < 0 {
		return nil
	}
	return &q.items[i]
}

// Advance moves the cursor to the next item and returns it. When there is
// nothing to advance to, the cursor is left exactly as it was (never clamped,
// never unset) and nil is returned.
func (q *Queue) Advance() *Item {
	i := q.nextIndex()
	if i < 0 {
		return nil
	}
	q.cursor = i
	return &q.items[i]
}

// nextIndex computes Advance's target index, or -1 when there is none.
func (q *Queue) nextIndex() int {
	switch {
	case q.cursor == -1:
		if len(q.items) == 0 {
			return -1
		}
		return 0
	case q.cursor >= 0 && q.cursor < len(q.items):
		if q.cursor+1 >= len(q.items) {
			return -1
		}
		return q.cursor + 1
	default:
		// Stale cursor past the end
		return -1
	}
}

// JumpTo sets the cursor to the given index and returns the item there, or
// nil (cursor unchanged) if the index is out of range.
func (q *Queue) JumpTo(index int) *Item {
	if index < 0 || index >= len(q.items) {
		return nil
	}
	q.cursor = index
	return &q.items[index]
}

// Append adds items to the end of the sequence without touching the cursor.
func (q *Queue) Append(items ...Item) {
	q.items = append(q.items, items...)
}

// appendItem appends one item following the ingestion cursor rule: when
// movement is allowed and the cursor is unset or stale, the cursor moves to
// the new item. The first qualifying append into an empty queue therefore
// sets the cursor to index 0, and later appends leave it there.
func (q *Queue) appendItem(item Item, moveCursor bool) {
	stale := q.cursor >= len(q.items) // out of range before this append
	q.items = append(q.items, item)
	if moveCursor && (q.cursor == -1 || stale) {
		q.cursor = len(q.items) - 1
	}
}
