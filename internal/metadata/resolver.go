// Package metadata resolves semantic metadata keys (title, artist, ...)
// against a snapshot of raw tag records, memoizing per key and broadcasting
// an update signal when a resolution completes.
package metadata

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// entry is a type-erased cache slot for one key id. Presence in the cache
// means a resolution has been started; a searching entry means it is still
// in flight.
type entry struct {
	state resultState
	value any
}

// Resolver memoizes key lookups over an immutable record snapshot.
//
// One Resolver is created per media asset and discarded (Close) when the
// asset changes. Mutating calls follow single-owner discipline; the cache
// itself is safe for concurrent access because completed resolutions merge
// back from background goroutines.
type Resolver struct {
	records []Record
	log     *zap.Logger

	mu       sync.Mutex
	cache    map[string]entry
	inflight map[string]chan struct{}
	closed   bool

	subsMu sync.RWMutex
	subs   []*Subscription
}

// New creates a resolver over a record snapshot. The slice is captured as-is
// and must not be mutated afterwards. log may be nil.
func New(records []Record, log *zap.Logger) *Resolver {
	if log == nil {
		log = zap.NewNop()
	}
	return &Resolver{
		records:  records,
		log:      log,
		cache:    make(map[string]entry),
		inflight: make(map[string]chan struct{}),
	}
}

// Get is the non-blocking poll form of a lookup. If the key has been
// resolved it returns the memoized Found/NotFound result; if a resolution is
// in flight it returns Searching; if the key has never been requested it
// launches a background resolution and returns Searching. Callers observe
// completion by polling again after the update signal.
func Get[T any](r *Resolver, key Key[T]) Result[T] {
	r.mu.Lock()
	if e, ok := r.cache[key.ID]; ok {
		r.mu.Unlock()
		return asResult(r, key, e)
	}
	if r.closed {
		r.mu.Unlock()
		return Searching[T]()
	}
	done := r.beginLocked(key.ID)
	r.mu.Unlock()

	go func() {
		r.commit(key.ID, resolve(r, key), done)
	}()
	return Searching[T]()
}

// Await is the blocking form of a lookup. It returns the resolved value and
// whether one was found, resolving inline when the key has never been
// requested, or joining the in-flight resolution otherwise. Resolution
// failures surface as absence, never as an error.
func Await[T any](ctx context.Context, r *Resolver, key Key[T]) (T, bool) {
	var zero T

	r.mu.Lock()
	e, ok := r.cache[key.ID]
	if ok && e.state != stateSearching {
		r.mu.Unlock()
		return resultValue(asResult(r, key, e))
	}
	if ok {
		// In flight: wait for the background resolution to commit.
		done := r.inflight[key.ID]
		r.mu.Unlock()
		if done == nil {
			return zero, false
		}
		select {
		case <-done:
		case <-ctx.Done():
			return zero, false
		}
		r.mu.Lock()
		e, ok = r.cache[key.ID]
		r.mu.Unlock()
		if !ok || e.state == stateSearching {
			// Resolver was closed before the write-back landed.
			return zero, false
		}
		return resultValue(asResult(r, key, e))
	}
	if r.closed {
		r.mu.Unlock()
		return zero, false
	}
	done := r.beginLocked(key.ID)
	r.mu.Unlock()

	r.commit(key.ID, resolve(r, key), done)

	r.mu.Lock()
	e, ok = r.cache[key.ID]
	r.mu.Unlock()
	if !ok || e.state == stateSearching {
		return zero, false
	}
	return resultValue(asResult(r, key, e))
}

// Subscribe registers an update-signal subscriber. The subscriber must stop
// reading when Done is closed.
func (r *Resolver) Subscribe() *Subscription {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	sub := newSubscription()
	r.subs = append(r.subs, sub)
	return sub
}

// Unsubscribe removes a subscription and closes its Done channel.
func (r *Resolver) Unsubscribe(sub *Subscription) {
	r.subsMu.Lock()
	defer r.subsMu.Unlock()
	for i, s := range r.subs {
		if s == sub {
			r.subs = append(r.subs[:i], r.subs[i+1:]...)
			sub.close()
			return
		}
	}
}

// Close discards the resolver. In-flight resolutions run to completion but
// their write-back is dropped and no signal fires for them. Close is safe to
// call more than once.
func (r *Resolver) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	r.mu.Unlock()

	r.subsMu.Lock()
	for _, sub := range r.subs {
		sub.close()
	}
	r.subs = nil
	r.subsMu.Unlock()
}

// beginLocked marks a key as in flight. Checking the cache and marking
// happen under the same lock, so at most one resolution per key id can ever
// be launched (single-flight).
func (r *Resolver) beginLocked(id string) chan struct{} {
	done := make(chan struct{})
	r.cache[id] = entry{state: stateSearching}
	r.inflight[id] = done
	return done
}

// resolve runs the matching algorithm: probe the key's raw tags in
// preference order, and for the first tag present in the record snapshot,
// load the record's value. Load failures and runtime type mismatches are
// logged and resolve to NotFound without trying lesser-preferred tags.
func resolve[T any](r *Resolver, key Key[T]) entry {
	for _, raw := range key.Raw {
		for i := range r.records {
			rec := &r.records[i]
			if rec.Tag != raw {
				continue
			}
			v, err := rec.Load()
			if err != nil {
				r.log.Warn("metadata record failed to load",
					zap.String("key", key.ID),
					zap.String("tag", rec.Tag),
					zap.Error(err))
				return entry{state: stateNotFound}
			}
			tv, ok := v.(T)
			if !ok {
				r.log.Warn("metadata record has unexpected type",
					zap.String("key", key.ID),
					zap.String("tag", rec.Tag),
					zap.String("type", fmt.Sprintf("%T", v)))
				return entry{state: stateNotFound}
			}
			return entry{state: stateFound, value: tv}
		}
	}
	return entry{state: stateNotFound}
}

// commit merges a completed resolution into the cache and fires the update
// signal. The signal fires strictly after the write is visible. If the
// resolver was closed in the meantime the result is dropped silently.
func (r *Resolver) commit(id string, e entry, done chan struct{}) {
	r.mu.Lock()
	discarded := r.closed
	if !discarded {
		r.cache[id] = e
	}
	delete(r.inflight, id)
	r.mu.Unlock()

	close(done)

	if !discarded {
		r.broadcast()
	}
}

func (r *Resolver) broadcast() {
	r.subsMu.RLock()
	defer r.subsMu.RUnlock()
	for _, sub := range r.subs {
		sub.notify()
	}
}

// asResult re-types a cache entry for the caller's key. A stored value whose
// runtime type does not match the key's declared type degrades to NotFound;
// that is a defensive path, not a normal outcome.
func asResult[T any](r *Resolver, key Key[T], e entry) Result[T] {
	switch e.state {
	case stateSearching:
		return Searching[T]()
	case stateNotFound:
		return NotFound[T]()
	}
	v, ok := e.value.(T)
	if !ok {
		r.log.Warn("cached metadata value has unexpected type",
			zap.String("key", key.ID),
			zap.String("type", fmt.Sprintf("%T", e.value)))
		return NotFound[T]()
	}
	return Found(v)
}

func resultValue[T any](res Result[T]) (T, bool) {
	return res.Value()
}
