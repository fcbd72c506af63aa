package metadata

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textRec(tagName, value string) Record {
	return Record{Tag: tagName, Load: func() (any, error) { return value, nil }}
}

func waitSignal(t *testing.T, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for update signal")
	}
}

func TestGet_FirstCallSearchesThenResolves(t *testing.T) {
	r := New([]Record{textRec("TITLE", "Daydream")}, nil)
	defer r.Close()
	sub := r.Subscribe()

	res := Get(r, Title)
	if !res.IsSearching() {
		t.Fatalf("first Get = %v, want searching", res)
	}

	waitSignal(t, sub.Updated)

	res = Get(r, Title)
	v, ok := res.Value()
	if !ok || v != "Daydream" {
		t.Errorf("Get after signal = %v, want found(Daydream)", res)
	}
}

func TestGet_NoMatchingRecordIsNotFound(t *testing.T) {
	r := New([]Record{textRec("TALB", "Some Album")}, nil)
	defer r.Close()
	sub := r.Subscribe()

	Get(r, Title)
	waitSignal(t, sub.Updated)

	res := Get(r, Title)
	if res.IsSearching() {
		t.Fatal("Get after signal should not be searching")
	}
	if _, ok := res.Value(); ok {
		t.Errorf("Get = %v, want not found", res)
	}
}

func TestGet_StableAfterResolution(t *testing.T) {
	var loads atomic.Int32
	rec := Record{Tag: "TITLE", Load: func() (any, error) {
		loads.Add(1)
		return "Once", nil
	}}
	r := New([]Record{rec}, nil)
	defer r.Close()
	sub := r.Subscribe()

	Get(r, Title)
	waitSignal(t, sub.Updated)

	first := Get(r, Title)
	for range 5 {
		if res := Get(r, Title); !res.Equal(first) {
			t.Errorf("repeated Get = %v, want %v", res, first)
		}
	}
	if n := loads.Load(); n != 1 {
		t.Errorf("loader ran %d times, want 1", n)
	}
}

func TestAwait_PreferenceOrderWinsOverRecordOrder(t *testing.T) {
	// The ID3 record comes first in the snapshot, but the key prefers the
	// Vorbis-style identifier.
	r := New([]Record{
		textRec("TIT2", "id3 title"),
		textRec("TITLE", "vorbis title"),
	}, nil)
	defer r.Close()

	v, ok := Await(context.Background(), r, Title)
	require.True(t, ok)
	assert.Equal(t, "vorbis title", v)
}

func TestAwait_InlineResolution(t *testing.T) {
	r := New([]Record{textRec("ARTIST", "Nobody")}, nil)
	defer r.Close()

	v, ok := Await(context.Background(), r, Artist)
	if !ok || v != "Nobody" {
		t.Errorf("Await = (%q, %v), want (Nobody, true)", v, ok)
	}

	// Inline resolution memoizes like the background path
	res := Get(r, Artist)
	if got, ok := res.Value(); !ok || got != "Nobody" {
		t.Errorf("Get after Await = %v, want found(Nobody)", res)
	}
}

func TestAwait_JoinsInflightResolution(t *testing.T) {
	release := make(chan struct{})
	var loads atomic.Int32
	rec := Record{Tag: "TITLE", Load: func() (any, error) {
		loads.Add(1)
		<-release
		return "Slow", nil
	}}
	r := New([]Record{rec}, nil)
	defer r.Close()

	res := Get(r, Title)
	require.True(t, res.IsSearching())

	got := make(chan string, 1)
	go func() {
		v, _ := Await(context.Background(), r, Title)
		got <- v
	}()

	close(release)

	select {
	case v := <-got:
		assert.Equal(t, "Slow", v)
	case <-time.After(2 * time.Second):
		t.Fatal("Await did not return after resolution completed")
	}
	assert.Equal(t, int32(1), loads.Load(), "Await must join the in-flight resolution")
}

func TestAwait_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	rec := Record{Tag: "TITLE", Load: func() (any, error) {
		<-release
		return "Late", nil
	}}
	r := New([]Record{rec}, nil)
	defer r.Close()
	defer close(release)

	Get(r, Title)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, ok := Await(ctx, r, Title)
	if ok {
		t.Error("Await with cancelled context should report absence")
	}
}

func TestGet_SingleFlight(t *testing.T) {
	release := make(chan struct{})
	var loads atomic.Int32
	rec := Record{Tag: "TITLE", Load: func() (any, error) {
		loads.Add(1)
		<-release
		return "Once", nil
	}}
	r := New([]Record{rec}, nil)
	defer r.Close()
	sub := r.Subscribe()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := Get(r, Title)
			assert.True(t, res.IsSearching())
		}()
	}
	wg.Wait()

	close(release)
	waitSignal(t, sub.Updated)

	require.Equal(t, int32(1), loads.Load(), "concurrent Gets must launch one resolution")
	v, ok := Get(r, Title).Value()
	require.True(t, ok)
	assert.Equal(t, "Once", v)
}

func TestResolve_LoadErrorIsNotFound(t *testing.T) {
	rec := Record{Tag: "TITLE", Load: func() (any, error) {
		return nil, errors.New("corrupt frame")
	}}
	r := New([]Record{rec}, nil)
	defer r.Close()

	_, ok := Await(context.Background(), r, Title)
	if ok {
		t.Error("load error should resolve to absence, not a value")
	}
}

func TestResolve_TypeMismatchIsNotFound(t *testing.T) {
	rec := Record{Tag: "TITLE", Load: func() (any, error) { return 42, nil }}
	r := New([]Record{rec}, nil)
	defer r.Close()

	_, ok := Await(context.Background(), r, Title)
	if ok {
		t.Error("type mismatch should resolve to absence, not a value")
	}
}

func TestClose_DiscardsLateWrite(t *testing.T) {
	release := make(chan struct{})
	rec := Record{Tag: "TITLE", Load: func() (any, error) {
		<-release
		return "Orphan", nil
	}}
	r := New([]Record{rec}, nil)

	res := Get(r, Title)
	require.True(t, res.IsSearching())

	r.Close()
	close(release)

	// Give the background goroutine time to attempt its write-back
	time.Sleep(50 * time.Millisecond)

	r.mu.Lock()
	e := r.cache[Title.ID]
	r.mu.Unlock()
	assert.Equal(t, stateSearching, e.state, "write-back into a closed resolver must be dropped")
}

func TestSubscribe_MultipleSubscribersAllNotified(t *testing.T) {
	r := New([]Record{textRec("TITLE", "Shared")}, nil)
	defer r.Close()
	sub1 := r.Subscribe()
	sub2 := r.Subscribe()

	Get(r, Title)

	waitSignal(t, sub1.Updated)
	waitSignal(t, sub2.Updated)
}

func TestUnsubscribe_ClosesDone(t *testing.T) {
	r := New(nil, nil)
	defer r.Close()
	sub := r.Subscribe()

	r.Unsubscribe(sub)

	select {
	case <-sub.Done:
	case <-time.After(time.Second):
		t.Fatal("Unsubscribe should close Done")
	}
}

func TestClose_Idempotent(t *testing.T) {
	r := New(nil, nil)
	r.Close()
	r.Close()
}
