package waveform

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/mxm07/sample-server/internal/api"
)

func audioEntry(path string) api.Entry {
	return api.Entry{Path: path, Name: api.BaseName(path), IsAudio: true}
}

type stubFetcher struct {
	err   error
	calls atomic.Int32
}

func (f *stubFetcher) FetchFile(ctx context.Context, path string) ([]byte, error) {
	f.calls.Add(1)
	return []byte{1}, f.err
}

// blockingDecoder parks every Decode call until released, so tests can
// observe how many jobs run concurrently.
type blockingDecoder struct {
	started chan string
	release chan struct{}
}

func (d *blockingDecoder) Decode(name string, data []byte) ([]float64, time.Duration, error) {
	d.started <- name
	<-d.release
	return []float64{0.5}, time.Second, nil
}

type stubDecoder struct {
	err   error
	calls atomic.Int32
}

func (d *stubDecoder) Decode(name string, data []byte) ([]float64, time.Duration, error) {
	d.calls.Add(1)
	if d.err != nil {
		return nil, 0, d.err
	}
	return []float64{0.25, 0.5}, 10 * time.Second, nil
}

func waitStarted(t *testing.T, ch chan string) string {
	t.Helper()
	select {
	case name := <-ch:
		return name
	case <-time.After(2 * time.Second):
		t.Fatal("Timed out waiting for a decode to start")
		return ""
	}
}

func assertNoStart(t *testing.T, ch chan string) {
	t.Helper()
	select {
	case name := <-ch:
		t.Fatalf("Unexpected decode start: %s", name)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPipelineConcurrencyLimit(t *testing.T) {
	decoder := &blockingDecoder{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	p := New(&stubFetcher{}, decoder, nil, nil)

	for _, path := range []string{"a.wav", "b.wav", "c.wav", "d.wav"} {
		p.Enqueue(audioEntry(path))
	}

	// Exactly two jobs start; the rest wait in the queue.
	waitStarted(t, decoder.started)
	waitStarted(t, decoder.started)
	assertNoStart(t, decoder.started)

	// Releasing one slot lets the next queued job through.
	decoder.release <- struct{}{}
	waitStarted(t, decoder.started)
	assertNoStart(t, decoder.started)

	close(decoder.release)
	waitStarted(t, decoder.started)
}

func TestPipelineDeduplicatesQueuedPaths(t *testing.T) {
	decoder := &blockingDecoder{
		started: make(chan string, 8),
		release: make(chan struct{}),
	}
	done := make(chan Result, 8)
	p := New(&stubFetcher{}, decoder, func(r Result) { done <- r }, nil)

	p.Enqueue(audioEntry("a.wav"))
	p.Enqueue(audioEntry("a.wav"))
	p.Enqueue(audioEntry("a.wav"))

	waitStarted(t, decoder.started)
	assertNoStart(t, decoder.started)

	close(decoder.release)
	<-done
	select {
	case r := <-done:
		t.Fatalf("Duplicate enqueue produced a second result: %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPipelineSkipsNonAudioAndCached(t *testing.T) {
	decoder := &stubDecoder{}
	done := make(chan Result, 4)
	p := New(&stubFetcher{}, decoder, func(r Result) { done <- r }, nil)

	p.Enqueue(api.Entry{Path: "folder", Name: "folder", IsDir: true})
	if decoder.calls.Load() != 0 {
		t.Fatal("Non-audio entries must not be decoded")
	}

	p.Enqueue(audioEntry("a.wav"))
	<-done
	p.Enqueue(audioEntry("a.wav"))
	time.Sleep(50 * time.Millisecond)

	if got := decoder.calls.Load(); got != 1 {
		t.Errorf("Cached path decoded again: %d calls", got)
	}
}

func TestPipelineResultCarriesWaveform(t *testing.T) {
	done := make(chan Result, 1)
	p := New(&stubFetcher{}, &stubDecoder{}, func(r Result) { done <- r }, nil)

	p.Enqueue(audioEntry("kick.wav"))
	r := <-done

	if r.Err != nil {
		t.Fatalf("Unexpected error: %v", r.Err)
	}
	if r.Path != "kick.wav" {
		t.Errorf("Result path = %q", r.Path)
	}
	if len(r.Waveform.Peaks) != PeakBuckets {
		t.Errorf("Expected %d buckets, got %d", PeakBuckets, len(r.Waveform.Peaks))
	}
	if r.Waveform.Duration != 10*time.Second {
		t.Errorf("Expected 10s duration, got %v", r.Waveform.Duration)
	}

	status, w := p.RowState("kick.wav")
	if status != RowReady || w.Duration != 10*time.Second {
		t.Errorf("Expected ready row, got status=%d %+v", status, w)
	}
}

func TestPipelineFailureLimit(t *testing.T) {
	decoder := &stubDecoder{err: errors.New("corrupt")}
	done := make(chan Result, 4)
	p := New(&stubFetcher{}, decoder, func(r Result) { done <- r }, nil)

	for i := 0; i < failureLimit; i++ {
		p.Enqueue(audioEntry("bad.wav"))
		r := <-done
		if r.Err == nil {
			t.Fatal("Expected decode failure")
		}
	}

	// Past the limit the path is skipped entirely.
	p.Enqueue(audioEntry("bad.wav"))
	select {
	case r := <-done:
		t.Fatalf("Path past the failure limit was retried: %+v", r)
	case <-time.After(100 * time.Millisecond):
	}
	if got := decoder.calls.Load(); got != failureLimit {
		t.Errorf("Expected %d attempts, got %d", failureLimit, got)
	}

	status, _ := p.RowState("bad.wav")
	if status != RowFailed {
		t.Errorf("Expected failed row state, got %d", status)
	}
}

func TestPipelineRetriesBelowFailureLimit(t *testing.T) {
	decoder := &stubDecoder{err: errors.New("flaky")}
	done := make(chan Result, 2)
	p := New(&stubFetcher{}, decoder, func(r Result) { done <- r }, nil)

	p.Enqueue(audioEntry("flaky.wav"))
	<-done

	// One failure is not cached: the next visibility pass tries again.
	decoder.err = nil
	p.Enqueue(audioEntry("flaky.wav"))
	r := <-done
	if r.Err != nil {
		t.Fatalf("Retry should have succeeded: %v", r.Err)
	}
	if _, ok := p.Cache().Get("flaky.wav"); !ok {
		t.Error("Successful retry should populate the cache")
	}
}

func TestCacheWriteOnce(t *testing.T) {
	c := NewCache()
	first := Waveform{Peaks: []float64{1}, Duration: time.Second}
	second := Waveform{Peaks: []float64{0}, Duration: 2 * time.Second}

	if !c.Put("a.wav", first) {
		t.Fatal("First put should store")
	}
	if c.Put("a.wav", second) {
		t.Fatal("Second put must be ignored")
	}

	w, ok := c.Get("a.wav")
	if !ok || w.Duration != time.Second {
		t.Errorf("First write should win, got %+v", w)
	}
}

func TestRowsVisibleEnqueuesRange(t *testing.T) {
	decoder := &stubDecoder{}
	done := make(chan Result, 8)
	p := New(&stubFetcher{}, decoder, func(r Result) { done <- r }, nil)

	entries := []api.Entry{
		audioEntry("a.wav"),
		{Path: "sub", Name: "sub", IsDir: true},
		audioEntry("b.wav"),
		audioEntry("offscreen.wav"),
	}
	p.RowsVisible(entries, 0, 2)

	<-done
	<-done
	time.Sleep(50 * time.Millisecond)

	if status, _ := p.RowState("offscreen.wav"); status != RowIdle {
		t.Errorf("Offscreen row should stay idle, got %d", status)
	}
	if got := decoder.calls.Load(); got != 2 {
		t.Errorf("Expected 2 decodes for the visible range, got %d", got)
	}
}
