package waveform

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/mxm07/sample-server/internal/api"
)

const (
	// maxWorkers bounds concurrent fetch+decode jobs so scrolling through a
	// large folder cannot saturate the connection.
	maxWorkers = 2

	// failureLimit is how many times one path may fail before it is skipped
	// for the rest of the session.
	failureLimit = 3
)

// Fetcher is the part of api.Client the pipeline needs.
type Fetcher interface {
	FetchFile(ctx context.Context, path string) ([]byte, error)
}

// Result is delivered through the notify callback when a job finishes.
type Result struct {
	Path     string
	Waveform Waveform
	Err      error
}

// RowStatus describes what the renderer should draw for one row.
type RowStatus int

const (
	RowIdle RowStatus = iota
	RowQueued
	RowReady
	RowFailed
)

// Pipeline lazily computes waveforms for visible rows: FIFO queue, bounded
// workers, write-once cache. Failed paths are retried on later visibility
// until the failure limit is hit.
type Pipeline struct {
	fetcher Fetcher
	decoder Decoder
	cache   *Cache
	notify  func(Result)
	log     *zap.Logger

	mu       sync.Mutex
	queue    []api.Entry
	queued   map[string]bool
	failures map[string]int
	active   int
}

// New builds a pipeline. notify runs on a worker goroutine once per finished
// job; it must be safe to call concurrently.
func New(fetcher Fetcher, decoder Decoder, notify func(Result), log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	if notify == nil {
		notify = func(Result) {}
	}
	return &Pipeline{
		fetcher:  fetcher,
		decoder:  decoder,
		cache:    NewCache(),
		notify:   notify,
		log:      log,
		queued:   make(map[string]bool),
		failures: make(map[string]int),
	}
}

// Cache exposes the computed waveforms for rendering.
func (p *Pipeline) Cache() *Cache {
	return p.cache
}

// RowsVisible enqueues the audio entries currently on screen. The app calls
// this after every render with the visible index range.
func (p *Pipeline) RowsVisible(entries []api.Entry, lo, hi int) {
	if lo < 0 {
		lo = 0
	}
	if hi >= len(entries) {
		hi = len(entries) - 1
	}
	for i := lo; i <= hi; i++ {
		p.Enqueue(entries[i])
	}
}

// Enqueue schedules one entry. Non-audio entries, cached paths, already
// queued paths and paths past the failure limit are all no-ops.
func (p *Pipeline) Enqueue(entry api.Entry) {
	if !entry.IsAudio {
		return
	}
	if _, ok := p.cache.Get(entry.Path); ok {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queued[entry.Path] || p.failures[entry.Path] >= failureLimit {
		return
	}
	p.queued[entry.Path] = true
	p.queue = append(p.queue, entry)
	p.drainLocked()
}

// RowState reports what the renderer should draw for path.
func (p *Pipeline) RowState(path string) (RowStatus, Waveform) {
	if w, ok := p.cache.Get(path); ok {
		return RowReady, w
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.queued[path] {
		return RowQueued, Waveform{}
	}
	if p.failures[path] > 0 {
		return RowFailed, Waveform{}
	}
	return RowIdle, Waveform{}
}

// drainLocked starts workers while capacity and work remain. Callers hold mu.
func (p *Pipeline) drainLocked() {
	for p.active < maxWorkers && len(p.queue) > 0 {
		entry := p.queue[0]
		p.queue = p.queue[1:]
		p.active++
		go p.run(entry)
	}
}

func (p *Pipeline) run(entry api.Entry) {
	waveform, err := p.compute(entry)

	if err == nil {
		p.cache.Put(entry.Path, waveform)
	} else {
		p.log.Warn("waveform generation failed",
			zap.String("path", entry.Path), zap.Error(err))
	}

	p.mu.Lock()
	delete(p.queued, entry.Path)
	if err != nil {
		p.failures[entry.Path]++
	}
	p.active--
	p.drainLocked()
	p.mu.Unlock()

	p.notify(Result{Path: entry.Path, Waveform: waveform, Err: err})
}

func (p *Pipeline) compute(entry api.Entry) (Waveform, error) {
	data, err := p.fetcher.FetchFile(context.Background(), entry.Path)
	if err != nil {
		return Waveform{}, err
	}
	samples, duration, err := p.decoder.Decode(entry.Name, data)
	if err != nil {
		return Waveform{}, err
	}
	return Waveform{
		Peaks:    ComputePeaks(samples, PeakBuckets),
		Duration: duration,
	}, nil
}
