// Package player previews one audio entry at a time through the shared
// speaker stream.
package player

import (
	"context"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"go.uber.org/zap"

	"github.com/mxm07/sample-server/internal/api"
	"github.com/mxm07/sample-server/internal/waveform"
)

// SampleRate is the speaker's fixed output rate; sources at other rates are
// resampled.
const SampleRate = beep.SampleRate(44100)

// Fetcher is the part of api.Client the controller needs.
type Fetcher interface {
	FetchFile(ctx context.Context, path string) ([]byte, error)
}

// Notify reports playback changes; the app re-dispatches them as actions.
// It may run on any goroutine.
type Notify func(playing bool, duration time.Duration)

// InitSpeaker initializes the shared output device. Call once before
// constructing an enabled controller.
func InitSpeaker() error {
	return speaker.Init(SampleRate, SampleRate.N(time.Second/10))
}

// Controller owns the single playback slot. Switching the active entry stops
// and resets any current playback; loads run async and are discarded when a
// newer SetActive arrives first.
type Controller struct {
	fetcher Fetcher
	notify  Notify
	log     *zap.Logger
	enabled bool // speaker available

	mu         sync.Mutex
	generation int
	entry      *api.Entry
	source     beep.StreamSeekCloser
	ctrl       *beep.Ctrl
	stream     beep.Streamer
	started    bool
	playing    bool
	duration   time.Duration
}

// openStream decodes fetched bytes; swappable in tests.
var openStream = waveform.OpenStream

// New builds a controller. enabled is false when speaker init failed; the
// controller then still resolves durations but never plays.
func New(fetcher Fetcher, enabled bool, notify Notify, log *zap.Logger) *Controller {
	if notify == nil {
		notify = func(bool, time.Duration) {}
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		fetcher: fetcher,
		notify:  notify,
		log:     log,
		enabled: enabled,
	}
}

// SetActive switches the preview to entry (nil clears it). Autoplay starts
// playback once loaded; without it the clip is armed for PlayPause.
func (c *Controller) SetActive(entry *api.Entry, autoplay bool) {
	c.mu.Lock()
	c.generation++
	gen := c.generation
	c.stopLocked()
	c.entry = entry
	c.mu.Unlock()

	c.notify(false, 0)

	if entry == nil || !entry.IsAudio {
		return
	}
	go c.load(gen, *entry, autoplay)
}

// PlayPause toggles the loaded clip. A clip armed but never started begins
// playing; no loaded clip is a no-op.
func (c *Controller) PlayPause() {
	c.mu.Lock()
	if c.ctrl == nil || !c.enabled {
		c.mu.Unlock()
		return
	}
	if !c.started {
		c.startLocked()
	} else {
		speaker.Lock()
		c.ctrl.Paused = c.playing
		speaker.Unlock()
		c.playing = !c.playing
	}
	playing, duration := c.playing, c.duration
	c.mu.Unlock()

	c.notify(playing, duration)
}

// Stop halts playback and clears the active entry.
func (c *Controller) Stop() {
	c.mu.Lock()
	c.generation++
	c.stopLocked()
	c.entry = nil
	c.mu.Unlock()

	c.notify(false, 0)
}

// Duration returns the decoded length of the active clip, zero until known.
func (c *Controller) Duration() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.duration
}

// IsPlaying reports whether audio is currently audible.
func (c *Controller) IsPlaying() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.playing
}

// load fetches and decodes on its own goroutine. The generation guard drops
// the result if the active entry changed while it was in flight.
func (c *Controller) load(gen int, entry api.Entry, autoplay bool) {
	data, err := c.fetcher.FetchFile(context.Background(), entry.Path)
	if err != nil {
		// Playback start failures stay silent; the row still browses fine.
		c.log.Debug("preview fetch failed", zap.String("path", entry.Path), zap.Error(err))
		return
	}

	streamer, format, err := openStream(entry.Name, data)
	if err != nil {
		c.log.Debug("preview decode failed", zap.String("path", entry.Path), zap.Error(err))
		return
	}
	duration := format.SampleRate.D(streamer.Len())

	var stream beep.Streamer = streamer
	if format.SampleRate != SampleRate {
		stream = beep.Resample(4, format.SampleRate, SampleRate, streamer)
	}

	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		streamer.Close()
		return
	}
	c.duration = duration
	c.source = streamer
	c.stream = stream
	c.ctrl = &beep.Ctrl{Streamer: stream, Paused: false}
	if autoplay && c.enabled {
		c.startLocked()
	}
	playing := c.playing
	c.mu.Unlock()

	c.notify(playing, duration)
}

// startLocked begins speaker output for the loaded clip. Callers hold mu.
func (c *Controller) startLocked() {
	gen := c.generation
	ctrl := c.ctrl
	c.started = true
	c.playing = true
	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		c.finished(gen)
	})))
}

func (c *Controller) finished(gen int) {
	c.mu.Lock()
	if gen != c.generation {
		c.mu.Unlock()
		return
	}
	c.playing = false
	duration := c.duration
	c.mu.Unlock()

	c.notify(false, duration)
}

// stopLocked resets the playback slot. Callers hold mu.
func (c *Controller) stopLocked() {
	if c.enabled && c.started {
		speaker.Clear()
	}
	if c.source != nil {
		c.source.Close()
		c.source = nil
	}
	c.ctrl = nil
	c.stream = nil
	c.started = false
	c.playing = false
	c.duration = 0
}
