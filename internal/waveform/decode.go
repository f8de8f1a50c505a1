package waveform

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// OpenStream decodes raw audio bytes into a beep stream, dispatching on the
// file extension. Shared with the player, which streams the same formats.
func OpenStream(name string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".wav", ".wave":
		return wav.Decode(bytes.NewReader(data))
	case ".mp3":
		return mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case ".flac":
		return flac.Decode(bytes.NewReader(data))
	case ".ogg", ".oga":
		return vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %s", path.Ext(name))
	}
}

// Decoder extracts mono samples and the clip duration from encoded audio.
type Decoder interface {
	Decode(name string, data []byte) (samples []float64, duration time.Duration, err error)
}

// NewBeepDecoder returns the production decoder.
func NewBeepDecoder() Decoder {
	return beepDecoder{}
}

type beepDecoder struct{}

func (beepDecoder) Decode(name string, data []byte) ([]float64, time.Duration, error) {
	streamer, format, err := OpenStream(name, data)
	if err != nil {
		return nil, 0, err
	}
	defer streamer.Close()

	total := streamer.Len()
	samples := make([]float64, 0, total)
	buf := make([][2]float64, 1024)
	for {
		n, ok := streamer.Stream(buf)
		for i := 0; i < n; i++ {
			samples = append(samples, buf[i][0])
		}
		if !ok {
			break
		}
	}
	if err := streamer.Err(); err != nil {
		return nil, 0, err
	}

	return samples, format.SampleRate.D(total), nil
}
