// Package audiotest builds small PCM WAV clips for tests.
package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// SineWAV renders a mono 16-bit PCM WAV file containing a sine tone.
func SineWAV(sampleRate int, seconds float64, freq, amplitude float64) []byte {
	n := int(float64(sampleRate) * seconds)
	samples := make([]int16, n)
	for i := range samples {
		t := float64(i) / float64(sampleRate)
		samples[i] = int16(amplitude * math.Sin(2*math.Pi*freq*t) * math.MaxInt16)
	}
	return encodeWAV(sampleRate, samples)
}

// SilentWAV renders a mono 16-bit PCM WAV file of digital silence.
func SilentWAV(sampleRate int, seconds float64) []byte {
	n := int(float64(sampleRate) * seconds)
	return encodeWAV(sampleRate, make([]int16, n))
}

func encodeWAV(sampleRate int, samples []int16) []byte {
	var buf bytes.Buffer
	dataSize := len(samples) * 2

	buf.WriteString("RIFF")
	binary.Write(&buf, binary.LittleEndian, uint32(36+dataSize))
	buf.WriteString("WAVE")

	buf.WriteString("fmt ")
	binary.Write(&buf, binary.LittleEndian, uint32(16))
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // PCM
	binary.Write(&buf, binary.LittleEndian, uint16(1)) // mono
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate))
	binary.Write(&buf, binary.LittleEndian, uint32(sampleRate*2))
	binary.Write(&buf, binary.LittleEndian, uint16(2))  // block align
	binary.Write(&buf, binary.LittleEndian, uint16(16)) // bits per sample

	buf.WriteString("data")
	binary.Write(&buf, binary.LittleEndian, uint32(dataSize))
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}
