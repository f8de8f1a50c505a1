package render

import (
	"strings"

	"github.com/mxm07/sample-server/internal/waveform"
)

// barLevels maps a bar height (0..8) to an eighth-block rune.
var barLevels = []rune(" ▁▂▃▄▅▆▇█")

// Sparkline renders peak buckets as one rune per column. Buckets are
// index-scaled when width differs from the bucket count.
func Sparkline(peaks []float64, width int) string {
	if width <= 0 || len(peaks) == 0 {
		return ""
	}
	var b strings.Builder
	b.Grow(width * 3)
	for x := 0; x < width; x++ {
		peak := peaks[x*len(peaks)/width]
		b.WriteRune(barLevels[waveform.BarHeight(peak, len(barLevels)-1)])
	}
	return b.String()
}

// PendingLine marks a row whose waveform is queued or not yet requested.
func PendingLine(width int) string {
	return strings.Repeat("·", max(width, 0))
}

// PlaceholderLine marks a row whose waveform could not be generated.
func PlaceholderLine(width int) string {
	return strings.Repeat("─", max(width, 0))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
