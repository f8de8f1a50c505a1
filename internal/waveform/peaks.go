package waveform

// PeakBuckets is how many peak values one waveform is reduced to. One bucket
// maps to one sparkline cell.
const PeakBuckets = 48

// ComputePeaks reduces raw samples to per-bucket absolute peaks. The bucket
// size rounds up, so the last bucket may cover fewer samples; empty buckets
// stay at zero.
func ComputePeaks(samples []float64, buckets int) []float64 {
	if buckets <= 0 {
		buckets = PeakBuckets
	}
	peaks := make([]float64, buckets)
	if len(samples) == 0 {
		return peaks
	}

	bucketSize := (len(samples) + buckets - 1) / buckets
	for b := 0; b < buckets; b++ {
		start := b * bucketSize
		if start >= len(samples) {
			break
		}
		end := start + bucketSize
		if end > len(samples) {
			end = len(samples)
		}
		peak := 0.0
		for _, v := range samples[start:end] {
			if v < 0 {
				v = -v
			}
			if v > peak {
				peak = v
			}
		}
		peaks[b] = peak
	}
	return peaks
}

// BarHeight maps one peak to a bar height in [0, levels]. Any audible
// content gets at least one level so quiet files still show shape.
func BarHeight(peak float64, levels int) int {
	if peak <= 0 || levels <= 0 {
		return 0
	}
	h := int(peak*float64(levels) + 0.5)
	if h < 1 {
		h = 1
	}
	if h > levels {
		h = levels
	}
	return h
}
