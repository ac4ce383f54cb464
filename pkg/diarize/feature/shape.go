package feature

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// shapeBand summarizes the frequency-energy distribution of the
// segment: centroid, 85% rolloff, flux, flatness, zero crossing rate,
// spectral slope, and the energy fractions below 500 Hz and in the
// 2-8 kHz band. Centroid and rolloff are in kHz; flux is computed on
// the power-normalized PSD so its scale does not depend on segment
// loudness.
func (e *Extractor) shapeBand(samples, psd, freqs []float64) []float64 {
	out := make([]float64, ShapeLen)
	total := floats.Sum(psd)
	if total <= 0 || len(psd) < 2 {
		return out
	}

	// Centroid: power-weighted mean frequency.
	var weighted float64
	for k, p := range psd {
		weighted += freqs[k] * p
	}
	out[0] = weighted / total * hzToKHz

	// Rolloff: frequency below which 85% of the energy lies.
	var cum float64
	for k, p := range psd {
		cum += p
		if cum >= 0.85*total {
			out[1] = freqs[k] * hzToKHz
			break
		}
	}

	// Flux: mean squared successive difference of the normalized PSD.
	var flux float64
	for k := 1; k < len(psd); k++ {
		d := (psd[k] - psd[k-1]) / total
		flux += d * d
	}
	out[2] = flux / float64(len(psd)-1)

	// Flatness: geometric over arithmetic mean.
	var logSum float64
	for _, p := range psd {
		logSum += math.Log(p + logFloor)
	}
	geo := math.Exp(logSum / float64(len(psd)))
	out[3] = geo / (total/float64(len(psd)) + logFloor)

	// Zero crossing rate of the raw waveform.
	crossings := 0
	for i := 1; i < len(samples); i++ {
		if (samples[i] >= 0) != (samples[i-1] >= 0) {
			crossings++
		}
	}
	out[4] = float64(crossings) / float64(len(samples))

	// Slope: linear correlation between frequency and power.
	if slope := stat.Correlation(freqs, psd, nil); isFinite(slope) {
		out[5] = slope
	}

	// Band energy ratios.
	if lo, hi, ok := binRange(freqs, 0, 500); ok {
		out[6] = floats.Sum(psd[lo:hi+1]) / total
	}
	if lo, hi, ok := binRange(freqs, 2000, 8000); ok {
		out[7] = floats.Sum(psd[lo:hi+1]) / total
	}
	return out
}
