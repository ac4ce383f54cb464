package feature

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// peakMargin is how far above the mean smoothed energy a local
// maximum must sit to count as a rhythm peak.
const peakMargin = 1.1

// prosodyBand summarizes the energy envelope of the segment: mean,
// stddev, max, time-vs-energy slope, a smoothed-envelope peak rate as a
// rhythm proxy, inter-peak regularity, and the fraction of samples
// under an adaptive silence threshold (pause ratio).
func (e *Extractor) prosodyBand(samples []float64) []float64 {
	out := make([]float64, ProsodyLen)

	energy := make([]float64, len(samples))
	for i, x := range samples {
		energy[i] = x * x
	}
	maxEnergy := floats.Max(energy)
	if maxEnergy == 0 {
		return out
	}

	mean, std := stat.MeanStdDev(energy, nil)
	if len(energy) < 2 {
		std = 0
	}
	out[0] = mean
	out[1] = std
	out[2] = maxEnergy

	// Energy slope: correlation between time and instantaneous energy.
	idx := make([]float64, len(energy))
	for i := range idx {
		idx[i] = float64(i)
	}
	if slope := stat.Correlation(idx, energy, nil); isFinite(slope) {
		out[3] = slope
	}

	// Smooth the envelope over 10 ms before peak picking; the raw
	// squared signal oscillates at twice the fundamental.
	smoothWin := e.cfg.SampleRate / 100
	if smoothWin < 1 {
		smoothWin = 1
	}
	smooth := movingAverage(energy, smoothWin)
	smoothMean := stat.Mean(smooth, nil)

	// A peak must clear the mean by a margin, and the warmup stretch
	// where the window is still partial is skipped; both otherwise
	// manufacture peaks out of numeric ripple on steady signals.
	var peaks []int
	for i := smoothWin; i < len(smooth)-1; i++ {
		if smooth[i] > smooth[i-1] && smooth[i] >= smooth[i+1] && smooth[i] > peakMargin*smoothMean {
			peaks = append(peaks, i)
		}
	}
	durSec := float64(len(samples)) / float64(e.cfg.SampleRate)
	if durSec > 0 {
		out[4] = float64(len(peaks)) / durSec
	}

	// Rhythm regularity: inverse variance of inter-peak intervals.
	if len(peaks) >= 3 {
		intervals := make([]float64, len(peaks)-1)
		for i := 1; i < len(peaks); i++ {
			intervals[i-1] = float64(peaks[i]-peaks[i-1]) / float64(e.cfg.SampleRate)
		}
		v := stat.Variance(intervals, nil)
		if isFinite(v) {
			out[5] = 1.0 / (1.0 + v)
		}
	}

	// Pause ratio: fraction of samples below 1% of the peak energy.
	silence := 0.01 * maxEnergy
	quiet := 0
	for _, en := range energy {
		if en < silence {
			quiet++
		}
	}
	out[6] = float64(quiet) / float64(len(energy))
	return out
}

// movingAverage smooths x with a trailing window of the given size.
func movingAverage(x []float64, win int) []float64 {
	out := make([]float64, len(x))
	var sum float64
	for i, v := range x {
		sum += v
		if i >= win {
			sum -= x[i-win]
			out[i] = sum / float64(win)
		} else {
			out[i] = sum / float64(i+1)
		}
	}
	return out
}
