package feature

import (
	"math"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/dsp/window"
	"gonum.org/v1/gonum/floats"
)

const (
	logFloor = 1e-10

	// envelopeFloor is the relative power below which an envelope bin
	// counts as empty: -20 dB against the segment's strongest bin.
	envelopeFloor = 1e-2
)

// welchPSD estimates the power spectral density of the segment with
// Welch's method: Hamming-windowed sub-segments with 50% overlap,
// periodograms averaged. Input shorter than one sub-segment is
// zero-padded to a single sub-segment.
//
// Returns the averaged PSD (length seg/2+1) and the center frequency
// of each bin. A fresh FFT plan is built per call; fourier.FFT carries
// scratch state, and per-call plans keep Extract lock-free.
func (e *Extractor) welchPSD(samples []float64) (psd, freqs []float64) {
	seg := e.cfg.WelchSegment
	hop := seg / 2
	half := seg/2 + 1

	fft := fourier.NewFFT(seg)
	psd = make([]float64, half)
	buf := make([]float64, seg)
	coeffs := make([]complex128, half)

	count := 0
	for start := 0; start == 0 || start+seg <= len(samples); start += hop {
		for i := range buf {
			if start+i < len(samples) {
				buf[i] = samples[start+i]
			} else {
				buf[i] = 0
			}
		}
		window.Hamming(buf)
		fft.Coefficients(coeffs, buf)
		for k, c := range coeffs {
			re, im := real(c), imag(c)
			psd[k] += re*re + im*im
		}
		count++
	}

	scale := 1.0 / (float64(count) * float64(seg))
	for k := range psd {
		psd[k] *= scale
	}

	binWidth := float64(e.cfg.SampleRate) / float64(seg)
	freqs = make([]float64, half)
	for k := range freqs {
		freqs[k] = float64(k) * binWidth
	}
	return psd, freqs
}

// envelopeBand samples the PSD at 13 log-spaced frequencies between
// 300 Hz and 8 kHz, a cheap stand-in for cepstral timbre features.
// Each point is the bin's power in dB above a floor placed
// envelopeFloor below the segment's spectral peak, so a bin with no
// voice energy reads near zero instead of a large constant shared by
// every segment.
func envelopeBand(psd, freqs []float64) []float64 {
	const lo, hi = 300.0, 8000.0
	out := make([]float64, EnvelopeLen)
	if len(psd) < 2 {
		return out
	}
	peak := floats.Max(psd)
	if peak <= 0 {
		return out
	}
	binWidth := freqs[1] - freqs[0]
	for i := range out {
		f := lo * math.Pow(hi/lo, float64(i)/float64(EnvelopeLen-1))
		bin := int(math.Round(f / binWidth))
		if bin >= len(psd) {
			bin = len(psd) - 1
		}
		out[i] = 10 * math.Log10(1+psd[bin]/(envelopeFloor*peak))
	}
	return out
}

// binRange returns the PSD bin indices covering [loHz, hiHz],
// clamped to the valid range. ok is false when the window is empty.
func binRange(freqs []float64, loHz, hiHz float64) (lo, hi int, ok bool) {
	if len(freqs) < 2 {
		return 0, 0, false
	}
	binWidth := freqs[1] - freqs[0]
	lo = int(math.Ceil(loHz / binWidth))
	hi = int(math.Floor(hiHz / binWidth))
	if lo < 0 {
		lo = 0
	}
	if hi >= len(freqs) {
		hi = len(freqs) - 1
	}
	if lo > hi {
		return 0, 0, false
	}
	return lo, hi, true
}
