package feature

// Formant search windows in Hz. The three ranges overlap on purpose:
// vowel formants do not sit in disjoint bands.
var formantWindows = [3][2]float64{
	{200, 1200},  // F1
	{800, 3000},  // F2
	{1500, 4000}, // F3
}

// formantProminence is the smallest peak power, relative to the
// segment's strongest bin, that counts as a formant. Below it the
// window holds leakage and noise, not a resonance.
const formantProminence = 1e-3

// formantBand locates the strongest spectral peak in each formant
// search window and estimates its -3 dB bandwidth. Layout:
// [F1 F2 F3 BW1 BW2 BW3], frequencies and bandwidths in kHz. A window
// with no peak above formantProminence contributes zeros for both its
// frequency and bandwidth.
func formantBand(psd, freqs []float64) []float64 {
	out := make([]float64, FormantLen)
	if len(psd) < 2 {
		return out
	}
	binWidth := freqs[1] - freqs[0]
	var top float64
	for _, p := range psd {
		if p > top {
			top = p
		}
	}

	for w, win := range formantWindows {
		lo, hi, ok := binRange(freqs, win[0], win[1])
		if !ok {
			continue
		}

		peak := lo
		for k := lo + 1; k <= hi; k++ {
			if psd[k] > psd[peak] {
				peak = k
			}
		}
		if psd[peak] <= formantProminence*top {
			continue
		}

		// Widest contiguous span around the peak whose power stays
		// above half the peak power.
		half := psd[peak] / 2
		left, right := peak, peak
		for left > lo && psd[left-1] >= half {
			left--
		}
		for right < hi && psd[right+1] >= half {
			right++
		}

		out[w] = freqs[peak] * hzToKHz
		out[w+3] = float64(right-left+1) * binWidth * hzToKHz
	}
	return out
}
