package feature

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// pitchBand estimates pitch statistics over the segment.
//
// The segment is split into overlapping frames (50% hop). Each frame
// contributes a pitch estimate via normalized autocorrelation over lags
// corresponding to the configured pitch range, accepted only when the
// peak correlation clears the voicing gate. The band is the mean,
// stddev, min, max and range of the accepted estimates in kHz, or all
// zeros when no frame is voiced. kHz keeps the band on the same order
// as the other bands so the whole-vector normalization does not let
// raw pitch magnitude drown the rest.
func (e *Extractor) pitchBand(samples []float64) []float64 {
	out := make([]float64, PitchLen)

	frame := e.cfg.PitchWindow
	hop := frame / 2
	rate := float64(e.cfg.SampleRate)

	minLag := int(rate / e.cfg.PitchMaxHz)
	maxLag := int(rate / e.cfg.PitchMinHz)
	if minLag < 1 {
		minLag = 1
	}
	if maxLag >= frame {
		maxLag = frame - 1
	}
	if minLag > maxLag || len(samples) < frame {
		return out
	}

	var pitches []float64
	for start := 0; start+frame <= len(samples); start += hop {
		f := samples[start : start+frame]

		var energy float64
		for _, x := range f {
			energy += x * x
		}
		if energy == 0 {
			continue
		}

		bestCorr, bestLag := 0.0, 0
		for lag := minLag; lag <= maxLag; lag++ {
			var acf float64
			for i := 0; i+lag < frame; i++ {
				acf += f[i] * f[i+lag]
			}
			corr := acf / energy
			if corr > bestCorr {
				bestCorr = corr
				bestLag = lag
			}
		}
		if bestLag > 0 && bestCorr > e.cfg.Voicing {
			pitches = append(pitches, rate/float64(bestLag))
		}
	}

	if len(pitches) == 0 {
		return out
	}

	mean, std := stat.MeanStdDev(pitches, nil)
	if len(pitches) < 2 {
		std = 0
	}
	lo := floats.Min(pitches)
	hi := floats.Max(pitches)
	out[0] = mean * hzToKHz
	out[1] = std * hzToKHz
	out[2] = lo * hzToKHz
	out[3] = hi * hzToKHz
	out[4] = (hi - lo) * hzToKHz
	return out
}
