package diarize

import (
	"gonum.org/v1/gonum/stat"

	"github.com/capitalrow/minaprod/pkg/diarize/feature"
)

// overlapHeadLen is how many leading envelope elements feed the
// variance gate.
const overlapHeadLen = 5

// detectOverlap flags segments that likely contain more than one
// concurrent voice. High variance across the leading spectral-envelope
// elements hints at competing spectra; when the gate trips, every
// other known profile passing the looser background-similarity bound
// is reported as a candidate.
//
// This is a cheap proxy, not source separation: a single speaker with
// an unusually dynamic spectrum can trip the gate, and a background
// voice much quieter than the primary will not. Treat the flag as a
// hint for downstream review, nothing more.
//
// Must be called with d.mu held.
func (d *Diarizer) detectOverlap(vec feature.Vector, primary string) (bool, []string) {
	if len(vec) < overlapHeadLen {
		return false, nil
	}
	variance := stat.Variance(vec[:overlapHeadLen], nil)
	if variance <= d.cfg.OverlapVariance {
		return false, nil
	}
	background := d.reg.MatchesAbove(vec, d.cfg.OverlapSimilarity, primary)
	return len(background) > 0, background
}
