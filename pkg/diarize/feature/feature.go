// Package feature extracts fixed-length voice feature vectors from raw
// PCM audio segments.
//
// Every vector has exactly 39 elements, laid out in five bands:
//
//	[ 0..12]  spectral envelope: 13 relative log-power samples on a
//	          log-spaced (mel-like) axis between 300 Hz and 8 kHz
//	[13..17]  pitch: mean, stddev, min, max, range (kHz) of voiced-frame
//	          autocorrelation pitch estimates
//	[18..23]  formants: F1 F2 F3 peak frequencies and their -3 dB
//	          bandwidths, in kHz
//	[24..31]  spectral shape: centroid, rolloff, flux, flatness, zero
//	          crossing rate, slope, low-band and high-band energy ratio
//	[32..38]  prosody: energy mean, stddev, max, slope, peak rate,
//	          rhythm regularity, pause ratio
//
// The concatenated bands are z-score normalized across the whole vector
// and clipped to [-3, 3]. Extraction never fails: empty or degenerate
// input yields the all-zero sentinel vector, and any sub-feature whose
// computation degenerates (empty sub-band, zero variance) contributes
// 0 for that element.
//
// An Extractor holds only immutable precomputed state and is safe for
// concurrent use from multiple goroutines.
package feature

import (
	"math"
)

// Dim is the length of every feature vector.
const Dim = 39

// hzToKHz scales frequency-valued features into kHz so every band
// lives on a comparable order of magnitude before the whole-vector
// z-score.
const hzToKHz = 1e-3

// Band start offsets within a vector.
const (
	EnvelopeStart = 0  // 13 elements
	PitchStart    = 13 // 5 elements
	FormantStart  = 18 // 6 elements: F1 F2 F3 BW1 BW2 BW3
	ShapeStart    = 24 // 8 elements
	ProsodyStart  = 32 // 7 elements
)

// Band lengths.
const (
	EnvelopeLen = 13
	PitchLen    = 5
	FormantLen  = 6
	ShapeLen    = 8
	ProsodyLen  = 7
)

// Vector is a normalized fixed-length feature vector. The all-zero
// vector is a valid "no signal" sentinel and compares at similarity 0
// to everything else.
type Vector []float64

// IsZero reports whether v is the all-zero sentinel.
func (v Vector) IsZero() bool {
	for _, x := range v {
		if x != 0 {
			return false
		}
	}
	return true
}

// Config controls feature extraction parameters.
type Config struct {
	SampleRate   int     `yaml:"sample_rate" json:"sample_rate"`     // audio sample rate in Hz (default 16000)
	WelchSegment int     `yaml:"welch_segment" json:"welch_segment"` // PSD segment length in samples (default 512)
	PitchWindow  int     `yaml:"pitch_window" json:"pitch_window"`   // pitch frame length in samples (default 1024)
	PitchMinHz   float64 `yaml:"pitch_min_hz" json:"pitch_min_hz"`   // lowest pitch candidate (default 50)
	PitchMaxHz   float64 `yaml:"pitch_max_hz" json:"pitch_max_hz"`   // highest pitch candidate (default 500)
	Voicing      float64 `yaml:"voicing" json:"voicing"`             // autocorrelation gate for voiced frames (default 0.3)
}

// DefaultConfig returns the standard config for 16 kHz speech.
func DefaultConfig() Config {
	return Config{
		SampleRate:   16000,
		WelchSegment: 512,
		PitchWindow:  1024,
		PitchMinHz:   50,
		PitchMaxHz:   500,
		Voicing:      0.3,
	}
}

func (c *Config) defaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.WelchSegment <= 0 {
		c.WelchSegment = 512
	}
	if c.PitchWindow <= 0 {
		c.PitchWindow = 1024
	}
	if c.PitchMinHz <= 0 {
		c.PitchMinHz = 50
	}
	if c.PitchMaxHz <= c.PitchMinHz {
		c.PitchMaxHz = 500
	}
	if c.Voicing <= 0 {
		c.Voicing = 0.3
	}
}

// Extractor computes feature vectors from PCM samples.
type Extractor struct {
	cfg Config
}

// New creates an Extractor with the given config. Zero fields take
// their defaults.
func New(cfg Config) *Extractor {
	cfg.defaults()
	return &Extractor{cfg: cfg}
}

// Extract computes the 39-element feature vector for one audio segment.
//
// Input: PCM samples at the configured sample rate; amplitude scale is
// irrelevant because the vector is z-score normalized. Empty input
// returns the all-zero vector.
func (e *Extractor) Extract(samples []float32) Vector {
	if len(samples) == 0 {
		return make(Vector, Dim)
	}

	s := make([]float64, len(samples))
	var energy float64
	for i, x := range samples {
		s[i] = float64(x)
		energy += s[i] * s[i]
	}
	if energy == 0 {
		// Digital silence is as degenerate as no input at all.
		return make(Vector, Dim)
	}

	psd, freqs := e.welchPSD(s)

	raw := make([]float64, 0, Dim)
	raw = append(raw, envelopeBand(psd, freqs)...)
	raw = append(raw, e.pitchBand(s)...)
	raw = append(raw, formantBand(psd, freqs)...)
	raw = append(raw, e.shapeBand(s, psd, freqs)...)
	raw = append(raw, e.prosodyBand(s)...)

	// Defensive: the bands are fixed-size, but never let a miscount
	// propagate past this point.
	if len(raw) > Dim {
		raw = raw[:Dim]
	}
	for len(raw) < Dim {
		raw = append(raw, 0)
	}

	return normalize(raw)
}

// normalize applies per-vector z-score normalization and clips the
// result to [-3, 3]. Non-finite intermediate values degrade to 0.
func normalize(raw []float64) Vector {
	for i, x := range raw {
		if !isFinite(x) {
			raw[i] = 0
		}
	}

	var sum float64
	for _, x := range raw {
		sum += x
	}
	mean := sum / float64(len(raw))

	var sq float64
	for _, x := range raw {
		d := x - mean
		sq += d * d
	}
	std := math.Sqrt(sq / float64(len(raw)))
	if std == 0 || !isFinite(std) {
		return make(Vector, Dim)
	}

	out := make(Vector, len(raw))
	for i, x := range raw {
		z := (x - mean) / std
		if !isFinite(z) {
			z = 0
		}
		out[i] = clamp(z, -3, 3)
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
