package feature

import (
	"math"
	"math/rand/v2"
	"testing"
)

// makeSine generates a sine wave at the given frequency.
func makeSine(freq float64, n, rate int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return out
}

// makeNoise generates deterministic white noise.
func makeNoise(n int, rng *rand.Rand) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(0.3 * rng.NormFloat64())
	}
	return out
}

func TestExtractDimAndRange(t *testing.T) {
	e := New(DefaultConfig())
	inputs := map[string][]float32{
		"tone":  makeSine(220, 16000, 16000),
		"noise": makeNoise(16000, rand.New(rand.NewPCG(1, 2))),
		"short": makeSine(300, 100, 16000),
		"one":   {0.25},
	}
	for name, samples := range inputs {
		vec := e.Extract(samples)
		if len(vec) != Dim {
			t.Fatalf("%s: expected %d elements, got %d", name, Dim, len(vec))
		}
		for i, v := range vec {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				t.Errorf("%s: element %d is not finite: %f", name, i, v)
			}
			if v < -3 || v > 3 {
				t.Errorf("%s: element %d out of range: %f", name, i, v)
			}
		}
	}
}

func TestExtractEmptyReturnsZeroVector(t *testing.T) {
	e := New(DefaultConfig())
	for _, samples := range [][]float32{nil, {}} {
		vec := e.Extract(samples)
		if len(vec) != Dim {
			t.Fatalf("expected %d elements, got %d", Dim, len(vec))
		}
		if !vec.IsZero() {
			t.Errorf("expected zero vector, got %v", vec)
		}
	}
}

func TestExtractSilenceReturnsZeroVector(t *testing.T) {
	e := New(DefaultConfig())
	vec := e.Extract(make([]float32, 8000))
	if !vec.IsZero() {
		t.Errorf("digital silence should yield the zero sentinel, got %v", vec)
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := New(DefaultConfig())
	samples := makeSine(150, 16000, 16000)
	a := e.Extract(samples)
	b := e.Extract(samples)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("element %d differs between identical runs: %f vs %f", i, a[i], b[i])
		}
	}
}

func TestExtractToneNotZero(t *testing.T) {
	e := New(DefaultConfig())
	vec := e.Extract(makeSine(220, 16000, 16000))
	if vec.IsZero() {
		t.Fatal("a sustained tone should not produce the zero sentinel")
	}
}

func TestPitchBandSustainedTone(t *testing.T) {
	e := New(DefaultConfig())
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*200*float64(i)/16000)
	}

	band := e.pitchBand(samples)
	if len(band) != PitchLen {
		t.Fatalf("expected %d elements, got %d", PitchLen, len(band))
	}
	mean, lo, hi := band[0], band[2], band[3]
	t.Logf("pitch mean=%.4f lo=%.4f hi=%.4f kHz", mean, lo, hi)
	if math.Abs(mean-0.2) > 0.005 {
		t.Errorf("expected pitch near 0.2 kHz, got %.4f", mean)
	}
	if lo > mean || hi < mean {
		t.Errorf("min/max should bracket the mean: lo=%.4f mean=%.4f hi=%.4f", lo, mean, hi)
	}
}

func TestPitchBandUnvoiced(t *testing.T) {
	e := New(DefaultConfig())

	// Too short for a single pitch frame.
	band := e.pitchBand(make([]float64, 500))
	for i, v := range band {
		if v != 0 {
			t.Errorf("short input: element %d should be 0, got %f", i, v)
		}
	}

	// Silence carries no voiced frames.
	band = e.pitchBand(make([]float64, 8000))
	for i, v := range band {
		if v != 0 {
			t.Errorf("silence: element %d should be 0, got %f", i, v)
		}
	}
}

func TestWelchPSDPeakLocation(t *testing.T) {
	e := New(DefaultConfig())
	samples := make([]float64, 8000)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / 16000)
	}

	psd, freqs := e.welchPSD(samples)
	if len(psd) != e.cfg.WelchSegment/2+1 {
		t.Fatalf("expected %d bins, got %d", e.cfg.WelchSegment/2+1, len(psd))
	}

	peak := 0
	for k := range psd {
		if psd[k] > psd[peak] {
			peak = k
		}
	}
	t.Logf("peak at %.1f Hz", freqs[peak])
	if math.Abs(freqs[peak]-1000) > 50 {
		t.Errorf("expected PSD peak near 1 kHz, got %.1f Hz", freqs[peak])
	}
}

func TestEnvelopeBandLength(t *testing.T) {
	e := New(DefaultConfig())
	psd, freqs := e.welchPSD(make([]float64, 512))
	band := envelopeBand(psd, freqs)
	if len(band) != EnvelopeLen {
		t.Fatalf("expected %d elements, got %d", EnvelopeLen, len(band))
	}
}

func TestFormantBandSyntheticPeak(t *testing.T) {
	// Build a PSD with one clear peak inside the F1 window.
	const bins = 257
	binWidth := 16000.0 / 512.0
	psd := make([]float64, bins)
	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * binWidth
	}
	peakBin := int(600 / binWidth)
	psd[peakBin] = 10
	psd[peakBin-1] = 6 // above half power
	psd[peakBin+1] = 4 // below half power

	band := formantBand(psd, freqs)
	wantF1 := freqs[peakBin] / 1000
	if math.Abs(band[0]-wantF1) > binWidth/1000 {
		t.Errorf("expected F1 near %.3f kHz, got %.3f", wantF1, band[0])
	}
	wantBW := 2 * binWidth / 1000 // peak bin plus the left neighbor
	if math.Abs(band[3]-wantBW) > 0.001 {
		t.Errorf("expected F1 bandwidth %.3f kHz, got %.3f", wantBW, band[3])
	}
}

func TestFormantBandIgnoresNoiseFloor(t *testing.T) {
	// A dominant peak outside the formant windows with only faint
	// ripple inside them: no window should report a formant.
	const bins = 257
	binWidth := 16000.0 / 512.0
	psd := make([]float64, bins)
	freqs := make([]float64, bins)
	for k := range freqs {
		freqs[k] = float64(k) * binWidth
	}
	psd[3] = 1000 // ~94 Hz, outside every window
	for k := 10; k < bins; k++ {
		psd[k] = 1e-4 // far below the prominence gate
	}

	band := formantBand(psd, freqs)
	for i, v := range band {
		if v != 0 {
			t.Errorf("element %d should be 0 for a floor-only window, got %f", i, v)
		}
	}
}

func TestEnvelopeBandRelativeFloor(t *testing.T) {
	e := New(DefaultConfig())

	// 100 Hz sits below the envelope grid: every sampled bin holds
	// only leakage and should read near zero.
	s := make([]float64, 16000)
	for i := range s {
		s[i] = 0.5 * math.Sin(2*math.Pi*100*float64(i)/16000)
	}
	psd, freqs := e.welchPSD(s)
	for i, v := range envelopeBand(psd, freqs) {
		if v > 1 {
			t.Errorf("100 Hz tone: envelope point %d should be near zero, got %.2f dB", i, v)
		}
	}

	// 400 Hz lands on the grid: its bin should stand far above the
	// floor.
	for i := range s {
		s[i] = 0.5 * math.Sin(2*math.Pi*400*float64(i)/16000)
	}
	psd, freqs = e.welchPSD(s)
	band := envelopeBand(psd, freqs)
	var top float64
	for _, v := range band {
		if v > top {
			top = v
		}
	}
	if top < 15 {
		t.Errorf("400 Hz tone: expected a hot envelope point above 15 dB, got %.2f", top)
	}
}

func TestShapeBandPauseAndRatios(t *testing.T) {
	e := New(DefaultConfig())
	samples := makeSine(300, 16000, 16000)

	// Spot-check raw band components for a clean tone.
	s := make([]float64, len(samples))
	for i, x := range samples {
		s[i] = float64(x)
	}
	psd, freqs := e.welchPSD(s)
	band := e.shapeBand(s, psd, freqs)
	if len(band) != ShapeLen {
		t.Fatalf("expected %d elements, got %d", ShapeLen, len(band))
	}
	if band[6] < 0.9 {
		t.Errorf("a 300 Hz tone should hold its energy under 500 Hz, got ratio %.2f", band[6])
	}
	if band[7] > 0.1 {
		t.Errorf("a 300 Hz tone should carry little 2-8 kHz energy, got ratio %.2f", band[7])
	}
}

func TestProsodyBandModulatedTone(t *testing.T) {
	e := New(DefaultConfig())
	samples := make([]float64, 32000)
	for i := range samples {
		t0 := float64(i) / 16000
		env := 0.5 + 0.5*math.Sin(2*math.Pi*4*t0) // 4 Hz syllable proxy
		samples[i] = env * math.Sin(2*math.Pi*200*t0)
	}

	band := e.prosodyBand(samples)
	if band[0] <= 0 || band[2] <= 0 {
		t.Errorf("energy mean/max should be positive: mean=%f max=%f", band[0], band[2])
	}
	if band[6] <= 0 || band[6] >= 1 {
		t.Errorf("modulated tone should have a partial pause ratio, got %f", band[6])
	}
	if band[4] <= 0 {
		t.Error("amplitude modulation should register rhythm peaks")
	}
	if band[5] < 0.5 {
		t.Errorf("evenly spaced peaks should score high regularity, got %.3f", band[5])
	}
	t.Logf("peak rate=%.1f/s regularity=%.3f pause=%.2f", band[4], band[5], band[6])
}

func TestProsodyBandSteadyToneNoPeaks(t *testing.T) {
	e := New(DefaultConfig())
	samples := make([]float64, 16000)
	for i := range samples {
		samples[i] = 0.5 * math.Sin(2*math.Pi*100*float64(i)/16000)
	}

	band := e.prosodyBand(samples)
	if band[4] != 0 {
		t.Errorf("a steady tone has no rhythm peaks, got rate %.2f/s", band[4])
	}
	if band[5] != 0 {
		t.Errorf("no peaks means no regularity score, got %.3f", band[5])
	}
}

func TestNormalizeClipsOutliers(t *testing.T) {
	raw := make([]float64, Dim)
	raw[0] = 1e9 // dominates mean and stddev
	vec := normalize(raw)
	for i, v := range vec {
		if v < -3 || v > 3 {
			t.Errorf("element %d escaped the clip range: %f", i, v)
		}
	}
	if vec[0] <= 0 {
		t.Errorf("the outlier should normalize positive, got %f", vec[0])
	}
}
