package speakerid

import "github.com/capitalrow/minaprod/pkg/diarize/feature"

// Profile is one speaker identity. The registry owns the canonical
// copy; accessors hand out snapshots.
type Profile struct {
	// ID is the stable session-unique identifier (e.g. "speaker:001").
	ID string `json:"id"`

	// Vector is the exponentially-averaged running feature vector,
	// not a raw history.
	Vector feature.Vector `json:"-"`

	// PitchMin and PitchMax bound the pitch-band values observed for
	// this speaker, in the vector's normalized units.
	PitchMin float64 `json:"pitch_min"`
	PitchMax float64 `json:"pitch_max"`

	// Formants holds the speaker's formant characteristics keyed
	// f1/f2/f3 and f1_bw/f2_bw/f3_bw, read from the running vector.
	Formants map[string]float64 `json:"formants"`

	// Confidence is the identity-continuity score in [0, 1].
	Confidence float64 `json:"confidence"`

	// FirstSeen and LastSeen are session timestamps in seconds.
	FirstSeen float64 `json:"first_seen"`
	LastSeen  float64 `json:"last_seen"`

	// SegmentCount is the number of segments assigned to this speaker.
	SegmentCount int `json:"segment_count"`

	// SpeechTime is the cumulative assigned audio duration in seconds.
	SpeechTime float64 `json:"speech_time"`
}

func newProfile(id string, vec feature.Vector, timestamp float64) *Profile {
	p := &Profile{
		ID:           id,
		Vector:       append(feature.Vector(nil), vec...),
		Confidence:   1.0,
		FirstSeen:    timestamp,
		LastSeen:     timestamp,
		SegmentCount: 1,
	}
	p.PitchMin = vec[feature.PitchStart+2]
	p.PitchMax = vec[feature.PitchStart+3]
	p.Formants = formantMap(vec)
	return p
}

// observe widens the pitch range with a newly assigned vector and
// refreshes the formant map from the running average.
func (p *Profile) observe(vec feature.Vector) {
	if lo := vec[feature.PitchStart+2]; lo < p.PitchMin {
		p.PitchMin = lo
	}
	if hi := vec[feature.PitchStart+3]; hi > p.PitchMax {
		p.PitchMax = hi
	}
	p.Formants = formantMap(p.Vector)
}

func formantMap(vec feature.Vector) map[string]float64 {
	return map[string]float64{
		"f1":    vec[feature.FormantStart],
		"f2":    vec[feature.FormantStart+1],
		"f3":    vec[feature.FormantStart+2],
		"f1_bw": vec[feature.FormantStart+3],
		"f2_bw": vec[feature.FormantStart+4],
		"f3_bw": vec[feature.FormantStart+5],
	}
}

// snapshot returns a deep copy safe to hand to callers.
func (p *Profile) snapshot() Profile {
	cp := *p
	cp.Vector = append(feature.Vector(nil), p.Vector...)
	cp.Formants = make(map[string]float64, len(p.Formants))
	for k, v := range p.Formants {
		cp.Formants[k] = v
	}
	return cp
}
