package diarize

import "github.com/capitalrow/minaprod/pkg/speakerid"

// statsWindow is how many recent history entries feed the aggregate
// overlap and confidence statistics.
const statsWindow = 100

// Summary returns session-level counts and aggregate statistics.
func (d *Diarizer) Summary() Summary {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := Summary{
		TotalSpeakers:  d.reg.Len(),
		ActiveSpeakers: d.reg.ActiveLen(),
		Segments:       d.segments,
	}
	recent := d.history.last(statsWindow)
	if len(recent) == 0 {
		return s
	}
	overlaps := 0
	var conf float64
	for _, e := range recent {
		if e.Overlap {
			overlaps++
		}
		conf += e.Confidence
	}
	s.OverlapRate = float64(overlaps) / float64(len(recent))
	s.AvgConfidence = conf / float64(len(recent))
	return s
}

// Speakers returns a reporting summary for every identity created this
// session, in creation order. Purged speakers appear with Active false.
func (d *Diarizer) Speakers() []SpeakerSummary {
	d.mu.Lock()
	defer d.mu.Unlock()

	profiles := d.reg.Profiles()
	out := make([]SpeakerSummary, len(profiles))
	for i, p := range profiles {
		out[i] = SpeakerSummary{
			ID:           p.ID,
			Confidence:   p.Confidence,
			SpeechTime:   p.SpeechTime,
			SegmentCount: p.SegmentCount,
			Voice:        categorize(p),
			Active:       d.reg.IsActive(p.ID),
			FirstSeen:    p.FirstSeen,
			LastSeen:     p.LastSeen,
		}
	}
	return out
}

// Speaker returns the reporting summary for one ID.
func (d *Diarizer) Speaker(id string) (SpeakerSummary, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	p, ok := d.reg.Get(id)
	if !ok {
		return SpeakerSummary{}, false
	}
	return SpeakerSummary{
		ID:           p.ID,
		Confidence:   p.Confidence,
		SpeechTime:   p.SpeechTime,
		SegmentCount: p.SegmentCount,
		Voice:        categorize(p),
		Active:       d.reg.IsActive(p.ID),
		FirstSeen:    p.FirstSeen,
		LastSeen:     p.LastSeen,
	}, true
}

// Recent returns up to n history entries, oldest first.
func (d *Diarizer) Recent(n int) []HistoryEntry {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.history.last(n)
}

// categorize buckets a profile's average pitch-band value. The pitch
// attributes live on the normalized feature scale, so the thresholds
// do too; an all-zero pitch range means no voiced frame was ever
// observed.
func categorize(p speakerid.Profile) VoiceCategory {
	if p.PitchMin == 0 && p.PitchMax == 0 {
		return VoiceUnknown
	}
	avg := (p.PitchMin + p.PitchMax) / 2
	switch {
	case avg > 0.5:
		return VoiceHigh
	case avg >= -0.5:
		return VoiceMedium
	default:
		return VoiceLow
	}
}
