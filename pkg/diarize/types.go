package diarize

import "fmt"

// UnknownSpeaker is the sentinel speaker ID returned when a segment
// could not be processed.
const UnknownSpeaker = "unknown"

// Segment is the per-segment diarization result.
type Segment struct {
	// SegmentID echoes the caller-assigned segment ID.
	SegmentID string `json:"segment_id"`
	// SpeakerID is the assigned speaker, or UnknownSpeaker.
	SpeakerID string `json:"speaker_id"`
	// Start and End are session timestamps in seconds;
	// End = Start + sampleCount/sampleRate.
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	// Transcript is the externally-produced text, passed through
	// unchanged.
	Transcript string `json:"transcript"`
	// Confidence is the assigned speaker's confidence for this
	// segment.
	Confidence float64 `json:"confidence"`
	// Overlap is true when other known voices likely co-occur.
	Overlap bool `json:"overlap"`
	// Background lists the candidate background speaker IDs.
	Background []string `json:"background_speakers,omitempty"`
}

// HistoryEntry is the compact analytics record kept per processed
// segment.
type HistoryEntry struct {
	Time       float64 `json:"time"`
	SpeakerID  string  `json:"speaker_id"`
	Confidence float64 `json:"confidence"`
	Overlap    bool    `json:"overlap"`
	SegmentID  string  `json:"segment_id"`
}

// VoiceCategory buckets a speaker's average pitch.
type VoiceCategory int

const (
	VoiceUnknown VoiceCategory = iota
	VoiceLow
	VoiceMedium
	VoiceHigh
)

func (v VoiceCategory) String() string {
	switch v {
	case VoiceUnknown:
		return "unknown"
	case VoiceLow:
		return "low"
	case VoiceMedium:
		return "medium"
	case VoiceHigh:
		return "high"
	default:
		return fmt.Sprintf("VoiceCategory(%d)", int(v))
	}
}

// MarshalText renders the category as its name for JSON consumers.
func (v VoiceCategory) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// SpeakerSummary is the reporting view of one speaker profile.
type SpeakerSummary struct {
	ID           string        `json:"id"`
	Confidence   float64       `json:"confidence"`
	SpeechTime   float64       `json:"speech_time"`
	SegmentCount int           `json:"segment_count"`
	Voice        VoiceCategory `json:"voice_category"`
	Active       bool          `json:"active"`
	FirstSeen    float64       `json:"first_seen"`
	LastSeen     float64       `json:"last_seen"`
}

// Summary aggregates session-level statistics.
type Summary struct {
	// TotalSpeakers counts every identity created this session.
	TotalSpeakers int `json:"total_speakers"`
	// ActiveSpeakers counts identities heard recently.
	ActiveSpeakers int `json:"active_speakers"`
	// Segments is the number of Process calls served.
	Segments int `json:"segments"`
	// OverlapRate is the overlap fraction over the most recent history
	// window (up to 100 entries).
	OverlapRate float64 `json:"overlap_rate"`
	// AvgConfidence is the mean identification confidence over the
	// same window.
	AvgConfidence float64 `json:"avg_confidence"`
}
