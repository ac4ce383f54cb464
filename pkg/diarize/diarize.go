package diarize

import (
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/capitalrow/minaprod/pkg/diarize/feature"
	"github.com/capitalrow/minaprod/pkg/speakerid"
)

// Diarizer is the session-scoped entry point. It sequences feature
// extraction, speaker identification and overlap detection per
// segment, and maintains the bounded analytics history.
type Diarizer struct {
	cfg Config
	ext *feature.Extractor

	mu       sync.Mutex
	reg      *speakerid.Registry
	history  *historyRing
	segments int
}

// New creates a Diarizer for one session. Zero config fields take
// their defaults.
func New(cfg Config) *Diarizer {
	cfg.defaults()
	return &Diarizer{
		cfg: cfg,
		ext: feature.New(feature.Config{SampleRate: cfg.SampleRate}),
		reg: speakerid.New(speakerid.Config{
			MaxSpeakers:  cfg.MaxSpeakers,
			Threshold:    cfg.ClusterThreshold,
			LearningRate: cfg.LearningRate,
		}),
		history: newHistoryRing(cfg.HistorySize),
	}
}

// Process diarizes one audio segment and returns its result record.
//
// samples is the segment's PCM audio at the session sample rate;
// timestamp is the segment start in seconds, monotonic within the
// session; segmentID is the caller's opaque ID (a fresh UUID is
// assigned when empty); transcript is attached to the result
// unchanged.
//
// Process never panics out and never returns an error: any internal
// fault is logged and yields a sentinel result attributed to
// UnknownSpeaker at confidence 0.
func (d *Diarizer) Process(samples []float32, timestamp float64, segmentID, transcript string) (seg Segment) {
	if segmentID == "" {
		segmentID = uuid.NewString()
	}
	duration := float64(len(samples)) / float64(d.cfg.SampleRate)

	d.mu.Lock()
	defer d.mu.Unlock()
	defer func() {
		if r := recover(); r != nil {
			d.cfg.Logger.Error("diarization fault contained",
				slog.String("segment_id", segmentID),
				slog.Any("panic", r))
			seg = Segment{
				SegmentID:  segmentID,
				SpeakerID:  UnknownSpeaker,
				Start:      timestamp,
				End:        timestamp + duration,
				Transcript: transcript,
			}
			d.record(seg, timestamp)
		}
	}()

	vec := d.ext.Extract(samples)

	id, conf, _ := d.reg.Identify(vec, timestamp)
	overlap, background := d.detectOverlap(vec, id)

	seg = Segment{
		SegmentID:  segmentID,
		SpeakerID:  id,
		Start:      timestamp,
		End:        timestamp + duration,
		Transcript: transcript,
		Confidence: conf,
		Overlap:    overlap,
		Background: background,
	}

	d.reg.Touch(id, timestamp, duration)
	d.reg.PurgeInactive(timestamp, d.cfg.InactivityTimeout)
	d.record(seg, timestamp)
	return seg
}

// record must be called with d.mu held.
func (d *Diarizer) record(seg Segment, timestamp float64) {
	d.history.add(HistoryEntry{
		Time:       timestamp,
		SpeakerID:  seg.SpeakerID,
		Confidence: seg.Confidence,
		Overlap:    seg.Overlap,
		SegmentID:  seg.SegmentID,
	})
	d.segments++
}

// Reset clears the speaker registry and history so the Diarizer can
// serve a new session with the same configuration.
func (d *Diarizer) Reset() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.reg.Reset()
	d.history = newHistoryRing(d.cfg.HistorySize)
	d.segments = 0
}
