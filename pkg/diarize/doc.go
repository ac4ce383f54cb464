// Package diarize performs real-time speaker diarization: it assigns
// each incoming audio segment of a live multi-party conversation to a
// persistent speaker identity, tracks each identity's evolving voice
// signature, flags segments that likely contain overlapping voices,
// and retires identities that go silent.
//
// # Pipeline
//
// One Diarizer owns one session. Each Process call runs, under a
// single lock:
//
//	samples → feature.Extract → speakerid.Identify → overlap check
//	        → Segment result → history ring → caller
//
// The feature extractor is stateless and lock-free; all mutable state
// (the speaker registry and the analytics history) is serialized by
// the Diarizer's mutex, so Process may be called from any number of
// producer goroutines. Segments arrive at speech cadence, so holding
// the lock for one segment's worth of pure CPU work is the intended
// trade.
//
// # Fault containment
//
// Process never propagates a failure to the caller: degenerate audio
// yields low-confidence results built from the zero feature vector,
// and an unexpected internal fault is recovered, logged, and converted
// into a sentinel "unknown" segment. A live transcription pipeline
// upstream must keep flowing no matter what a single segment does.
//
// # Boundaries
//
// The package consumes in-memory sample buffers and returns in-memory
// records. Audio capture, speech-to-text, and persistence are the
// caller's problem; transcripts pass through byte-identical. Summary
// queries return plain tagged structs ready for JSON serialization.
package diarize
