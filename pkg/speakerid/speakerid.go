// Package speakerid assigns feature vectors to stable per-session
// speaker identities via online nearest-centroid matching.
//
// A Registry owns an append-only arena of speaker profiles plus a
// separate index of currently-active speakers. Identify compares an
// incoming vector against every profile's running (exponentially
// averaged) vector and takes one of four branches:
//
//   - DecisionBootstrap: no profiles exist yet; create the first one
//   - DecisionMatched: best similarity clears the threshold; assign
//   - DecisionCreated: below threshold with capacity left; new speaker
//   - DecisionForced: below threshold at capacity; assign to the best
//     match anyway rather than failing
//
// Assignment is single-pass and order-dependent on purpose: identities
// must stay stable mid-stream, so profiles are only ever refined by
// exponential averaging, never re-clustered.
//
// Speaker IDs are allocated sequentially ("speaker:001", ...) and never
// reused. Profiles are never deleted; an inactivity purge only drops a
// speaker from the active index, keeping its history queryable.
//
// A Registry is not safe for concurrent use on its own. The diarize
// orchestrator serializes all access under a single lock.
package speakerid

import (
	"fmt"
	"math"

	"github.com/capitalrow/minaprod/pkg/diarize/feature"
)

// Decision classifies how a vector was assigned to a speaker.
type Decision int

const (
	// DecisionBootstrap means the registry was empty and a first
	// profile was created.
	DecisionBootstrap Decision = iota

	// DecisionMatched means the best similarity cleared the threshold.
	DecisionMatched

	// DecisionCreated means no profile matched and a new one was
	// created.
	DecisionCreated

	// DecisionForced means no profile matched but the registry was at
	// capacity, so the best match was assigned anyway.
	DecisionForced
)

func (d Decision) String() string {
	switch d {
	case DecisionBootstrap:
		return "bootstrap"
	case DecisionMatched:
		return "matched"
	case DecisionCreated:
		return "created"
	case DecisionForced:
		return "forced"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

// Config controls registry behavior. All fields are fixed for the life
// of a Registry.
type Config struct {
	// MaxSpeakers caps how many profiles may be created. Default: 10.
	MaxSpeakers int

	// Threshold is the minimum cosine similarity for an incoming
	// vector to match an existing profile. Default: 0.3.
	Threshold float64

	// LearningRate is the blend factor for the exponential profile
	// update: new = (1-rate)·old + rate·incoming. Default: 0.2.
	LearningRate float64

	// Prefix is prepended to generated IDs
	// (e.g. "speaker" → "speaker:001").
	Prefix string
}

func (c *Config) defaults() {
	if c.MaxSpeakers <= 0 {
		c.MaxSpeakers = 10
	}
	if c.Threshold == 0 {
		c.Threshold = 0.3
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		c.LearningRate = 0.2
	}
	if c.Prefix == "" {
		c.Prefix = "speaker"
	}
}

// Registry owns all speaker profiles created during one session.
type Registry struct {
	cfg      Config
	profiles []*Profile         // append-only arena
	index    map[string]int     // speaker ID → arena slot
	active   map[string]float64 // speaker ID → last activity timestamp
	nextID   int
}

// New creates a Registry. Zero config fields take their defaults.
func New(cfg Config) *Registry {
	cfg.defaults()
	return &Registry{
		cfg:    cfg,
		index:  make(map[string]int),
		active: make(map[string]float64),
	}
}

// Identify assigns the vector to a speaker and updates that speaker's
// profile. It never fails: degenerate vectors score similarity 0
// against every profile and fall into the create or forced branch.
func (r *Registry) Identify(vec feature.Vector, timestamp float64) (id string, confidence float64, d Decision) {
	vec = conform(vec)
	if len(r.profiles) == 0 {
		return r.Create(vec, timestamp), 1.0, DecisionBootstrap
	}

	bestID, bestSim := r.BestMatch(vec)

	switch {
	case bestSim > r.cfg.Threshold:
		r.Update(bestID, vec, timestamp)
		return bestID, bestSim, DecisionMatched
	case len(r.profiles) < r.cfg.MaxSpeakers:
		return r.Create(vec, timestamp), 1.0, DecisionCreated
	default:
		// At capacity with no match: degrade gracefully onto the
		// nearest profile instead of dropping the segment.
		r.Update(bestID, vec, timestamp)
		return bestID, bestSim, DecisionForced
	}
}

// BestMatch scans every profile and returns the one most similar to
// the vector. A profile whose similarity cannot be computed scores 0
// and the scan continues. Returns ("", 0) on an empty registry.
func (r *Registry) BestMatch(vec feature.Vector) (id string, similarity float64) {
	bestSim := math.Inf(-1)
	for _, p := range r.profiles {
		sim := CosineSimilarity(vec, p.Vector)
		if sim > bestSim {
			bestSim = sim
			id = p.ID
		}
	}
	if id == "" {
		return "", 0
	}
	if bestSim < 0 {
		bestSim = 0
	}
	return id, bestSim
}

// MatchesAbove returns the IDs of all profiles except exclude whose
// similarity to the vector exceeds minSim.
func (r *Registry) MatchesAbove(vec feature.Vector, minSim float64, exclude string) []string {
	var ids []string
	for _, p := range r.profiles {
		if p.ID == exclude {
			continue
		}
		if CosineSimilarity(vec, p.Vector) > minSim {
			ids = append(ids, p.ID)
		}
	}
	return ids
}

// Create allocates the next sequential speaker ID, builds a fresh
// profile from the vector, and marks it active. The assigned ID is
// returned.
func (r *Registry) Create(vec feature.Vector, timestamp float64) string {
	vec = conform(vec)
	r.nextID++
	p := newProfile(fmt.Sprintf("%s:%03d", r.cfg.Prefix, r.nextID), vec, timestamp)
	r.profiles = append(r.profiles, p)
	r.index[p.ID] = len(r.profiles) - 1
	r.active[p.ID] = timestamp
	return p.ID
}

// Update blends the incoming vector into the profile's running vector
// and refreshes the derived attributes. The profile confidence is a
// 90/10 blend of its previous confidence and the similarity between
// the old running vector and the incoming one, so a drifting profile
// loses confidence while a consistent one keeps it.
func (r *Registry) Update(id string, vec feature.Vector, timestamp float64) {
	vec = conform(vec)
	slot, ok := r.index[id]
	if !ok {
		return
	}
	p := r.profiles[slot]

	continuity := CosineSimilarity(p.Vector, vec)
	if continuity < 0 {
		continuity = 0
	}

	alpha := r.cfg.LearningRate
	for i := range p.Vector {
		p.Vector[i] = (1-alpha)*p.Vector[i] + alpha*vec[i]
	}

	p.Confidence = 0.9*p.Confidence + 0.1*continuity
	p.observe(vec)
	p.SegmentCount++
	p.LastSeen = timestamp
	r.active[id] = timestamp
}

// Touch records segment activity for a speaker: speech time, last-seen
// timestamp and active status.
func (r *Registry) Touch(id string, timestamp, seconds float64) {
	slot, ok := r.index[id]
	if !ok {
		return
	}
	p := r.profiles[slot]
	if seconds > 0 {
		p.SpeechTime += seconds
	}
	if timestamp > p.LastSeen {
		p.LastSeen = timestamp
	}
	r.active[id] = timestamp
}

// PurgeInactive drops speakers whose last activity is older than
// threshold seconds from the active index. Their profiles remain in
// the arena for reporting. Returns the number of speakers deactivated.
func (r *Registry) PurgeInactive(now, threshold float64) int {
	purged := 0
	for id, last := range r.active {
		if now-last > threshold {
			delete(r.active, id)
			purged++
		}
	}
	return purged
}

// Len returns the number of profiles ever created this session.
func (r *Registry) Len() int { return len(r.profiles) }

// ActiveLen returns the number of currently-active speakers.
func (r *Registry) ActiveLen() int { return len(r.active) }

// IsActive reports whether the speaker is currently active.
func (r *Registry) IsActive(id string) bool {
	_, ok := r.active[id]
	return ok
}

// Get returns a copy of the profile for the ID, if it exists.
func (r *Registry) Get(id string) (Profile, bool) {
	slot, ok := r.index[id]
	if !ok {
		return Profile{}, false
	}
	return r.profiles[slot].snapshot(), true
}

// Profiles returns copies of all profiles in creation order.
func (r *Registry) Profiles() []Profile {
	out := make([]Profile, len(r.profiles))
	for i, p := range r.profiles {
		out[i] = p.snapshot()
	}
	return out
}

// Reset clears all profiles and active state so the registry can serve
// a new session. Previously issued IDs are not reused.
func (r *Registry) Reset() {
	r.profiles = nil
	r.index = make(map[string]int)
	r.active = make(map[string]float64)
}

// conform pads or truncates a vector to the canonical dimension so a
// malformed caller-supplied vector degrades instead of panicking.
func conform(vec feature.Vector) feature.Vector {
	if len(vec) == feature.Dim {
		return vec
	}
	out := make(feature.Vector, feature.Dim)
	copy(out, vec)
	return out
}

// CosineSimilarity returns the cosine similarity of two vectors, or 0
// when either vector is zero, the lengths differ, or the result is not
// finite. The degenerate cases score 0 rather than erroring so that a
// single bad profile never aborts a registry scan.
func CosineSimilarity(a, b feature.Vector) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	if sim > 1 {
		sim = 1
	} else if sim < -1 {
		sim = -1
	}
	return sim
}
