package diarize

import "log/slog"

// Config controls a diarization session. All fields are fixed once the
// Diarizer is created.
type Config struct {
	// SampleRate is the session audio sample rate in Hz. Default: 16000.
	SampleRate int `yaml:"sample_rate" json:"sample_rate"`

	// MaxSpeakers caps how many speaker identities may be created.
	// Default: 10.
	MaxSpeakers int `yaml:"max_speakers" json:"max_speakers"`

	// ClusterThreshold is the minimum cosine similarity for a segment
	// to join an existing speaker. Default: 0.3.
	ClusterThreshold float64 `yaml:"cluster_threshold" json:"cluster_threshold"`

	// OverlapVariance gates the overlap check on the variance of the
	// vector's leading envelope elements. Default: 0.5.
	OverlapVariance float64 `yaml:"overlap_variance" json:"overlap_variance"`

	// OverlapSimilarity is the looser similarity bound for counting a
	// non-primary speaker as background. Default: 0.4.
	OverlapSimilarity float64 `yaml:"overlap_similarity" json:"overlap_similarity"`

	// InactivityTimeout is how long, in seconds, a speaker may stay
	// silent before being dropped from the active set. Default: 300.
	InactivityTimeout float64 `yaml:"inactivity_timeout" json:"inactivity_timeout"`

	// HistorySize bounds the analytics history ring. Default: 1000.
	HistorySize int `yaml:"history_size" json:"history_size"`

	// LearningRate is the exponential-average blend factor for profile
	// updates. Default: 0.2.
	LearningRate float64 `yaml:"learning_rate" json:"learning_rate"`

	// Logger receives contained-fault reports. Nil means slog.Default.
	Logger *slog.Logger `yaml:"-" json:"-"`
}

// DefaultConfig returns the standard session configuration.
func DefaultConfig() Config {
	return Config{
		SampleRate:        16000,
		MaxSpeakers:       10,
		ClusterThreshold:  0.3,
		OverlapVariance:   0.5,
		OverlapSimilarity: 0.4,
		InactivityTimeout: 300,
		HistorySize:       1000,
		LearningRate:      0.2,
	}
}

func (c *Config) defaults() {
	if c.SampleRate <= 0 {
		c.SampleRate = 16000
	}
	if c.MaxSpeakers <= 0 {
		c.MaxSpeakers = 10
	}
	if c.ClusterThreshold == 0 {
		c.ClusterThreshold = 0.3
	}
	if c.OverlapVariance == 0 {
		c.OverlapVariance = 0.5
	}
	if c.OverlapSimilarity == 0 {
		c.OverlapSimilarity = 0.4
	}
	if c.InactivityTimeout <= 0 {
		c.InactivityTimeout = 300
	}
	if c.HistorySize <= 0 {
		c.HistorySize = 1000
	}
	if c.LearningRate <= 0 || c.LearningRate > 1 {
		c.LearningRate = 0.2
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}
