// Command diarize exercises the streaming speaker diarizer against a
// synthetic multi-party conversation.
//
// It synthesizes a round-robin conversation between N artificial
// voices (sustained tones with well-separated fundamentals plus a
// little noise), streams the segments through one diarize.Diarizer,
// and prints the per-segment assignments followed by the session
// summary.
//
// Usage:
//
//	diarize [--speakers 3] [--segments 12] [--duration 1.0] [--config file.yaml]
//
// The optional YAML config file overrides diarize.Config fields; flags
// apply on top.
package main

import (
	"fmt"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/capitalrow/minaprod/pkg/diarize"
)

var (
	flagConfig   string
	flagSpeakers int
	flagSegments int
	flagDuration float64
	flagVerbose  bool
)

var rootCmd = &cobra.Command{
	Use:   "diarize",
	Short: "Run the speaker diarizer on synthetic audio",
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "YAML file overriding session config")
	rootCmd.Flags().IntVar(&flagSpeakers, "speakers", 3, "number of synthetic voices")
	rootCmd.Flags().IntVar(&flagSegments, "segments", 12, "number of segments to stream")
	rootCmd.Flags().Float64Var(&flagDuration, "duration", 1.0, "segment duration in seconds")
	rootCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "diarize: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	level := slog.LevelInfo
	if flagVerbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := diarize.DefaultConfig()
	if flagConfig != "" {
		raw, err := os.ReadFile(flagConfig)
		if err != nil {
			return fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return fmt.Errorf("parse config: %w", err)
		}
	}
	cfg.Logger = logger

	d := diarize.New(cfg)
	rng := rand.New(rand.NewPCG(7, 13))

	voices := make([]*voice, flagSpeakers)
	for i := range voices {
		// Spread fundamentals log-evenly between 300 Hz and 8 kHz so
		// every voice lands in a distinct part of the spectrum.
		voices[i] = &voice{fundamental: 300 * math.Pow(8000.0/300.0, float64(i)/float64(flagSpeakers+1))}
	}

	fmt.Printf("streaming %d segments from %d synthetic voices\n\n", flagSegments, flagSpeakers)
	fmt.Printf("%-10s %-36s %-12s %-6s %s\n", "time", "segment", "speaker", "conf", "overlap")

	timestamp := 0.0
	for i := 0; i < flagSegments; i++ {
		v := voices[i%len(voices)]
		samples := v.synthesize(flagDuration, cfg.SampleRate, rng)
		segID := uuid.NewString()

		seg := d.Process(samples, timestamp, segID, fmt.Sprintf("utterance %d", i+1))
		logger.Debug("segment processed",
			slog.String("segment_id", seg.SegmentID),
			slog.String("speaker_id", seg.SpeakerID))

		fmt.Printf("%-10.2f %-36s %-12s %-6.2f %v\n",
			seg.Start, seg.SegmentID, seg.SpeakerID, seg.Confidence, seg.Overlap)
		timestamp += flagDuration
	}

	summary := d.Summary()
	fmt.Printf("\nsession: %d segments, %d speakers (%d active), overlap rate %.2f, avg confidence %.2f\n",
		summary.Segments, summary.TotalSpeakers, summary.ActiveSpeakers,
		summary.OverlapRate, summary.AvgConfidence)

	fmt.Printf("\n%-12s %-8s %-6s %-9s %-8s %s\n", "speaker", "voice", "conf", "segments", "speech", "active")
	for _, s := range d.Speakers() {
		fmt.Printf("%-12s %-8s %-6.2f %-9d %-8.1f %v\n",
			s.ID, s.Voice, s.Confidence, s.SegmentCount, s.SpeechTime, s.Active)
	}
	return nil
}

// voice synthesizes a crude artificial speaker: a sustained tone at a
// fixed fundamental over a light noise floor.
type voice struct {
	fundamental float64
}

func (v *voice) synthesize(seconds float64, rate int, rng *rand.Rand) []float32 {
	n := int(seconds * float64(rate))
	out := make([]float32, n)
	for i := range out {
		t := float64(i) / float64(rate)
		out[i] = float32(0.35*math.Sin(2*math.Pi*v.fundamental*t) + 0.01*rng.NormFloat64())
	}
	return out
}
