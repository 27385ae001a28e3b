package reconcile

import "strings"

const (
	// DefaultAcceptedAspectRatios is the whitelist of cinematic ratios a
	// detected value may resolve to.
	DefaultAcceptedAspectRatios = "1.33, 1.78, 1.85, 2.00, 2.20, 2.35, 2.37, 2.39, 2.40"

	DefaultChecksPerVideo = 10
	MinChecksPerVideo     = 3
)

// Config is the per-run reconciliation configuration. It is snapshotted at
// call start; concurrent reconciliations never share mutable state.
type Config struct {
	// AcceptedAspectRatios is a comma-separated list of ratio texts, each
	// "W:H" or a decimal. Unparseable entries are ignored.
	AcceptedAspectRatios string

	// ChecksPerVideo is the number of cropdetect sample points per video.
	ChecksPerVideo int

	// AlwaysWrite writes the selected ratio even when it matches the
	// stream's reported ratio within tolerance.
	AlwaysWrite bool

	// OverrideExisting re-detects items that already carry an aspect ratio.
	OverrideExisting bool
}

func DefaultConfig() Config {
	return Config{
		AcceptedAspectRatios: DefaultAcceptedAspectRatios,
		ChecksPerVideo:       DefaultChecksPerVideo,
	}
}

// normalizeConfig applies defaults so that reads never need fallbacks.
func normalizeConfig(cfg Config) Config {
	if strings.TrimSpace(cfg.AcceptedAspectRatios) == "" {
		cfg.AcceptedAspectRatios = DefaultAcceptedAspectRatios
	}
	if cfg.ChecksPerVideo == 0 {
		cfg.ChecksPerVideo = DefaultChecksPerVideo
	}
	if cfg.ChecksPerVideo < MinChecksPerVideo {
		cfg.ChecksPerVideo = MinChecksPerVideo
	}
	return cfg
}
