// Package aspectratio is the public proxy for embedding the detection and
// reconciliation engine in other programs.
package aspectratio

import (
	"context"
	"time"

	"github.com/autobrr/go-aspectratio/internal/cropdetect"
	"github.com/autobrr/go-aspectratio/internal/disc"
	"github.com/autobrr/go-aspectratio/internal/probe"
	"github.com/autobrr/go-aspectratio/internal/ratio"
	"github.com/autobrr/go-aspectratio/internal/reconcile"
)

// Types
type Config = reconcile.Config
type Item = reconcile.Item
type Decision = reconcile.Decision
type Kind = reconcile.Kind
type Reason = reconcile.Reason
type Engine = reconcile.Engine
type Candidate = ratio.Candidate

// Constants
const (
	KindFile   = reconcile.KindFile
	KindDVD    = reconcile.KindDVD
	KindBluRay = reconcile.KindBluRay

	DefaultAcceptedAspectRatios = reconcile.DefaultAcceptedAspectRatios
	DefaultChecksPerVideo       = reconcile.DefaultChecksPerVideo
	MinChecksPerVideo           = reconcile.MinChecksPerVideo
)

// Functions
func DefaultConfig() Config {
	return reconcile.DefaultConfig()
}

func ParseRatio(text string) (float64, bool) {
	return ratio.Parse(text)
}

func ParseCandidates(list string) []Candidate {
	return ratio.ParseCandidates(list)
}

func Nearest(candidates []Candidate, target float64) (Candidate, bool) {
	return ratio.Nearest(candidates, target)
}

// NewEngine wires an engine against real ffmpeg/ffprobe binaries. Empty bin
// paths resolve from $PATH.
func NewEngine(ffmpegBin, ffprobeBin string) *Engine {
	return &Engine{
		Probe:  &probe.Prober{Bin: ffprobeBin},
		Detect: &cropdetect.Detector{Bin: ffmpegBin},
		Discs:  disc.Resolver{},
	}
}

// Detect samples path through cropdetect with default binaries.
func Detect(ctx context.Context, path string, duration time.Duration, checks int) (float64, bool) {
	d := &cropdetect.Detector{}
	return d.Detect(ctx, path, duration, checks)
}
