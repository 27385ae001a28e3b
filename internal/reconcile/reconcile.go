// Package reconcile decides whether a video item's recorded aspect ratio
// should be replaced by the ratio discovered through cropdetect sampling.
//
// Every failure path degrades to a Skip decision carrying a reason; no error
// escapes the reconciliation boundary. The caller's context still cancels
// in-flight detection.
package reconcile

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/autobrr/go-aspectratio/internal/probe"
	"github.com/autobrr/go-aspectratio/internal/ratio"
)

// Kind classifies how an item's video content is laid out on disk.
type Kind string

const (
	KindFile   Kind = "file"
	KindDVD    Kind = "dvd"
	KindBluRay Kind = "bluray"
)

func (k Kind) valid() bool {
	switch k {
	case KindFile, KindDVD, KindBluRay:
		return true
	}
	return false
}

// Item is one video entry under reconciliation.
type Item struct {
	Path string
	Kind Kind

	// AspectRatio is the item's current recorded ratio, "" when unset.
	AspectRatio string

	// Duration is the item's runtime as reported by its own metadata,
	// 0 when unknown.
	Duration time.Duration
}

// Reason explains why a reconciliation ended without a write.
type Reason string

const (
	ReasonUnsupported     Reason = "unsupported item"
	ReasonAlreadySet      Reason = "aspect ratio already set"
	ReasonNoCandidates    Reason = "no valid candidate ratios configured"
	ReasonNoDVDContent    Reason = "no playable DVD content"
	ReasonNoBluRayContent Reason = "no playable Blu-ray content"
	ReasonProbeFailed     Reason = "media inspection failed"
	ReasonNoDuration      Reason = "no duration"
	ReasonDetectFailed    Reason = "cropdetect found no usable bounds"
	ReasonStreamRatio     Reason = "cannot convert stream aspect ratio"
	ReasonCandidateRatio  Reason = "cannot convert selected candidate"
	ReasonWithinTolerance Reason = "matches existing ratio within tolerance"
)

// Decision is the two-valued reconciliation outcome: write Ratio to the
// item, or skip for Reason.
type Decision struct {
	Ratio  string
	Reason Reason
}

// Write reports whether the decision carries a ratio to persist.
func (d Decision) Write() bool { return d.Reason == "" }

func skip(r Reason) Decision { return Decision{Reason: r} }

// Prober returns container-level info for a path; ok=false means inspection
// failed.
type Prober interface {
	Probe(ctx context.Context, path string) (probe.Info, bool)
}

// Detector reports the visible picture's aspect ratio; ok=false means
// detection failed or was cancelled.
type Detector interface {
	Detect(ctx context.Context, path string, duration time.Duration, checks int) (float64, bool)
}

// DiscResolver locates the playable stream files inside disc layouts.
type DiscResolver interface {
	DVDTitleFiles(root string) []string
	BluRayStreamFiles(root string) ([]string, bool)
}

// Engine wires the external collaborators reconciliation depends on.
type Engine struct {
	Probe  Prober
	Detect Detector
	Discs  DiscResolver
}

// Two ratios closer than this describe the same picture shape.
const ratioTolerance = 0.01

// Reconcile runs the full decision chain for one item. It never returns an
// error; cancellation surfaces as a detection-failed skip.
func (e *Engine) Reconcile(ctx context.Context, item Item, cfg Config) Decision {
	cfg = normalizeConfig(cfg)

	if !item.Kind.valid() || strings.TrimSpace(item.Path) == "" {
		return skip(ReasonUnsupported)
	}
	if strings.TrimSpace(item.AspectRatio) != "" && !cfg.OverrideExisting {
		return skip(ReasonAlreadySet)
	}

	candidates := ratio.ParseCandidates(cfg.AcceptedAspectRatios)
	if len(candidates) == 0 {
		return skip(ReasonNoCandidates)
	}

	source, reason := e.resolveSource(item)
	if reason != "" {
		return skip(reason)
	}

	info, ok := e.Probe.Probe(ctx, source)
	if !ok {
		return skip(ReasonProbeFailed)
	}
	if item.Duration <= 0 {
		return skip(ReasonNoDuration)
	}

	detected, ok := e.Detect.Detect(ctx, source, item.Duration, cfg.ChecksPerVideo)
	if !ok {
		return skip(ReasonDetectFailed)
	}

	current, ok := ratio.Parse(info.DisplayAspectRatio)
	if !ok {
		return skip(ReasonStreamRatio)
	}

	selected, ok := ratio.Nearest(candidates, detected)
	if !ok {
		return skip(ReasonNoCandidates)
	}
	selectedValue, ok := ratio.Parse(selected.Text)
	if !ok {
		return skip(ReasonCandidateRatio)
	}

	if math.Abs(selectedValue-current) < ratioTolerance && !cfg.AlwaysWrite {
		return skip(ReasonWithinTolerance)
	}
	return Decision{Ratio: selected.Text}
}

// resolveSource maps an item to the file cropdetect should read. Plain files
// are used directly; disc layouts resolve to the feature's first stream file.
func (e *Engine) resolveSource(item Item) (string, Reason) {
	switch item.Kind {
	case KindDVD:
		vobs := e.Discs.DVDTitleFiles(item.Path)
		if len(vobs) == 0 {
			return "", ReasonNoDVDContent
		}
		return vobs[0], ""
	case KindBluRay:
		files, ok := e.Discs.BluRayStreamFiles(item.Path)
		if !ok || len(files) == 0 {
			return "", ReasonNoBluRayContent
		}
		return files[0], ""
	}
	return item.Path, ""
}
