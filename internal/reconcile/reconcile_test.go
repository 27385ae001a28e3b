package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/autobrr/go-aspectratio/internal/probe"
)

type fakeProber struct {
	info probe.Info
	ok   bool

	gotPath string
}

func (f *fakeProber) Probe(_ context.Context, path string) (probe.Info, bool) {
	f.gotPath = path
	return f.info, f.ok
}

type fakeDetector struct {
	ratio float64
	ok    bool

	gotPath   string
	gotChecks int
	called    bool
}

func (f *fakeDetector) Detect(_ context.Context, path string, _ time.Duration, checks int) (float64, bool) {
	f.called = true
	f.gotPath = path
	f.gotChecks = checks
	return f.ratio, f.ok
}

type fakeDiscs struct {
	vobs []string
	m2ts []string
	ok   bool
}

func (f *fakeDiscs) DVDTitleFiles(string) []string { return f.vobs }

func (f *fakeDiscs) BluRayStreamFiles(string) ([]string, bool) { return f.m2ts, f.ok }

func newEngine(p *fakeProber, d *fakeDetector, discs *fakeDiscs) *Engine {
	if p == nil {
		p = &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9", DurationSec: 60}}
	}
	if d == nil {
		d = &fakeDetector{ratio: 1.78, ok: true}
	}
	if discs == nil {
		discs = &fakeDiscs{}
	}
	return &Engine{Probe: p, Detect: d, Discs: discs}
}

func movieItem() Item {
	return Item{Path: "/library/movie.mkv", Kind: KindFile, Duration: 90 * time.Minute}
}

func TestReconcileWritesNearestCandidate(t *testing.T) {
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9"}}
	detector := &fakeDetector{ratio: 2.0, ok: true}
	e := newEngine(prober, detector, nil)

	cfg := DefaultConfig()
	cfg.AcceptedAspectRatios = "1.78, 2.00"

	got := e.Reconcile(context.Background(), movieItem(), cfg)
	if !got.Write() {
		t.Fatalf("Reconcile() skipped (%s), want write", got.Reason)
	}
	if got.Ratio != "2.00" {
		t.Fatalf("Ratio=%q, want 2.00", got.Ratio)
	}
	if detector.gotChecks != DefaultChecksPerVideo {
		t.Fatalf("checks=%d, want %d", detector.gotChecks, DefaultChecksPerVideo)
	}
}

func TestReconcileUnsupportedItem(t *testing.T) {
	e := newEngine(nil, nil, nil)

	got := e.Reconcile(context.Background(), Item{Kind: "photo", Path: "/x"}, DefaultConfig())
	if got.Reason != ReasonUnsupported {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonUnsupported)
	}

	got = e.Reconcile(context.Background(), Item{Kind: KindFile, Path: "  "}, DefaultConfig())
	if got.Reason != ReasonUnsupported {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonUnsupported)
	}
}

func TestReconcileExistingRatioWithoutOverride(t *testing.T) {
	detector := &fakeDetector{ratio: 2.39, ok: true}
	e := newEngine(nil, detector, nil)

	item := movieItem()
	item.AspectRatio = "1.85"

	got := e.Reconcile(context.Background(), item, DefaultConfig())
	if got.Reason != ReasonAlreadySet {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonAlreadySet)
	}
	if detector.called {
		t.Fatalf("detector ran despite existing ratio")
	}
}

func TestReconcileExistingRatioWithOverride(t *testing.T) {
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9"}}
	detector := &fakeDetector{ratio: 2.39, ok: true}
	e := newEngine(prober, detector, nil)

	item := movieItem()
	item.AspectRatio = "1.85"
	cfg := DefaultConfig()
	cfg.OverrideExisting = true

	got := e.Reconcile(context.Background(), item, cfg)
	if !got.Write() {
		t.Fatalf("Reconcile() skipped (%s), want write", got.Reason)
	}
	if got.Ratio != "2.39" {
		t.Fatalf("Ratio=%q, want 2.39", got.Ratio)
	}
}

func TestReconcileNoValidCandidates(t *testing.T) {
	e := newEngine(nil, nil, nil)
	cfg := DefaultConfig()
	cfg.AcceptedAspectRatios = "garbage, :1, 1:"

	got := e.Reconcile(context.Background(), movieItem(), cfg)
	if got.Reason != ReasonNoCandidates {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonNoCandidates)
	}
}

func TestReconcileDVDUsesFirstTitleVOB(t *testing.T) {
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9"}}
	detector := &fakeDetector{ratio: 2.35, ok: true}
	discs := &fakeDiscs{vobs: []string{"/disc/VIDEO_TS/VTS_01_1.VOB", "/disc/VIDEO_TS/VTS_01_2.VOB"}}
	e := newEngine(prober, detector, discs)

	item := Item{Path: "/disc", Kind: KindDVD, Duration: time.Hour}
	got := e.Reconcile(context.Background(), item, DefaultConfig())
	if !got.Write() {
		t.Fatalf("Reconcile() skipped (%s), want write", got.Reason)
	}
	if detector.gotPath != "/disc/VIDEO_TS/VTS_01_1.VOB" {
		t.Fatalf("detector path=%q, want first VOB", detector.gotPath)
	}
	if prober.gotPath != "/disc/VIDEO_TS/VTS_01_1.VOB" {
		t.Fatalf("prober path=%q, want first VOB", prober.gotPath)
	}
}

func TestReconcileDVDWithoutContent(t *testing.T) {
	e := newEngine(nil, nil, &fakeDiscs{})
	item := Item{Path: "/disc", Kind: KindDVD, Duration: time.Hour}

	got := e.Reconcile(context.Background(), item, DefaultConfig())
	if got.Reason != ReasonNoDVDContent {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonNoDVDContent)
	}
}

func TestReconcileBluRayWithoutContent(t *testing.T) {
	item := Item{Path: "/disc", Kind: KindBluRay, Duration: time.Hour}

	e := newEngine(nil, nil, &fakeDiscs{ok: false})
	if got := e.Reconcile(context.Background(), item, DefaultConfig()); got.Reason != ReasonNoBluRayContent {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonNoBluRayContent)
	}

	e = newEngine(nil, nil, &fakeDiscs{ok: true})
	if got := e.Reconcile(context.Background(), item, DefaultConfig()); got.Reason != ReasonNoBluRayContent {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonNoBluRayContent)
	}
}

func TestReconcileBluRayUsesFirstStreamFile(t *testing.T) {
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9"}}
	detector := &fakeDetector{ratio: 2.39, ok: true}
	discs := &fakeDiscs{m2ts: []string{"/disc/BDMV/STREAM/00001.m2ts"}, ok: true}
	e := newEngine(prober, detector, discs)

	item := Item{Path: "/disc", Kind: KindBluRay, Duration: time.Hour}
	got := e.Reconcile(context.Background(), item, DefaultConfig())
	if !got.Write() {
		t.Fatalf("Reconcile() skipped (%s), want write", got.Reason)
	}
	if detector.gotPath != "/disc/BDMV/STREAM/00001.m2ts" {
		t.Fatalf("detector path=%q, want first m2ts", detector.gotPath)
	}
}

func TestReconcileProbeFailure(t *testing.T) {
	e := newEngine(&fakeProber{ok: false}, nil, nil)

	got := e.Reconcile(context.Background(), movieItem(), DefaultConfig())
	if got.Reason != ReasonProbeFailed {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonProbeFailed)
	}
}

func TestReconcileMissingDuration(t *testing.T) {
	detector := &fakeDetector{ratio: 2.0, ok: true}
	e := newEngine(nil, detector, nil)

	item := movieItem()
	item.Duration = 0

	got := e.Reconcile(context.Background(), item, DefaultConfig())
	if got.Reason != ReasonNoDuration {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonNoDuration)
	}
	if detector.called {
		t.Fatalf("detector ran without a duration")
	}
}

func TestReconcileDetectionFailure(t *testing.T) {
	e := newEngine(nil, &fakeDetector{ok: false}, nil)

	got := e.Reconcile(context.Background(), movieItem(), DefaultConfig())
	if got.Reason != ReasonDetectFailed {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonDetectFailed)
	}
	if got.Ratio != "" {
		t.Fatalf("Ratio=%q on skip, want empty", got.Ratio)
	}
}

func TestReconcileUnparseableStreamRatio(t *testing.T) {
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "N/A"}}
	e := newEngine(prober, nil, nil)

	got := e.Reconcile(context.Background(), movieItem(), DefaultConfig())
	if got.Reason != ReasonStreamRatio {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonStreamRatio)
	}
}

func TestReconcileSkipsWithinTolerance(t *testing.T) {
	// 1.78 selected vs 16:9 stream: |1.78 - 1.7777...| < 0.01.
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9"}}
	detector := &fakeDetector{ratio: 1.78, ok: true}
	e := newEngine(prober, detector, nil)

	got := e.Reconcile(context.Background(), movieItem(), DefaultConfig())
	if got.Reason != ReasonWithinTolerance {
		t.Fatalf("Reason=%q, want %q", got.Reason, ReasonWithinTolerance)
	}
}

func TestReconcileToleranceBoundaryIsStrict(t *testing.T) {
	// Discrepancy of exactly 0.01 must still write.
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "1.77"}}
	detector := &fakeDetector{ratio: 1.78, ok: true}
	e := newEngine(prober, detector, nil)

	cfg := DefaultConfig()
	cfg.AcceptedAspectRatios = "1.78"

	got := e.Reconcile(context.Background(), movieItem(), cfg)
	if !got.Write() {
		t.Fatalf("Reconcile() skipped (%s) at exact tolerance, want write", got.Reason)
	}
}

func TestReconcileAlwaysWriteBypassesTolerance(t *testing.T) {
	prober := &fakeProber{ok: true, info: probe.Info{DisplayAspectRatio: "16:9"}}
	detector := &fakeDetector{ratio: 1.78, ok: true}
	e := newEngine(prober, detector, nil)

	cfg := DefaultConfig()
	cfg.AlwaysWrite = true

	got := e.Reconcile(context.Background(), movieItem(), cfg)
	if !got.Write() {
		t.Fatalf("Reconcile() skipped (%s) with AlwaysWrite, want write", got.Reason)
	}
	if got.Ratio != "1.78" {
		t.Fatalf("Ratio=%q, want 1.78", got.Ratio)
	}
}

func TestNormalizeConfigFloorsChecks(t *testing.T) {
	cfg := normalizeConfig(Config{ChecksPerVideo: 1})
	if cfg.ChecksPerVideo != MinChecksPerVideo {
		t.Fatalf("ChecksPerVideo=%d, want %d", cfg.ChecksPerVideo, MinChecksPerVideo)
	}

	cfg = normalizeConfig(Config{})
	if cfg.ChecksPerVideo != DefaultChecksPerVideo {
		t.Fatalf("ChecksPerVideo=%d, want %d", cfg.ChecksPerVideo, DefaultChecksPerVideo)
	}
	if cfg.AcceptedAspectRatios != DefaultAcceptedAspectRatios {
		t.Fatalf("AcceptedAspectRatios=%q, want default list", cfg.AcceptedAspectRatios)
	}
}
