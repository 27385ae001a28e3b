package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/autobrr/go-aspectratio/internal/cropdetect"
	"github.com/autobrr/go-aspectratio/internal/disc"
	"github.com/autobrr/go-aspectratio/internal/library"
	"github.com/autobrr/go-aspectratio/internal/probe"
	"github.com/autobrr/go-aspectratio/internal/reconcile"
)

func runCore(ctx context.Context, opts Options, inputs []string, stderr io.Writer) (RunReport, error) {
	report := RunReport{RunID: uuid.NewString()}

	items, bad := discover(inputs)
	for _, input := range bad {
		fmt.Fprintf(stderr, "skipping input %q: not a video file, directory or disc root\n", input)
	}

	var store *library.Store
	if opts.DBPath != "" {
		s, err := library.Open(opts.DBPath)
		if err != nil {
			return RunReport{}, err
		}
		defer s.Close()
		store = s
	}

	prober := &probe.Prober{Bin: opts.FFprobeBin}
	engine := &reconcile.Engine{
		Probe:  prober,
		Detect: &cropdetect.Detector{Bin: opts.FFmpegBin},
		Discs:  disc.Resolver{},
	}
	cfg := opts.config()

	for _, d := range items {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		item := reconcile.Item{
			Path:     d.path,
			Kind:     d.kind,
			Duration: itemDuration(ctx, prober, d),
		}

		var catalogItem library.Item
		if store != nil {
			ci, err := store.Upsert(d.path, d.kind, item.Duration)
			if err != nil {
				fmt.Fprintf(stderr, "catalog: %v\n", err)
				continue
			}
			catalogItem = ci
			item.AspectRatio = ci.AspectRatio
		}

		decision := engine.Reconcile(ctx, item, cfg)
		result := ItemResult{
			Path:   d.path,
			Kind:   string(d.kind),
			Action: "skip",
			Reason: string(decision.Reason),
		}

		if decision.Write() {
			result.Action = "write"
			result.AspectRatio = decision.Ratio
			result.Reason = ""
			if store != nil {
				if err := store.SetAspectRatio(catalogItem.ID, decision.Ratio); err != nil {
					fmt.Fprintf(stderr, "catalog: %v\n", err)
				}
			}
			report.Written++
		} else {
			report.Skipped++
		}
		report.Items = append(report.Items, result)
	}

	return report, nil
}

// itemDuration fills the host-side runtime metadata the engine expects on
// each item, probing the same stream file detection will read.
func itemDuration(ctx context.Context, prober *probe.Prober, d discovered) time.Duration {
	source := d.path
	switch d.kind {
	case reconcile.KindDVD:
		vobs := disc.DVDTitleFiles(d.path)
		if len(vobs) == 0 {
			return 0
		}
		source = vobs[0]
	case reconcile.KindBluRay:
		info, ok := disc.BluRayStreamFiles(d.path)
		if !ok || len(info.Files) == 0 {
			return 0
		}
		source = info.Files[0]
	}

	info, ok := prober.Probe(ctx, source)
	if !ok || info.DurationSec <= 0 {
		return 0
	}
	return time.Duration(info.DurationSec * float64(time.Second))
}
