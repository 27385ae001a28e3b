// Package cropdetect discovers the visible picture's aspect ratio by
// sampling a video through ffmpeg's cropdetect filter.
//
// One ffmpeg invocation opens the input once per sample point, seeking to
// each point and reading a one-second window. The samples are concatenated
// into a single stream, piped through cropdetect, and the decoded output is
// discarded; only the filter's diagnostic lines on stderr matter.
package cropdetect

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/autobrr/go-aspectratio/internal/ffmpeg"
)

const (
	// Crop bounds refine as more frames are seen, but a stuck filter graph
	// must not hang a library scan forever.
	detectTimeout = 30 * time.Minute

	filterTag = "Parsed_cropdetect"
)

// Detector runs ffmpeg cropdetect sampling. The zero value uses the real
// process runner and the "ffmpeg" binary from PATH.
type Detector struct {
	Bin    string
	Runner ffmpeg.Runner
}

type samplePlan struct {
	count    int
	interval time.Duration
}

// newSamplePlan spreads checks sample points over the duration, at most one
// per whole second of runtime. ok is false when the duration is unknown.
func newSamplePlan(duration time.Duration, checks int) (samplePlan, bool) {
	if duration <= 0 {
		return samplePlan{}, false
	}
	count := checks
	if secs := int(duration / time.Second); secs < count {
		count = secs
	}
	if count < 1 {
		count = 1
	}
	return samplePlan{count: count, interval: duration / time.Duration(count)}, true
}

func buildArgs(path string, plan samplePlan) []string {
	args := []string{"-nostats", "-hide_banner"}
	for i := 0; i < plan.count; i++ {
		at := plan.interval * time.Duration(i)
		args = append(args, "-ss", formatTimestamp(at), "-t", "1", "-i", "file:"+path)
	}

	var graph strings.Builder
	for i := 0; i < plan.count; i++ {
		fmt.Fprintf(&graph, "[%d:v]", i)
	}
	fmt.Fprintf(&graph, "concat=n=%d:v=1:a=0[v];[v]cropdetect", plan.count)

	return append(args, "-filter_complex", graph.String(), "-f", "null", "-")
}

func formatTimestamp(d time.Duration) string {
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// parseCropLine extracts the first "w:" and "h:" integer tokens from a
// cropdetect diagnostic line, e.g.
//
//	[Parsed_cropdetect_0 @ 0x...] x1:0 x2:1919 y1:138 y2:941 w:1920 h:800 x:0 y:140 ... crop=1920:800:0:140
func parseCropLine(line string) (width, height int, ok bool) {
	haveW, haveH := false, false
	for _, token := range strings.Fields(line) {
		lower := strings.ToLower(token)
		switch {
		case !haveW && strings.HasPrefix(lower, "w:"):
			v, err := strconv.Atoi(token[2:])
			if err != nil {
				return 0, 0, false
			}
			width = v
			haveW = true
		case !haveH && strings.HasPrefix(lower, "h:"):
			v, err := strconv.Atoi(token[2:])
			if err != nil {
				return 0, 0, false
			}
			height = v
			haveH = true
		}
		if haveW && haveH {
			break
		}
	}
	if !haveW || !haveH {
		return 0, 0, false
	}
	return width, height, true
}

// Detect returns width/height of the visible picture as a decimal ratio.
// ok is false when the duration is unknown, the process fails or is
// cancelled, or no usable cropdetect line was produced.
func (d *Detector) Detect(ctx context.Context, path string, duration time.Duration, checks int) (float64, bool) {
	plan, ok := newSamplePlan(duration, checks)
	if !ok {
		return 0, false
	}

	ctx, cancel := context.WithTimeout(ctx, detectTimeout)
	defer cancel()

	// Only the last matching line matters: crop bounds can only widen as
	// later samples reveal more of the picture.
	var lastMatch string
	err := d.runner().Run(ctx, d.bin(), buildArgs(path, plan), func(line string) {
		if strings.Contains(line, filterTag) {
			lastMatch = line
		}
	})
	if err != nil || lastMatch == "" {
		return 0, false
	}

	w, h, ok := parseCropLine(lastMatch)
	if !ok || w <= 0 || h <= 0 {
		return 0, false
	}
	return float64(w) / float64(h), true
}

func (d *Detector) bin() string {
	if d.Bin != "" {
		return d.Bin
	}
	return "ffmpeg"
}

func (d *Detector) runner() ffmpeg.Runner {
	if d.Runner != nil {
		return d.Runner
	}
	return ffmpeg.ExecRunner{}
}
