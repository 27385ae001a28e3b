// Package probe shells out to ffprobe for container-level media info.
package probe

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
)

// Info is the container-level information reconciliation needs: the runtime
// and the default video stream's reported geometry.
type Info struct {
	DurationSec        float64
	Width              int
	Height             int
	DisplayAspectRatio string
}

// Prober runs ffprobe. The zero value uses the "ffprobe" binary from PATH.
type Prober struct {
	Bin string
}

// Probe inspects path. ok is false when ffprobe fails or reports no usable
// video stream.
func (p *Prober) Probe(ctx context.Context, path string) (Info, bool) {
	cmd := exec.CommandContext(ctx, p.bin(),
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout

	if err := cmd.Run(); err != nil {
		return Info{}, false
	}
	return parseOutput(stdout.Bytes())
}

func (p *Prober) bin() string {
	if p.Bin != "" {
		return p.Bin
	}
	return "ffprobe"
}

type ffprobeStream struct {
	CodecType          string `json:"codec_type"`
	Width              int    `json:"width"`
	Height             int    `json:"height"`
	DisplayAspectRatio string `json:"display_aspect_ratio"`
}

type ffprobeOutput struct {
	Streams []ffprobeStream `json:"streams"`
	Format  struct {
		Duration string `json:"duration"`
	} `json:"format"`
}

func parseOutput(data []byte) (Info, bool) {
	var out ffprobeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Info{}, false
	}

	var video *ffprobeStream
	for i := range out.Streams {
		s := &out.Streams[i]
		if s.CodecType == "video" && s.Width > 0 && s.Height > 0 {
			video = s
			break
		}
	}
	if video == nil {
		return Info{}, false
	}

	info := Info{
		Width:              video.Width,
		Height:             video.Height,
		DisplayAspectRatio: video.DisplayAspectRatio,
	}
	// Many containers carry no DAR; fall back to the coded geometry.
	if info.DisplayAspectRatio == "" || info.DisplayAspectRatio == "0:1" {
		info.DisplayAspectRatio = fmt.Sprintf("%d:%d", video.Width, video.Height)
	}
	if d, err := strconv.ParseFloat(out.Format.Duration, 64); err == nil {
		info.DurationSec = d
	}
	return info, true
}
