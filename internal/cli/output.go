package cli

import (
	"encoding/json"
	"fmt"
	"strings"
)

type ItemResult struct {
	Path        string `json:"path"`
	Kind        string `json:"kind"`
	Action      string `json:"action"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

type RunReport struct {
	RunID   string       `json:"run_id"`
	Items   []ItemResult `json:"items"`
	Written int          `json:"written"`
	Skipped int          `json:"skipped"`
}

func renderText(report RunReport) string {
	var b strings.Builder
	for _, item := range report.Items {
		if item.Action == "write" {
			fmt.Fprintf(&b, "%s: write %s\n", item.Path, item.AspectRatio)
			continue
		}
		fmt.Fprintf(&b, "%s: skip (%s)\n", item.Path, item.Reason)
	}
	fmt.Fprintf(&b, "%d written, %d skipped\n", report.Written, report.Skipped)
	return b.String()
}

func renderJSON(report RunReport) string {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}
