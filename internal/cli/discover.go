package cli

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/autobrr/go-aspectratio/internal/reconcile"
)

var videoExts = map[string]bool{
	".avi":  true,
	".m4v":  true,
	".mkv":  true,
	".mov":  true,
	".mp4":  true,
	".mpeg": true,
	".mpg":  true,
	".ts":   true,
	".webm": true,
	".wmv":  true,
}

type discovered struct {
	path string
	kind reconcile.Kind
}

// discover expands the positional inputs into reconcilable items. Files map
// directly, disc roots become one item each, and other directories are
// walked for video files and nested disc layouts. Unreadable inputs are
// reported via bad.
func discover(inputs []string) (items []discovered, bad []string) {
	for _, input := range inputs {
		info, err := os.Stat(input)
		if err != nil {
			bad = append(bad, input)
			continue
		}

		if !info.IsDir() {
			if isVideoFile(input) {
				items = append(items, discovered{path: input, kind: reconcile.KindFile})
			} else {
				bad = append(bad, input)
			}
			continue
		}

		if kind, ok := discKind(input); ok {
			items = append(items, discovered{path: input, kind: kind})
			continue
		}

		found := walkDir(input)
		if len(found) == 0 {
			bad = append(bad, input)
			continue
		}
		items = append(items, found...)
	}
	return items, bad
}

func walkDir(root string) []discovered {
	items := make([]discovered, 0, 16)
	_ = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path == root {
				return nil
			}
			if kind, ok := discKind(path); ok {
				items = append(items, discovered{path: path, kind: kind})
				return fs.SkipDir
			}
			return nil
		}
		if isVideoFile(path) {
			items = append(items, discovered{path: path, kind: reconcile.KindFile})
		}
		return nil
	})
	sort.Slice(items, func(i, j int) bool { return items[i].path < items[j].path })
	return items
}

func isVideoFile(path string) bool {
	return videoExts[strings.ToLower(filepath.Ext(path))]
}

// discKind recognizes DVD and Blu-ray disc roots by their structure
// directories.
func discKind(dir string) (reconcile.Kind, bool) {
	base := filepath.Base(dir)
	if strings.EqualFold(base, "VIDEO_TS") || hasChildDir(dir, "VIDEO_TS") {
		return reconcile.KindDVD, true
	}
	if strings.EqualFold(base, "BDMV") || hasChildDir(dir, "BDMV") {
		return reconcile.KindBluRay, true
	}
	return "", false
}

func hasChildDir(dir, name string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return true
		}
	}
	return false
}
