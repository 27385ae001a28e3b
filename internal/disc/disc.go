// Package disc locates the playable stream files inside DVD and Blu-ray
// disc layouts.
package disc

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Resolver adapts the package functions to the interface the reconciliation
// engine consumes.
type Resolver struct{}

func (Resolver) DVDTitleFiles(root string) []string { return DVDTitleFiles(root) }

func (Resolver) BluRayStreamFiles(root string) ([]string, bool) {
	info, ok := BluRayStreamFiles(root)
	return info.Files, ok
}

// DVDTitleFiles returns the feature title's VOB files from a VIDEO_TS layout
// in play order. root may be the disc root or the VIDEO_TS directory itself.
// The feature title is the title set with the largest total size; menu VOBs
// (VTS_nn_0.VOB) are excluded. Returns nil when the layout holds no playable
// title.
func DVDTitleFiles(root string) []string {
	dir := root
	if !strings.EqualFold(filepath.Base(dir), "VIDEO_TS") {
		located, ok := locateDir(root, "VIDEO_TS")
		if !ok {
			return nil
		}
		dir = located
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	type vobFile struct {
		title int
		part  int
		path  string
		size  int64
	}
	vobs := make([]vobFile, 0, 16)
	totals := make(map[int]int64)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		title, part, ok := parseVTSName(entry.Name())
		if !ok || part == 0 {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		vobs = append(vobs, vobFile{
			title: title,
			part:  part,
			path:  filepath.Join(dir, entry.Name()),
			size:  info.Size(),
		})
		totals[title] += info.Size()
	}
	if len(vobs) == 0 {
		return nil
	}

	feature := -1
	for title, total := range totals {
		if feature == -1 || total > totals[feature] || (total == totals[feature] && title < feature) {
			feature = title
		}
	}

	parts := make([]vobFile, 0, 8)
	for _, v := range vobs {
		if v.title == feature {
			parts = append(parts, v)
		}
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].part < parts[j].part })

	out := make([]string, 0, len(parts))
	for _, v := range parts {
		out = append(out, v.path)
	}
	return out
}

// parseVTSName decodes title-set VOB names like "VTS_01_2.VOB".
func parseVTSName(name string) (title, part int, ok bool) {
	upper := strings.ToUpper(name)
	if !strings.HasPrefix(upper, "VTS_") || !strings.HasSuffix(upper, ".VOB") {
		return 0, 0, false
	}
	middle := strings.TrimSuffix(strings.TrimPrefix(upper, "VTS_"), ".VOB")
	titleStr, partStr, found := strings.Cut(middle, "_")
	if !found {
		return 0, 0, false
	}
	title, err := strconv.Atoi(titleStr)
	if err != nil {
		return 0, 0, false
	}
	part, err = strconv.Atoi(partStr)
	if err != nil {
		return 0, 0, false
	}
	return title, part, true
}

// BluRayInfo describes the playable stream files of a Blu-ray layout.
type BluRayInfo struct {
	StreamDir string
	Files     []string
}

// BluRayStreamFiles returns the main feature's .m2ts files from a BDMV
// layout. root may be the disc root or the BDMV directory itself. The main
// feature is the largest stream file plus any consecutively numbered files
// that continue it. ok is false when no stream files exist.
func BluRayStreamFiles(root string) (BluRayInfo, bool) {
	bdmv := root
	if !strings.EqualFold(filepath.Base(bdmv), "BDMV") {
		located, ok := locateDir(root, "BDMV")
		if !ok {
			return BluRayInfo{}, false
		}
		bdmv = located
	}
	stream, ok := locateDir(bdmv, "STREAM")
	if !ok {
		return BluRayInfo{}, false
	}

	entries, err := os.ReadDir(stream)
	if err != nil {
		return BluRayInfo{}, false
	}

	type m2tsFile struct {
		index int
		path  string
		size  int64
	}
	files := make([]m2tsFile, 0, 16)
	for _, entry := range entries {
		if entry.IsDir() || !strings.EqualFold(filepath.Ext(entry.Name()), ".m2ts") {
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name()))
		index, err := strconv.Atoi(stem)
		if err != nil {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		files = append(files, m2tsFile{index: index, path: filepath.Join(stream, entry.Name()), size: info.Size()})
	}
	if len(files) == 0 {
		return BluRayInfo{}, false
	}
	sort.Slice(files, func(i, j int) bool { return files[i].index < files[j].index })

	main := 0
	for i := range files {
		if files[i].size > files[main].size {
			main = i
		}
	}

	// A feature split across sequentially numbered stream files continues
	// from the largest one.
	out := []string{files[main].path}
	next := files[main].index + 1
	for i := main + 1; i < len(files); i++ {
		if files[i].index != next {
			break
		}
		out = append(out, files[i].path)
		next++
	}
	return BluRayInfo{StreamDir: stream, Files: out}, true
}

// locateDir finds a child directory of root by case-insensitive name.
func locateDir(root, name string) (string, bool) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return "", false
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), name) {
			return filepath.Join(root, entry.Name()), true
		}
	}
	return "", false
}
