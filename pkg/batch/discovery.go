package batch

import (
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// Discover walks root and returns the files matching include and not
// matching exclude, sorted by relative path. Excluded directories are not
// descended into.
func Discover(root string, include, exclude []string, logger *slog.Logger) ([]FileJob, error) {
	for _, pattern := range exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern: %s", pattern)
		}
	}
	if len(include) == 0 {
		include = DefaultInclude
	}
	for _, pattern := range include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid include pattern: %s", pattern)
		}
	}

	var jobs []FileJob
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			logger.Warn("walk error", "path", path, "error", err)
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		if rel == "." {
			return nil
		}

		if matchAny(exclude, rel) {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !matchAny(include, rel) {
			return nil
		}

		jobs = append(jobs, FileJob{Path: path, Rel: rel})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(jobs, func(i, j int) bool { return jobs[i].Rel < jobs[j].Rel })
	for i := range jobs {
		jobs[i].JobID = i
	}
	return jobs, nil
}

// Matches reports whether a slash-separated relative path is selected by
// include (DefaultInclude when empty) and not rejected by exclude.
func Matches(include, exclude []string, rel string) bool {
	if len(include) == 0 {
		include = DefaultInclude
	}
	return !matchAny(exclude, rel) && matchAny(include, rel)
}

func matchAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if m, _ := doublestar.Match(pattern, rel); m {
			return true
		}
	}
	return false
}
