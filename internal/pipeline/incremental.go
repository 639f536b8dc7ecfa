package pipeline

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/theirongolddev/pennywise/internal/source"
	"github.com/theirongolddev/pennywise/internal/store"
)

// CachedLoadResult extends LoadResult with cache metadata.
type CachedLoadResult struct {
	LoadResult
	CacheHits int
	Reparsed  int
}

// LoadWithCache discovers ledger files, diffs them against the cache by
// mtime and size, parses only changed files, and merges the combined set.
func LoadWithCache(ledgerDir string, cache *store.Cache, progressFn ProgressFunc) (*CachedLoadResult, error) {
	files, err := source.ScanDir(ledgerDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ledgerDir, err)
	}

	result := &CachedLoadResult{
		LoadResult: LoadResult{TotalFiles: len(files)},
	}

	tracked, err := cache.GetTrackedFiles()
	if err != nil {
		return nil, fmt.Errorf("reading cache: %w", err)
	}

	// Forget files that have disappeared from the ledger dir.
	present := make(map[string]struct{}, len(files))
	for _, f := range files {
		present[f.Path] = struct{}{}
	}
	for path := range tracked {
		if _, ok := present[path]; !ok {
			if err := cache.DeleteFile(path); err != nil {
				slog.Warn("pruning cached ledger", "path", path, "err", err)
			}
		}
	}

	if len(files) == 0 {
		return result, nil
	}

	type stamp struct{ mtime, size int64 }
	stamps := make(map[string]stamp, len(files))
	var toReparse []source.DiscoveredFile
	var unchanged []string

	for _, f := range files {
		info, err := os.Stat(f.Path)
		if err != nil {
			toReparse = append(toReparse, f)
			continue
		}
		st := stamp{info.ModTime().UnixNano(), info.Size()}
		stamps[f.Path] = st

		cached, ok := tracked[f.Path]
		if ok && cached.MtimeNs == st.mtime && cached.SizeBytes == st.size {
			unchanged = append(unchanged, f.Path)
		} else {
			toReparse = append(toReparse, f)
		}
	}

	// Results are indexed by discovery order so the merge stays path-ordered
	// whichever side a file came from.
	order := make(map[string]int, len(files))
	for i, f := range files {
		order[f.Path] = i
	}
	merged := make([]source.ParseResult, len(files))

	if len(unchanged) > 0 {
		cachedFiles, err := cache.LoadFiles(unchanged)
		if err != nil {
			return nil, fmt.Errorf("loading cached ledgers: %w", err)
		}
		for _, path := range unchanged {
			cf, ok := cachedFiles[path]
			if !ok {
				// Tracked but unreadable rows; parse it instead.
				toReparse = append(toReparse, files[order[path]])
				continue
			}
			result.CacheHits++
			merged[order[path]] = source.ParseResult{Path: path, Ledger: cf.Ledger, ParseErrors: cf.ParseErrors}
		}
	}
	result.Reparsed = len(toReparse)

	if len(toReparse) > 0 {
		parsed := parseAll(toReparse, func(n int) {
			if progressFn != nil {
				progressFn(n+result.CacheHits, result.TotalFiles)
			}
		})

		for i, pr := range parsed {
			path := toReparse[i].Path
			merged[order[path]] = pr
			if pr.Err != nil {
				continue
			}
			st, ok := stamps[path]
			if !ok {
				continue
			}
			if err := cache.SaveFile(path, pr.Ledger, pr.ParseErrors, st.mtime, st.size); err != nil {
				slog.Warn("caching ledger", "path", path, "err", err)
			}
		}
	}

	if err := result.collect(merged); err != nil {
		return nil, err
	}
	return result, nil
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "pennywise")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pennywise")
}

// CachePath returns the full path to the cache database.
func CachePath() string {
	return filepath.Join(CacheDir(), "ledger.db")
}
