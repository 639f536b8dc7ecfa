package pipeline

import (
	"fmt"
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/theirongolddev/pennywise/internal/model"
	"github.com/theirongolddev/pennywise/internal/source"
)

// FileError records a ledger file that could not be read or decoded.
type FileError struct {
	Path string
	Err  error
}

// LoadResult holds the output of the full data loading pipeline.
type LoadResult struct {
	Ledger      model.Ledger
	Files       []string
	TotalFiles  int
	ParsedFiles int
	ParseErrors int
	FileErrors  []FileError
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Load discovers and parses all ledger files under ledgerDir, then merges
// them. It uses a bounded worker pool for parallel parsing.
func Load(ledgerDir string, progressFn ProgressFunc) (*LoadResult, error) {
	files, err := source.ScanDir(ledgerDir)
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", ledgerDir, err)
	}

	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	results := parseAll(files, func(n int) {
		if progressFn != nil {
			progressFn(n, len(files))
		}
	})

	if err := result.collect(results); err != nil {
		return nil, err
	}
	return result, nil
}

// parseAll parses files on a bounded worker pool. Results keep file order.
func parseAll(files []source.DiscoveredFile, onDone func(n int)) []source.ParseResult {
	numWorkers := runtime.GOMAXPROCS(0)
	if numWorkers < 1 {
		numWorkers = 4
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	work := make(chan int, len(files))
	results := make([]source.ParseResult, len(files))
	var wg sync.WaitGroup
	var processed atomic.Int64

	for i := range files {
		work <- i
	}
	close(work)

	wg.Add(numWorkers)
	for w := 0; w < numWorkers; w++ {
		go func() {
			defer wg.Done()
			for idx := range work {
				results[idx] = source.ParseFile(files[idx])
				n := processed.Add(1)
				onDone(int(n))
			}
		}()
	}

	wg.Wait()
	return results
}

// collect tallies parse results and merges the good ones in path order.
func (r *LoadResult) collect(results []source.ParseResult) error {
	var parts []source.ParseResult
	for _, pr := range results {
		if pr.Err != nil {
			slog.Warn("skipping ledger file", "path", pr.Path, "err", pr.Err)
			r.FileErrors = append(r.FileErrors, FileError{Path: pr.Path, Err: pr.Err})
			continue
		}
		r.ParsedFiles++
		r.ParseErrors += pr.ParseErrors
		r.Files = append(r.Files, pr.Path)
		parts = append(parts, pr)
	}

	ledger, err := MergeLedgers(parts)
	if err != nil {
		return err
	}
	r.Ledger = ledger
	return nil
}

// MergeLedgers combines per-file ledgers in the order given. A category or
// goal name defined by more than one file is an error. The account comes
// from the last file that defines one.
func MergeLedgers(parts []source.ParseResult) (model.Ledger, error) {
	var out model.Ledger
	catOwner := make(map[string]string)
	goalOwner := make(map[string]string)

	for _, p := range parts {
		l := p.Ledger
		if l.HasAccount {
			out.Account = l.Account
			out.HasAccount = true
		}
		for _, c := range l.Categories {
			if prev, dup := catOwner[c.Name]; dup && prev != p.Path {
				return model.Ledger{}, invalid(fmt.Sprintf("categories[%s]", c.Name),
					"defined in both %s and %s", prev, p.Path)
			}
			catOwner[c.Name] = p.Path
			out.Categories = append(out.Categories, c)
		}
		for _, g := range l.Goals {
			if prev, dup := goalOwner[g.Name]; dup && prev != p.Path {
				return model.Ledger{}, invalid(fmt.Sprintf("goals[%s]", g.Name),
					"defined in both %s and %s", prev, p.Path)
			}
			goalOwner[g.Name] = p.Path
			out.Goals = append(out.Goals, g)
		}
		out.Transactions = append(out.Transactions, l.Transactions...)
		out.Monthly = append(out.Monthly, l.Monthly...)
		out.Notes = append(out.Notes, l.Notes...)
	}
	return out, nil
}
