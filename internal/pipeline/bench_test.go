package pipeline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theirongolddev/pennywise/internal/source"
	"github.com/theirongolddev/pennywise/internal/store"
)

// benchLedgerDir writes n ledger files, each with its own categories,
// goals and a month of transactions.
func benchLedgerDir(b *testing.B, n int) string {
	b.Helper()
	dir := b.TempDir()
	for i := 0; i < n; i++ {
		var sb strings.Builder
		for c := 0; c < 8; c++ {
			fmt.Fprintf(&sb, "[[categories]]\nname = \"cat-%d-%d\"\nspent = %d\nlimit = 500\n\n", i, c, 50*c)
		}
		fmt.Fprintf(&sb, "[[goals]]\nname = \"goal-%d\"\ncurrent = 100\ntarget = 1000\n\n", i)
		for t := 1; t <= 30; t++ {
			fmt.Fprintf(&sb, "[[transactions]]\nname = \"tx\"\namount = -12.34\ndate = 2024-06-%02d\n\n", t)
		}
		path := filepath.Join(dir, fmt.Sprintf("ledger-%03d.toml", i))
		if err := os.WriteFile(path, []byte(sb.String()), 0o600); err != nil {
			b.Fatal(err)
		}
	}
	return dir
}

func BenchmarkLoad(b *testing.B) {
	dir := benchLedgerDir(b, 50)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := Load(dir, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = result
	}
}

func BenchmarkParseFile(b *testing.B) {
	dir := benchLedgerDir(b, 1)
	files, err := source.ScanDir(dir)
	if err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result := source.ParseFile(files[0])
		if result.Err != nil {
			b.Fatal(result.Err)
		}
	}
}

func BenchmarkSummarizeBudget(b *testing.B) {
	cats := sampleCategories()
	th, bands := DefaultThresholds(), DefaultBands()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := SummarizeBudget(cats, th, bands); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkLoadWithCache(b *testing.B) {
	dir := benchLedgerDir(b, 50)

	cache, err := store.Open(filepath.Join(b.TempDir(), "cache.db"))
	if err != nil {
		b.Fatal(err)
	}
	defer func() { _ = cache.Close() }()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cr, err := LoadWithCache(dir, cache, nil)
		if err != nil {
			b.Fatal(err)
		}
		_ = cr
	}
}
