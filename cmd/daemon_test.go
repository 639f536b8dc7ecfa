package cmd

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDaemonState_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run", "pennywised.json")
	want := daemonState{
		PID:       os.Getpid(),
		Addr:      "127.0.0.1:9999",
		LedgerDir: "/tmp/ledger",
		StartedAt: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	if err := saveDaemonState(path, want); err != nil {
		t.Fatalf("saveDaemonState: %v", err)
	}

	got, ok := liveDaemon(path)
	if !ok {
		t.Fatal("liveDaemon = false for the current process")
	}
	if got.Addr != want.Addr || got.LedgerDir != want.LedgerDir || !got.StartedAt.Equal(want.StartedAt) {
		t.Errorf("state = %+v, want %+v", got, want)
	}
}

func TestLiveDaemon_RemovesStaleState(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pennywised.json")
	if err := saveDaemonState(path, daemonState{PID: 99999999, Addr: "127.0.0.1:1"}); err != nil {
		t.Fatal(err)
	}

	if _, ok := liveDaemon(path); ok {
		t.Fatal("liveDaemon = true for a dead pid")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("stale state file still present: %v", err)
	}
}

func TestLoadDaemonState_Invalid(t *testing.T) {
	dir := t.TempDir()
	if _, ok := liveDaemon(filepath.Join(dir, "missing.json")); ok {
		t.Error("liveDaemon = true for a missing file")
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`{"pid": 0}`), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := loadDaemonState(bad); err == nil {
		t.Error("loadDaemonState accepted pid 0")
	}
}
