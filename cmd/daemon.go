package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/theirongolddev/pennywise/internal/cli"
	"github.com/theirongolddev/pennywise/internal/daemon"
	"github.com/theirongolddev/pennywise/internal/pipeline"

	"github.com/spf13/cobra"
)

// daemonChildEnv marks the re-executed background process.
const daemonChildEnv = "PENNYWISE_DAEMON_CHILD"

// daemonState is written next to the cache while the daemon runs.
type daemonState struct {
	PID       int       `json:"pid"`
	Addr      string    `json:"addr"`
	LedgerDir string    `json:"ledger_dir"`
	StartedAt time.Time `json:"started_at"`
}

var (
	flagDaemonAddr         string
	flagDaemonInterval     time.Duration
	flagDaemonDetach       bool
	flagDaemonStateFile    string
	flagDaemonLogFile      string
	flagDaemonEventsBuffer int
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Watch the ledger and serve budget alerts over HTTP/SSE",
	RunE:  runDaemon,
}

var daemonStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show whether the daemon is running and its latest budget",
	RunE:  runDaemonStatus,
}

var daemonStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running daemon",
	RunE:  runDaemonStop,
}

func init() {
	pf := daemonCmd.PersistentFlags()
	pf.StringVar(&flagDaemonAddr, "addr", "127.0.0.1:8787", "HTTP listen address")
	pf.StringVar(&flagDaemonStateFile, "state-file", filepath.Join(pipeline.CacheDir(), "pennywised.json"), "Daemon state file")

	daemonCmd.Flags().DurationVar(&flagDaemonInterval, "interval", 15*time.Second, "How often to re-read the ledger")
	daemonCmd.Flags().IntVar(&flagDaemonEventsBuffer, "events-buffer", 200, "Alerts kept in memory")
	daemonCmd.Flags().BoolVar(&flagDaemonDetach, "detach", false, "Run in the background")
	daemonCmd.Flags().StringVar(&flagDaemonLogFile, "log-file", filepath.Join(pipeline.CacheDir(), "pennywised.log"), "Output file when detached")

	daemonCmd.AddCommand(daemonStatusCmd, daemonStopCmd)
	rootCmd.AddCommand(daemonCmd)
}

func runDaemon(_ *cobra.Command, _ []string) error {
	if st, ok := liveDaemon(flagDaemonStateFile); ok {
		return fmt.Errorf("daemon already running (pid %d on %s)", st.PID, st.Addr)
	}
	if flagDaemonDetach && os.Getenv(daemonChildEnv) == "" {
		return spawnDaemon()
	}
	return serveDaemon()
}

// spawnDaemon re-runs the current command line without --detach, with
// output going to the log file.
func spawnDaemon() error {
	exe, err := os.Executable()
	if err != nil {
		return fmt.Errorf("resolve executable: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(flagDaemonLogFile), 0o750); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}
	//nolint:gosec // log path is chosen by the local user
	logf, err := os.OpenFile(flagDaemonLogFile, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open daemon log: %w", err)
	}
	defer func() { _ = logf.Close() }()

	args := slices.DeleteFunc(slices.Clone(os.Args[1:]), func(a string) bool {
		return a == "--detach" || a == "--detach=true"
	})
	child := exec.Command(exe, args...) //nolint:gosec // re-executes ourselves
	child.Stdout, child.Stderr = logf, logf
	child.Env = append(os.Environ(), daemonChildEnv+"=1")
	if err := child.Start(); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}

	fmt.Printf("  Daemon started in the background (pid %d)\n", child.Process.Pid)
	fmt.Printf("  Alerts: http://%s/v1/stream\n", flagDaemonAddr)
	fmt.Printf("  Log:    %s\n", flagDaemonLogFile)
	return nil
}

func serveDaemon() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings, err := pipeline.SettingsFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	st := daemonState{
		PID:       os.Getpid(),
		Addr:      flagDaemonAddr,
		LedgerDir: flagLedgerDir,
		StartedAt: time.Now(),
	}
	if err := saveDaemonState(flagDaemonStateFile, st); err != nil {
		return err
	}
	defer func() { _ = os.Remove(flagDaemonStateFile) }()

	svc := daemon.New(daemon.Config{
		LedgerDir:    flagLedgerDir,
		UseCache:     !flagNoCache,
		Interval:     flagDaemonInterval,
		Addr:         flagDaemonAddr,
		EventsBuffer: flagDaemonEventsBuffer,
		Settings:     settings,
	})

	slog.Info("daemon started", "addr", flagDaemonAddr, "ledger_dir", flagLedgerDir, "interval", flagDaemonInterval)
	fmt.Printf("  Watching %s every %s\n", flagLedgerDir, flagDaemonInterval)
	fmt.Printf("  Serving http://%s (stop with `pennywise daemon stop`)\n", flagDaemonAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := svc.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func runDaemonStatus(cmd *cobra.Command, _ []string) error {
	st, ok := liveDaemon(flagDaemonStateFile)
	if !ok {
		fmt.Println("  Daemon: not running")
		return nil
	}
	fmt.Printf("  Daemon: pid %d, up %s\n", st.PID, time.Since(st.StartedAt).Round(time.Second))
	fmt.Printf("  Ledger: %s\n", st.LedgerDir)

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Second)
	defer cancel()
	status, err := fetchDaemonStatus(ctx, st.Addr)
	if err != nil {
		fmt.Printf("  API: %v\n", err)
		return nil
	}

	if status.LastPollAt.IsZero() {
		fmt.Println("  Last read: pending")
	} else {
		fmt.Printf("  Last read: %s (%d so far)\n", cli.FormatAge(status.LastPollAt, time.Now()), status.PollCount)
	}
	fmt.Printf("  Budget: %s of %s (%.1f%%, %s)\n",
		cli.FormatMoneyWhole(status.Summary.TotalSpent),
		cli.FormatMoneyWhole(status.Summary.TotalLimit),
		status.Summary.Utilization*100,
		status.Summary.Band)
	fmt.Printf("  Categories: %d on track, %d close, %d over\n",
		status.Summary.OnTrack, status.Summary.NearLimit, status.Summary.OverBudget)
	fmt.Printf("  Alerts: %d\n", status.EventCount)
	if status.LastError != "" {
		fmt.Printf("  Last error: %s\n", cli.Colorize(cli.ColorRed, status.LastError))
	}
	return nil
}

func fetchDaemonStatus(ctx context.Context, addr string) (daemon.Status, error) {
	var status daemon.Status
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+"/v1/status", nil)
	if err != nil {
		return status, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return status, fmt.Errorf("unreachable: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return status, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return status, fmt.Errorf("decode status: %w", err)
	}
	return status, nil
}

func runDaemonStop(_ *cobra.Command, _ []string) error {
	st, ok := liveDaemon(flagDaemonStateFile)
	if !ok {
		return errors.New("daemon is not running")
	}
	if err := syscall.Kill(st.PID, syscall.SIGTERM); err != nil {
		return fmt.Errorf("signal pid %d: %w", st.PID, err)
	}

	tick := time.NewTicker(150 * time.Millisecond)
	defer tick.Stop()
	timeout := time.After(8 * time.Second)
	for {
		select {
		case <-tick.C:
			if !pidAlive(st.PID) {
				_ = os.Remove(flagDaemonStateFile)
				fmt.Printf("  Daemon stopped (pid %d)\n", st.PID)
				return nil
			}
		case <-timeout:
			return fmt.Errorf("daemon (pid %d) did not exit in time", st.PID)
		}
	}
}

// liveDaemon reads the state file and reports whether its process is still
// running. A state file left by a dead process is removed.
func liveDaemon(path string) (daemonState, bool) {
	st, err := loadDaemonState(path)
	if err != nil {
		return daemonState{}, false
	}
	if !pidAlive(st.PID) {
		_ = os.Remove(path)
		return daemonState{}, false
	}
	return st, true
}

func saveDaemonState(path string, st daemonState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create state directory: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o600)
}

func loadDaemonState(path string) (daemonState, error) {
	var st daemonState
	//nolint:gosec // state path is chosen by the local user
	data, err := os.ReadFile(path)
	if err != nil {
		return st, err
	}
	if err := json.Unmarshal(data, &st); err != nil {
		return st, fmt.Errorf("parse %s: %w", path, err)
	}
	if st.PID <= 0 {
		return st, fmt.Errorf("invalid pid in %s", path)
	}
	return st, nil
}

func pidAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
