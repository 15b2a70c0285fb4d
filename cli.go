package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"StanceTimer/config"
	"StanceTimer/control"
	"StanceTimer/logging"
	"StanceTimer/metrics"
	"StanceTimer/notify"
	"StanceTimer/timer"

	"github.com/spf13/cobra"
)

var exit = os.Exit

type options struct {
	configPath  string
	verbose     bool
	logFile     string
	metricsAddr string
	sound       bool
	unit        time.Duration

	// headless only
	sit     int
	stand   int
	toast   int
	start   string
	desktop bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "stancetimer",
		Short: "Reminds you to alternate between sitting and standing",
		Long: `StanceTimer alternates between a sitting and a standing interval and
shows a notification every time you should change your stance.

Without a subcommand the settings window is opened.`,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.Init(opts.verbose, opts.logFile)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGUI(cmd.Context(), opts)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", config.FileName, "config file")
	pf.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")
	pf.StringVar(&opts.logFile, "log-file", "", "also append logs to this file")
	pf.StringVar(&opts.metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (e.g. :2112)")
	pf.BoolVar(&opts.sound, "sound", true, "play a chime with every reminder")
	pf.DurationVar(&opts.unit, "unit", time.Minute, "length of one configured minute")
	_ = pf.MarkHidden("unit")

	root.AddCommand(newRunCmd(opts))
	return root
}

func newRunCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run a session in the terminal",
		Long: `Run a session without the settings window. Flags override the config file.

While running, type "s" (skip) to switch stance now or "q" (stop) to end
the session. Ctrl+C also ends the session.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHeadless(cmd, opts)
		},
	}

	f := cmd.Flags()
	f.IntVar(&opts.sit, "sit", 0, "sitting time in minutes")
	f.IntVar(&opts.stand, "stand", 0, "standing time in minutes")
	f.IntVar(&opts.toast, "toast", 0, "notification display time in seconds")
	f.StringVar(&opts.start, "start", "", "start stance (sitting or standing)")
	f.BoolVar(&opts.desktop, "desktop", true, "send desktop notifications over D-Bus")
	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		exit(1)
	}
}

func loadConfig(opts *options) (*config.Store, timer.Config) {
	defaults, err := config.LoadDefaults(content)
	if err != nil {
		slog.Error("failed to load default config", "error", err)
	}
	store := config.NewStore(opts.configPath, defaults)
	cfg, err := store.Load()
	if err != nil {
		slog.Warn("using default config", "path", store.Path(), "error", err)
	}
	return store, cfg
}

func serveMetrics(ctx context.Context, collector *metrics.Collector, addr string) {
	if addr == "" {
		return
	}
	go func() {
		slog.Info("serving metrics", "addr", addr)
		if err := collector.Serve(ctx, addr); err != nil {
			slog.Error("metrics server failed", "addr", addr, "error", err)
		}
	}()
}

func applyFlags(cmd *cobra.Command, opts *options, cfg timer.Config) (timer.Config, error) {
	f := cmd.Flags()
	if f.Changed("sit") {
		cfg.SitMinutes = opts.sit
	}
	if f.Changed("stand") {
		cfg.StandMinutes = opts.stand
	}
	if f.Changed("toast") {
		cfg.ToastDuration = opts.toast
	}
	if f.Changed("start") {
		s, err := timer.ParseStance(opts.start)
		if err != nil {
			return cfg, fmt.Errorf("%w: %v", timer.ErrConfigInvalid, err)
		}
		cfg.StartStance = s
	}
	return cfg, nil
}

func runHeadless(cmd *cobra.Command, opts *options) error {
	store, cfg := loadConfig(opts)
	cfg, err := applyFlags(cmd, opts, cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	notifiers := notify.Multi{notify.NewConsole(out)}
	if opts.desktop {
		d := notify.NewDBus("StanceTimer")
		defer d.Close()
		notifiers = append(notifiers, d)
	}
	var notifier timer.Notifier = notifiers
	if opts.sound {
		notifier = notify.NewChime(notifier)
	}

	driver := timer.NewDriver(notifier, timer.WithUnit(opts.unit), timer.WithLogger(slog.Default()))
	collector := metrics.NewCollector()
	a := NewAppManager(driver, store, cfg, collector)
	defer a.Shutdown()

	events, unsubscribe := driver.Subscribe(64)
	defer unsubscribe()
	go a.pumpEvents(ctx, events)
	serveMetrics(ctx, collector, opts.metricsAddr)

	reply := make(chan error, 1)
	a.EnqueueCommand(control.Command{Type: control.CmdStart, Config: cfg, Reply: reply})
	if err := <-reply; err != nil {
		return err
	}
	done := driver.Done()

	go readCommands(ctx, a, cmd.InOrStdin(), out)

	select {
	case <-done:
	case <-ctx.Done():
		a.EnqueueCommand(control.Command{Type: control.CmdStop})
		<-done
	}
	fmt.Fprintln(out, "Session stopped.")
	return nil
}

// readCommands turns stdin lines into session commands.
func readCommands(ctx context.Context, a *AppManager, in io.Reader, out io.Writer) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		switch strings.ToLower(strings.TrimSpace(scanner.Text())) {
		case "s", "skip":
			a.EnqueueCommand(control.Command{Type: control.CmdSkip})
		case "q", "stop", "quit":
			a.EnqueueCommand(control.Command{Type: control.CmdStop})
			return
		case "":
		default:
			fmt.Fprintln(out, `Commands: "s" switch stance, "q" stop.`)
		}
	}
}
