package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/blackstar257/csvlint/pkg/cli"
	"github.com/blackstar257/csvlint/pkg/csv/validator"
	"github.com/blackstar257/csvlint/pkg/history"
	"github.com/blackstar257/csvlint/pkg/telemetry/logging"
	"github.com/blackstar257/csvlint/pkg/telemetry/metrics"
	"github.com/blackstar257/csvlint/pkg/watch"
)

var watchFlags struct {
	schedule    string
	metricsAddr string
}

var watchCmd = &cobra.Command{
	Use:   "watch <path>",
	Short: "Continuously revalidate CSV files on change",
	Long: `Watch a file or directory and revalidate CSV files when they change.

Changes are debounced so that editors and bulk copies trigger a single
validation once writes settle. An optional cron schedule adds periodic
sweeps over all watched files, and an optional metrics address exposes
Prometheus metrics at /metrics.

Examples:
  # Watch a directory
  csvlint watch data/

  # Watch with an hourly sweep
  csvlint watch data/ --schedule "0 * * * *"

  # Expose metrics
  csvlint watch data/ --metrics-addr :9090

The watcher runs until interrupted (SIGINT/SIGTERM).`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.schedule, "schedule", "", "cron expression for periodic sweeps over all watched files")
	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "address to expose Prometheus metrics on (e.g. :9090)")
}

// watchRunner holds the pieces a watch session shares between change
// events and scheduled sweeps.
type watchRunner struct {
	mode      validator.Mode
	delimiter string
	logger    *logging.Logger
	collector *metrics.Collector
	store     *history.Store
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfig(cmd)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	logger, err := setupLogging(cfg)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	mode, delimStr, err := buildMode(cfg, cmd, logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	schedule := cfg.Watch.Schedule
	if cmd.Flags().Changed("schedule") {
		schedule = watchFlags.schedule
	}
	metricsAddr := cfg.Watch.MetricsAddress
	if cmd.Flags().Changed("metrics-addr") {
		metricsAddr = watchFlags.metricsAddr
	}

	collector := metrics.NewCollector(metrics.Config{
		Enabled:   cfg.Telemetry.Metrics.Enabled || metricsAddr != "",
		Namespace: cfg.Telemetry.Metrics.Namespace,
	}, nil)

	runner := &watchRunner{
		mode:      mode,
		delimiter: delimStr,
		logger:    logger,
		collector: collector,
	}

	ctx := cli.SetupSignalHandler()

	if cfg.History.Enabled {
		store, err := history.NewStore(cfg.History.Path)
		if err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer store.Close()
		runner.store = store

		pruner := history.NewScheduler(store, cfg.History.PruneSchedule, cfg.History.RetentionDays)
		if err := pruner.Start(ctx); err != nil {
			return cli.NewCommandError("watch", err)
		}
		defer pruner.Stop()
	}

	if metricsAddr != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", collector.Handler())
		server := &http.Server{Addr: metricsAddr, Handler: mux}
		go func() {
			logger.Info("metrics server started", "addr", metricsAddr)
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("metrics server failed", "error", err)
			}
		}()
		defer server.Close()
	}

	fw, err := watch.NewFileWatcher(&watch.Config{
		Path:             args[0],
		DebounceInterval: cfg.Watch.Debounce,
		Extensions:       cfg.Watch.Extensions,
		SkipHidden:       true,
		EventHook:        collector.RecordWatchEvent,
	}, nil)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}

	if files, err := fw.WatchedFiles(); err == nil {
		collector.SetFilesWatched(len(files))
	}

	if schedule != "" {
		c := cron.New()
		if _, err := c.AddFunc(schedule, func() { runner.sweep(ctx, fw) }); err != nil {
			return cli.NewCommandError("watch", fmt.Errorf("invalid cron schedule %q: %w", schedule, err))
		}
		c.Start()
		defer c.Stop()
		logger.Info("sweep schedule active", "schedule", schedule)
	}

	err = fw.Watch(ctx, func(path string) error {
		runner.validate(ctx, path)
		return nil
	})
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// sweep validates every watched file once.
func (w *watchRunner) sweep(ctx context.Context, fw *watch.FileWatcher) {
	files, err := fw.WatchedFiles()
	if err != nil {
		w.logger.Error("sweep failed to list files", "error", err)
		return
	}
	w.collector.SetFilesWatched(len(files))

	w.logger.Info("starting scheduled sweep", "files", len(files))
	for _, f := range files {
		w.validate(ctx, f)
	}
}

// validate runs one validation and records its outcome.
func (w *watchRunner) validate(ctx context.Context, path string) {
	f, err := os.Open(path)
	if err != nil {
		w.logger.Error("failed to open file", "path", path, "error", err)
		return
	}
	defer f.Close()

	start := time.Now()
	v := validator.New(f, w.mode)
	result := v.Run()
	duration := time.Since(start)

	w.collector.RecordRun(result, v.Records(), duration)

	if result.Valid {
		w.logger.Info("file valid", "path", path, "records", v.Records())
	} else {
		w.logger.Warn("file invalid",
			"path", path,
			"records", v.Records(),
			"defects", len(result.Defects),
			"fatal", result.Fatal,
		)
		for _, d := range result.Defects {
			w.logger.Info(d.String(), "path", path, "category", d.Category)
		}
	}

	if w.store != nil {
		run := &history.Run{
			File:          path,
			Delimiter:     w.delimiter,
			LazyQuotes:    w.mode.LazyQuotes,
			StrictRFC4180: w.mode.StrictRFC4180,
			Valid:         result.Valid,
			Fatal:         result.Fatal,
			RecordCount:   v.Records(),
			Defects:       result.Defects,
			StartedAt:     start,
			Duration:      duration,
		}
		if err := w.store.Save(ctx, run); err != nil {
			w.logger.Warn("failed to record run", "path", path, "error", err)
		}
	}
}
