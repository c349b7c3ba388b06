// Package reporter runs one analyzer pass: it finds the newest nginx log,
// computes URL latency statistics and writes them as an HTML report.
package reporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/es-debug/nginx-latency-report/internal/analyzer"
	"github.com/es-debug/nginx-latency-report/internal/config"
	"github.com/es-debug/nginx-latency-report/internal/logging"
	"github.com/es-debug/nginx-latency-report/internal/metrics"
	"github.com/es-debug/nginx-latency-report/internal/parser"
	"github.com/es-debug/nginx-latency-report/internal/render"
	"github.com/es-debug/nginx-latency-report/internal/report"
	"github.com/es-debug/nginx-latency-report/internal/scanner"
	"github.com/es-debug/nginx-latency-report/internal/stats"
	"github.com/google/uuid"
)

// Start runs the reporter with the process arguments.
func Start(ctx context.Context) error {
	return Run(ctx, os.Args[1:], os.Stderr)
}

// Run parses args, builds the configuration and generates the report for
// the newest log file. Usage and flag errors go to output.
func Run(ctx context.Context, args []string, output io.Writer) error {
	flags, err := readCMDFlags(args, output)
	if err != nil {
		return err
	}

	if flags.help {
		return nil
	}

	cfg, err := loadConfig(flags)
	if err != nil {
		return err
	}

	journal, err := logging.OpenJournal(cfg.Journal)
	if err != nil {
		return err
	}
	defer journal.Close()

	runID := uuid.NewString()
	logger := logging.NewLogger(journal, cfg.LogFormat, cfg.Verbose).With("run_id", runID)

	if err := newReporter(cfg, logger, runID).run(ctx); err != nil {
		logger.Error("run_failed", "error", err)

		return err
	}

	return nil
}

// loadConfig layers the built-in defaults, the config file and the command
// line, in that order. A missing config file is only an error when its path
// was given explicitly.
func loadConfig(flags cmdFlags) (*config.Config, error) {
	cfg := config.DefaultConfig()

	values, err := config.Load(flags.configPath)

	switch {
	case err == nil:
		if err := cfg.Apply(values); err != nil {
			return nil, fmt.Errorf("config file %s: %w", flags.configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !flags.configExplicit:
	default:
		return nil, err
	}

	if err := cfg.Apply(flags.overrides); err != nil {
		return nil, fmt.Errorf("command line: %w", err)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

type reporter struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

func newReporter(cfg *config.Config, logger *slog.Logger, runID string) *reporter {
	return &reporter{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics.New(runID),
		now:     time.Now,
	}
}

func (r *reporter) checkDirs() error {
	info, err := os.Stat(r.cfg.LogDir)
	if err != nil || !info.IsDir() {
		return NewErrLogDir(r.cfg.LogDir)
	}

	info, err = os.Stat(r.cfg.ReportDir)
	if err == nil && !info.IsDir() {
		return NewErrReportDir(r.cfg.ReportDir)
	}

	return nil
}

func (r *reporter) run(ctx context.Context) error {
	if err := r.checkDirs(); err != nil {
		return err
	}

	// Both templates passed config.Validate.
	logTmpl, _ := scanner.ParseTemplate(r.cfg.LogGlob)
	reportTmpl, _ := scanner.ParseTemplate(r.cfg.ReportGlob)

	logFile, err := scanner.FindLatest(r.cfg.LogDir, logTmpl, r.cfg.AllowExts)
	if errors.Is(err, scanner.ErrNoLogFiles) {
		r.logger.Info("no_log_files", "dir", r.cfg.LogDir, "glob", r.cfg.LogGlob)

		return nil
	}

	if err != nil {
		return err
	}

	reportPath := filepath.Join(r.cfg.ReportDir, reportTmpl.Format(logFile.Date))

	if info, err := os.Stat(reportPath); err == nil && info.Mode().IsRegular() && info.Size() > 0 {
		r.logger.Info("report_exists", "report", reportPath, "log", logFile.Path)

		return nil
	}

	tmpl, err := render.LoadTemplate(r.cfg.ReportTemplate)
	if err != nil {
		return err
	}

	r.logger.Info("analyzing", "log", logFile.Path, "workers", r.cfg.Workers, "median", r.cfg.Median)

	agg, err := r.analyze(ctx, logFile)
	if err != nil {
		return err
	}

	quality := agg.Quality()
	r.logger.Info("log_analyzed",
		"lines", quality.Total(),
		"bad", quality.Bad,
		"ignored", quality.Ignored,
		"urls", agg.Len(),
		"bad_ratio", quality.ErrorRatio(),
	)

	if ratio := quality.ErrorRatio(); ratio > r.cfg.ErrorThreshold {
		r.writeMetrics()

		return ErrTooManyBadLines{Ratio: ratio, Threshold: r.cfg.ErrorThreshold}
	}

	rows := report.FromAggregator(agg, r.cfg.ReportSize)

	page, err := render.HTML(tmpl, rows)
	if err != nil {
		return err
	}

	if err := render.WriteFile(reportPath, page); err != nil {
		return err
	}

	r.metrics.ReportWritten(len(rows), r.now())
	r.writeMetrics()

	r.logger.Info("report_written", "report", reportPath, "rows", len(rows))

	return nil
}

func (r *reporter) analyze(ctx context.Context, logFile scanner.LogFile) (*stats.Aggregator, error) {
	in, err := scanner.Open(logFile)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	kind, _ := stats.ParseDistributionKind(r.cfg.Median)
	a := analyzer.New(parser.NewParser(), analyzer.Options{
		Workers:      r.cfg.Workers,
		Distribution: kind,
	}, r.logger)

	started := r.now()

	agg, err := a.Analyze(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("analyze %s: %w", logFile.Path, err)
	}

	r.metrics.Observe(agg.Quality(), agg.Len(), r.now().Sub(started))

	return agg, nil
}

func (r *reporter) writeMetrics() {
	if r.cfg.MetricsFile == "" {
		return
	}

	if err := r.metrics.WriteTextfile(r.cfg.MetricsFile); err != nil {
		r.logger.Error("metrics_not_written", "file", r.cfg.MetricsFile, "error", err)
	}
}
