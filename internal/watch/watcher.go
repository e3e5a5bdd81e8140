package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/nxadm/tail"

	"loghealth/internal/analyzer"
	"loghealth/internal/logs"
	"loghealth/internal/metrics"
)

// Options controls how a file is followed.
type Options struct {
	WindowLines int
	Interval    time.Duration
	FromStart   bool
	Retry       RetryPolicy
}

var errTailClosed = errors.New("tail closed")

// ReportFunc receives every evaluated report.
type ReportFunc func(analyzer.Report)

// Watcher follows a growing log file and periodically re-analyzes the
// most recent lines.
type Watcher struct {
	path     string
	opts     Options
	analyzer *analyzer.Analyzer
	logger   *logs.Logger
	metrics  *metrics.Registry
	onReport ReportFunc

	window  *Window
	started bool

	mu        sync.Mutex
	evaluated bool
	health    analyzer.HealthStatus
	alerts    map[string]bool
}

// NewWatcher creates a watcher for path. onReport may be nil.
func NewWatcher(
	path string,
	opts Options,
	an *analyzer.Analyzer,
	logger *logs.Logger,
	reg *metrics.Registry,
	onReport ReportFunc,
) *Watcher {
	return &Watcher{
		path:     path,
		opts:     opts,
		analyzer: an,
		logger:   logger,
		metrics:  reg,
		onReport: onReport,
		window:   NewWindow(opts.WindowLines),
		alerts:   make(map[string]bool),
	}
}

// Run follows the file until ctx is cancelled. Rotation and truncation are
// handled by reopening the path; a tail session that dies is restarted
// according to the retry policy.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Infow("watching file",
		"path", w.path,
		"window_lines", w.opts.WindowLines,
		"interval", w.opts.Interval,
	)

	ticker := time.NewTicker(w.opts.Interval)
	defer ticker.Stop()

	err := Retry(ctx, w.opts.Retry, func() (bool, error) {
		received, err := w.follow(ctx, ticker.C)
		if err != nil {
			w.logger.Warnw("tail session ended", "path", w.path, "lines", received, "error", err)
		}
		return received > 0, err
	})
	w.logger.Infow("watcher stopped",
		"path", w.path,
		"evaluations", w.metrics.Get(metrics.WatchEvaluations),
		"lines_received", w.metrics.Get(metrics.WatchLinesReceived),
	)
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// follow runs one tail session and reports how many lines it delivered.
// The error is nil only when ctx is done.
func (w *Watcher) follow(ctx context.Context, tick <-chan time.Time) (int, error) {
	// a restarted session resumes at the end so the window is not refilled
	location := &tail.SeekInfo{Offset: 0, Whence: io.SeekEnd}
	if w.opts.FromStart && !w.started {
		location = &tail.SeekInfo{Offset: 0, Whence: io.SeekStart}
	}
	w.started = true

	tailer, err := tail.TailFile(w.path, tail.Config{
		Location:  location,
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true,
		Logger:    tail.DiscardingLogger,
	})
	if err != nil {
		return 0, fmt.Errorf("tail %s: %w", w.path, err)
	}
	defer tailer.Cleanup()

	received := 0
	for {
		select {
		case <-ctx.Done():
			_ = tailer.Stop()
			return received, nil

		case line, ok := <-tailer.Lines:
			if !ok {
				if err := tailer.Err(); err != nil {
					return received, err
				}
				return received, errTailClosed
			}
			if line.Err != nil {
				w.logger.Warnw("read failed", "path", w.path, "error", line.Err)
				continue
			}
			w.window.Push(line.Text)
			w.metrics.Inc(metrics.WatchLinesReceived)
			received++

		case <-tick:
			w.Evaluate()
		}
	}
}

// Evaluate analyzes the current window and logs what changed since the
// previous evaluation.
func (w *Watcher) Evaluate() analyzer.Report {
	report := w.analyzer.Analyze(w.window.Text())
	w.metrics.Inc(metrics.WatchEvaluations)

	w.mu.Lock()
	w.logChanges(report)
	w.mu.Unlock()

	if w.onReport != nil {
		w.onReport(report)
	}
	return report
}

// logChanges must be called with mu held.
func (w *Watcher) logChanges(report analyzer.Report) {
	health := report.Summary.Health

	switch {
	case !w.evaluated:
		w.logger.Infow("initial health",
			"path", w.path,
			"health", health,
			"lines", report.Lines,
		)
	case health.Worse(w.health):
		w.logger.Warnw("health degraded",
			"path", w.path,
			"from", w.health,
			"to", health,
		)
	case w.health.Worse(health):
		w.logger.Infow("health recovered",
			"path", w.path,
			"from", w.health,
			"to", health,
		)
	}
	w.evaluated = true
	w.health = health

	current := make(map[string]bool, len(report.Alerts))
	for _, alert := range report.Alerts {
		current[alert.Title] = true
		if !w.alerts[alert.Title] {
			w.logger.Warnw("alert raised",
				"path", w.path,
				"title", alert.Title,
				"action", alert.Action,
			)
		}
	}
	for title := range w.alerts {
		if !current[title] {
			w.logger.Infow("alert cleared", "path", w.path, "title", title)
		}
	}
	w.alerts = current
}

// Health returns the status of the latest evaluation.
func (w *Watcher) Health() analyzer.HealthStatus {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.health
}
