// Package watch recomputes a packages file whenever it changes on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/talentdesk/ctc-calculator/internal/calculation"
	"github.com/talentdesk/ctc-calculator/internal/config"
	"github.com/talentdesk/ctc-calculator/internal/domain"
)

// DefaultDebounce is how long to wait for more writes before recomputing.
const DefaultDebounce = 300 * time.Millisecond

// ReportFunc receives each recomputed report, or the error that prevented it.
type ReportFunc func(report *domain.CompensationReport, err error)

// Watcher reloads one packages file and runs it through the engine.
type Watcher struct {
	path     string
	parser   *config.InputParser
	engine   *calculation.CompensationEngine
	logger   *slog.Logger
	debounce time.Duration
}

// New creates a watcher for path. A zero debounce uses DefaultDebounce.
func New(path string, engine *calculation.CompensationEngine, logger *slog.Logger, debounce time.Duration) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     filepath.Clean(path),
		parser:   config.NewInputParser(),
		engine:   engine,
		logger:   logger.With("component", "watch", "path", path),
		debounce: debounce,
	}
}

// Run computes the report once and then again after every settled change,
// until ctx is done. The parent directory is watched so that editors which
// replace the file on save are still seen.
func (w *Watcher) Run(ctx context.Context, onReport ReportFunc) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fsw.Close()

	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.logger.Info("watching packages file", "debounce", w.debounce)

	w.reload(onReport)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("file event", "op", event.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)

		case <-fire:
			fire = nil
			w.reload(onReport)
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) reload(onReport ReportFunc) {
	cfg, err := w.parser.LoadFromFile(w.path)
	if err != nil {
		w.logger.Warn("packages file rejected", "error", err)
		onReport(nil, err)
		return
	}
	report, err := w.engine.RunPackages(cfg)
	if err != nil {
		w.logger.Warn("packages file rejected", "error", err)
		onReport(nil, err)
		return
	}
	w.logger.Info("packages recomputed", "packages", len(report.Packages))
	onReport(report, nil)
}
