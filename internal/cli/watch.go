package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

const debouncePeriod = 300 * time.Millisecond

// watcher re-runs rounds when Go sources change. Rounds run on the watch
// loop goroutine, so they never overlap.
type watcher struct {
	fsw       *fsnotify.Watcher
	ownSuffix string
	debounce  time.Duration
	logger    *zap.Logger
}

// newWatcher watches root and every directory below it except hidden,
// vendor and testdata directories. Files ending in ownSuffix are the tool's
// own output and do not trigger rounds.
func newWatcher(root, ownSuffix string, logger *zap.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating fsnotify watcher")
	}

	w := &watcher{fsw: fsw, ownSuffix: ownSuffix, debounce: debouncePeriod, logger: logger}

	if err := w.addTree(root); err != nil {
		_ = fsw.Close()
		return nil, err
	}

	return w, nil
}

func (w *watcher) addTree(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if !d.IsDir() {
			return nil
		}

		if path != root && skipDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := w.fsw.Add(path); err != nil {
			return errors.Wrapf(err, "watching %s", path)
		}

		return nil
	})
}

func skipDir(name string) bool {
	return strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") ||
		name == "vendor" || name == "testdata"
}

// relevant reports whether an event should trigger a round.
func (w *watcher) relevant(ev fsnotify.Event) bool {
	if !strings.HasSuffix(ev.Name, ".go") {
		return false
	}

	if w.ownSuffix != "" && strings.HasSuffix(ev.Name, w.ownSuffix) {
		return false
	}

	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) ||
		ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename)
}

// Run runs a round immediately and again after every debounced burst of
// relevant changes, until ctx is done. Round errors are logged, not returned.
func (w *watcher) Run(ctx context.Context, run func(context.Context) error) error {
	defer func() { _ = w.fsw.Close() }()

	w.runRound(ctx, run)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}

			if ev.Has(fsnotify.Create) {
				if err := w.addNewDir(ev.Name); err != nil {
					w.logger.Warn("cannot watch new directory", zap.String("path", ev.Name), zap.Error(err))
				}
			}

			if !w.relevant(ev) {
				continue
			}

			w.logger.Debug("change detected", zap.String("file", ev.Name), zap.Stringer("op", ev.Op))

			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}

			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}

			w.logger.Warn("watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			w.runRound(ctx, run)
		}
	}
}

// addNewDir starts watching a directory created after startup.
func (w *watcher) addNewDir(path string) error {
	st, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err != nil {
		return errors.Wrapf(err, "stat %s", path)
	}

	if !st.IsDir() || skipDir(filepath.Base(path)) {
		return nil
	}

	return w.addTree(path)
}

func (w *watcher) runRound(ctx context.Context, run func(context.Context) error) {
	if err := run(ctx); err != nil {
		w.logger.Error("round failed", zap.Error(err))
	}
}
