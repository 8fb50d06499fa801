package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"platereader/pkg/logging"
	"platereader/pkg/plate"
)

const (
	watchTick   = 250 * time.Millisecond
	watchSettle = 300 * time.Millisecond
)

func newDirWatcher(dir string) (*fsnotify.Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("new watcher: %w", err)
	}
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return w, nil
}

// Watch appends a report row for every plate image created or rewritten in
// dir until ctx is done. A file is read once it has been quiet for watchSettle.
func (r *Runner) Watch(ctx context.Context, dir string) error {
	w, err := newDirWatcher(dir)
	if err != nil {
		return err
	}
	defer w.Close()
	return r.watch(ctx, w, dir, map[string]time.Time{})
}

// RunAndWatch subscribes to dir before the initial Run, so files that appear
// while Run is busy are read by the watch loop that follows it.
func (r *Runner) RunAndWatch(ctx context.Context, dir string) (Summary, error) {
	w, err := newDirWatcher(dir)
	if err != nil {
		return Summary{}, err
	}
	defer w.Close()

	sum, err := r.Run(ctx, dir)
	if err != nil {
		return sum, err
	}
	// events for files Run already read are skipped unless they changed since
	seen := make(map[string]time.Time, len(sum.Results))
	for _, res := range sum.Results {
		if fi, err := os.Stat(filepath.Join(dir, res.Filename)); err == nil {
			seen[res.Filename] = fi.ModTime()
		}
	}
	return sum, r.watch(ctx, w, dir, seen)
}

func (r *Runner) watch(ctx context.Context, w *fsnotify.Watcher, dir string, seen map[string]time.Time) error {
	rw, err := AppendReport(r.OutPath(), r.Reader.Profile)
	if err != nil {
		return err
	}
	defer rw.Close()
	logging.Infof("Watching %s (debounced) ...", dir)

	pending := map[string]time.Time{}
	ticker := time.NewTicker(watchTick)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			name := filepath.Base(ev.Name)
			if !plate.IsImageFile(name) {
				continue
			}
			pending[name] = time.Now()
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logging.Warnf("watch error: %v", err)
		case now := <-ticker.C:
			for _, name := range settled(pending, now) {
				path := filepath.Join(dir, name)
				fi, err := os.Stat(path)
				if err != nil || fi.IsDir() {
					continue
				}
				if mod, ok := seen[name]; ok && mod.Equal(fi.ModTime()) {
					logging.Debugf("watch: %s unchanged, skipping", name)
					continue
				}
				seen[name] = fi.ModTime()

				res := r.Reader.ReadFile(ctx, path)
				r.save(ctx, res)
				if _, err := rw.Write(res); err != nil {
					return err
				}
				if err := rw.Flush(); err != nil {
					return fmt.Errorf("flush report: %w", err)
				}
				logging.Infof("watch: %s -> %s", name, res.Text)
			}
		}
	}
}

// settled removes and returns, sorted, the names quiet for at least watchSettle.
func settled(pending map[string]time.Time, now time.Time) []string {
	var out []string
	for name, t := range pending {
		if now.Sub(t) >= watchSettle {
			out = append(out, name)
			delete(pending, name)
		}
	}
	sort.Strings(out)
	return out
}
