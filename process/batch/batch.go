// Package batch runs the plate reader over a directory and writes the report.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"

	"platereader/pkg/logging"
	"platereader/pkg/plate"
)

// Store persists results. Store errors are logged, never fatal.
type Store interface {
	SaveResult(ctx context.Context, runID string, p plate.Profile, res plate.Result) error
}

// Runner processes every plate image in a directory.
type Runner struct {
	Reader *plate.Reader
	// Out is the report path; the profile's default file when empty.
	Out string
	// Workers > 1 reads files concurrently; report order is unchanged.
	Workers int
	Store   Store
	RunID   string
}

// Summary describes one Run.
type Summary struct {
	Processed int
	Written   int
	Out       string
	Results   []plate.Result
}

// OutPath is the effective report path.
func (r *Runner) OutPath() string {
	if r.Out != "" {
		return r.Out
	}
	return r.Reader.Profile.ReportFile()
}

// ListImages returns the plate image names in dir, sorted lexicographically.
func ListImages(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read dir: %w", err)
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || !plate.IsImageFile(e.Name()) {
			continue
		}
		out = append(out, e.Name())
	}
	sort.Strings(out)
	return out, nil
}

// Run reads every image in dir and writes the report. Only directory listing,
// report I/O and context cancellation are returned as errors.
func (r *Runner) Run(ctx context.Context, dir string) (Summary, error) {
	files, err := ListImages(dir)
	if err != nil {
		return Summary{}, err
	}
	p := r.Reader.Profile
	sum := Summary{Out: r.OutPath(), Results: make([]plate.Result, 0, len(files))}

	// Indian reports are written row by row; generic reports once at the end.
	var rw *ReportWriter
	if p == plate.ProfileIndian {
		if rw, err = CreateReport(sum.Out, p); err != nil {
			return sum, err
		}
		defer rw.Close()
	}

	var writeErr error
	emit := func(res plate.Result) {
		sum.Results = append(sum.Results, res)
		r.save(ctx, res)
		if rw != nil && writeErr == nil {
			if _, err := rw.Write(res); err != nil {
				writeErr = err
			}
		}
	}

	if r.Workers > 1 && len(files) > 1 {
		err = r.runPool(ctx, dir, files, emit)
	} else {
		err = r.runSequential(ctx, dir, files, emit)
	}
	sum.Processed = len(sum.Results)
	if err != nil {
		return sum, err
	}
	if writeErr != nil {
		return sum, writeErr
	}

	if rw == nil {
		if rw, err = CreateReport(sum.Out, p); err != nil {
			return sum, err
		}
		for _, res := range sum.Results {
			if _, err := rw.Write(res); err != nil {
				_ = rw.Close()
				return sum, err
			}
		}
		if err := rw.Close(); err != nil {
			return sum, fmt.Errorf("close report: %w", err)
		}
	}
	sum.Written = rw.Rows()
	logging.Infof("Processed %d plates. Results saved to %s", sum.Processed, sum.Out)
	return sum, nil
}

func (r *Runner) runSequential(ctx context.Context, dir string, files []string, emit func(plate.Result)) error {
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		emit(r.Reader.ReadFile(ctx, filepath.Join(dir, name)))
	}
	return nil
}

type readTask struct {
	idx  int
	path string
}

// runPool reads files on an ants pool and emits results in index order as
// soon as the next one is available.
func (r *Runner) runPool(ctx context.Context, dir string, files []string, emit func(plate.Result)) error {
	var (
		mu    sync.Mutex
		wg    sync.WaitGroup
		slots = make([]*plate.Result, len(files))
		next  int
	)
	pool, err := ants.NewPoolWithFunc(r.Workers, func(arg any) {
		defer wg.Done()
		task := arg.(readTask)
		res := r.Reader.ReadFile(ctx, task.path)

		mu.Lock()
		defer mu.Unlock()
		slots[task.idx] = &res
		for next < len(slots) && slots[next] != nil {
			emit(*slots[next])
			slots[next] = nil
			next++
		}
	})
	if err != nil {
		return fmt.Errorf("create worker pool: %w", err)
	}
	defer pool.Release()

	for i, name := range files {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		if err := pool.Invoke(readTask{idx: i, path: filepath.Join(dir, name)}); err != nil {
			wg.Done()
			wg.Wait()
			return fmt.Errorf("submit %s: %w", name, err)
		}
	}
	wg.Wait()
	return ctx.Err()
}

func (r *Runner) save(ctx context.Context, res plate.Result) {
	if r.Store == nil {
		return
	}
	if err := r.Store.SaveResult(ctx, r.RunID, r.Reader.Profile, res); err != nil {
		logging.Warnf("store %s: %v", res.Filename, err)
	}
}
