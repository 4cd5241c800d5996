// Copyright 2023 Gustavo C. Viegas. All rights reserved.

package texture

import (
	"context"
	"errors"
	"image"
	"log/slog"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/gviegas/mfgl/driver"
)

// Progress describes the state of a Loader.
type Progress struct {
	// Processed is the number of files that were
	// decoded or failed to decode.
	Processed int
	// Total is the number of files added.
	Total int
	// Errors is the number of files that failed.
	Errors int
}

// Done reports whether every file was processed.
func (p Progress) Done() bool { return p.Processed == p.Total }

// Result is the outcome of loading a single file.
type Result struct {
	Path  string
	Image image.Image
	Err   error
	done  bool
}

// Loader decodes image files concurrently.
// Decoding never touches the GPU; call Upload from the
// thread that owns the GPU once Load returns.
// The zero value is ready for use.
type Loader struct {
	// Limit is the maximum number of files decoded at
	// once. If not positive, runtime.NumCPU is used.
	Limit int

	mu         sync.Mutex
	results    []Result
	prog       Progress
	onProgress []func(Progress)
	onLoad     []func(Progress)
	loaded     int
}

// Add adds files to be loaded by the next call to Load.
func (l *Loader) Add(paths ...string) {
	l.mu.Lock()
	for _, p := range paths {
		l.results = append(l.results, Result{Path: p})
	}
	l.prog.Total += len(paths)
	l.notify(l.onProgress)
	l.mu.Unlock()
}

// OnProgress adds a function to be called whenever the
// progress changes.
// Calls are serialized but may come from any goroutine.
// fn must not call methods of l.
func (l *Loader) OnProgress(fn func(Progress)) {
	l.mu.Lock()
	l.onProgress = append(l.onProgress, fn)
	l.mu.Unlock()
}

// OnLoad adds a function to be called when a call to
// Load finishes processing every file.
// It is called from the goroutine that called Load.
// fn must not call methods of l.
func (l *Loader) OnLoad(fn func(Progress)) {
	l.mu.Lock()
	l.onLoad = append(l.onLoad, fn)
	l.mu.Unlock()
}

// notify calls every function in fns.
// l.mu must be held.
func (l *Loader) notify(fns []func(Progress)) {
	for _, fn := range fns {
		fn(l.prog)
	}
}

// Load decodes every file added since the previous call.
// A file that fails to decode is counted as an error and
// does not stop the others; its Result holds the error.
// Load only returns an error if ctx is done first.
func (l *Loader) Load(ctx context.Context) (Progress, error) {
	l.mu.Lock()
	start, end := l.loaded, len(l.results)
	limit := l.Limit
	l.mu.Unlock()
	if limit < 1 {
		limit = runtime.NumCPU()
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i := start; i < end; i++ {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			l.mu.Lock()
			path, done := l.results[i].Path, l.results[i].done
			l.mu.Unlock()
			if done {
				return nil
			}

			img, err := DecodeFile(path)

			l.mu.Lock()
			defer l.mu.Unlock()
			l.results[i].Image = img
			l.results[i].Err = err
			l.results[i].done = true
			l.prog.Processed++
			if err != nil {
				l.prog.Errors++
				slog.Warn(texPrefix+"could not load", "path", path, "err", err)
			}
			l.notify(l.onProgress)
			return nil
		})
	}
	err := g.Wait()

	l.mu.Lock()
	defer l.mu.Unlock()
	if err != nil {
		return l.prog, err
	}
	l.loaded = end
	if l.prog.Done() {
		l.notify(l.onLoad)
	}
	return l.prog, nil
}

// Progress returns the current progress.
func (l *Loader) Progress() Progress {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.prog
}

// Results returns the results of every file, in the order
// they were added.
func (l *Loader) Results() []Result {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Result(nil), l.results...)
}

// Upload creates textures from the images decoded so far.
// The map is keyed by path. Files that failed to decode
// are skipped; upload failures are joined in the
// returned error.
func (l *Loader) Upload(gpu driver.GPU, filter driver.Filter) (map[string]*Texture, error) {
	res := l.Results()
	texs := make(map[string]*Texture, len(res))
	var errs []error
	for i := range res {
		if res[i].Image == nil {
			continue
		}
		if _, ok := texs[res[i].Path]; ok {
			continue
		}
		t, err := New(gpu, res[i].Image, filter)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		t.name = res[i].Path
		texs[res[i].Path] = t
	}
	return texs, errors.Join(errs...)
}
