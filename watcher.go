package main

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/9seconds/geoipfilter/geolib"
	"github.com/fsnotify/fsnotify"
)

// filterHolder keeps a current generation of the filter. Swap waits
// until all running evaluations of the previous generation are
// finished so it is safe to close it after.
type filterHolder struct {
	mutex  sync.RWMutex
	filter *geolib.Filter
}

func (f *filterHolder) Evaluate(ctx context.Context, remoteAddr string) geolib.Verdict {
	f.mutex.RLock()
	defer f.mutex.RUnlock()

	return f.filter.EvaluateRemoteAddr(ctx, remoteAddr)
}

func (f *filterHolder) Swap(filter *geolib.Filter) *geolib.Filter {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	old := f.filter
	f.filter = filter

	return old
}

func (f *filterHolder) Close() error {
	f.mutex.Lock()
	defer f.mutex.Unlock()

	return f.filter.Close()
}

// watchConfig calls onChange each time when a file at path is written
// or recreated. A directory is watched instead of the file because
// editors usually replace files with rename.
func watchConfig(ctx context.Context, path string, onChange func(), onError func(error)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("cannot resolve a path: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("cannot create a watcher: %w", err)
	}

	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("cannot watch a directory: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) == absPath && event.Has(fsnotify.Write|fsnotify.Create) {
				onChange()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			onError(err)
		}
	}
}

func makeReloader(holder *filterHolder, path string,
	load func() (*geolib.Filter, error), log *logger) func() {
	return func() {
		log.ReloadStarted(path)

		filter, err := load()
		if err != nil {
			log.ReloadError(path, err)

			return
		}

		if err := holder.Swap(filter).Close(); err != nil {
			log.ReloadError(path, fmt.Errorf("cannot close previous filter: %w", err))
		}

		log.ReloadInfo(path)
	}
}
