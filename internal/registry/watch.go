package registry

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// DefaultDebounce is used by Watch when no positive debounce is given.
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads the registry file at path whenever it changes, layering it
// over the built-in tables, and hands each successfully loaded registry to
// onReload. Load failures and watcher errors are passed to onError (which may
// be nil) and leave the caller's current registry in place. Watch blocks until
// ctx is done.
//
// The containing directory is watched rather than the file itself so that
// editors which save by rename keep triggering reloads.
func Watch(ctx context.Context, path string, debounce time.Duration, onReload func(*Registry), onError func(error)) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return errors.Wrapf(err, "watch registry %s", path)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create registry watcher")
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		return errors.Wrapf(err, "watch registry directory %s", filepath.Dir(absPath))
	}

	return watchLoop(ctx, absPath, debounce, watcher.Events, watcher.Errors, onReload, onError)
}

// watchLoop debounces events for absPath and reloads the registry. Watcher
// errors are reported to onError and do not stop the loop.
func watchLoop(ctx context.Context, absPath string, debounce time.Duration, events <-chan fsnotify.Event,
	watchErrs <-chan error, onReload func(*Registry), onError func(error),
) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	timer := time.NewTimer(time.Hour)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-events:
			if !ok {
				return nil
			}

			if filepath.Clean(event.Name) != absPath {
				continue
			}

			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) == 0 {
				continue
			}

			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}

			timer.Reset(debounce)
			pending = true
		case <-timer.C:
			pending = false

			reg, err := LoadWithDefaults(absPath)
			if err != nil {
				if onError != nil {
					onError(err)
				}

				continue
			}

			onReload(reg)
		case watchErr, ok := <-watchErrs:
			if !ok {
				return nil
			}

			if onError != nil {
				onError(errors.Wrap(watchErr, "registry watcher"))
			}
		}
	}
}
