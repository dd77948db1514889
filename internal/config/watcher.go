// Package config provides the credentials file watcher.
package config

import (
	"os"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// CredentialsWatcher watches a credential key file so availability
// transitions (the file appearing, changing, or being removed) are
// visible in the logs as they happen, without re-reading configuration
// mid-request. Adapters stat the file themselves on each availability
// check; the watcher is the operational signal.
type CredentialsWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	logger  zerolog.Logger
	done    chan struct{}
}

// WatchCredentials starts watching the given key file. onChange is
// invoked with the file's presence after every transition; it may be
// nil. Returns nil without error when path is empty.
func WatchCredentials(logger zerolog.Logger, path string, onChange func(present bool)) (*CredentialsWatcher, error) {
	if path == "" {
		return nil, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	// Watch the directory: the file itself may not exist yet, and
	// editors replace files rather than writing in place.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		watcher.Close()
		return nil, err
	}

	w := &CredentialsWatcher{
		watcher: watcher,
		path:    path,
		logger:  logger.With().Str("component", "credentials-watcher").Logger(),
		done:    make(chan struct{}),
	}
	go w.run(onChange)

	w.logger.Info().Str("path", path).Msg("Watching credentials file")
	return w, nil
}

func (w *CredentialsWatcher) run(onChange func(present bool)) {
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Name != w.path {
				continue
			}
			_, err := os.Stat(w.path)
			present := err == nil
			w.logger.Info().
				Str("op", event.Op.String()).
				Bool("present", present).
				Msg("Credentials file changed")
			if onChange != nil {
				onChange(present)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn().Err(err).Msg("Watcher error")
		case <-w.done:
			return
		}
	}
}

// Close stops the watcher.
func (w *CredentialsWatcher) Close() error {
	if w == nil {
		return nil
	}
	close(w.done)
	return w.watcher.Close()
}
