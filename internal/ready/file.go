package ready

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// File fires when a sentinel file exists or is created or written.
// The host touches the file once its world has finished loading.
type File struct {
	path   string
	logger zerolog.Logger
}

// NewFile creates a source watching path.
func NewFile(path string, logger zerolog.Logger) *File {
	return &File{path: filepath.Clean(path), logger: logger}
}

// Subscribe implements Source. The parent directory must exist.
func (f *File) Subscribe(h Handler) (Subscription, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Watch before checking existence so a file created in between is not missed.
	if err := watcher.Add(filepath.Dir(f.path)); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	sub := &watchSubscription{watcher: watcher, stop: make(chan struct{})}
	go f.watch(sub, h)
	return sub, nil
}

func (f *File) watch(sub *watchSubscription, h Handler) {
	if _, err := os.Stat(f.path); err == nil {
		f.logger.Debug().Str("path", f.path).Msg("ready file already present")
		h()
	}

	for {
		select {
		case <-sub.stop:
			return
		case event, ok := <-sub.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != f.path {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				f.logger.Debug().Str("path", f.path).Str("op", event.Op.String()).Msg("ready file event")
				h()
			}
		case err, ok := <-sub.watcher.Errors:
			if !ok {
				return
			}
			f.logger.Warn().Err(err).Str("path", f.path).Msg("ready file watcher error")
		}
	}
}

type watchSubscription struct {
	watcher *fsnotify.Watcher
	stop    chan struct{}
	once    sync.Once
}

func (s *watchSubscription) Unsubscribe() {
	s.once.Do(func() {
		close(s.stop)
		_ = s.watcher.Close()
	})
}
