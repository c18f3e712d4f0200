package lsp

import (
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/rlch/arturo"
)

// configDebounce coalesces the burst of events an editor save produces.
const configDebounce = 100 * time.Millisecond

// configWatcher calls onChange when a config file in one of the watched
// directories is written, created, removed or renamed.
type configWatcher struct {
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	onChange func()

	mu    sync.Mutex
	timer *time.Timer

	done chan struct{}
	wg   sync.WaitGroup
}

func newConfigWatcher(logger *zap.Logger, dirs []string, onChange func()) (*configWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create config watcher")
	}

	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			_ = w.Close()

			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}

	cw := &configWatcher{
		watcher:  w,
		logger:   logger,
		onChange: onChange,
		done:     make(chan struct{}),
	}

	cw.wg.Add(1)

	go cw.run()

	return cw, nil
}

func (cw *configWatcher) run() {
	defer cw.wg.Done()

	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}

			if !arturo.IsConfigFile(event.Name) {
				continue
			}

			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}

			cw.logger.Info("Config file changed",
				zap.String("file", event.Name),
				zap.String("op", event.Op.String()))
			cw.schedule()

		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}

			cw.logger.Warn("Config watcher error", zap.Error(err))

		case <-cw.done:
			return
		}
	}
}

func (cw *configWatcher) schedule() {
	cw.mu.Lock()
	defer cw.mu.Unlock()

	if cw.timer != nil {
		cw.timer.Stop()
	}

	cw.timer = time.AfterFunc(configDebounce, cw.onChange)
}

func (cw *configWatcher) close() error {
	close(cw.done)

	cw.mu.Lock()
	if cw.timer != nil {
		cw.timer.Stop()
	}
	cw.mu.Unlock()

	err := cw.watcher.Close()
	cw.wg.Wait()

	return err
}
