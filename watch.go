package mclog

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
)

// rotateDebounce coalesces the burst of events an external rotation produces
const rotateDebounce = 100 * time.Millisecond

// startWatchers launches the SIGHUP handler and log file watcher enabled in
// cfg. Caller holds initMu.
func (l *Logger) startWatchers(cfg *Config, dest Destinations) {
	if !cfg.HandleSighup && !(cfg.WatchLogFile && dest.LogFile != "") {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	l.watchCancel = cancel

	if cfg.HandleSighup {
		l.watchDone.Add(1)
		go func() {
			defer l.watchDone.Done()
			l.HandleSignals(ctx)
		}()
	}

	if cfg.WatchLogFile && dest.LogFile != "" {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			l.internalLog("log file watcher disabled: %v", err)
			return
		}
		dir := filepath.Dir(dest.LogFile)
		if err := watcher.Add(dir); err != nil {
			watcher.Close()
			l.internalLog("log file watcher disabled for '%s': %v", dir, err)
			return
		}
		l.watchDone.Add(1)
		go func() {
			defer l.watchDone.Done()
			defer watcher.Close()
			l.watchLogFile(ctx, watcher, filepath.Clean(dest.LogFile))
		}()
	}
}

// stopWatchers cancels and waits for the watcher goroutines. Caller holds initMu.
func (l *Logger) stopWatchers() {
	if l.watchCancel == nil {
		return
	}
	l.watchCancel()
	l.watchDone.Wait()
	l.watchCancel = nil
}

// watchLogFile rotates when the active log file is removed or renamed, which
// is what logrotate and similar tools do before signalling.
func (l *Logger) watchLogFile(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				if timer != nil {
					timer.Stop()
				}
				timer = time.NewTimer(rotateDebounce)
				timerC = timer.C
			}

		case <-timerC:
			timerC = nil
			l.RotateLogs()

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			l.internalLog("log file watcher error: %v", err)
		}
	}
}

// HandleSignals rotates all sinks on every SIGHUP until ctx is done.
func (l *Logger) HandleSignals(ctx context.Context) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-sigCh:
			l.RotateLogs()
		}
	}
}
