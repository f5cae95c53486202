package vault

import (
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch observes the vault's database files and emits a signal after
// external writes settle, so another instance's changes refresh the UI.
// The returned stop function releases the watcher; the channel closes
// when watching ends.
func (v *Vault) Watch() (<-chan struct{}, func(), error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, err
	}

	// Watch the directory: SQLite swaps WAL/journal files around the
	// database, and watching the file itself loses the inode.
	dir := filepath.Dir(v.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, nil, err
	}

	base := filepath.Base(v.path)
	events := make(chan struct{}, 1)
	done := make(chan struct{})

	// The debounce timer signals back into the select loop rather than
	// sending on events itself: only the goroutine below may touch
	// events, so a timer firing after stop cannot hit a closed channel.
	settled := make(chan struct{}, 1)

	go func() {
		defer watcher.Close()
		defer close(events)

		var debounce *time.Timer
		defer func() {
			if debounce != nil {
				debounce.Stop()
			}
		}()
		const settle = 250 * time.Millisecond

		for {
			select {
			case <-done:
				return

			case <-settled:
				select {
				case events <- struct{}{}:
				default:
					// A refresh is already pending.
				}

			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				// db itself plus -wal / -journal siblings.
				if !strings.HasPrefix(filepath.Base(ev.Name), base) {
					continue
				}
				if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(settle, func() {
					select {
					case settled <- struct{}{}:
					default:
					}
				})

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("vault: watcher error", "error", err)
			}
		}
	}()

	stop := func() { close(done) }
	return events, stop, nil
}
