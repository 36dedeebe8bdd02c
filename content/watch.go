package content

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/bloeys/nrender/logging"
	"github.com/fsnotify/fsnotify"
)

// Watch starts watching the data directory. Changes are picked up by PollReloads.
func (c *Content) Watch() error {

	if c.watcher != nil {
		return nil
	}

	if c.dataDir == "" {
		return errors.New("content has no data directory to watch")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create content watcher: %w", err)
	}

	err = filepath.WalkDir(c.dataDir, func(p string, d fs.DirEntry, err error) error {

		if err != nil {
			return err
		}

		if d.IsDir() {
			return w.Add(p)
		}

		return nil
	})
	if err != nil {
		w.Close()
		return fmt.Errorf("failed to watch content directory '%s': %w", c.dataDir, err)
	}

	c.watcher = w
	c.watchDone = make(chan struct{})
	c.watchWg.Add(1)
	go c.watch(w, c.watchDone)

	logging.InfoLog.Printf("Watching content directory '%s'\n", c.dataDir)
	return nil
}

func (c *Content) watch(w *fsnotify.Watcher, done chan struct{}) {

	defer c.watchWg.Done()

	for {
		select {
		case <-done:
			return

		case event, ok := <-w.Events:
			if !ok {
				return
			}

			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				c.markChanged(filepath.Base(event.Name))
			}

		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logging.WarnLog.Printf("Content watcher error: %s\n", err)
		}
	}
}

func (c *Content) markChanged(name string) {
	c.changedMu.Lock()
	c.changed[name] = struct{}{}
	c.changedMu.Unlock()
}

func (c *Content) takeChanged() []string {

	c.changedMu.Lock()
	defer c.changedMu.Unlock()

	if len(c.changed) == 0 {
		return nil
	}

	names := make([]string, 0, len(c.changed))
	for name := range c.changed {
		names = append(names, name)
	}

	clear(c.changed)
	return names
}

// PollReloads reloads the programs using files changed since the last call.
// It must be called on the render thread, typically once per frame.
func (c *Content) PollReloads() int {

	reloaded := 0
	for _, name := range c.takeChanged() {

		// New files are picked up without restarting
		if _, ok := c.files[name]; !ok {
			if err := c.index(); err != nil {
				logging.ErrLog.Printf("Failed to re-index content. Err: %s\n", err)
			}
		}

		n, err := c.Reload(name)
		if err != nil {
			logging.ErrLog.Println(err)
		}

		reloaded += n
	}

	return reloaded
}

// Close stops watching. Calling it when not watching does nothing.
func (c *Content) Close() error {

	if c.watcher == nil {
		return nil
	}

	close(c.watchDone)
	err := c.watcher.Close()
	c.watchWg.Wait()

	c.watcher = nil
	c.watchDone = nil
	return err
}
