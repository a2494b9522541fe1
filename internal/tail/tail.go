// Package tail follows a log file and emits raw lines as they arrive.
//
// It implements "tail -f" like behavior with log rotation detection,
// feeding each new line to a caller-supplied function. Unlike a
// display tailer it does no filtering or parsing: the mining engine
// wants whole raw lines.
package tail

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Options configures the tailer behavior.
type Options struct {
	FilePath     string             // Path to the log file
	FromStart    bool               // Read the existing content before following
	Follow       bool               // Whether to follow the file for new content
	FollowRotate bool               // Whether to follow through log rotations
	LineFunc     func(string) error // Called for each line, in file order
}

// Tailer reads a log file sequentially and follows appended content.
type Tailer struct {
	opts    Options
	file    *os.File
	offset  int64
	watcher *fsnotify.Watcher
}

// New creates a new Tailer with the given options.
func New(opts Options) *Tailer {
	return &Tailer{opts: opts}
}

// Run starts the tailing process. It blocks until the context is
// cancelled or an error occurs.
func (t *Tailer) Run(ctx context.Context) error {
	if err := t.openFile(); err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer t.close()

	if t.opts.FromStart {
		if err := t.readNewContent(); err != nil {
			return fmt.Errorf("failed to read existing content: %w", err)
		}
	}

	if !t.opts.Follow {
		return nil
	}

	if err := t.setupWatcher(); err != nil {
		return fmt.Errorf("failed to setup watcher: %w", err)
	}
	defer t.watcher.Close()

	return t.watch(ctx)
}

// openFile opens the log file. When not reading from the start, the
// offset begins at the current end so only appended lines are emitted.
func (t *Tailer) openFile() error {
	f, err := os.Open(t.opts.FilePath)
	if err != nil {
		return err
	}
	t.file = f

	if !t.opts.FromStart {
		stat, err := f.Stat()
		if err != nil {
			return err
		}
		t.offset = stat.Size()
	}
	return nil
}

// setupWatcher initializes the fsnotify watcher.
func (t *Tailer) setupWatcher() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	t.watcher = watcher

	return watcher.Add(t.opts.FilePath)
}

// watch monitors the file for changes and emits new lines.
func (t *Tailer) watch(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-t.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed unexpectedly")
			}
			if err := t.handleEvent(ctx, event); err != nil {
				return err
			}

		case err, ok := <-t.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

// handleEvent processes a file system event.
func (t *Tailer) handleEvent(ctx context.Context, event fsnotify.Event) error {
	switch {
	case event.Op&fsnotify.Write == fsnotify.Write:
		return t.readNewContent()

	case event.Op&fsnotify.Remove == fsnotify.Remove || event.Op&fsnotify.Rename == fsnotify.Rename:
		return t.handleRotation(ctx)
	}
	return nil
}

// readNewContent reads from the last known offset and emits each
// complete line.
func (t *Tailer) readNewContent() error {
	if _, err := t.file.Seek(t.offset, io.SeekStart); err != nil {
		return err
	}

	scanner := bufio.NewScanner(t.file)
	const maxScanTokenSize = 1024 * 1024 // 1MB
	buf := make([]byte, maxScanTokenSize)
	scanner.Buffer(buf, maxScanTokenSize)

	for scanner.Scan() {
		if err := t.opts.LineFunc(scanner.Text()); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	var err error
	t.offset, err = t.file.Seek(0, io.SeekCurrent)
	return err
}

// handleRotation handles log file rotation.
func (t *Tailer) handleRotation(ctx context.Context) error {
	if !t.opts.FollowRotate {
		return fmt.Errorf("file rotated")
	}

	if t.file != nil {
		t.file.Close()
		t.file = nil
	}

	// Wait for the new file to appear, with a timeout.
	timeout := time.After(10 * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-timeout:
			return fmt.Errorf("timeout waiting for rotated file to reappear")
		case <-ticker.C:
			f, err := os.Open(t.opts.FilePath)
			if err != nil {
				continue
			}
			t.file = f
			t.offset = 0

			if err := t.watcher.Add(t.opts.FilePath); err != nil {
				return fmt.Errorf("failed to watch rotated file: %w", err)
			}
			return t.readNewContent()
		}
	}
}

// close closes all resources.
func (t *Tailer) close() {
	if t.file != nil {
		t.file.Close()
	}
	if t.watcher != nil {
		t.watcher.Close()
	}
}
