package tail

import (
	"bufio"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/Iron-Ham/ringtail/internal/errors"
	"github.com/fsnotify/fsnotify"
)

// FollowOptions configures Follow.
type FollowOptions struct {
	// OnLine, if set, is called from the follow loop for every retained line.
	OnLine func(Line)
}

// Follow reads path into t, then keeps reading lines appended to it until
// ctx is cancelled. If the file is replaced (log rotation), the new file is
// read from the start. Follow returns nil when ctx is cancelled.
//
// The parent directory is watched rather than the file itself so that
// rotation is observed.
func Follow(ctx context.Context, path string, t *Tailer, opts FollowOptions) error {
	path = filepath.Clean(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "failed to create file watcher")
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "failed to watch %s", filepath.Dir(path))
	}

	f := &followedFile{path: path, tailer: t, onLine: opts.OnLine}
	if err := f.open(); err != nil {
		return err
	}
	defer f.close()

	if err := f.readAvailable(); err != nil {
		return err
	}

	logger := t.logger.With("file", path)
	logger.Debug("following file")

	for {
		select {
		case <-ctx.Done():
			f.flushPending()
			logger.Debug("follow stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}

			switch {
			case event.Op&fsnotify.Create != 0:
				// Rotated: finish the old file, then start over on the new one.
				logger.Info("file replaced, reopening")
				if err := f.readAvailable(); err != nil {
					return err
				}
				f.flushPending()
				f.close()
				if err := f.open(); err != nil {
					return err
				}
				if err := f.readAvailable(); err != nil {
					return err
				}
			case event.Op&fsnotify.Write != 0:
				if err := f.readAvailable(); err != nil {
					return err
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "error", err.Error())
		}
	}
}

// followedFile tracks the open handle and any partial trailing line.
type followedFile struct {
	path    string
	tailer  *Tailer
	onLine  func(Line)
	file    *os.File
	reader  *bufio.Reader
	pending string
}

func (f *followedFile) open() error {
	file, err := os.Open(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.NewNotFoundError("file", f.path).WithCause(err)
		}
		return errors.Wrapf(err, "failed to open %s", f.path)
	}
	f.file = file
	f.reader = bufio.NewReader(file)
	f.pending = ""
	return nil
}

func (f *followedFile) close() {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
	}
}

// readAvailable consumes complete lines up to the current end of file. A
// trailing fragment without a newline is held until the rest arrives.
func (f *followedFile) readAvailable() error {
	for {
		chunk, err := f.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return errors.Wrapf(err, "failed to read %s", f.path)
		}

		if strings.HasSuffix(chunk, "\n") {
			f.emit(f.pending + chunk)
			f.pending = ""
		} else {
			f.pending += chunk
		}

		if err == io.EOF {
			return nil
		}
	}
}

// flushPending treats a held fragment as a complete line.
func (f *followedFile) flushPending() {
	if f.pending != "" {
		f.emit(f.pending)
		f.pending = ""
	}
}

func (f *followedFile) emit(raw string) {
	text := strings.TrimRight(raw, "\r\n")
	if line, ok := f.tailer.Add(text); ok && f.onLine != nil {
		f.onLine(line)
	}
}
