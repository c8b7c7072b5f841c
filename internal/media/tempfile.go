package media

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/papernote/papernote-bot/core/logger"
)

// FileManager stages attachment payloads in a scratch directory.
type FileManager struct {
	dir string
}

// NewFileManager ensures the scratch directory exists.
func NewFileManager(dir string) (*FileManager, error) {
	if dir == "" {
		dir = os.TempDir()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("media: create temp dir: %w", err)
	}
	return &FileManager{dir: dir}, nil
}

// Dir returns the scratch directory path.
func (m *FileManager) Dir() string { return m.dir }

// Acquire reserves a staging path for the given filename. The file itself is
// created by the downloader; Acquire only removes any stale leftover from a
// previous crash.
func (m *FileManager) Acquire(name string) (*TransientFile, error) {
	if name == "" || name != filepath.Base(name) {
		return nil, fmt.Errorf("media: invalid staging name %q", name)
	}
	path := filepath.Join(m.dir, name)
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("media: clear stale file: %w", err)
	}
	return &TransientFile{path: path}, nil
}

// TransientFile is a staged payload that must be released after use.
type TransientFile struct {
	path string
	once sync.Once
}

// Path returns the local filesystem path of the staged payload.
func (f *TransientFile) Path() string { return f.path }

// Release deletes the staged payload. Safe to call more than once.
func (f *TransientFile) Release(ctx context.Context) {
	f.once.Do(func() {
		if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
			logger.LogEvent(ctx, logger.MED, slog.LevelWarn, "tempfile.release.fail",
				slog.String("file", f.path),
				slog.String("err", err.Error()),
			)
		}
	})
}
