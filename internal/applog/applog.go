// Package applog appends front-end log lines to app.log next to the executable.
package applog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

const (
	// FileName is the log file created beside the executable.
	FileName = "app.log"
	// MaxSize is the size above which the file is emptied before the next write.
	MaxSize int64 = 10 * 1024 * 1024

	timestampLayout = "2006-01-02 15:04:05"
	rotationMarker  = "[INFO] log file cleared automatically (exceeded 10MB)"
)

// executable is swapped in tests.
var executable = os.Executable

// Path returns the absolute path of app.log beside the running executable.
func Path() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("unable to get executable path: %w", err)
	}
	dir := filepath.Dir(exe)
	if exe == "" || dir == filepath.Clean(exe) {
		return "", errors.New("unable to get executable directory")
	}
	return filepath.Join(dir, FileName), nil
}

// File is an append-only log with truncate-on-overflow rotation.
type File struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	now     func() time.Time
}

// Open returns a File for app.log beside the executable. The file itself is
// created lazily on first write.
func Open() (*File, error) {
	p, err := Path()
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// New returns a File writing to path.
func New(path string) *File {
	return &File{
		path:    path,
		maxSize: MaxSize,
		now:     time.Now,
	}
}

// Path returns where entries are written.
func (f *File) Path() string {
	return f.path
}

// Write appends "[timestamp] message". If the file has grown past the size
// limit it is emptied first and a marker line recorded.
func (f *File) Write(message string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if info, err := os.Stat(f.path); err == nil && info.Size() > f.maxSize {
		f.truncate()
	}

	file, err := os.OpenFile(f.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w (path: %s)", err, f.path)
	}
	defer file.Close()

	if _, err := file.WriteString(f.line(message)); err != nil {
		return fmt.Errorf("failed to write log: %w", err)
	}
	return nil
}

// truncate empties the file and writes the rotation marker. Errors are
// ignored; the following append reports any real problem.
func (f *File) truncate() {
	_ = os.WriteFile(f.path, []byte(f.line(rotationMarker)), 0o644)
}

func (f *File) line(message string) string {
	return fmt.Sprintf("[%s] %s\n", f.now().Format(timestampLayout), message)
}
