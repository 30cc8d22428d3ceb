package update

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/pkg/browser"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// UpdateDirName is the subdirectory of the app data dir holding installers.
const UpdateDirName = "update"

// Downloader fetches installers into the update directory, keeping only the
// most recent one.
type Downloader struct {
	dir          string
	client       *http.Client
	launcher     Launcher
	reveal       func(path string) error
	releaseDelay time.Duration
	logger       *zap.Logger
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithDownloadClient replaces the default 300 second client.
func WithDownloadClient(client *http.Client) DownloaderOption {
	return func(d *Downloader) {
		d.client = client
	}
}

// WithLauncher sets how a finished download is started. nil disables launching.
func WithLauncher(l Launcher) DownloaderOption {
	return func(d *Downloader) {
		d.launcher = l
	}
}

// WithReleaseDelay overrides the pause between closing the file and launching it.
func WithReleaseDelay(delay time.Duration) DownloaderOption {
	return func(d *Downloader) {
		d.releaseDelay = delay
	}
}

// WithRevealer overrides how OpenDir shows the directory.
func WithRevealer(fn func(path string) error) DownloaderOption {
	return func(d *Downloader) {
		d.reveal = fn
	}
}

// WithDownloadLogger attaches a diagnostic logger.
func WithDownloadLogger(l *zap.Logger) DownloaderOption {
	return func(d *Downloader) {
		if l != nil {
			d.logger = l
		}
	}
}

// NewDownloader stores installers under appDataDir/update.
func NewDownloader(appDataDir string, opts ...DownloaderOption) *Downloader {
	d := &Downloader{
		dir:          filepath.Join(appDataDir, UpdateDirName),
		client:       NewHTTPClient(DownloadTimeout),
		launcher:     NewShellLauncher(),
		reveal:       browser.OpenFile,
		releaseDelay: FileReleaseDelay,
		logger:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dir returns the update directory.
func (d *Downloader) Dir() string {
	return d.dir
}

// ensureDir creates the update directory if needed.
func (d *Downloader) ensureDir() error {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create update directory: %w", err)
	}
	return nil
}

// clearStale removes files left by earlier downloads. Failures are ignored.
func (d *Downloader) clearStale() {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		return
	}
	files := lo.Filter(entries, func(e os.DirEntry, _ int) bool {
		return e.Type().IsRegular()
	})
	for _, e := range files {
		if err := os.Remove(filepath.Join(d.dir, e.Name())); err != nil {
			d.logger.Debug("remove stale update file", zap.String("file", e.Name()), zap.Error(err))
		}
	}
}

// Download saves rawURL into the update directory, launches it where
// supported and returns the absolute path of the saved file.
func (d *Downloader) Download(ctx context.Context, rawURL string) (string, error) {
	if err := d.ensureDir(); err != nil {
		return "", err
	}
	d.clearStale()

	name, err := fileNameFromURL(rawURL)
	if err != nil {
		return "", err
	}
	target := filepath.Join(d.dir, name)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	resp, err := d.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("download request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("download failed, HTTP status: %d", resp.StatusCode)
	}

	if err := writeFile(target, resp.Body); err != nil {
		_ = os.Remove(target)
		return "", err
	}
	d.logger.Info("update downloaded", zap.String("path", target))

	// Give AV scanners and the OS a moment to let go of the new file.
	select {
	case <-time.After(d.releaseDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	if d.launcher != nil && d.launcher.Supported() {
		if err := d.launcher.Launch(target); err != nil {
			return "", fmt.Errorf("failed to start installer: %w", err)
		}
		d.logger.Info("installer started", zap.String("path", target))
	}

	abs, err := filepath.Abs(target)
	if err != nil {
		return target, nil
	}
	return abs, nil
}

// OpenDir shows the update directory in the OS file manager.
func (d *Downloader) OpenDir() error {
	if err := d.ensureDir(); err != nil {
		return err
	}
	if err := d.reveal(d.dir); err != nil {
		return fmt.Errorf("failed to open update directory: %w", err)
	}
	return nil
}

func writeFile(target string, body io.Reader) error {
	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if _, err := io.Copy(f, body); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}
	return nil
}

// fileNameFromURL returns the last path segment of rawURL, ignoring any query.
func fileNameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("unable to parse download URL: %w", err)
	}
	name := path.Base(u.Path)
	if name == "" || name == "." || name == "/" || name == ".." || filepath.Base(name) != name {
		return "", errors.New("unable to determine file name from download URL")
	}
	return name, nil
}
