package update

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLauncher struct {
	supported bool
	err       error
	launched  []string
}

func (f *fakeLauncher) Supported() bool { return f.supported }

func (f *fakeLauncher) Launch(path string) error {
	f.launched = append(f.launched, path)
	return f.err
}

func fileServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDownloader(t *testing.T, l Launcher) *Downloader {
	t.Helper()
	return NewDownloader(t.TempDir(), WithLauncher(l), WithReleaseDelay(0))
}

func TestDownloadWritesFileAndClearsOld(t *testing.T) {
	srv := fileServer(t, http.StatusOK, "installer-bytes")
	d := newTestDownloader(t, &fakeLauncher{})

	require.NoError(t, os.MkdirAll(d.Dir(), 0o755))
	stale := filepath.Join(d.Dir(), "App-Setup-0.9.exe")
	require.NoError(t, os.WriteFile(stale, []byte("old"), 0o644))
	keepDir := filepath.Join(d.Dir(), "nested")
	require.NoError(t, os.Mkdir(keepDir, 0o755))

	path, err := d.Download(context.Background(), srv.URL+"/releases/download/v1.0/App-Setup-1.0.exe")
	require.NoError(t, err)

	assert.True(t, filepath.IsAbs(path))
	assert.Equal(t, "App-Setup-1.0.exe", filepath.Base(path))
	assert.Equal(t, d.Dir(), filepath.Dir(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "installer-bytes", string(data))

	_, err = os.Stat(stale)
	assert.True(t, os.IsNotExist(err), "stale installer should be removed")
	assert.DirExists(t, keepDir)
}

func TestDownloadCreatesUpdateDir(t *testing.T) {
	srv := fileServer(t, http.StatusOK, "x")
	base := filepath.Join(t.TempDir(), "not", "yet")
	d := NewDownloader(base, WithLauncher(nil), WithReleaseDelay(0))

	path, err := d.Download(context.Background(), srv.URL+"/App.msi")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, UpdateDirName, "App.msi"), path)
}

func TestDownloadLaunchesWhenSupported(t *testing.T) {
	srv := fileServer(t, http.StatusOK, "x")
	l := &fakeLauncher{supported: true}
	d := newTestDownloader(t, l)

	path, err := d.Download(context.Background(), srv.URL+"/App-Setup.exe")
	require.NoError(t, err)
	assert.Equal(t, []string{path}, l.launched)
}

func TestDownloadSkipsLaunchWhenUnsupported(t *testing.T) {
	srv := fileServer(t, http.StatusOK, "x")
	l := &fakeLauncher{supported: false}
	d := newTestDownloader(t, l)

	_, err := d.Download(context.Background(), srv.URL+"/App-Setup.exe")
	require.NoError(t, err)
	assert.Empty(t, l.launched)
}

func TestDownloadLaunchFailure(t *testing.T) {
	srv := fileServer(t, http.StatusOK, "x")
	d := newTestDownloader(t, &fakeLauncher{supported: true, err: errors.New("denied")})

	_, err := d.Download(context.Background(), srv.URL+"/App-Setup.exe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to start installer")
	assert.FileExists(t, filepath.Join(d.Dir(), "App-Setup.exe"))
}

func TestDownloadBadStatus(t *testing.T) {
	srv := fileServer(t, http.StatusNotFound, "missing")
	d := newTestDownloader(t, &fakeLauncher{})

	_, err := d.Download(context.Background(), srv.URL+"/App-Setup.exe")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP status: 404")

	_, statErr := os.Stat(filepath.Join(d.Dir(), "App-Setup.exe"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestDownloadNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := newTestDownloader(t, nil).Download(context.Background(), url+"/App.msi")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "download request failed")
}

func TestDownloadRejectsURLWithoutFileName(t *testing.T) {
	d := newTestDownloader(t, nil)
	_, err := d.Download(context.Background(), "https://example.com/")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "file name")
}

func TestFileNameFromURL(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"https://h/o/r/releases/download/v1/App-Setup-1.0.exe", "App-Setup-1.0.exe", false},
		{"https://h/App.msi?token=abc", "App.msi", false},
		{"https://h/dir/", "dir", false},
		{"https://h", "", true},
		{"https://h/", "", true},
		{"://bad", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := fileNameFromURL(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOpenDir(t *testing.T) {
	var revealed string
	base := t.TempDir()
	d := NewDownloader(base, WithRevealer(func(p string) error {
		revealed = p
		return nil
	}))

	require.NoError(t, d.OpenDir())
	assert.Equal(t, filepath.Join(base, UpdateDirName), revealed)
	assert.DirExists(t, revealed)

	d = NewDownloader(base, WithRevealer(func(string) error { return errors.New("no file manager") }))
	assert.ErrorContains(t, d.OpenDir(), "failed to open update directory")
}

func TestShellLauncherSupported(t *testing.T) {
	assert.True(t, (&ShellLauncher{goos: "windows"}).Supported())
	assert.False(t, (&ShellLauncher{goos: "linux"}).Supported())
	assert.False(t, (&ShellLauncher{goos: "darwin"}).Supported())
}

func TestNewHTTPClientSetsUserAgent(t *testing.T) {
	var ua string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ua = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	client := NewHTTPClient(DownloadTimeout)
	assert.Equal(t, DownloadTimeout, client.Timeout)
	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, UserAgent, ua)
}
