package applog

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedTime = time.Date(2025, 3, 4, 5, 6, 7, 0, time.Local)

func newTestFile(t *testing.T) *File {
	t.Helper()
	f := New(filepath.Join(t.TempDir(), FileName))
	f.now = func() time.Time { return fixedTime }
	return f
}

func stubExecutable(t *testing.T, fn func() (string, error)) {
	t.Helper()
	orig := executable
	executable = fn
	t.Cleanup(func() { executable = orig })
}

func TestPathBesideExecutable(t *testing.T) {
	dir := t.TempDir()
	stubExecutable(t, func() (string, error) { return filepath.Join(dir, "timer.exe"), nil })

	p, err := Path()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "app.log"), p)

	f, err := Open()
	require.NoError(t, err)
	assert.Equal(t, p, f.Path())
}

func TestPathErrors(t *testing.T) {
	stubExecutable(t, func() (string, error) { return "", errors.New("boom") })
	_, err := Path()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to get executable path")

	_, err = Open()
	assert.Error(t, err)

	stubExecutable(t, func() (string, error) { return string(filepath.Separator), nil })
	_, err = Path()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unable to get executable directory")
}

func TestWriteAppendsTimestampedLines(t *testing.T) {
	f := newTestFile(t)

	require.NoError(t, f.Write("timer started"))
	require.NoError(t, f.Write("timer finished"))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t,
		"[2025-03-04 05:06:07] timer started\n[2025-03-04 05:06:07] timer finished\n",
		string(data))
}

func TestWriteRotatesOversizedFile(t *testing.T) {
	f := newTestFile(t)
	f.maxSize = 64

	require.NoError(t, os.WriteFile(f.Path(), []byte(strings.Repeat("x", 65)), 0o644))
	require.NoError(t, f.Write("after rotation"))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "[2025-03-04 05:06:07] "+rotationMarker, lines[0])
	assert.Equal(t, "[2025-03-04 05:06:07] after rotation", lines[1])
}

func TestWriteKeepsFileAtExactLimit(t *testing.T) {
	f := newTestFile(t)
	f.maxSize = 64

	require.NoError(t, os.WriteFile(f.Path(), []byte(strings.Repeat("x", 64)), 0o644))
	require.NoError(t, f.Write("kept"))

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), strings.Repeat("x", 64)))
	assert.NotContains(t, string(data), rotationMarker)
}

func TestWriteRotatesAtDefaultLimit(t *testing.T) {
	if testing.Short() {
		t.Skip("creates a file larger than the rotation limit")
	}
	f := newTestFile(t)

	fh, err := os.Create(f.Path())
	require.NoError(t, err)
	require.NoError(t, fh.Truncate(MaxSize+1))
	require.NoError(t, fh.Close())

	require.NoError(t, f.Write("next"))

	info, err := os.Stat(f.Path())
	require.NoError(t, err)
	assert.Less(t, info.Size(), int64(200))
}

func TestWriteOpenFailure(t *testing.T) {
	f := New(filepath.Join(t.TempDir(), "missing-dir", FileName))
	err := f.Write("x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to open log file")
	assert.Contains(t, err.Error(), f.Path())
}

func TestWriteConcurrent(t *testing.T) {
	f := newTestFile(t)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, f.Write("entry"))
		}()
	}
	wg.Wait()

	data, err := os.ReadFile(f.Path())
	require.NoError(t, err)
	assert.Equal(t, 20, strings.Count(string(data), "] entry\n"))
}
