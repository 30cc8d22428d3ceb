package update

import (
	"runtime"

	"github.com/pkg/browser"
)

// Launcher starts a downloaded installer.
type Launcher interface {
	// Supported reports whether installers are launched on this platform.
	Supported() bool
	// Launch hands path to the OS default handler without waiting for it.
	Launch(path string) error
}

// ShellLauncher opens files through the desktop shell. Installers are only
// launched on Windows; elsewhere the user runs the package themselves.
type ShellLauncher struct {
	goos string
}

// NewShellLauncher returns a launcher for the running OS.
func NewShellLauncher() *ShellLauncher {
	return &ShellLauncher{goos: runtime.GOOS}
}

func (l *ShellLauncher) Supported() bool {
	return l.goos == "windows"
}

func (l *ShellLauncher) Launch(path string) error {
	return browser.OpenFile(path)
}
