//go:build linux

package power

import (
	"fmt"

	"github.com/godbus/dbus/v5"
	"golang.org/x/sys/unix"
)

const (
	login1Dest       = "org.freedesktop.login1"
	login1Path       = "/org/freedesktop/login1"
	login1Inhibit    = "org.freedesktop.login1.Manager.Inhibit"
	screenSaverDest  = "org.freedesktop.ScreenSaver"
	screenSaverPath  = "/org/freedesktop/ScreenSaver"
	screenSaverIface = "org.freedesktop.ScreenSaver"
	inhibitWhat      = "sleep:idle"
	inhibitModeBlock = "block"
)

// logindInhibitor takes a logind block lock for system and idle sleep and,
// when a session bus is available, a screensaver cookie for the display.
type logindInhibitor struct {
	app string
}

func newInhibitor(appName string) Inhibitor {
	return &logindInhibitor{app: appName}
}

func (l *logindInhibitor) Acquire(reason string) (Handle, error) {
	sys, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect to system bus: %w", err)
	}

	var fd dbus.UnixFD
	err = sys.Object(login1Dest, login1Path).
		Call(login1Inhibit, 0, inhibitWhat, l.app, reason, inhibitModeBlock).
		Store(&fd)
	if err != nil {
		return nil, fmt.Errorf("logind inhibit: %w", err)
	}

	h := &logindHandle{fd: int(fd)}

	// Display inhibition is best effort: headless sessions have no screensaver service.
	if sess, err := dbus.SessionBus(); err == nil {
		ss := sess.Object(screenSaverDest, screenSaverPath)
		var cookie uint32
		if err := ss.Call(screenSaverIface+".Inhibit", 0, l.app, reason).Store(&cookie); err == nil {
			h.screenSaver = ss
			h.cookie = cookie
		}
	}
	return h, nil
}

type logindHandle struct {
	fd          int
	screenSaver dbus.BusObject
	cookie      uint32
}

func (h *logindHandle) Release() error {
	if h.screenSaver != nil {
		_ = h.screenSaver.Call(screenSaverIface+".UnInhibit", 0, h.cookie).Err
	}
	// logind drops the lock once every copy of the descriptor is closed.
	if err := unix.Close(h.fd); err != nil {
		return fmt.Errorf("close inhibitor fd: %w", err)
	}
	return nil
}
