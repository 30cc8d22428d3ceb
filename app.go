package main

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/runtime"
	"go.uber.org/zap"

	"countdown-timer/internal/logging"
	"countdown-timer/internal/update"
)

// Version is set at build time via ldflags.
var Version = "1.0.0"

// sleepChangedEvent is emitted when the tray toggles keep-awake.
const sleepChangedEvent = "sleep:changed"

// App is the bridge bound to the frontend.
type App struct {
	ctx    context.Context
	svc    *Service
	logger *zap.Logger
}

// NewApp wraps svc.
func NewApp(svc *Service, logger *zap.Logger) *App {
	return &App{
		svc:    svc,
		logger: logging.OrNop(logger),
	}
}

// startup stores Wails context.
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
	startTray(ctx, a)
}

// shutdown lets the machine sleep again.
func (a *App) shutdown(ctx context.Context) {
	a.svc.Close()
}

// onSecondInstance brings the existing window forward instead of opening another.
func (a *App) onSecondInstance(data options.SecondInstanceData) {
	if a.ctx == nil {
		return
	}
	a.logger.Debug("second instance launched", zap.Strings("args", data.Args))
	runtime.WindowUnminimise(a.ctx)
	runtime.Show(a.ctx)
	runtime.WindowShow(a.ctx)
}

func (a *App) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// GetVersion returns the running version.
func (a *App) GetVersion() string {
	return Version
}

// PreventSleep keeps the display and system awake until AllowSleep.
func (a *App) PreventSleep() error {
	return a.svc.PreventSleep()
}

// AllowSleep releases the keep-awake request. Always succeeds.
func (a *App) AllowSleep() error {
	return a.svc.AllowSleep()
}

// IsSleepPrevented reports whether keep-awake is active.
func (a *App) IsSleepPrevented() bool {
	return a.svc.SleepPrevented()
}

// CheckGitHubUpdate compares Version with the latest GitHub release.
// token may be empty.
func (a *App) CheckGitHubUpdate(token string) (*update.Result, error) {
	return a.svc.CheckUpdate(a.context(), token)
}

// DownloadUpdateFile downloads the installer and returns its absolute path.
func (a *App) DownloadUpdateFile(downloadURL string) (string, error) {
	return a.svc.DownloadUpdate(a.context(), downloadURL)
}

// OpenUpdateFolder shows the folder holding downloaded installers.
func (a *App) OpenUpdateFolder() error {
	return a.svc.OpenUpdateFolder()
}

// WriteLog appends a timestamped line to app.log.
func (a *App) WriteLog(message string) error {
	return a.svc.WriteLog(message)
}

// GetLogPath returns the path of app.log.
func (a *App) GetLogPath() (string, error) {
	return a.svc.LogPath()
}

// toggleSleep flips keep-awake from the tray and tells the frontend.
func (a *App) toggleSleep() bool {
	if a.svc.SleepPrevented() {
		_ = a.svc.AllowSleep()
	} else if err := a.svc.PreventSleep(); err != nil {
		a.logger.Warn("tray keep-awake", zap.Error(err))
	}
	active := a.svc.SleepPrevented()
	if a.ctx != nil {
		runtime.EventsEmit(a.ctx, sleepChangedEvent, active)
	}
	return active
}
