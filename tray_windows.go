//go:build windows

package main

import (
	"context"
	_ "embed"
	"sync"

	"github.com/getlantern/systray"
	"github.com/wailsapp/wails/v2/pkg/runtime"
)

var trayOnce sync.Once

//go:embed build/windows/icon.ico
var trayIcon []byte

func startTray(ctx context.Context, app *App) {
	if ctx == nil {
		return
	}

	trayOnce.Do(func() {
		go systray.Run(func() {
			if len(trayIcon) > 0 {
				systray.SetIcon(trayIcon)
			}
			systray.SetTitle(appName)
			systray.SetTooltip(appName)

			mOpen := systray.AddMenuItem("Open", "Show the main window")
			mHide := systray.AddMenuItem("Hide", "Hide the main window")
			systray.AddSeparator()
			mAwake := systray.AddMenuItem("Keep awake", "Prevent the computer from sleeping")
			if app.IsSleepPrevented() {
				mAwake.Check()
			}
			mFolder := systray.AddMenuItem("Open update folder", "Show downloaded installers")
			systray.AddSeparator()
			mQuit := systray.AddMenuItem("Exit", "Exit the application")

			go func() {
				for {
					select {
					case <-mOpen.ClickedCh:
						runtime.WindowShow(ctx)
						runtime.WindowUnminimise(ctx)
					case <-mHide.ClickedCh:
						runtime.WindowHide(ctx)
					case <-mAwake.ClickedCh:
						if app.toggleSleep() {
							mAwake.Check()
						} else {
							mAwake.Uncheck()
						}
					case <-mFolder.ClickedCh:
						_ = app.OpenUpdateFolder()
					case <-mQuit.ClickedCh:
						runtime.Quit(ctx)
						systray.Quit()
						return
					}
				}
			}()
		}, func() {})
	})
}
