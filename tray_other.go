//go:build !windows

package main

import "context"

// startTray is a no-op outside Windows; the window stays the only surface.
func startTray(context.Context, *App) {}
