package main

import (
	"embed"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/logger"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"countdown-timer/internal/config"
	"countdown-timer/internal/logging"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	cfg, err := config.Load(os.Getenv("TIMER_CONFIG"))
	if err != nil {
		println("Error: load config:", err.Error())
		cfg = config.Default()
	}

	log := logging.New(cfg.LogLevel)
	defer func() { _ = log.Sync() }()

	svc := NewService(cfg, log)
	app := NewApp(svc, log)

	err = wails.Run(&options.App{
		Title:       appName,
		Width:       1024,
		Height:      700,
		MinWidth:    480,
		MinHeight:   360,
		StartHidden: cfg.StartHidden,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		BackgroundColour: &options.RGBA{R: 17, G: 24, B: 39, A: 1},
		OnStartup:        app.startup,
		OnShutdown:       app.shutdown,
		SingleInstanceLock: &options.SingleInstanceLock{
			UniqueId:               cfg.AppIdentifier,
			OnSecondInstanceLaunch: app.onSecondInstance,
		},
		Bind: []interface{}{
			app,
		},
		Logger:             logging.Wails(log),
		LogLevel:           logging.WailsLevel(cfg.LogLevel),
		LogLevelProduction: logger.ERROR,
	})

	if err != nil {
		println("Error:", err.Error())
		os.Exit(1)
	}
}
