package main

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"countdown-timer/internal/applog"
	"countdown-timer/internal/config"
	"countdown-timer/internal/logging"
	"countdown-timer/internal/power"
	"countdown-timer/internal/update"
)

const (
	// appName is reported to the OS alongside the sleep inhibition.
	appName = "Countdown Timer"
	// inhibitReason tells the user why the machine stays awake.
	inhibitReason = "Countdown in progress"
)

// githubToken may be embedded at build time:
//
//	-ldflags "-X main.githubToken=..."
//
// A token from config or from the caller takes precedence.
var githubToken = ""

// Service coordinates sleep inhibition, update checks, downloads and the app log.
type Service struct {
	guard      *power.Guard
	checker    *update.Checker
	downloader *update.Downloader
	logger     *zap.Logger

	logMu   sync.Mutex
	logFile *applog.File
	openLog func() (*applog.File, error)
}

// NewService wires the platform inhibitor, a checker for Version and a
// downloader rooted in the app data directory.
func NewService(cfg *config.Config, logger *zap.Logger) *Service {
	logger = logging.OrNop(logger)

	token := cfg.GitHubToken
	if token == "" {
		token = githubToken
	}

	var launcher update.Launcher
	if cfg.LaunchInstaller {
		launcher = update.NewShellLauncher()
	}

	return &Service{
		guard: power.NewGuard(power.New(appName), inhibitReason, logger.Named("power")),
		checker: update.NewChecker(Version,
			update.WithEndpoint(cfg.ReleaseEndpoint),
			update.WithToken(token),
			update.WithLogger(logger.Named("update")),
		),
		downloader: update.NewDownloader(cfg.AppDataDir(),
			update.WithLauncher(launcher),
			update.WithDownloadLogger(logger.Named("update")),
		),
		logger:  logger,
		openLog: applog.Open,
	}
}

func (s *Service) PreventSleep() error {
	return s.guard.Prevent()
}

func (s *Service) AllowSleep() error {
	return s.guard.Allow()
}

func (s *Service) SleepPrevented() bool {
	return s.guard.Active()
}

// CheckUpdate asks GitHub for the latest release.
func (s *Service) CheckUpdate(ctx context.Context, token string) (*update.Result, error) {
	return s.checker.Check(ctx, token)
}

// DownloadUpdate fetches url into the update directory and starts it where supported.
func (s *Service) DownloadUpdate(ctx context.Context, url string) (string, error) {
	path, err := s.downloader.Download(ctx, url)
	if err != nil {
		s.logger.Warn("update download failed", zap.String("url", url), zap.Error(err))
		return "", err
	}
	return path, nil
}

// OpenUpdateFolder reveals the update directory in the file manager.
func (s *Service) OpenUpdateFolder() error {
	return s.downloader.OpenDir()
}

// WriteLog appends message to app.log.
func (s *Service) WriteLog(message string) error {
	f, err := s.appLog()
	if err != nil {
		return err
	}
	return f.Write(message)
}

// LogPath reports where WriteLog writes.
func (s *Service) LogPath() (string, error) {
	f, err := s.appLog()
	if err != nil {
		return "", err
	}
	return f.Path(), nil
}

// appLog resolves the log file once; a failed resolution is retried on the
// next call.
func (s *Service) appLog() (*applog.File, error) {
	s.logMu.Lock()
	defer s.logMu.Unlock()

	if s.logFile != nil {
		return s.logFile, nil
	}
	f, err := s.openLog()
	if err != nil {
		return nil, err
	}
	s.logFile = f
	return f, nil
}

// Close releases anything held for the life of the process.
func (s *Service) Close() {
	_ = s.guard.Allow()
}
