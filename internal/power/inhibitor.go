// Package power keeps the machine awake while a countdown is running.
//
// A Guard owns at most one platform inhibition handle at a time. Prevent and
// Allow are both idempotent, so the front end can call them on every timer
// state change without tracking what it asked for last.
package power

import (
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
)

// ErrUnsupported is returned by platforms without a sleep inhibition mechanism.
var ErrUnsupported = errors.New("sleep inhibition is not supported on this platform")

// Handle is a held inhibition. Releasing it lets the system sleep again.
type Handle interface {
	Release() error
}

// Inhibitor acquires a handle that blocks display sleep, idle sleep and
// system sleep together.
type Inhibitor interface {
	Acquire(reason string) (Handle, error)
}

// New returns the platform inhibitor. appName is reported to the OS where the
// mechanism supports naming the requester.
func New(appName string) Inhibitor {
	return newInhibitor(appName)
}

// Guard is the single process-wide inhibition slot.
type Guard struct {
	mu        sync.Mutex
	inhibitor Inhibitor
	reason    string
	handle    Handle
	logger    *zap.Logger
}

// NewGuard wraps inhibitor. reason is shown by OS tools that list inhibitors.
func NewGuard(inhibitor Inhibitor, reason string, logger *zap.Logger) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{
		inhibitor: inhibitor,
		reason:    reason,
		logger:    logger,
	}
}

// Prevent acquires an inhibition handle unless one is already held.
func (g *Guard) Prevent() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.handle != nil {
		return nil
	}
	h, err := g.inhibitor.Acquire(g.reason)
	if err != nil {
		return fmt.Errorf("unable to prevent sleep: %w", err)
	}
	g.handle = h
	g.logger.Debug("sleep inhibition acquired")
	return nil
}

// Allow drops the held handle, if any. It always succeeds; a failing platform
// release is logged.
func (g *Guard) Allow() error {
	g.mu.Lock()
	h := g.handle
	g.handle = nil
	g.mu.Unlock()

	if h == nil {
		return nil
	}
	if err := h.Release(); err != nil {
		g.logger.Warn("release sleep inhibition", zap.Error(err))
		return nil
	}
	g.logger.Debug("sleep inhibition released")
	return nil
}

// Active reports whether a handle is currently held.
func (g *Guard) Active() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.handle != nil
}
