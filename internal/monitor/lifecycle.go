// internal/monitor/lifecycle.go
package monitor

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// SessionFactory creates a fresh browser session.
type SessionFactory func(ctx context.Context) (Session, error)

// Lifecycle is the driver-lifecycle policy the engine runs its loop against.
// A persistent lifecycle hands out the same session every cycle and closes
// it only on shutdown; an ephemeral one creates a session per cycle and
// closes it on release, before the engine sleeps.
type Lifecycle interface {
	Acquire(ctx context.Context) (Session, error)
	Release(ctx context.Context, sess Session)
	Shutdown(ctx context.Context)
}

// NewLifecycle selects the lifecycle policy once, at construction.
func NewLifecycle(persistent bool, factory SessionFactory, logger *zap.Logger) Lifecycle {
	if persistent {
		return &persistentLifecycle{factory: factory, logger: logger.Named("lifecycle")}
	}
	return &ephemeralLifecycle{factory: factory, logger: logger.Named("lifecycle")}
}

type persistentLifecycle struct {
	factory SessionFactory
	logger  *zap.Logger

	mu      sync.Mutex
	current Session
}

func (l *persistentLifecycle) Acquire(ctx context.Context) (Session, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current != nil {
		return l.current, nil
	}
	sess, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Created persistent browser session")
	l.current = sess
	return sess, nil
}

// Release keeps the session alive for the next cycle.
func (l *persistentLifecycle) Release(ctx context.Context, sess Session) {}

func (l *persistentLifecycle) Shutdown(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.current == nil {
		return
	}
	if err := l.current.Close(ctx); err != nil {
		l.logger.Warn("Error closing persistent browser session", zap.Error(err))
	}
	l.current = nil
}

type ephemeralLifecycle struct {
	factory SessionFactory
	logger  *zap.Logger
}

func (l *ephemeralLifecycle) Acquire(ctx context.Context) (Session, error) {
	sess, err := l.factory(ctx)
	if err != nil {
		return nil, err
	}
	l.logger.Debug("Created ephemeral browser session")
	return sess, nil
}

func (l *ephemeralLifecycle) Release(ctx context.Context, sess Session) {
	if err := sess.Close(ctx); err != nil {
		l.logger.Warn("Error closing ephemeral browser session", zap.Error(err))
	}
}

// Shutdown has nothing to close: every acquired session is closed on release.
func (l *ephemeralLifecycle) Shutdown(ctx context.Context) {}
