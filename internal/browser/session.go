// internal/browser/session.go
package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/bzzzm/ghiseul-monitor/internal/config"
)

// Session wraps a single headless Chrome instance behind the narrow set of
// operations the monitor flows need. All operations are sequential; the
// session is only ever touched by the engine goroutine.
type Session struct {
	logger *zap.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	allocCancel context.CancelFunc

	renderTimeout time.Duration
	closeOnce     sync.Once
}

// NewSession launches a Chrome instance and returns a ready session. The
// browser is started eagerly so a missing or broken Chrome install surfaces
// here instead of in the middle of a cycle.
func NewSession(parent context.Context, cfg config.BrowserConfig, renderTimeout time.Duration, logger *zap.Logger) (*Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(parent, AllocatorOptions(cfg)...)
	ctx, cancel := chromedp.NewContext(allocCtx)

	if err := chromedp.Run(ctx); err != nil {
		cancel()
		allocCancel()
		return nil, fmt.Errorf("failed to start browser: %w", err)
	}

	log := logger.Named("browser")
	log.Debug("Browser session started",
		zap.Bool("headless", cfg.Headless),
		zap.String("data_dir", cfg.DataDir))

	return &Session{
		logger:        log,
		ctx:           ctx,
		cancel:        cancel,
		allocCancel:   allocCancel,
		renderTimeout: renderTimeout,
	}, nil
}

// Navigate loads the given URL and waits for the page load to settle.
func (s *Session) Navigate(ctx context.Context, url string) error {
	s.logger.Debug("Navigating", zap.String("url", url))
	if err := s.run(ctx, 0, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("failed to navigate to %q: %w", url, err)
	}
	return nil
}

// Location returns the URL of the current page.
func (s *Session) Location(ctx context.Context) (string, error) {
	var url string
	if err := s.run(ctx, s.renderTimeout, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("failed to read current location: %w", err)
	}
	return url, nil
}

// WaitVisible blocks until the element with the given DOM id is rendered and
// visible, bounded by the configured render timeout.
func (s *Session) WaitVisible(ctx context.Context, id string) error {
	if err := s.run(ctx, s.renderTimeout, chromedp.WaitVisible(idSelector(id))); err != nil {
		return fmt.Errorf("element %q not visible within %s: %w", id, s.renderTimeout, err)
	}
	return nil
}

// Click clicks the element with the given DOM id.
func (s *Session) Click(ctx context.Context, id string) error {
	if err := s.run(ctx, s.renderTimeout, chromedp.Click(idSelector(id))); err != nil {
		return fmt.Errorf("failed to click %q: %w", id, err)
	}
	return nil
}

// SendKeys types text into the element with the given DOM id.
func (s *Session) SendKeys(ctx context.Context, id, text string) error {
	if err := s.run(ctx, s.renderTimeout, chromedp.SendKeys(idSelector(id), text)); err != nil {
		return fmt.Errorf("failed to fill %q: %w", id, err)
	}
	return nil
}

// Submit submits the form identified by (or containing) the given DOM id.
func (s *Session) Submit(ctx context.Context, id string) error {
	if err := s.run(ctx, s.renderTimeout, chromedp.Submit(idSelector(id))); err != nil {
		return fmt.Errorf("failed to submit %q: %w", id, err)
	}
	return nil
}

// Close shuts the browser down and releases the user data dir. Idempotent.
func (s *Session) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.logger.Debug("Closing browser session")
		// Ask the browser to exit cleanly before tearing the contexts down.
		if err := chromedp.Cancel(s.ctx); err != nil {
			s.logger.Warn("Browser did not close cleanly", zap.Error(err))
		}
		s.cancel()
		s.allocCancel()
	})
	return nil
}

// run executes chromedp actions on the session's browser context, bounded by
// an optional timeout and by the caller's context.
func (s *Session) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	runCtx, cancel := combineContext(s.ctx, ctx)
	defer cancel()

	if timeout > 0 {
		var tcancel context.CancelFunc
		runCtx, tcancel = context.WithTimeout(runCtx, timeout)
		defer tcancel()
	}

	return chromedp.Run(runCtx, actions...)
}

// combineContext derives a context from parent that is also canceled when
// secondary is done. The chromedp target values live on parent, so the
// derived context remains usable with chromedp.Run.
func combineContext(parent, secondary context.Context) (context.Context, context.CancelFunc) {
	combined, cancel := context.WithCancel(parent)
	go func() {
		select {
		case <-secondary.Done():
			cancel()
		case <-combined.Done():
		}
	}()
	return combined, cancel
}
