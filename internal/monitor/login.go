// internal/monitor/login.go
package monitor

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bzzzm/ghiseul-monitor/internal/config"
)

// loginFlow signs in to the portal. The procedure:
//
//  1. Visit the login page. If the browser ends up anywhere else we are
//     already authenticated (cookies from the user data dir), so the flow
//     short-circuits as successful.
//  2. Wait for the login form and its input fields to render.
//  3. Fill in the username, click the decoy password field to make the real
//     one interactable, fill in the password. Each fill is paced by a short
//     delay.
//  4. Submit the form.
type loginFlow struct {
	username string
	password string
	delay    time.Duration
	logger   *zap.Logger
}

// NewLoginFlow builds the sign-in flow from the monitor configuration.
func NewLoginFlow(cfg config.MonitorConfig, logger *zap.Logger) Flow {
	return &loginFlow{
		username: cfg.Username,
		password: cfg.Password,
		delay:    shortDelay,
		logger:   logger.Named("login"),
	}
}

func (f *loginFlow) Name() string { return "login" }

func (f *loginFlow) Execute(ctx context.Context, sess Session) (bool, string) {
	if err := sess.Navigate(ctx, loginPage); err != nil {
		f.logger.Error("Navigation to login page failed", zap.Error(err))
		return false, "Could not load login page"
	}

	// An authenticated account gets redirected away from the login page.
	loc, err := sess.Location(ctx)
	if err != nil {
		f.logger.Error("Could not read location after navigation", zap.Error(err))
		return false, "Could not load login page"
	}
	if loc != loginPage {
		f.logger.Warn("Redirected, marking 'login' flow successful and skipping execution",
			zap.String("location", loc))
		return true, ""
	}

	// Find the form and its input fields.
	if err := f.findFields(ctx, sess); err != nil {
		f.logger.Error("Login form lookup failed", zap.Error(err))
		return false, "Could not find login form or input fields"
	}
	f.logger.Debug("Found login form and input fields")

	// Enter username and password with short delays.
	if err := f.fillFields(ctx, sess); err != nil {
		f.logger.Error("Filling login form failed", zap.Error(err))
		return false, "Could not fill in login form"
	}
	f.logger.Debug("Filled in login form")

	if err := sess.Submit(ctx, loginFormID); err != nil {
		f.logger.Error("Submitting login form failed", zap.Error(err))
		return false, "Could not submit login form"
	}
	f.logger.Debug("Submitted login form")

	return true, ""
}

func (f *loginFlow) findFields(ctx context.Context, sess Session) error {
	for _, id := range []string{loginFormID, usernameFieldID, passwordFieldID, passwordDecoyID} {
		if err := sess.WaitVisible(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

func (f *loginFlow) fillFields(ctx context.Context, sess Session) error {
	if err := sess.Click(ctx, usernameFieldID); err != nil {
		return err
	}
	if err := sess.SendKeys(ctx, usernameFieldID, f.username); err != nil {
		return err
	}
	if err := sleep(ctx, f.delay); err != nil {
		return err
	}

	if err := sess.Click(ctx, passwordDecoyID); err != nil {
		return err
	}
	if err := sess.Click(ctx, passwordFieldID); err != nil {
		return err
	}
	if err := sess.SendKeys(ctx, passwordFieldID, f.password); err != nil {
		return err
	}
	return sleep(ctx, f.delay)
}
