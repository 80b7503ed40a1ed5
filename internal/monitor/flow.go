// internal/monitor/flow.go
package monitor

import (
	"context"
	"time"
)

// Pages required by the monitor.
const (
	loginPage = "https://www.ghiseul.ro/ghiseul/public/"
	debitPage = "https://www.ghiseul.ro/ghiseul/public/debite"
)

// Element ids on the portal pages.
const (
	loginFormID     = "login"
	usernameFieldID = "username"
	passwordFieldID = "passwordP"
	// The real password input only becomes interactable after this decoy
	// field is clicked.
	passwordDecoyID = "passwordT"

	showButtonPrefix = "showDebiteBtn_"
	payFormPrefix    = "detalii_"
)

// shortDelay paces form fills to emulate human input timing.
const shortDelay = 500 * time.Millisecond

// Session is the narrow browser-driver boundary the flows run against.
// Implemented by *browser.Session and by test fakes.
type Session interface {
	Navigate(ctx context.Context, url string) error
	Location(ctx context.Context) (string, error)
	WaitVisible(ctx context.Context, id string) error
	Click(ctx context.Context, id string) error
	SendKeys(ctx context.Context, id, text string) error
	Submit(ctx context.Context, id string) error
	Close(ctx context.Context) error
}

// Flow is a single named unit of work against a browser session. Execute
// reports success and, on failure, a human-readable message. Failures never
// surface as errors: they are part of the cycle's snapshot, not faults.
type Flow interface {
	Name() string
	Execute(ctx context.Context, sess Session) (bool, string)
}

// sleep blocks for d or until ctx is done, whichever comes first.
func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
