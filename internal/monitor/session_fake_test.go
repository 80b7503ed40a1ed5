// internal/monitor/session_fake_test.go
package monitor

import (
	"context"
	"fmt"
	"sync"
)

// fakeSession is an in-memory Session for exercising flows without a
// browser. Failures are injected per operation; every call is recorded in
// order for sequence assertions.
type fakeSession struct {
	mu    sync.Mutex
	calls []string

	// location reported by Location. Navigate sets it to the target URL,
	// or to redirect when that is non-empty.
	location string
	redirect string

	failNavigate error
	failLocation error
	notVisible   map[string]bool
	failClick    map[string]error
	failSendKeys map[string]error
	failSubmit   error

	closed int
}

func newFakeSession() *fakeSession {
	return &fakeSession{
		notVisible:   map[string]bool{},
		failClick:    map[string]error{},
		failSendKeys: map[string]error{},
	}
}

func (f *fakeSession) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeSession) Navigate(ctx context.Context, url string) error {
	f.record("navigate " + url)
	if f.failNavigate != nil {
		return f.failNavigate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.redirect != "" {
		f.location = f.redirect
	} else {
		f.location = url
	}
	return nil
}

func (f *fakeSession) Location(ctx context.Context) (string, error) {
	f.record("location")
	if f.failLocation != nil {
		return "", f.failLocation
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.location, nil
}

func (f *fakeSession) WaitVisible(ctx context.Context, id string) error {
	f.record("wait " + id)
	if f.notVisible[id] {
		return fmt.Errorf("element %q not visible", id)
	}
	return nil
}

func (f *fakeSession) Click(ctx context.Context, id string) error {
	f.record("click " + id)
	if err := f.failClick[id]; err != nil {
		return err
	}
	return nil
}

func (f *fakeSession) SendKeys(ctx context.Context, id, text string) error {
	f.record("keys " + id)
	if err := f.failSendKeys[id]; err != nil {
		return err
	}
	return nil
}

func (f *fakeSession) Submit(ctx context.Context, id string) error {
	f.record("submit " + id)
	return f.failSubmit
}

func (f *fakeSession) Close(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeSession) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}
