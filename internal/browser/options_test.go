// internal/browser/options_test.go
package browser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/chromedp/chromedp"
	"github.com/stretchr/testify/assert"

	"github.com/bzzzm/ghiseul-monitor/internal/config"
)

// hasOption checks for the presence of an option by inspecting its string
// representation. A pragmatic way to test the options without a browser
// dependency.
func hasOption(opts []chromedp.ExecAllocatorOption, substring string) bool {
	for _, opt := range opts {
		if strings.Contains(fmt.Sprintf("%#v", opt), substring) {
			return true
		}
	}
	return false
}

func TestAllocatorOptions(t *testing.T) {
	cfg := config.BrowserConfig{
		Headless:     true,
		DataDir:      "/tmp/chrome",
		WindowWidth:  1920,
		WindowHeight: 1080,
	}
	opts := AllocatorOptions(cfg)

	assert.True(t, hasOption(opts, "user-data-dir"))
	assert.True(t, hasOption(opts, "no-sandbox"))
	assert.True(t, hasOption(opts, "disable-gpu"))
	assert.True(t, hasOption(opts, "disable-dev-shm-usage"))
	assert.True(t, hasOption(opts, "window-size"))
	assert.NotEmpty(t, opts)
}

func TestIDSelector(t *testing.T) {
	// Institution ids on the portal are bare numbers, which "#id" syntax
	// cannot address.
	assert.Equal(t, `[id="123"]`, idSelector("123"))
	assert.Equal(t, `[id="showDebiteBtn_123"]`, idSelector("showDebiteBtn_123"))
	assert.Equal(t, `[id="login"]`, idSelector("login"))
}
