// internal/browser/options.go
package browser

import (
	"fmt"
	"strconv"

	"github.com/chromedp/chromedp"

	"github.com/bzzzm/ghiseul-monitor/internal/config"
)

// AllocatorOptions builds the Chrome exec allocator options for a monitor
// session. The user data dir keeps cookies between runs so a persistent
// driver can skip the sign-in flow once authenticated.
func AllocatorOptions(cfg config.BrowserConfig) []chromedp.ExecAllocatorOption {
	return append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.UserDataDir(cfg.DataDir),
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.WindowSize(cfg.WindowWidth, cfg.WindowHeight),
	)
}

// idSelector turns a DOM id into a CSS attribute selector. The portal uses
// bare numeric ids for institution accordions, which "#id" syntax cannot
// address.
func idSelector(id string) string {
	return fmt.Sprintf("[id=%s]", strconv.Quote(id))
}
