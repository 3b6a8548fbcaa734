// Package browser wraps a real browser session behind a small automation
// interface: page loads, a tab stack, blocking waits, clicks and scrolls.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/catalogtools/partcrawler/internal/config"
)

// Browser is one live browser session. Tabs form a stack: OpenTab pushes a
// child tab and makes it current, CloseTab pops back to the parent. All
// waits block with the given timeout.
type Browser interface {
	Navigate(url string) error
	OpenTab(url string) error
	CloseTab() error
	WaitVisible(selector string, timeout time.Duration) error
	Exists(selector string, timeout time.Duration) bool
	OuterHTML(selector string) (string, error)
	Click(selector string) error
	SendKeys(selector, text string) error
	ScrollBottom(selector string) error
	CurrentURL() (string, error)
	Close()
}

// New builds the browser implementation selected by config.
func New(ctx context.Context, cfg *config.Config) (Browser, error) {
	switch cfg.Browser.Engine {
	case "chromedp", "":
		return initChromedpBrowser(ctx, cfg), nil
	case "rod":
		return initRodBrowser(cfg)
	default:
		return nil, fmt.Errorf("unknown browser engine: %s", cfg.Browser.Engine)
	}
}
