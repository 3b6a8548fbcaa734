package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/catalogtools/partcrawler/internal/config"
)

type chromedpTab struct {
	ctx    context.Context
	cancel context.CancelFunc
}

type chromedpBrowser struct {
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabs        []chromedpTab
}

func initChromedpBrowser(ctx context.Context, cfg *config.Config) Browser {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Browser.Headless),
		chromedp.Flag("disable-blink-features", cfg.Browser.DisableBlinkFeatures),
		chromedp.Flag("incognito", cfg.Browser.Incognito),
		chromedp.Flag("disable-dev-shm-usage", cfg.Browser.DisableDevShmUsage),
		chromedp.Flag("no-sandbox", cfg.Browser.NoSandbox),
		chromedp.Flag("disable-popup-blocking", true),
	)
	if cfg.Browser.UserDataDir != "" {
		opts = append(opts, chromedp.UserDataDir(cfg.Browser.UserDataDir))
	}
	if cfg.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(cfg.Browser.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	return &chromedpBrowser{
		allocCtx:    allocCtx,
		allocCancel: allocCancel,
		tabs:        []chromedpTab{{ctx: tabCtx, cancel: tabCancel}},
	}
}

func (cb *chromedpBrowser) current() context.Context {
	return cb.tabs[len(cb.tabs)-1].ctx
}

func (cb *chromedpBrowser) Navigate(url string) error {
	return chromedp.Run(cb.current(),
		network.Enable(),
		chromedp.Navigate(url),
	)
}

// OpenTab creates a child tab of the current one, navigates it and makes it
// current.
func (cb *chromedpBrowser) OpenTab(url string) error {
	tabCtx, tabCancel := chromedp.NewContext(cb.current())
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		chromedp.Navigate(url),
	); err != nil {
		tabCancel()
		return fmt.Errorf("failed to open tab for %s: %w", url, err)
	}
	cb.tabs = append(cb.tabs, chromedpTab{ctx: tabCtx, cancel: tabCancel})
	return nil
}

func (cb *chromedpBrowser) CloseTab() error {
	if len(cb.tabs) <= 1 {
		return fmt.Errorf("cannot close the root tab")
	}
	top := cb.tabs[len(cb.tabs)-1]
	top.cancel()
	cb.tabs = cb.tabs[:len(cb.tabs)-1]
	return nil
}

func (cb *chromedpBrowser) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(cb.current(), timeout)
	defer cancel()
	return chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
}

func (cb *chromedpBrowser) Exists(selector string, timeout time.Duration) bool {
	return cb.WaitVisible(selector, timeout) == nil
}

func (cb *chromedpBrowser) OuterHTML(selector string) (string, error) {
	var html string
	err := chromedp.Run(cb.current(), chromedp.OuterHTML(selector, &html, chromedp.ByQuery))
	if err != nil {
		return "", fmt.Errorf("failed to read outer html of %s: %w", selector, err)
	}
	return html, nil
}

func (cb *chromedpBrowser) Click(selector string) error {
	return chromedp.Run(cb.current(), chromedp.Click(selector, chromedp.ByQuery))
}

func (cb *chromedpBrowser) SendKeys(selector, text string) error {
	return chromedp.Run(cb.current(), chromedp.SendKeys(selector, text, chromedp.ByQuery))
}

// ScrollBottom scrolls the selected container to its full height so lazy
// content loads.
func (cb *chromedpBrowser) ScrollBottom(selector string) error {
	js := fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (el) { el.scrollTop = el.scrollHeight; }
		window.scrollTo({top: document.body.scrollHeight});
	})()`, selector)
	return chromedp.Run(cb.current(), chromedp.Evaluate(js, nil))
}

func (cb *chromedpBrowser) CurrentURL() (string, error) {
	var url string
	if err := chromedp.Run(cb.current(), chromedp.Location(&url)); err != nil {
		return "", err
	}
	return url, nil
}

func (cb *chromedpBrowser) Close() {
	for i := len(cb.tabs) - 1; i >= 0; i-- {
		cb.tabs[i].cancel()
	}
	cb.allocCancel()
}
