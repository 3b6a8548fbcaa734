package browser

import (
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"

	"github.com/catalogtools/partcrawler/internal/config"
)

// rodBrowser drives Chrome through go-rod. Every tab is created through the
// stealth helper, which patches the automation fingerprints the site gates
// on.
type rodBrowser struct {
	browser *rod.Browser
	pages   []*rod.Page
}

func initRodBrowser(cfg *config.Config) (Browser, error) {
	l := launcher.New().
		Headless(cfg.Browser.Headless).
		NoSandbox(cfg.Browser.NoSandbox)
	if cfg.Browser.DisableDevShmUsage {
		l = l.Set("disable-dev-shm-usage")
	}
	if cfg.Browser.Incognito {
		l = l.Set("incognito")
	}
	if cfg.Browser.DisableBlinkFeatures != "" {
		l = l.Set("disable-blink-features", cfg.Browser.DisableBlinkFeatures)
	}
	if cfg.Browser.UserDataDir != "" {
		l = l.UserDataDir(cfg.Browser.UserDataDir)
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	b := rod.New().ControlURL(url)
	if err := b.Connect(); err != nil {
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	page, err := stealth.Page(b)
	if err != nil {
		return nil, fmt.Errorf("failed to create stealth page: %w", err)
	}

	return &rodBrowser{browser: b, pages: []*rod.Page{page}}, nil
}

func (rb *rodBrowser) current() *rod.Page {
	return rb.pages[len(rb.pages)-1]
}

func (rb *rodBrowser) Navigate(url string) error {
	if err := rb.current().Navigate(url); err != nil {
		return fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	return rb.current().WaitLoad()
}

func (rb *rodBrowser) OpenTab(url string) error {
	page, err := stealth.Page(rb.browser)
	if err != nil {
		return fmt.Errorf("failed to create stealth page: %w", err)
	}
	if err := page.Navigate(url); err != nil {
		page.Close()
		return fmt.Errorf("failed to open tab for %s: %w", url, err)
	}
	if err := page.WaitLoad(); err != nil {
		page.Close()
		return err
	}
	rb.pages = append(rb.pages, page)
	return nil
}

func (rb *rodBrowser) CloseTab() error {
	if len(rb.pages) <= 1 {
		return fmt.Errorf("cannot close the root tab")
	}
	top := rb.current()
	rb.pages = rb.pages[:len(rb.pages)-1]
	return top.Close()
}

func (rb *rodBrowser) WaitVisible(selector string, timeout time.Duration) error {
	el, err := rb.current().Timeout(timeout).Element(selector)
	if err != nil {
		return err
	}
	return el.WaitVisible()
}

func (rb *rodBrowser) Exists(selector string, timeout time.Duration) bool {
	return rb.WaitVisible(selector, timeout) == nil
}

func (rb *rodBrowser) OuterHTML(selector string) (string, error) {
	el, err := rb.current().Element(selector)
	if err != nil {
		return "", fmt.Errorf("failed to find %s: %w", selector, err)
	}
	return el.HTML()
}

func (rb *rodBrowser) Click(selector string) error {
	el, err := rb.current().Element(selector)
	if err != nil {
		return err
	}
	return el.Click(proto.InputMouseButtonLeft, 1)
}

func (rb *rodBrowser) SendKeys(selector, text string) error {
	el, err := rb.current().Element(selector)
	if err != nil {
		return err
	}
	return el.Input(text)
}

func (rb *rodBrowser) ScrollBottom(selector string) error {
	_, err := rb.current().Eval(`(sel) => {
		const el = document.querySelector(sel);
		if (el) { el.scrollTop = el.scrollHeight; }
		window.scrollTo({top: document.body.scrollHeight});
	}`, selector)
	return err
}

func (rb *rodBrowser) CurrentURL() (string, error) {
	info, err := rb.current().Info()
	if err != nil {
		return "", err
	}
	return info.URL, nil
}

func (rb *rodBrowser) Close() {
	rb.browser.Close()
}
