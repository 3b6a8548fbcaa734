// Package scraper walks the catalog hierarchy with a live browser session:
// category -> subcategory -> item -> (classify) -> recurse or extract ->
// persist. The walk is sequential; child pages open in a new tab that is
// closed before the parent resumes.
package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/catalogtools/partcrawler/internal/config"
	"github.com/catalogtools/partcrawler/internal/domain/entity"
	"github.com/catalogtools/partcrawler/internal/extract"
	"github.com/catalogtools/partcrawler/internal/infra/browser"
	"github.com/catalogtools/partcrawler/internal/skiplist"
)

const (
	selLoginLink       = "#LoginUsrCtrlWebPart_LoginLnk"
	selLoginEmail      = "#Email"
	selLoginPassword   = "#Password"
	selLoginSubmit     = "input[class^='FormButton_primaryButton']"
	selMainContent     = "#MainContent"
	selHomeContent     = "#HomePageContent"
	selDataProtection  = "#ProdDatProtectionWebPart_MainContentCntnr"
	selProdPageContent = "#ProdPageContent"
	selPageContainer   = "#PageCntnr"
)

// navContext carries the labels stamped onto persisted records. It has no
// lifecycle of its own.
type navContext struct {
	category string
	subcat1  string
	subcat2  string
	subcat3  string
}

type Scraper struct {
	browser browser.Browser
	store   Store
	skip    *skiplist.SkipList
	log     *logrus.Logger
	cfg     *config.Config
	baseURL *url.URL

	waitTimeout  time.Duration // long waits on page landmarks
	probeTimeout time.Duration // access-restriction probe window
	settle       time.Duration // fixed grace substituting for readiness signals
	pageLoad     time.Duration // initial page-load grace
	pacing       time.Duration // pause between sibling visits
}

func InitScraper(b browser.Browser, store Store, skip *skiplist.SkipList, cfg *config.Config, log *logrus.Logger) (*Scraper, error) {
	base, err := url.Parse(cfg.Site.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url %s: %w", cfg.Site.BaseURL, err)
	}
	return &Scraper{
		browser:      b,
		store:        store,
		skip:         skip,
		log:          log,
		cfg:          cfg,
		baseURL:      base,
		waitTimeout:  time.Duration(cfg.Browser.WaitTimeout) * time.Second,
		probeTimeout: time.Duration(cfg.Browser.ProbeTimeout) * time.Second,
		settle:       2 * time.Second,
		pageLoad:     5 * time.Second,
		pacing:       time.Second,
	}, nil
}

// Run walks the whole catalog once. It returns ErrAccessRestricted when the
// site gates a page; every other per-item failure is logged and skipped.
func (s *Scraper) Run(ctx context.Context) error {
	if err := s.browser.Navigate(s.cfg.Site.BaseURL); err != nil {
		return fmt.Errorf("failed to load site: %w", err)
	}
	time.Sleep(s.pageLoad)

	if s.cfg.Site.LoginEnabled {
		if err := s.login(); err != nil {
			return fmt.Errorf("login failed: %w", err)
		}
		s.log.Info("successfully logged in")
	}

	if err := s.browser.WaitVisible(selHomeContent, s.waitTimeout); err != nil {
		return fmt.Errorf("home page content never rendered: %w", err)
	}
	html, err := s.browser.OuterHTML(selHomeContent)
	if err != nil {
		return err
	}
	doc, err := extract.Parse(html)
	if err != nil {
		return err
	}

	categories := extract.Categories(doc, s.baseURL)
	s.log.Infof("found %d categories", len(categories))
	s.log.Infof("current skip list has %d items", s.skip.Len())

	for _, cat := range categories {
		s.log.Infof("processing category: %s", cat.Name)
		for _, sub := range cat.Subcategories {
			s.log.Infof(" processing subcategory 1: %s", sub.Name)
			for _, item := range sub.Items {
				if err := ctx.Err(); err != nil {
					return err
				}

				skipKey := cat.Name + "/" + item.Name
				if s.skip.Contains(skipKey) {
					s.log.Infof("  skipping %s - found in skip list", skipKey)
					continue
				}

				nav := navContext{category: cat.Name, subcat1: sub.Name, subcat2: item.Name}
				if err := s.visitItem(ctx, nav, item); err != nil {
					if errors.Is(err, ErrAccessRestricted) {
						return err
					}
					s.log.Errorf("  error processing item %s: %+v", item.Name, err)
					continue
				}

				if err := s.skip.Add(skipKey); err != nil {
					s.log.Errorf("  failed to update skip list: %v", err)
				}
				time.Sleep(s.pacing)
			}
		}
	}
	return nil
}

// visitItem opens the item in a child tab, classifies it and dispatches.
func (s *Scraper) visitItem(ctx context.Context, nav navContext, item extract.CatalogItem) error {
	s.log.Infof("  processing item: %s (%s)", item.Name, item.Link)

	if err := s.browser.OpenTab(item.Link); err != nil {
		return err
	}
	defer s.closeTab()

	if s.restricted() {
		return ErrAccessRestricted
	}

	doc, err := s.snapshot()
	if err != nil {
		return err
	}

	switch {
	case extract.HasTable(doc):
		s.log.Info("   [table page detected]")
		return s.scrapeProductPage(ctx, nav)
	case extract.IsSubcatIndexPage(doc):
		s.log.Info("   [subcategory index page detected]")
		return s.walkSubcatIndex(ctx, nav, doc)
	case extract.IsTypesIndexPage(doc):
		s.log.Info("   [types index page detected]")
		return s.walkTypesIndex(ctx, nav, doc)
	default:
		s.log.Warnf("   [unhandled page encountered: %s]", item.Link)
		return nil
	}
}

// walkSubcatIndex visits every tile of a subcategory-index page. The tile
// title becomes subcategory 3 on records found beneath it.
func (s *Scraper) walkSubcatIndex(ctx context.Context, nav navContext, doc *goquery.Document) error {
	tiles := extract.SubcatTiles(doc, s.baseURL)
	s.log.Infof("found %d subcategory items to process", len(tiles))

	for i, tile := range tiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.log.Infof("   processing item %d/%d: %s (%s products)", i+1, len(tiles), tile.Title, tile.ProductCount)
		if s.skip.Contains(tile.Title) {
			s.log.Infof("   skipping %s - found in skip list", tile.Title)
			continue
		}

		if err := s.visitTile(ctx, nav, tile); err != nil {
			if errors.Is(err, ErrAccessRestricted) {
				return err
			}
			s.log.Errorf("   error processing subcategory item %s: %+v", tile.Title, err)
			continue
		}

		if err := s.skip.Add(tile.Title); err != nil {
			s.log.Errorf("   failed to update skip list: %v", err)
		}
		time.Sleep(s.pacing)
	}
	return nil
}

func (s *Scraper) visitTile(ctx context.Context, nav navContext, tile extract.SubcatTile) error {
	if err := s.browser.OpenTab(tile.Link); err != nil {
		return err
	}
	defer s.closeTab()

	if s.restricted() {
		return ErrAccessRestricted
	}

	doc, err := s.snapshot()
	if err != nil {
		return err
	}

	nav.subcat3 = tile.Title
	switch {
	case extract.HasTable(doc), extract.IsProductPage(doc):
		s.log.Info("   [product page detected]")
		return s.scrapeProductPage(ctx, nav)
	case extract.IsTypesIndexPage(doc):
		s.log.Info("   [types index page detected]")
		return s.walkTypesIndex(ctx, nav, doc)
	default:
		s.log.Warnf("   [unhandled page encountered: %s]", tile.Link)
		return nil
	}
}

// walkTypesIndex visits every product anchor of a types-index page. Links
// already present in the store are never reopened.
func (s *Scraper) walkTypesIndex(ctx context.Context, nav navContext, doc *goquery.Document) error {
	links := extract.TypeLinks(doc, s.baseURL)
	s.log.Infof("found %d products across type groups", len(links))

	for i, tl := range links {
		if err := ctx.Err(); err != nil {
			return err
		}

		s.log.Infof("    product %d/%d: %s", i+1, len(links), tl.Title)
		if s.skip.Contains(tl.Title) {
			s.log.Infof("    skipping %s - found in skip list", tl.Title)
			continue
		}

		exists, err := s.store.ExistsByLink(ctx, tl.Link)
		if err != nil {
			s.log.Errorf("    existence check failed for %s: %v", tl.Link, err)
			continue
		}
		if exists {
			s.log.Info("    [already scraped - skipping]")
			if err := s.skip.Add(tl.Title); err != nil {
				s.log.Errorf("    failed to update skip list: %v", err)
			}
			continue
		}

		if err := s.visitProduct(ctx, nav, tl.Link); err != nil {
			if errors.Is(err, ErrAccessRestricted) {
				return err
			}
			s.log.Errorf("    error processing product %s: %+v", tl.Title, err)
			continue
		}
		time.Sleep(s.pacing)
	}
	return nil
}

func (s *Scraper) visitProduct(ctx context.Context, nav navContext, link string) error {
	if err := s.browser.OpenTab(link); err != nil {
		return err
	}
	defer s.closeTab()

	if s.restricted() {
		return ErrAccessRestricted
	}
	return s.scrapeProductPage(ctx, nav)
}

// scrapeProductPage extracts every section of the current product page and
// persists one record per section.
func (s *Scraper) scrapeProductPage(ctx context.Context, nav navContext) error {
	link, err := s.browser.CurrentURL()
	if err != nil {
		return err
	}

	if err := s.browser.WaitVisible(selProdPageContent, s.waitTimeout); err != nil {
		return fmt.Errorf("product page content never rendered: %w", err)
	}
	if err := s.browser.ScrollBottom(selProdPageContent); err != nil {
		s.log.Warnf("failed to scroll product page: %v", err)
	}
	time.Sleep(s.settle)

	html, err := s.browser.OuterHTML(selPageContainer)
	if err != nil {
		return fmt.Errorf("failed to locate %s: %w", selPageContainer, err)
	}
	doc, err := extract.Parse(html)
	if err != nil {
		return err
	}

	sections := extract.ProductSections(doc)
	s.log.Infof("found %d sections to process", len(sections))

	for _, sec := range sections {
		raw := &entity.RawSection{
			Category:     nav.category,
			Subcategory1: nav.subcat1,
			Subcategory2: nav.subcat2,
			Subcategory3: nav.subcat3,
			Title:        sec.Title,
			Link:         link,
			Images:       sec.Images,
			Description:  sec.Description,
			Tables:       sec.Tables,
		}
		if err := s.store.InsertProduct(ctx, raw.ToDocument()); err != nil {
			s.log.Errorf("failed to save %s: %+v", sec.Title, err)
			continue
		}
		s.log.Infof("successfully saved: %s", sec.Title)

		if sec.Title != "" {
			if err := s.skip.Add(sec.Title); err != nil {
				s.log.Errorf("failed to update skip list: %v", err)
			}
		}
	}
	return nil
}

// login clicks through the credential form on the home page.
func (s *Scraper) login() error {
	if err := s.browser.WaitVisible(selLoginLink, s.waitTimeout); err != nil {
		return err
	}
	if err := s.browser.Click(selLoginLink); err != nil {
		return err
	}
	if err := s.browser.WaitVisible(selLoginEmail, s.waitTimeout); err != nil {
		return err
	}
	if err := s.browser.SendKeys(selLoginEmail, s.cfg.Site.CredEmail); err != nil {
		return err
	}
	if err := s.browser.SendKeys(selLoginPassword, s.cfg.Site.CredPass); err != nil {
		return err
	}
	if err := s.browser.Click(selLoginSubmit); err != nil {
		return err
	}
	time.Sleep(s.pageLoad)
	return nil
}

// restricted probes for the data-protection landmark; a page that never
// renders it within the probe window is treated as gated.
func (s *Scraper) restricted() bool {
	return !s.browser.Exists(selDataProtection, s.probeTimeout)
}

// snapshot waits for the main content landmark, lets the page settle, and
// parses the full page HTML.
func (s *Scraper) snapshot() (*goquery.Document, error) {
	time.Sleep(s.settle)
	if err := s.browser.WaitVisible(selMainContent, s.waitTimeout); err != nil {
		return nil, fmt.Errorf("main content never rendered: %w", err)
	}
	html, err := s.browser.OuterHTML("html")
	if err != nil {
		return nil, err
	}
	return extract.Parse(html)
}

func (s *Scraper) closeTab() {
	if err := s.browser.CloseTab(); err != nil {
		s.log.Errorf("failed to close tab: %v", err)
	}
}
