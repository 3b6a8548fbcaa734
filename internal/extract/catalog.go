package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CatalogItem is one clickable leaf of the home-page category tree.
type CatalogItem struct {
	Name string
	Link string
}

// Subcategory groups the items listed under one h2 block of a category.
type Subcategory struct {
	Name  string
	Items []CatalogItem
}

// Category is one top-level home-page category.
type Category struct {
	Name          string
	Subcategories []Subcategory
}

// TypeLink is one product anchor on a types-index page.
type TypeLink struct {
	GroupName   string
	Title       string
	Link        string
	Image       string
	Description string
}

// SubcatTile is one tile on a subcategory-index page.
type SubcatTile struct {
	Title        string
	Link         string
	Image        string
	Description  string
	ProductCount string
}

// Categories parses the home-page category tree. Categories with an empty
// heading and items without a link are skipped.
func Categories(doc *goquery.Document, base *url.URL) []Category {
	var cats []Category
	doc.Find("#HomePageContent .catg").Each(func(_ int, catg *goquery.Selection) {
		name := strings.TrimSpace(catg.Find("h1").First().Text())
		if name == "" {
			return
		}
		cat := Category{Name: name}
		catg.Find(".subcat").Each(func(_ int, sub *goquery.Selection) {
			sc := Subcategory{Name: strings.TrimSpace(sub.Find("h2").First().Text())}
			sub.Find("li").Each(func(_ int, li *goquery.Selection) {
				href, ok := li.Find("a").First().Attr("href")
				if !ok {
					return
				}
				sc.Items = append(sc.Items, CatalogItem{
					Name: strings.TrimSpace(li.Text()),
					Link: resolveLink(base, href),
				})
			})
			cat.Subcategories = append(cat.Subcategories, sc)
		})
		cats = append(cats, cat)
	})
	return cats
}

// TypeLinks parses the product anchors of a types-index page, grouped under
// their h3 headings.
func TypeLinks(doc *goquery.Document, base *url.URL) []TypeLink {
	var links []TypeLink
	doc.Find(selTypeGroup).Each(func(_ int, group *goquery.Selection) {
		groupName := strings.TrimSpace(group.Find("h3").First().Text())
		group.Find("a").Each(func(_ int, a *goquery.Selection) {
			href, ok := a.Attr("href")
			if !ok {
				return
			}
			tl := TypeLink{
				GroupName:   groupName,
				Title:       strings.TrimSpace(a.Find(".ke").First().Text()),
				Link:        resolveLink(base, href),
				Description: strings.TrimSpace(a.Find(".PrsnttnCpy").First().Text()),
			}
			if src, ok := a.Find("img").First().Attr("src"); ok {
				tl.Image = strings.TrimSpace(src)
			}
			links = append(links, tl)
		})
	})
	return links
}

// SubcatTiles parses the tiles of a subcategory-index page. The tile layout
// uses generated class names, so matching is by class prefix.
func SubcatTiles(doc *goquery.Document, base *url.URL) []SubcatTile {
	var tiles []SubcatTile
	doc.Find(selRenderedContent + " a").Each(func(_ int, a *goquery.Selection) {
		href, ok := a.Attr("href")
		if !ok {
			return
		}
		tile := SubcatTile{
			Link:         resolveLink(base, href),
			Title:        strings.TrimSpace(a.Find("div[class^='TileLayout_titleContainer']").First().Text()),
			Description:  strings.TrimSpace(a.Find("div[class^='TileLayout_copyContainer']").First().Text()),
			ProductCount: strings.TrimSpace(a.Find("div[class^='ProductCount_productCount']").First().Text()),
		}
		if src, ok := a.Find("div[class^='TileLayout_imageContainer'] img").First().Attr("src"); ok {
			tile.Image = strings.TrimSpace(src)
		}
		if tile.Title == "" {
			return
		}
		tiles = append(tiles, tile)
	})
	return tiles
}

func resolveLink(base *url.URL, href string) string {
	if base == nil {
		return href
	}
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return href
	}
	return base.ResolveReference(ref).String()
}
