package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

// Section is one product section lifted from a product page.
type Section struct {
	Title       string
	Images      []string
	Description string
	Tables      [][]model.Row
}

// ProductSections parses the sections of a product page snapshot. Ad
// sections (class "ap") are skipped. A section without tables still comes
// back with a single informational marker row, so persisted records always
// carry a data field.
func ProductSections(doc *goquery.Document) []Section {
	var sections []Section
	doc.Find(selPageContainer + " section").Each(func(_ int, sec *goquery.Selection) {
		if class, _ := sec.Attr("class"); strings.TrimSpace(class) == "ap" {
			return
		}

		s := Section{
			Title:       strings.TrimSpace(sec.Find("h3").First().Text()),
			Description: strings.TrimSpace(sec.Find(".CpyCntnr").First().Text()),
			Images:      imageLinks(sec),
			Tables:      Tables(sec),
		}
		if len(s.Tables) == 0 {
			s.Tables = [][]model.Row{{{"info": "No table data found on this page"}}}
		}
		sections = append(sections, s)
	})
	return sections
}

// imageLinks collects the distinct non-empty image sources of a section,
// preserving document order.
func imageLinks(sec *goquery.Selection) []string {
	seen := make(map[string]struct{})
	var links []string
	sec.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok {
			return
		}
		src = strings.TrimSpace(src)
		if src == "" {
			return
		}
		if _, dup := seen[src]; dup {
			return
		}
		seen[src] = struct{}{}
		links = append(links, src)
	})
	return links
}
