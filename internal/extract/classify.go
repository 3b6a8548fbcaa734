package extract

import "github.com/PuerkitoBio/goquery"

// Page-type landmarks. Each page kind is recognized by the presence or
// absence of a DOM landmark; the dispatch order at each call site decides
// precedence when several landmarks coexist.
const (
	selPageContainer   = "#PageCntnr"
	selProductPage     = "#ProductPage"
	selTypeGroup       = ".GroupPrsnttn"
	selRenderedContent = "#ClientRenderedContentWebPart"
)

// HasTable reports whether the snapshot carries any specification table.
func HasTable(doc *goquery.Document) bool {
	return doc.Find("table").Length() > 0
}

// IsProductPage reports whether the snapshot looks like a product page:
// a page container without type groups, or an explicit product marker.
func IsProductPage(doc *goquery.Document) bool {
	container := doc.Find(selPageContainer)
	if container.Length() == 0 {
		return false
	}
	if container.Find(selTypeGroup).Length() == 0 {
		return true
	}
	return doc.Find(selProductPage).Length() > 0
}

// IsTypesIndexPage reports whether the snapshot is a product-type index.
func IsTypesIndexPage(doc *goquery.Document) bool {
	return doc.Find(selTypeGroup).Length() > 0
}

// IsSubcatIndexPage reports whether the snapshot is a subcategory index.
func IsSubcatIndexPage(doc *goquery.Document) bool {
	return doc.Find(selRenderedContent).Length() > 0
}
