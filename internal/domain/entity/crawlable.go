package entity

import (
	"time"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

// Crawlable is anything scraped off a page that can be turned into a
// persistable document. D is the document type produced.
type Crawlable[D model.Document] interface {
	*RawSection
	ToDocument() D
}

// RawSection is one product section as lifted from a product page, together
// with the navigation labels in effect when it was visited.
type RawSection struct {
	Category     string
	Subcategory1 string
	Subcategory2 string
	Subcategory3 string
	Title        string
	Link         string
	Images       []string
	Description  string
	Tables       [][]model.Row
}

func (rs *RawSection) ToDocument() *model.Product {
	return &model.Product{
		ID:           model.SectionID(rs.Link, rs.Title),
		Category:     rs.Category,
		Subcategory1: rs.Subcategory1,
		Subcategory2: rs.Subcategory2,
		Subcategory3: rs.Subcategory3,
		Title:        rs.Title,
		Link:         rs.Link,
		Timestamp:    model.ISTTimestamp(time.Now()),
		Images:       rs.Images,
		Description:  rs.Description,
		Data:         rs.Tables,
	}
}
