package model

import (
	"crypto/sha1"
	"encoding/hex"
	"time"

	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
)

const ProductIndex = "products"

// Row is one parsed specification-table row, keyed by the reconciled column
// headers plus the carried-over "Property A" (row-group dimension) and
// "Property B" (sticky sub-group label) fields.
type Row map[string]string

// Product is the persisted record for one scraped product section.
// Category and subcategory names are navigation labels threaded through the
// crawl; Link is the uniqueness key.
type Product struct {
	ID           string   `json:"id" bson:"_id,omitempty"`
	Category     string   `json:"category" bson:"category"`
	Subcategory1 string   `json:"subcategory_1" bson:"subcategory_1"`
	Subcategory2 string   `json:"subcategory_2" bson:"subcategory_2"`
	Subcategory3 string   `json:"subcategory_3" bson:"subcategory_3"`
	Title        string   `json:"title" bson:"title"`
	Link         string   `json:"link" bson:"link"`
	Timestamp    string   `json:"timestamp" bson:"timestamp"`
	Images       []string `json:"images" bson:"images"`
	Description  string   `json:"description" bson:"description"`
	Data         [][]Row  `json:"data" bson:"data"`
}

func (p *Product) GetID() string {
	return p.ID
}

func (p *Product) GetIndex() string {
	return ProductIndex
}

func (p *Product) GetTypeMapping() *types.TypeMapping {
	return &types.TypeMapping{
		Properties: map[string]types.Property{
			"category":      types.NewKeywordProperty(),
			"subcategory_1": types.NewKeywordProperty(),
			"subcategory_2": types.NewKeywordProperty(),
			"subcategory_3": types.NewKeywordProperty(),
			"title":         types.NewTextProperty(),
			"link":          types.NewKeywordProperty(),
			"timestamp":     types.NewKeywordProperty(),
			"images":        types.NewKeywordProperty(),
			"description":   types.NewTextProperty(),
			"data":          types.NewFlattenedProperty(),
		},
	}
}

// SectionID derives a stable document id for one product section. A product
// page can carry several sections under the same link, so the section title
// participates in the id.
func SectionID(link, title string) string {
	sum := sha1.Sum([]byte(link + "#" + title))
	return hex.EncodeToString(sum[:])
}

var ist = time.FixedZone("IST", 5*3600+1800)

// ISTTimestamp renders capture time the way the store has always recorded
// it: IST wall clock with a trailing AM/PM marker.
func ISTTimestamp(t time.Time) string {
	return t.In(ist).Format("2006-01-02 15:04:05 PM") + " IST"
}
