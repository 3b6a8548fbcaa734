package scraper

import (
	"context"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

// Store is the slice of the document store the walk needs: insert, and the
// link-existence check that enforces uniqueness.
type Store interface {
	InsertProduct(ctx context.Context, p *model.Product) error
	ExistsByLink(ctx context.Context, link string) (bool, error)
}
