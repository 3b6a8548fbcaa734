package es

import (
	"context"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

// TypedEsClient is the search-index side of persistence. D carries the
// index name and mapping through model.Document.
type TypedEsClient[D model.Document] interface {
	GetClient() *elasticsearch.TypedClient
	CreateIndexWithMapping(ctx context.Context) error
	DeleteIndex(ctx context.Context) error
	BulkIndexDocsWithID(ctx context.Context, docs []D) (int64, error)
	GetDoc(ctx context.Context, id string) (D, error)
	CountDocs(ctx context.Context) (int64, error)
	SearchDoc(ctx context.Context, query *types.Query, from, size int) ([]D, int64, error)
}
