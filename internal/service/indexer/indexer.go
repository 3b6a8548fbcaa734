// Package indexer mirrors the document store into the search index. A
// producer goroutine streams stored products into a channel while a consumer
// bulk-indexes them in batches.
package indexer

import (
	"context"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/catalogtools/partcrawler/internal/domain/model"
	"github.com/catalogtools/partcrawler/internal/infra/persistence/es"
)

const defaultBatchSize = 500

// ProductSource streams every stored product through fn.
type ProductSource interface {
	EachProduct(ctx context.Context, fn func(*model.Product) error) error
}

type Indexer struct {
	source    ProductSource
	es        es.TypedEsClient[*model.Product]
	log       *logrus.Logger
	batchSize int
}

func InitIndexer(source ProductSource, esClient es.TypedEsClient[*model.Product], log *logrus.Logger) *Indexer {
	return &Indexer{
		source:    source,
		es:        esClient,
		log:       log,
		batchSize: defaultBatchSize,
	}
}

// Run ensures the index exists, then streams the store into it. It returns
// the number of documents indexed.
func (i *Indexer) Run(ctx context.Context) (int64, error) {
	if err := i.es.CreateIndexWithMapping(ctx); err != nil {
		return 0, err
	}

	docs := make(chan *model.Product, i.batchSize)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(docs)
		return i.source.EachProduct(ctx, func(p *model.Product) error {
			select {
			case docs <- p:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	})

	var indexed int64
	g.Go(func() error {
		batch := make([]*model.Product, 0, i.batchSize)
		flush := func() error {
			if len(batch) == 0 {
				return nil
			}
			n, err := i.es.BulkIndexDocsWithID(ctx, batch)
			if err != nil {
				return err
			}
			indexed += n
			i.log.Infof("indexed batch of %d (total %d)", len(batch), indexed)
			batch = batch[:0]
			return nil
		}

		for p := range docs {
			batch = append(batch, p)
			if len(batch) >= i.batchSize {
				if err := flush(); err != nil {
					return err
				}
			}
		}
		return flush()
	})

	if err := g.Wait(); err != nil {
		return indexed, err
	}
	i.log.Infof("search index mirror complete: %d documents", indexed)
	return indexed, nil
}
