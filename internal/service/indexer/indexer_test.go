package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalogtools/partcrawler/internal/domain/model"
)

type fakeSource struct {
	products []*model.Product
}

func (f *fakeSource) EachProduct(_ context.Context, fn func(*model.Product) error) error {
	for _, p := range f.products {
		if err := fn(p); err != nil {
			return err
		}
	}
	return nil
}

type fakeEs struct {
	created bool
	batches [][]*model.Product
	bulkErr error
}

func (f *fakeEs) GetClient() *elasticsearch.TypedClient { return nil }

func (f *fakeEs) CreateIndexWithMapping(context.Context) error {
	f.created = true
	return nil
}

func (f *fakeEs) DeleteIndex(context.Context) error { return nil }

func (f *fakeEs) BulkIndexDocsWithID(_ context.Context, docs []*model.Product) (int64, error) {
	if f.bulkErr != nil {
		return 0, f.bulkErr
	}
	batch := make([]*model.Product, len(docs))
	copy(batch, docs)
	f.batches = append(f.batches, batch)
	return int64(len(docs)), nil
}

func (f *fakeEs) GetDoc(context.Context, string) (*model.Product, error) { return nil, nil }

func (f *fakeEs) CountDocs(context.Context) (int64, error) { return 0, nil }

func (f *fakeEs) SearchDoc(context.Context, *types.Query, int, int) ([]*model.Product, int64, error) {
	return nil, 0, nil
}

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func sampleProducts(n int) []*model.Product {
	out := make([]*model.Product, n)
	for i := range out {
		out[i] = &model.Product{
			ID:    fmt.Sprintf("id-%d", i),
			Title: fmt.Sprintf("Product %d", i),
		}
	}
	return out
}

func TestRunStreamsStoreInBatches(t *testing.T) {
	esc := &fakeEs{}
	idx := InitIndexer(&fakeSource{products: sampleProducts(5)}, esc, discardLogger())
	idx.batchSize = 2

	indexed, err := idx.Run(context.Background())
	require.NoError(t, err)

	assert.True(t, esc.created)
	assert.Equal(t, int64(5), indexed)
	require.Len(t, esc.batches, 3)
	assert.Len(t, esc.batches[0], 2)
	assert.Len(t, esc.batches[2], 1)
	assert.Equal(t, "id-4", esc.batches[2][0].ID)
}

func TestRunEmptyStore(t *testing.T) {
	esc := &fakeEs{}
	indexed, err := InitIndexer(&fakeSource{}, esc, discardLogger()).Run(context.Background())
	require.NoError(t, err)
	assert.Zero(t, indexed)
	assert.Empty(t, esc.batches)
}

func TestRunPropagatesBulkFailure(t *testing.T) {
	esc := &fakeEs{bulkErr: errors.New("bulk rejected")}
	idx := InitIndexer(&fakeSource{products: sampleProducts(3)}, esc, discardLogger())
	idx.batchSize = 2

	_, err := idx.Run(context.Background())
	require.ErrorContains(t, err, "bulk rejected")
}
