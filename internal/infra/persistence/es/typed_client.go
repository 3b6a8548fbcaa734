package es

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/elastic/go-elasticsearch/v9/esutil"
	"github.com/elastic/go-elasticsearch/v9/typedapi/types"
	"github.com/sirupsen/logrus"

	"github.com/catalogtools/partcrawler/internal/config"
	"github.com/catalogtools/partcrawler/internal/domain/model"
)

type typedEsClient[D model.Document] struct {
	client *elasticsearch.TypedClient
	log    *logrus.Logger
	// schemaDoc only supplies index name and mapping, never data
	schemaDoc D
}

func InitTypedEsClient[D model.Document](cfg *config.Config, log *logrus.Logger) (TypedEsClient[D], error) {
	typedClient, err := elasticsearch.NewTypedClient(elasticsearch.Config{
		Username: cfg.Elasticsearch.Username,
		Password: cfg.Elasticsearch.Password,
		Addresses: []string{
			cfg.Elasticsearch.Address,
		},
		Transport: &http.Transport{
			MaxIdleConnsPerHost:   10,
			ResponseHeaderTimeout: 30 * time.Second,
			IdleConnTimeout:       90 * time.Second,
			// dev clusters run with self-signed certs
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize elasticsearch client: %w", err)
	}
	return &typedEsClient[D]{client: typedClient, log: log}, nil
}

func (tec *typedEsClient[D]) GetClient() *elasticsearch.TypedClient {
	return tec.client
}

func (tec *typedEsClient[D]) CreateIndexWithMapping(ctx context.Context) error {
	index := tec.schemaDoc.GetIndex()
	mapping := tec.schemaDoc.GetTypeMapping()

	exists, err := tec.client.Indices.Exists(index).Do(ctx)
	if err != nil {
		return fmt.Errorf("failed to check index existence: %w", err)
	}
	if exists {
		tec.log.Infof("index %s already exists, skip create", index)
		return nil
	}

	if mapping == nil {
		_, err = tec.client.Indices.Create(index).Do(ctx)
	} else {
		_, err = tec.client.Indices.Create(index).Mappings(mapping).Do(ctx)
	}
	if err != nil {
		return fmt.Errorf("failed to create index %s: %w", index, err)
	}
	return nil
}

func (tec *typedEsClient[D]) DeleteIndex(ctx context.Context) error {
	if _, err := tec.client.Indices.Delete(tec.schemaDoc.GetIndex()).Do(ctx); err != nil {
		return fmt.Errorf("failed to delete index: %w", err)
	}
	return nil
}

// BulkIndexDocsWithID indexes the batch through a bulk indexer and returns
// how many documents went in.
func (tec *typedEsClient[D]) BulkIndexDocsWithID(ctx context.Context, docs []D) (int64, error) {
	if len(docs) == 0 {
		return 0, nil
	}
	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Index:         tec.schemaDoc.GetIndex(),
		Client:        tec.client,
		NumWorkers:    2,
		FlushBytes:    5 * 1024 * 1024,
		FlushInterval: 30 * time.Second,
		OnError: func(ctx context.Context, err error) {
			tec.log.Errorf("bulk indexer error: %v", err)
		},
	})
	if err != nil {
		return 0, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for _, doc := range docs {
		data, err := json.Marshal(doc)
		if err != nil {
			tec.log.Errorf("failed to marshal document %s: %v", doc.GetID(), err)
			continue
		}
		err = bi.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: doc.GetID(),
			Body:       bytes.NewReader(data),
			OnFailure: func(ctx context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				if err != nil {
					tec.log.Errorf("failed to index document %s: %v", item.DocumentID, err)
				} else {
					tec.log.Errorf("failed to index document %s: %s", item.DocumentID, res.Error.Reason)
				}
			},
		})
		if err != nil {
			tec.log.Errorf("failed to add document %s to bulk indexer: %v", doc.GetID(), err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return 0, fmt.Errorf("failed to flush bulk indexer: %w", err)
	}
	stats := bi.Stats()
	if stats.NumFailed > 0 {
		tec.log.Warnf("bulk indexing finished with %d failures", stats.NumFailed)
	}
	return int64(stats.NumIndexed), nil
}

func (tec *typedEsClient[D]) GetDoc(ctx context.Context, id string) (D, error) {
	resp, err := tec.client.Get(tec.schemaDoc.GetIndex(), id).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get document %s: %w", id, err)
	}
	if !resp.Found {
		return nil, nil
	}
	var doc D
	if err := json.Unmarshal(resp.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal source: %w", err)
	}
	return doc, nil
}

func (tec *typedEsClient[D]) CountDocs(ctx context.Context) (int64, error) {
	resp, err := tec.client.Count().Index(tec.schemaDoc.GetIndex()).Do(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count documents: %w", err)
	}
	return resp.Count, nil
}

func (tec *typedEsClient[D]) SearchDoc(ctx context.Context, query *types.Query, from, size int) ([]D, int64, error) {
	resp, err := tec.client.Search().
		Index(tec.schemaDoc.GetIndex()).
		Query(query).
		From(from).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, 0, fmt.Errorf("search failed: %w", err)
	}

	results := make([]D, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		var doc D
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		results = append(results, doc)
	}
	return results, resp.Hits.Total.Value, nil
}
