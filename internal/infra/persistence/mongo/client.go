// Package mongo is the document store for scraped products. Uniqueness is
// by product link: callers check ExistsByLink before visiting a page.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/catalogtools/partcrawler/internal/config"
	"github.com/catalogtools/partcrawler/internal/domain/model"
)

type Client struct {
	client     *mongo.Client
	db         *mongo.Database
	collection *mongo.Collection
}

// InitClient connects, pings, and binds the configured database/collection.
func InitClient(ctx context.Context, cfg *config.Config) (*Client, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	db := client.Database(cfg.Mongo.Database)
	return &Client{
		client:     client,
		db:         db,
		collection: db.Collection(cfg.Mongo.Collection),
	}, nil
}

func (c *Client) InsertProduct(ctx context.Context, p *model.Product) error {
	if _, err := c.collection.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to insert product %s: %w", p.Link, err)
	}
	return nil
}

func (c *Client) FindByLink(ctx context.Context, link string) (*model.Product, error) {
	var p model.Product
	err := c.collection.FindOne(ctx, bson.M{"link": link}).Decode(&p)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find product by link: %w", err)
	}
	return &p, nil
}

func (c *Client) ExistsByLink(ctx context.Context, link string) (bool, error) {
	p, err := c.FindByLink(ctx, link)
	if err != nil {
		return false, err
	}
	return p != nil, nil
}

// EachProduct streams every stored product through fn. A non-nil error from
// fn stops the iteration.
func (c *Client) EachProduct(ctx context.Context, fn func(*model.Product) error) error {
	cursor, err := c.collection.Find(ctx, bson.M{})
	if err != nil {
		return fmt.Errorf("failed to open product cursor: %w", err)
	}
	defer cursor.Close(ctx)

	for cursor.Next(ctx) {
		var p model.Product
		if err := cursor.Decode(&p); err != nil {
			return fmt.Errorf("failed to decode product: %w", err)
		}
		if err := fn(&p); err != nil {
			return err
		}
	}
	return cursor.Err()
}

// Links returns the distinct product links in the store.
func (c *Client) Links(ctx context.Context) ([]string, error) {
	values, err := c.collection.Distinct(ctx, "link", bson.M{})
	if err != nil {
		return nil, fmt.Errorf("failed to list product links: %w", err)
	}
	links := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok && s != "" {
			links = append(links, s)
		}
	}
	return links, nil
}

func (c *Client) Count(ctx context.Context) (int64, error) {
	return c.collection.CountDocuments(ctx, bson.M{})
}

func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}
