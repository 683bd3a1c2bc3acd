// Package db manages the MongoDB connection and collection handles.
package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/codespark/backend/internal/config"
)

// Client wraps mongo.Client and exposes the four collections the engine
// works with. The store is schemaless; documents are shaped by the models
// in this package and the engine tolerates absent optional fields.
type Client struct {
	client *mongo.Client
	db     *mongo.Database
}

// New connects to MongoDB using the configured URI and verifies the
// connection with a ping.
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(10 * time.Second)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return &Client{
		client: client,
		db:     client.Database(cfg.Mongo.Database),
	}, nil
}

func (c *Client) Users() *mongo.Collection    { return c.db.Collection("users") }
func (c *Client) Sessions() *mongo.Collection { return c.db.Collection("sessions") }
func (c *Client) Likes() *mongo.Collection    { return c.db.Collection("likes") }
func (c *Client) Matches() *mongo.Collection  { return c.db.Collection("matches") }

// Database exposes the underlying database handle, used by seeding and tests.
func (c *Client) Database() *mongo.Database { return c.db }

// Close disconnects from MongoDB.
func (c *Client) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

// EnsureIndexes creates the indexes the query paths rely on. Uniqueness of
// the active like per ordered pair is enforced by the engine, not the store,
// so the like index is non-unique and exists for lookup speed only.
func (c *Client) EnsureIndexes(ctx context.Context) error {
	userIndexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			// discovery feed: active users by recency
			Keys: bson.D{{Key: "active", Value: 1}, {Key: "last_login", Value: -1}},
		},
	}
	if _, err := c.Users().Indexes().CreateMany(ctx, userIndexes); err != nil {
		return fmt.Errorf("failed to create users indexes: %w", err)
	}

	sessionIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "username", Value: 1}, {Key: "active", Value: 1}},
	}
	if _, err := c.Sessions().Indexes().CreateOne(ctx, sessionIndex); err != nil {
		return fmt.Errorf("failed to create sessions index: %w", err)
	}

	likeIndex := mongo.IndexModel{
		Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "liked_user_id", Value: 1},
			{Key: "active", Value: 1},
		},
	}
	if _, err := c.Likes().Indexes().CreateOne(ctx, likeIndex); err != nil {
		return fmt.Errorf("failed to create likes index: %w", err)
	}

	// matches are stored directionally; both orderings get probed, so both
	// field orders are indexed
	matchIndexes := []mongo.IndexModel{
		{Keys: bson.D{
			{Key: "user_id", Value: 1},
			{Key: "matched_user_id", Value: 1},
			{Key: "active", Value: 1},
		}},
		{Keys: bson.D{
			{Key: "matched_user_id", Value: 1},
			{Key: "user_id", Value: 1},
			{Key: "active", Value: 1},
		}},
	}
	if _, err := c.Matches().Indexes().CreateMany(ctx, matchIndexes); err != nil {
		return fmt.Errorf("failed to create matches indexes: %w", err)
	}

	return nil
}
