package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Defaults for the MongoDB backend.
const (
	DefaultMongoDatabase   = "diaconv"
	DefaultMongoCollection = "cache"
)

// MongoCache stores entries as documents of one collection. A TTL index
// on expires_at lets the server drop expired entries; Get also checks
// the expiry because the server only sweeps once a minute.
type MongoCache struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// mongoEntry is the stored document.
type mongoEntry struct {
	Key       string    `bson:"_id"`
	Data      []byte    `bson:"data"`
	ExpiresAt time.Time `bson:"expires_at,omitempty"`
}

// NewMongoCache connects to uri and prepares the collection. Empty
// database and collection names use the defaults.
func NewMongoCache(ctx context.Context, uri, database, collection string) (Cache, error) {
	if database == "" {
		database = DefaultMongoDatabase
	}
	if collection == "" {
		collection = DefaultMongoCollection
	}
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	err = waitReady(ctx, "mongo", func(ctx context.Context) error {
		return client.Ping(ctx, nil)
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	c := &MongoCache{client: client, coll: client.Database(database).Collection(collection)}
	_, err = c.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ttl index: %w", err)
	}
	return c, nil
}

// Get retrieves a value from the collection.
func (c *MongoCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var e mongoEntry
	err := c.coll.FindOne(ctx, bson.M{"_id": key}).Decode(&e)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("mongo find: %w", err)
	}
	if expired(e.ExpiresAt, time.Now()) {
		return nil, false, nil
	}
	return e.Data, true, nil
}

// Set upserts the entry.
func (c *MongoCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	e := mongoEntry{Key: key, Data: data}
	if ttl > 0 {
		e.ExpiresAt = time.Now().Add(ttl).UTC()
	}
	_, err := c.coll.ReplaceOne(ctx, bson.M{"_id": key}, e, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("mongo replace: %w", err)
	}
	return nil
}

// Delete removes the entry.
func (c *MongoCache) Delete(ctx context.Context, key string) error {
	if _, err := c.coll.DeleteOne(ctx, bson.M{"_id": key}); err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (c *MongoCache) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.client.Disconnect(ctx)
}

// expired reports whether an entry expiring at t is stale at now. The
// zero time never expires.
func expired(t, now time.Time) bool {
	return !t.IsZero() && now.After(t)
}

// Ensure MongoCache implements Cache.
var _ Cache = (*MongoCache)(nil)
