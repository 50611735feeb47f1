// Package cache stores conversion outputs keyed by the hash of their input.
//
// Converting a large diagram is cheap compared to reading it from a slow
// share or receiving it over HTTP more than once, so both the CLI and the
// service keep finished documents. A [Cache] is a byte store with TTLs;
// a [Keyer] derives keys from the input hash and the options that change
// the output.
//
// Backends:
//
//   - [FileCache]: one JSON file per entry below a directory (CLI default)
//   - [RedisCache]: a Redis server, for several service replicas
//   - [MongoCache]: a MongoDB collection with a TTL index
//   - [NullCache]: stores nothing (--no-cache)
//
// Use [Open] to build the backend named in the configuration.
package cache

import (
	"context"
	"fmt"
	"time"
)

// Cache is a key/value byte store.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the value for key. A missing or expired entry is a
	// miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until it
	// is deleted.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases connections held by the backend.
	Close() error
}

// Default TTLs.
const (
	// DocumentTTL keeps converted documents for a week.
	DocumentTTL = 7 * 24 * time.Hour

	// GraphTTL keeps connectivity graphs as long as documents.
	GraphTTL = DocumentTTL
)

// Backend names accepted by [Open].
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendMongo = "mongo"
	BackendNone  = "none"
)

// Options selects and configures a backend.
type Options struct {
	// Backend is one of the Backend constants. Empty means file.
	Backend string

	// Dir is the FileCache directory.
	Dir string

	// URL is the redis:// or mongodb:// connection string.
	URL string

	// Database and Collection name the MongoDB collection.
	Database   string
	Collection string
}

// Open builds the backend described by opts and checks that it is
// reachable.
func Open(ctx context.Context, opts Options) (Cache, error) {
	switch opts.Backend {
	case "", BackendFile:
		if opts.Dir == "" {
			return nil, fmt.Errorf("file cache: no directory")
		}
		return NewFileCache(opts.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, opts.URL)
	case BackendMongo:
		return NewMongoCache(ctx, opts.URL, opts.Database, opts.Collection)
	case BackendNone:
		return NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", opts.Backend)
	}
}

// NullCache misses on every Get and drops every Set. It backs --no-cache
// and the "none" backend.
type NullCache struct{}

// NewNullCache returns a cache that stores nothing.
func NewNullCache() Cache { return &NullCache{} }

func (*NullCache) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (*NullCache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (*NullCache) Delete(context.Context, string) error                     { return nil }
func (*NullCache) Close() error                                             { return nil }

var _ Cache = (*NullCache)(nil)
