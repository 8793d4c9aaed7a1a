// Package store is the narrow document-store contract the repositories are
// written against, with a MongoDB implementation and an in-memory one.
package store

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	// ErrNoDocument is returned by FindOne when nothing matches the filter.
	ErrNoDocument = errors.New("store: no document")
	// ErrDuplicateKey is returned when a write violates a unique constraint.
	ErrDuplicateKey = errors.New("store: duplicate key")
)

// Collection is one named set of documents. Filters are equality matches on
// top-level fields.
type Collection interface {
	// InsertOne stores doc and returns its identifier. A fresh ObjectID is
	// generated when doc has no "_id".
	InsertOne(ctx context.Context, doc bson.M) (primitive.ObjectID, error)
	FindOne(ctx context.Context, filter bson.M) (bson.M, error)
	Find(ctx context.Context, filter bson.M) ([]bson.M, error)
	// UpdateOne applies set to the first match and reports how many
	// documents matched (0 or 1).
	UpdateOne(ctx context.Context, filter, set bson.M) (int64, error)
	DeleteOne(ctx context.Context, filter bson.M) (int64, error)
	DeleteMany(ctx context.Context, filter bson.M) (int64, error)
}

type Database interface {
	Collection(name string) Collection
}

// Indexer is implemented by databases that can enforce a unique field.
type Indexer interface {
	EnsureUnique(ctx context.Context, collection, field string) error
	EnsureIndex(ctx context.Context, collection, field string) error
}
