package database

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"apparel-catalog/internal/models"
	"apparel-catalog/internal/store"
)

const connectTimeout = 10 * time.Second

// Connect dials MongoDB and pings the primary before returning.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("database: ping: %w", err)
	}
	return client, nil
}

// EnsureIndexes creates the unique email index of every credential namespace
// and the parent index of every detail collection.
func EnsureIndexes(ctx context.Context, idx store.Indexer) error {
	for _, ns := range []models.Namespace{models.Users, models.Admins} {
		if err := idx.EnsureUnique(ctx, ns.Collection, "email"); err != nil {
			return err
		}
	}
	for _, k := range models.Kinds() {
		if !k.IsDetail() {
			continue
		}
		if err := idx.EnsureIndex(ctx, k.Collection, k.ParentField); err != nil {
			return err
		}
	}
	return nil
}
