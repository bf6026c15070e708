package mongodb

import (
	"context"
	"fmt"

	"github.com/pratik-mahalle/arcgate/internal/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

const usersCollection = "users"

// Connect opens a client for cfg.URI and verifies it with a ping
func Connect(ctx context.Context, cfg config.MongoConfig) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetConnectTimeout(cfg.ConnectTimeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	return client, nil
}

// EnsureIndexes creates the unique email index and the billing lookup indexes
func EnsureIndexes(ctx context.Context, db *mongo.Database) ([]string, error) {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("email_unique"),
		},
		{
			Keys:    bson.D{{Key: "billing_customer_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("billing_customer_id"),
		},
		{
			Keys:    bson.D{{Key: "billing_subscription_id", Value: 1}},
			Options: options.Index().SetSparse(true).SetName("billing_subscription_id"),
		},
	}

	names, err := db.Collection(usersCollection).Indexes().CreateMany(ctx, models)
	if err != nil {
		return nil, fmt.Errorf("failed to create user indexes: %w", err)
	}
	return names, nil
}
