package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// NewDB connects to MongoDB and verifies the connection with a bounded ping.
func NewDB(ctx context.Context, uri, name string) (*mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return client.Database(name), nil
}

// EnsureIndexes creates the indexes the queries rely on. The TTL index lets
// the store sweep expired OTP documents on its own; verification never
// matches an expired code either way, so sweep timing is not correctness-
// sensitive.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	ownerIdx := mongo.IndexModel{Keys: bson.D{{Key: "user_id", Value: 1}}}

	if _, err := db.Collection("tasks").Indexes().CreateOne(ctx, ownerIdx); err != nil {
		return fmt.Errorf("failed to create task index: %w", err)
	}
	if _, err := db.Collection("lists").Indexes().CreateOne(ctx, ownerIdx); err != nil {
		return fmt.Errorf("failed to create list index: %w", err)
	}

	otpTTL := mongo.IndexModel{
		Keys:    bson.D{{Key: "expires_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(0),
	}
	if _, err := db.Collection("otps").Indexes().CreateOne(ctx, otpTTL); err != nil {
		return fmt.Errorf("failed to create otp ttl index: %w", err)
	}

	userIdx := []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
	}
	if _, err := db.Collection("users").Indexes().CreateMany(ctx, userIdx); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	return nil
}
