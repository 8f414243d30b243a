// Package mongodb is the document store backend, selected with STORE_DRIVER=mongo.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection        = "users"
	pendingLinksCollection = "pending_links"
	beeNamesCollection     = "bee_names"
	suggestionsCollection  = "bee_name_suggestions"

	connectTimeout = 10 * time.Second
)

// Store owns the client and database handle shared by the repositories
type Store struct {
	Client *mongo.Client
	DB     *mongo.Database
}

// Open connects, pings and ensures indexes
func Open(ctx context.Context, uri, database string) (*Store, error) {
	if uri == "" {
		return nil, fmt.Errorf("empty mongo uri")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	s := &Store{Client: client, DB: client.Database(database)}
	if err := s.EnsureIndexes(connectCtx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}
	return s, nil
}

// EnsureIndexes creates the lookup indexes. Platform id indexes are not unique;
// the linker guarantees at most one holder per platform id.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	users := []mongo.IndexModel{
		{Keys: bson.D{{Key: "discord.id", Value: 1}}},
		{Keys: bson.D{{Key: "twitch.id", Value: 1}}},
		{Keys: bson.D{{Key: "minecraft.id", Value: 1}}},
		{Keys: bson.D{{Key: "steam.id", Value: 1}}},
	}
	if _, err := s.DB.Collection(usersCollection).Indexes().CreateMany(ctx, users); err != nil {
		return fmt.Errorf("failed to create user indexes: %w", err)
	}

	pending := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "holder_user_id", Value: 1}, {Key: "target_platform", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "expires_at", Value: 1}}},
		{Keys: bson.D{{Key: "target_platform", Value: 1}, {Key: "target_username", Value: 1}}},
	}
	if _, err := s.DB.Collection(pendingLinksCollection).Indexes().CreateMany(ctx, pending); err != nil {
		return fmt.Errorf("failed to create pending link indexes: %w", err)
	}

	suggestions := []mongo.IndexModel{{Keys: bson.D{{Key: "submitted_at", Value: 1}}}}
	if _, err := s.DB.Collection(suggestionsCollection).Indexes().CreateMany(ctx, suggestions); err != nil {
		return fmt.Errorf("failed to create suggestion indexes: %w", err)
	}
	return nil
}

// Ping is used by the readiness check
func (s *Store) Ping(ctx context.Context) error {
	return s.Client.Ping(ctx, nil)
}

// Close disconnects the client
func (s *Store) Close(ctx context.Context) error {
	return s.Client.Disconnect(ctx)
}

func isNoDocuments(err error) bool {
	return errors.Is(err, mongo.ErrNoDocuments)
}
