package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// UserRepository implements repository.User on a users collection
type UserRepository struct {
	users   *mongo.Collection
	pending *mongo.Collection
}

// NewUserRepository creates a new user repository
func NewUserRepository(s *Store) *UserRepository {
	return &UserRepository{
		users:   s.DB.Collection(usersCollection),
		pending: s.DB.Collection(pendingLinksCollection),
	}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if isNoDocuments(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

// GetByPlatformField matches platform.field for known platforms and
// accounts.platform for everything else
func (r *UserRepository) GetByPlatformField(ctx context.Context, platform, field, value string) (*domain.User, error) {
	key := "accounts." + platform
	if domain.IsKnownPlatform(platform) {
		subKey, ok := domain.SubRecordKey(platform, field)
		if !ok {
			return nil, fmt.Errorf("%w: unknown %s field %q", domain.ErrInvalidInput, platform, field)
		}
		key = platform + "." + subKey
	}

	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}})

	var user domain.User
	err := r.users.FindOne(ctx, bson.M{key: value}, opts).Decode(&user)
	if isNoDocuments(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by %s: %w", key, err)
	}
	return &user, nil
}

func (r *UserRepository) Create(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	now := time.Now().UTC()
	user := &domain.User{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	patch.Apply(user)

	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if err == mongo.ErrUnacknowledgedWrite {
			return nil, domain.ErrNotAcknowledged
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return user, nil
}

// Update applies the patch with $set on each present field and returns the
// post-update document
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	set := bson.M{"updated_at": time.Now().UTC()}
	if patch.Discord != nil {
		set[domain.PlatformDiscord] = patch.Discord
	}
	if patch.Twitch != nil {
		set[domain.PlatformTwitch] = patch.Twitch
	}
	if patch.Minecraft != nil {
		set[domain.PlatformMinecraft] = patch.Minecraft
	}
	if patch.Steam != nil {
		set[domain.PlatformSteam] = patch.Steam
	}
	for platform, username := range patch.Accounts {
		set["accounts."+platform] = username
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var user domain.User
	err := r.users.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	switch {
	case isNoDocuments(err):
		return nil, domain.ErrUserNotFound
	case err == mongo.ErrUnacknowledgedWrite:
		return nil, domain.ErrNotAcknowledged
	case err != nil:
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &user, nil
}

// Delete removes the user and any pending links it holds
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	var user domain.User
	err := r.users.FindOneAndDelete(ctx, bson.M{"_id": id}).Decode(&user)
	if isNoDocuments(err) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to delete user: %w", err)
	}

	if _, err := r.pending.DeleteMany(ctx, bson.M{"holder_user_id": id}); err != nil {
		return &user, fmt.Errorf("failed to delete pending links for user: %w", err)
	}
	return &user, nil
}
