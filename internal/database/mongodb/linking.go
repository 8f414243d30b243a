package mongodb

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// PendingLinkRepository implements repository.PendingLink
type PendingLinkRepository struct {
	users   *mongo.Collection
	pending *mongo.Collection
}

// NewPendingLinkRepository creates a new pending link repository
func NewPendingLinkRepository(s *Store) *PendingLinkRepository {
	return &PendingLinkRepository{
		users:   s.DB.Collection(usersCollection),
		pending: s.DB.Collection(pendingLinksCollection),
	}
}

func linkFilter(holderUserID, targetPlatform string) bson.M {
	return bson.M{"holder_user_id": holderUserID, "target_platform": targetPlatform}
}

// Save upserts on (holder, target). The existing _id and created_at survive a replace.
func (r *PendingLinkRepository) Save(ctx context.Context, link *domain.PendingLink) error {
	n, err := r.users.CountDocuments(ctx, bson.M{"_id": link.HolderUserID}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("failed to save pending link: %w", err)
	}
	if n == 0 {
		return domain.ErrUserNotFound
	}

	id := link.ID
	if id == "" {
		id = uuid.NewString()
	}

	update := bson.M{
		"$set": bson.M{
			"origin_platform": link.OriginPlatform,
			"origin_id":       link.OriginID,
			"origin_username": link.OriginUsername,
			"target_username": link.TargetUsername,
			"expires_at":      link.ExpiresAt.UTC(),
		},
		"$setOnInsert": bson.M{
			"_id":        id,
			"created_at": time.Now().UTC(),
		},
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var saved domain.PendingLink
	err = r.pending.FindOneAndUpdate(ctx, linkFilter(link.HolderUserID, link.TargetPlatform), update, opts).Decode(&saved)
	if err == mongo.ErrUnacknowledgedWrite {
		return domain.ErrNotAcknowledged
	}
	if err != nil {
		return fmt.Errorf("failed to save pending link: %w", err)
	}

	link.ID = saved.ID
	link.CreatedAt = saved.CreatedAt
	return nil
}

func (r *PendingLinkRepository) Get(ctx context.Context, holderUserID, targetPlatform string) (*domain.PendingLink, error) {
	var link domain.PendingLink
	err := r.pending.FindOne(ctx, linkFilter(holderUserID, targetPlatform)).Decode(&link)
	if isNoDocuments(err) {
		return nil, domain.ErrPendingLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get pending link: %w", err)
	}
	return &link, nil
}

// FindByTarget matches the target username case-insensitively and returns the newest live link
func (r *PendingLinkRepository) FindByTarget(ctx context.Context, targetPlatform, targetUsername string, now time.Time) (*domain.PendingLink, error) {
	filter := bson.M{
		"target_platform": targetPlatform,
		"target_username": primitive.Regex{Pattern: "^" + regexp.QuoteMeta(targetUsername) + "$", Options: "i"},
		"expires_at":      bson.M{"$gt": now.UTC()},
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})

	var link domain.PendingLink
	err := r.pending.FindOne(ctx, filter, opts).Decode(&link)
	if isNoDocuments(err) {
		return nil, domain.ErrPendingLinkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find pending link by target: %w", err)
	}
	return &link, nil
}

// Delete is idempotent
func (r *PendingLinkRepository) Delete(ctx context.Context, holderUserID, targetPlatform string) error {
	if _, err := r.pending.DeleteOne(ctx, linkFilter(holderUserID, targetPlatform)); err != nil {
		return fmt.Errorf("failed to delete pending link: %w", err)
	}
	return nil
}

func (r *PendingLinkRepository) CleanupExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.pending.DeleteMany(ctx, bson.M{"expires_at": bson.M{"$lte": now.UTC()}})
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup expired pending links: %w", err)
	}
	return res.DeletedCount, nil
}
