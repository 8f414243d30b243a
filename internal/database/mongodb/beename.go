package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// nameDoc keys names by _id so duplicates surface as duplicate key errors
type nameDoc struct {
	Name string    `bson:"_id"`
	At   time.Time `bson:"at"`
}

// BeeNameRepository implements repository.BeeName
type BeeNameRepository struct {
	names       *mongo.Collection
	suggestions *mongo.Collection
}

// NewBeeNameRepository creates a new bee name repository
func NewBeeNameRepository(s *Store) *BeeNameRepository {
	return &BeeNameRepository{
		names:       s.DB.Collection(beeNamesCollection),
		suggestions: s.DB.Collection(suggestionsCollection),
	}
}

// Random samples one document server side
func (r *BeeNameRepository) Random(ctx context.Context) (*domain.BeeName, error) {
	cur, err := r.names.Aggregate(ctx, mongo.Pipeline{{{Key: "$sample", Value: bson.M{"size": 1}}}})
	if err != nil {
		return nil, fmt.Errorf("failed to get bee name: %w", err)
	}
	defer cur.Close(ctx)

	if !cur.Next(ctx) {
		if err := cur.Err(); err != nil {
			return nil, fmt.Errorf("failed to get bee name: %w", err)
		}
		return nil, domain.ErrBeeNameNotFound
	}

	var doc nameDoc
	if err := cur.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode bee name: %w", err)
	}
	return &domain.BeeName{Name: doc.Name, CreatedAt: doc.At}, nil
}

func (r *BeeNameRepository) Insert(ctx context.Context, name string) error {
	return insertName(ctx, r.names, name)
}

func (r *BeeNameRepository) Delete(ctx context.Context, name string) error {
	return deleteName(ctx, r.names, name)
}

func (r *BeeNameRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.names.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, fmt.Errorf("failed to count bee names: %w", err)
	}
	return n, nil
}

func (r *BeeNameRepository) InsertSuggestion(ctx context.Context, name string) error {
	return insertName(ctx, r.suggestions, name)
}

func (r *BeeNameRepository) Suggestions(ctx context.Context, limit int) ([]domain.BeeNameSuggestion, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "at", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(int64(limit))

	cur, err := r.suggestions.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}

	var docs []nameDoc
	if err := cur.All(ctx, &docs); err != nil {
		return nil, fmt.Errorf("failed to list suggestions: %w", err)
	}

	out := make([]domain.BeeNameSuggestion, 0, len(docs))
	for _, d := range docs {
		out = append(out, domain.BeeNameSuggestion{Name: d.Name, SubmittedAt: d.At})
	}
	return out, nil
}

// AcceptSuggestion removes the suggestion then upserts the name. A standalone
// server has no transactions, so a crash in between loses the suggestion.
func (r *BeeNameRepository) AcceptSuggestion(ctx context.Context, name string) error {
	err := r.suggestions.FindOneAndDelete(ctx, bson.M{"_id": name}).Err()
	if isNoDocuments(err) {
		return domain.ErrBeeNameNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to accept suggestion: %w", err)
	}

	_, err = r.names.UpdateOne(ctx,
		bson.M{"_id": name},
		bson.M{"$setOnInsert": bson.M{"at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("failed to accept suggestion: %w", err)
	}
	return nil
}

func (r *BeeNameRepository) DeleteSuggestion(ctx context.Context, name string) error {
	return deleteName(ctx, r.suggestions, name)
}

func insertName(ctx context.Context, coll *mongo.Collection, name string) error {
	_, err := coll.InsertOne(ctx, nameDoc{Name: name, At: time.Now().UTC()})
	if mongo.IsDuplicateKeyError(err) {
		return domain.ErrBeeNameExists
	}
	if err != nil {
		return fmt.Errorf("failed to insert bee name: %w", err)
	}
	return nil
}

func deleteName(ctx context.Context, coll *mongo.Collection, name string) error {
	res, err := coll.DeleteOne(ctx, bson.M{"_id": name})
	if err != nil {
		return fmt.Errorf("failed to delete bee name: %w", err)
	}
	if res.DeletedCount == 0 {
		return domain.ErrBeeNameNotFound
	}
	return nil
}
