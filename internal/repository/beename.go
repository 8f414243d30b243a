package repository

import (
	"context"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// BeeName stores accepted names and pending suggestions
type BeeName interface {
	// Random returns domain.ErrBeeNameNotFound when no names exist
	Random(ctx context.Context) (*domain.BeeName, error)
	// Insert returns domain.ErrBeeNameExists for duplicates
	Insert(ctx context.Context, name string) error
	// Delete returns domain.ErrBeeNameNotFound when absent
	Delete(ctx context.Context, name string) error
	Count(ctx context.Context) (int64, error)

	// InsertSuggestion returns domain.ErrBeeNameExists for duplicates
	InsertSuggestion(ctx context.Context, name string) error
	// Suggestions returns up to limit suggestions, oldest first
	Suggestions(ctx context.Context, limit int) ([]domain.BeeNameSuggestion, error)
	// AcceptSuggestion moves a suggestion into the accepted names
	AcceptSuggestion(ctx context.Context, name string) error
	// DeleteSuggestion returns domain.ErrBeeNameNotFound when absent
	DeleteSuggestion(ctx context.Context, name string) error
}
