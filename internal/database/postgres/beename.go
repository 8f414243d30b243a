package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// BeeNameRepository implements repository.BeeName
type BeeNameRepository struct {
	db *pgxpool.Pool
}

// NewBeeNameRepository creates a new bee name repository
func NewBeeNameRepository(db *pgxpool.Pool) *BeeNameRepository {
	return &BeeNameRepository{db: db}
}

// Random returns a uniformly random accepted name
func (r *BeeNameRepository) Random(ctx context.Context) (*domain.BeeName, error) {
	query := `SELECT name, created_at FROM bee_names ORDER BY random() LIMIT 1`

	var name domain.BeeName
	err := r.db.QueryRow(ctx, query).Scan(&name.Name, &name.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrBeeNameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetBeeName, err)
	}
	return &name, nil
}

// Insert adds an accepted name
func (r *BeeNameRepository) Insert(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `INSERT INTO bee_names (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertBeeName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBeeNameExists
	}
	return nil
}

// Delete removes an accepted name
func (r *BeeNameRepository) Delete(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bee_names WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteBeeName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBeeNameNotFound
	}
	return nil
}

// Count returns the number of accepted names
func (r *BeeNameRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM bee_names`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", ErrMsgFailedToCountBeeNames, err)
	}
	return n, nil
}

// InsertSuggestion queues a name for moderation
func (r *BeeNameRepository) InsertSuggestion(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `INSERT INTO bee_name_suggestions (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToInsertBeeName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBeeNameExists
	}
	return nil
}

// Suggestions returns up to limit suggestions, oldest first
func (r *BeeNameRepository) Suggestions(ctx context.Context, limit int) ([]domain.BeeNameSuggestion, error) {
	rows, err := r.db.Query(ctx, `
		SELECT name, submitted_at FROM bee_name_suggestions
		ORDER BY submitted_at, name
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListSuggestions, err)
	}
	defer rows.Close()

	suggestions := make([]domain.BeeNameSuggestion, 0, limit)
	for rows.Next() {
		var s domain.BeeNameSuggestion
		if err := rows.Scan(&s.Name, &s.SubmittedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListSuggestions, err)
		}
		suggestions = append(suggestions, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToListSuggestions, err)
	}
	return suggestions, nil
}

// AcceptSuggestion moves a suggestion into bee_names in one transaction
func (r *BeeNameRepository) AcceptSuggestion(ctx context.Context, name string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToBeginTransaction, err)
	}
	defer SafeRollback(ctx, tx)

	tag, err := tx.Exec(ctx, `DELETE FROM bee_name_suggestions WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAcceptSuggestion, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBeeNameNotFound
	}

	// Accepting a name that is already live just clears the suggestion
	if _, err := tx.Exec(ctx, `INSERT INTO bee_names (name) VALUES ($1) ON CONFLICT (name) DO NOTHING`, name); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToAcceptSuggestion, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToCommitTransaction, err)
	}
	return nil
}

// DeleteSuggestion rejects a suggestion
func (r *BeeNameRepository) DeleteSuggestion(ctx context.Context, name string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bee_name_suggestions WHERE name = $1`, name)
	if err != nil {
		return fmt.Errorf("%s: %w", ErrMsgFailedToDeleteBeeName, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrBeeNameNotFound
	}
	return nil
}
