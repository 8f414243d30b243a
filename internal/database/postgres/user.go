package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// UserRepository stores user records as one row with a JSONB column per platform
type UserRepository struct {
	db *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Discord,
		&u.Twitch,
		&u.Minecraft,
		&u.Steam,
		&u.Accounts,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByID retrieves a user by record id
func (r *UserRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if !validUUID(id) {
		return nil, domain.ErrUserNotFound
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE user_id = $1`
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

// GetByPlatformField finds the user whose platform sub-record has field == value.
// Platforms without a dedicated column are looked up in the accounts map, where
// the stored value is the username.
func (r *UserRepository) GetByPlatformField(ctx context.Context, platform, field, value string) (*domain.User, error) {
	var (
		query string
		args  []any
	)
	if column, ok := platformColumns[platform]; ok {
		key, ok := domain.SubRecordKey(platform, field)
		if !ok {
			return nil, fmt.Errorf("%w: unknown %s field %q", domain.ErrInvalidInput, platform, field)
		}
		query = fmt.Sprintf(`SELECT %s FROM users WHERE %s ->> $1 = $2 ORDER BY created_at LIMIT 1`, userColumns, column)
		args = []any{key, value}
	} else {
		query = `SELECT ` + userColumns + ` FROM users WHERE accounts ->> $1 = $2 ORDER BY created_at LIMIT 1`
		args = []any{platform, value}
	}

	u, err := scanUser(r.db.QueryRow(ctx, query, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToGetUser, err)
	}
	return u, nil
}

// Create inserts a new user with a freshly generated id
func (r *UserRepository) Create(ctx context.Context, patch domain.UserPatch) (*domain.User, error) {
	accounts := patch.Accounts
	if accounts == nil {
		accounts = map[string]string{}
	}

	query := `
		INSERT INTO users (user_id, discord, twitch, minecraft, steam, accounts, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, NOW(), NOW())
		RETURNING ` + userColumns

	u, err := scanUser(r.db.QueryRow(ctx, query,
		uuid.NewString(),
		patch.Discord,
		patch.Twitch,
		patch.Minecraft,
		patch.Steam,
		accounts,
	))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToCreateUser, err)
	}
	return u, nil
}

// Update shallow-merges the patch and returns the post-update record
func (r *UserRepository) Update(ctx context.Context, id string, patch domain.UserPatch) (*domain.User, error) {
	if !validUUID(id) {
		return nil, domain.ErrUserNotFound
	}

	query := `
		UPDATE users SET
			discord    = COALESCE($2::jsonb, discord),
			twitch     = COALESCE($3::jsonb, twitch),
			minecraft  = COALESCE($4::jsonb, minecraft),
			steam      = COALESCE($5::jsonb, steam),
			accounts   = accounts || COALESCE($6::jsonb, '{}'::jsonb),
			updated_at = NOW()
		WHERE user_id = $1
		RETURNING ` + userColumns

	var accounts any
	if len(patch.Accounts) > 0 {
		accounts = patch.Accounts
	}

	u, err := scanUser(r.db.QueryRow(ctx, query,
		id,
		patch.Discord,
		patch.Twitch,
		patch.Minecraft,
		patch.Steam,
		accounts,
	))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToUpdateUser, err)
	}
	return u, nil
}

// Delete removes a user and returns the deleted record
func (r *UserRepository) Delete(ctx context.Context, id string) (*domain.User, error) {
	if !validUUID(id) {
		return nil, domain.ErrUserNotFound
	}

	query := `DELETE FROM users WHERE user_id = $1 RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedToDeleteUser, err)
	}
	return u, nil
}
