package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/weaverapp/backend/domain"
	"github.com/weaverapp/backend/repository"
)

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository instantiates a Postgres-backed user repository.
func NewUserRepository(pool *pgxpool.Pool) repository.UserRepository {
	return &userRepository{pool: pool}
}

const userColumns = `id, name, email, password_hash, phone, location, bio, avatar, preferences, created_at, updated_at`

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}

	const query = `
	INSERT INTO users (id, name, email, password_hash, phone, location, bio, avatar, preferences)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	RETURNING created_at, updated_at
	`

	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Location,
		user.Bio,
		user.Avatar,
		prefs,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	if user == nil {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE users
	SET name = $2,
		email = $3,
		password_hash = $4,
		phone = $5,
		location = $6,
		bio = $7,
		avatar = $8,
		preferences = $9,
		updated_at = NOW()
	WHERE id = $1
	RETURNING updated_at
	`

	prefs, err := json.Marshal(user.Preferences)
	if err != nil {
		return err
	}

	if err := r.pool.QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.PasswordHash,
		user.Phone,
		user.Location,
		user.Bio,
		user.Avatar,
		prefs,
	).Scan(&user.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		return err
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM users WHERE id = $1`
	tag, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func scanUser(row interface {
	Scan(dest ...interface{}) error
}) (*domain.User, error) {
	var user domain.User
	var prefs []byte

	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordHash,
		&user.Phone,
		&user.Location,
		&user.Bio,
		&user.Avatar,
		&prefs,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	if len(prefs) > 0 {
		_ = json.Unmarshal(prefs, &user.Preferences)
	}
	return &user, nil
}
