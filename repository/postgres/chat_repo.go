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

type chatSessionRepository struct {
	pool *pgxpool.Pool
}

// NewChatSessionRepository creates a Postgres-backed ChatSessionRepository.
// Sessions are stored as documents: the ordered message list lives in a
// single jsonb column.
func NewChatSessionRepository(pool *pgxpool.Pool) repository.ChatSessionRepository {
	return &chatSessionRepository{pool: pool}
}

const chatColumns = `id, user_id, title, category, messages, created_at, updated_at`

func (r *chatSessionRepository) Find(ctx context.Context, id, userID string) (*domain.ChatSession, error) {
	// id comes straight from the client; cast so a malformed id reads as
	// no rows instead of a uuid parse error.
	query := `SELECT ` + chatColumns + ` FROM chat_sessions WHERE id::text = $1 AND user_id = $2`
	return scanChatSession(r.pool.QueryRow(ctx, query, id, userID))
}

func (r *chatSessionRepository) List(ctx context.Context, filter repository.ChatSessionFilter) ([]domain.ChatSession, error) {
	query := `
	SELECT ` + chatColumns + `
	FROM chat_sessions
	WHERE user_id = $1
	  AND ($2 = '' OR category = $2)
	ORDER BY updated_at DESC
	LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, filter.UserID, filter.Category, clampLimit(filter.Limit))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sessions []domain.ChatSession
	for rows.Next() {
		session, err := scanChatSession(rows)
		if err != nil {
			return nil, err
		}
		sessions = append(sessions, *session)
	}
	return sessions, rows.Err()
}

func (r *chatSessionRepository) Create(ctx context.Context, session *domain.ChatSession) error {
	if session == nil {
		return domain.ErrInvalidPayload
	}
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	if session.Category == "" {
		session.Category = domain.ChatKindChat
	}

	const query = `
	INSERT INTO chat_sessions (id, user_id, title, category, messages)
	VALUES ($1, $2, $3, $4, $5)
	RETURNING created_at, updated_at
	`

	messages, err := marshalMessages(session.Messages)
	if err != nil {
		return err
	}

	return r.pool.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Category,
		messages,
	).Scan(&session.CreatedAt, &session.UpdatedAt)
}

func (r *chatSessionRepository) Save(ctx context.Context, session *domain.ChatSession) error {
	if session == nil || session.ID == "" {
		return domain.ErrInvalidPayload
	}

	const query = `
	UPDATE chat_sessions
	SET title = $3,
		category = $4,
		messages = $5,
		updated_at = NOW()
	WHERE id = $1 AND user_id = $2
	RETURNING updated_at
	`

	messages, err := marshalMessages(session.Messages)
	if err != nil {
		return err
	}

	if err := r.pool.QueryRow(ctx, query,
		session.ID,
		session.UserID,
		session.Title,
		session.Category,
		messages,
	).Scan(&session.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrChatSessionNotFound
		}
		return err
	}
	return nil
}

func (r *chatSessionRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	const query = `SELECT COUNT(*) FROM chat_sessions WHERE user_id = $1`
	var count int
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func marshalMessages(messages []domain.ChatMessage) ([]byte, error) {
	if messages == nil {
		messages = []domain.ChatMessage{}
	}
	return json.Marshal(messages)
}

func scanChatSession(row interface {
	Scan(dest ...interface{}) error
}) (*domain.ChatSession, error) {
	var session domain.ChatSession
	var messages []byte

	if err := row.Scan(
		&session.ID,
		&session.UserID,
		&session.Title,
		&session.Category,
		&messages,
		&session.CreatedAt,
		&session.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrChatSessionNotFound
		}
		return nil, err
	}

	if len(messages) > 0 {
		if err := json.Unmarshal(messages, &session.Messages); err != nil {
			return nil, err
		}
	}
	return &session, nil
}
