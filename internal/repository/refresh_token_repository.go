package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/auth-service/internal/domain"
)

// RefreshTokenRepository persists refresh-token records. Rotation creates new
// records instead of mutating existing ones, so no update or delete is exposed.
type RefreshTokenRepository interface {
	Create(ctx context.Context, record *domain.RefreshTokenRecord) error
	FindByUser(ctx context.Context, userID string) ([]domain.RefreshTokenRecord, error)
}

type refreshTokenRepository struct {
	pool *pgxpool.Pool
}

// NewRefreshTokenRepository returns a Postgres-backed implementation.
func NewRefreshTokenRepository(pool *pgxpool.Pool) RefreshTokenRepository {
	return &refreshTokenRepository{pool: pool}
}

func (r *refreshTokenRepository) Create(ctx context.Context, record *domain.RefreshTokenRecord) error {
	const query = `
        INSERT INTO refresh_tokens (id, user_id, expires_at)
        VALUES ($1, $2, $3)
        RETURNING created_at`

	record.ID = uuid.NewString()
	return r.pool.QueryRow(ctx, query,
		record.ID,
		record.UserID,
		record.ExpiresAt,
	).Scan(&record.CreatedAt)
}

func (r *refreshTokenRepository) FindByUser(ctx context.Context, userID string) ([]domain.RefreshTokenRecord, error) {
	const query = `
        SELECT id, user_id, expires_at, created_at
        FROM refresh_tokens WHERE user_id=$1
        ORDER BY created_at`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.RefreshTokenRecord
	for rows.Next() {
		var rec domain.RefreshTokenRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.ExpiresAt, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
