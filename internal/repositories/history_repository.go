package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"smsportal/internal/models"
)

type HistoryRepository interface {
	Create(ctx context.Context, rec *models.MessageRecord) error
	List(ctx context.Context, kind models.MessageKind, limit, offset int) ([]*models.MessageRecord, error)
	Count(ctx context.Context, kind models.MessageKind) (int, error)
}

type historyRepository struct {
	DB *sql.DB
}

func NewHistoryRepository(db *sql.DB) HistoryRepository {
	return &historyRepository{DB: db}
}

func (r *historyRepository) Create(ctx context.Context, rec *models.MessageRecord) error {
	const q = `
		INSERT INTO message_history (kind, account_id, destination, body, provider_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`
	var accountID sql.NullInt64
	if rec.AccountID != nil {
		accountID = sql.NullInt64{Int64: int64(*rec.AccountID), Valid: true}
	}
	if err := r.DB.QueryRowContext(ctx, q,
		string(rec.Kind), accountID, rec.Destination, rec.Body, rec.ProviderID,
	).Scan(&rec.ID, &rec.CreatedAt); err != nil {
		return fmt.Errorf("history create: %w", err)
	}
	return nil
}

// List returns newest first.
func (r *historyRepository) List(ctx context.Context, kind models.MessageKind, limit, offset int) ([]*models.MessageRecord, error) {
	const q = `
		SELECT id, kind, account_id, destination, body, provider_id, created_at
		FROM message_history
		WHERE kind = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.DB.QueryContext(ctx, q, string(kind), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	defer rows.Close()

	var res []*models.MessageRecord
	for rows.Next() {
		var (
			rec       models.MessageRecord
			k         string
			accountID sql.NullInt64
		)
		if err := rows.Scan(&rec.ID, &k, &accountID, &rec.Destination, &rec.Body, &rec.ProviderID, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("history list scan: %w", err)
		}
		rec.Kind = models.MessageKind(k)
		if accountID.Valid {
			id := int(accountID.Int64)
			rec.AccountID = &id
		}
		res = append(res, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history list: %w", err)
	}
	return res, nil
}

func (r *historyRepository) Count(ctx context.Context, kind models.MessageKind) (int, error) {
	var c int
	if err := r.DB.QueryRowContext(ctx, `SELECT COUNT(*) FROM message_history WHERE kind = $1`, string(kind)).Scan(&c); err != nil {
		return 0, fmt.Errorf("history count: %w", err)
	}
	return c, nil
}
