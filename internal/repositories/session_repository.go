package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"smsportal/internal/models"
	"smsportal/internal/utils"
)

const sessionKeyPrefix = "session:"

type SessionRepository interface {
	Create(ctx context.Context, accountID int) (*models.Session, error)
	// Get returns nil, nil for unknown or expired sessions.
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

type sessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) SessionRepository {
	return &sessionRepository{rdb: rdb, ttl: ttl}
}

func (r *sessionRepository) Create(ctx context.Context, accountID int) (*models.Session, error) {
	id, err := utils.NewOpaqueToken(32)
	if err != nil {
		return nil, fmt.Errorf("session id: %w", err)
	}
	s := &models.Session{ID: id, AccountID: accountID, CreatedAt: time.Now().UTC()}

	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := r.rdb.Set(ctx, sessionKeyPrefix+id, b, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	return s, nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, nil
	}
	b, err := r.rdb.Get(ctx, sessionKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("session load: %w", err)
	}
	var s models.Session
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	s.ID = id
	return &s, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return nil
	}
	return r.rdb.Del(ctx, sessionKeyPrefix+id).Err()
}
