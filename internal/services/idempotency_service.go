// Package services – IdempotencyService
//
// IdempotencyService remembers which (user, scope, key) triples completed
// successfully so a retried unsafe request can be answered from current
// state. The HTTP middleware calls Seen; handlers call Remember after a
// successful side effect.
package services

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-recs-backend/internal/repo"
)

// DefaultIdempotencyTTL is used when the service is built with a zero TTL.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService persists idempotency records.
type IdempotencyService struct {
	DB  *gorm.DB
	TTL time.Duration
}

// NewIdempotencyService returns a service storing keys for ttl.
func NewIdempotencyService(db *gorm.DB, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyService{DB: db, TTL: ttl}
}

// Seen reports whether an unexpired record exists at now. Its signature
// matches middleware.IdempotencyLookup.
func (s *IdempotencyService) Seen(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, repo.ErrNotFound):
		return false, nil
	default:
		return false, err
	}
}

// Remember stores the outcome status of a completed request. A concurrent
// request that already stored the same triple is not an error.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key string, status int) error {
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, status, s.TTL)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// Purge removes records that expired at now.
func (s *IdempotencyService) Purge(ctx context.Context, now time.Time) (int64, error) {
	return repo.PurgeExpiredIdempotency(ctx, s.DB, now)
}
