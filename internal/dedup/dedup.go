// Package dedup prevents the same submission from being graded twice when
// an email stays unseen across polls (e.g. a failure after grading but
// before mark-seen) or is re-delivered. Backed by a Redis SET-NX with TTL
// keyed by Message-ID.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "grader:seen:"

// Filter tracks which message IDs have already been processed.
type Filter struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewFilter creates a dedup filter backed by Redis. TTL bounds how long a
// message ID is remembered; a week covers any realistic redelivery window.
func NewFilter(rdb *redis.Client, ttl time.Duration) *Filter {
	return &Filter{
		rdb: rdb,
		ttl: ttl,
	}
}

// IsNew returns true if the message ID has NOT been seen before.
// If true, the ID is marked as seen atomically (SETNX).
func (f *Filter) IsNew(ctx context.Context, messageID string) (bool, error) {
	key := keyPrefix + messageID

	set, err := f.rdb.SetNX(ctx, key, 1, f.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("dedup SETNX: %w", err)
	}

	return set, nil
}

// Forget drops the seen marker so the message can be processed again on the
// next poll. Used when grading fails downstream of the dedup check.
func (f *Filter) Forget(ctx context.Context, messageID string) error {
	if err := f.rdb.Del(ctx, keyPrefix+messageID).Err(); err != nil {
		return fmt.Errorf("dedup DEL: %w", err)
	}
	return nil
}
