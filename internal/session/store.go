package session

import (
	"context"       // Context for Redis operations
	"encoding/json" // JSON encoding/decoding
	"errors"        // Error inspection
	"time"          // Time durations

	"github.com/redis/go-redis/v9" // Redis client
)

const keyPrefix = "session:"

// Store keeps session records in Redis as JSON with a TTL
type Store struct {
	rdb redis.UniversalClient
}

// NewStore creates a Store backed by rdb
func NewStore(rdb redis.UniversalClient) *Store {
	return &Store{rdb: rdb}
}

// load reads a session record, reporting false when it does not exist
func (s *Store) load(ctx context.Context, id string) (*Session, bool, error) {
	val, err := s.rdb.Get(ctx, keyPrefix+id).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil // Key does not exist or expired
	} else if err != nil {
		return nil, false, err // Other Redis error
	}
	var sess Session
	if err := json.Unmarshal([]byte(val), &sess); err != nil {
		return nil, false, err
	}
	return &sess, true, nil
}

// save writes a session record with the given TTL
func (s *Store) save(ctx context.Context, sess *Session, ttl time.Duration) error {
	b, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, keyPrefix+sess.ID, b, ttl).Err()
}

// delete removes a session record
func (s *Store) delete(ctx context.Context, id string) error {
	return s.rdb.Del(ctx, keyPrefix+id).Err()
}
