package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "session:"

// RedisStore keeps sessions in Redis as JSON values under session:<sid>
// with a fixed TTL, so sessions survive process restarts and are shared
// between replicas.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, userID int64) (*Session, error) {
	sess := &Session{SID: uuid.NewString(), UserID: userID}
	if err := s.write(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

func (s *RedisStore) Get(ctx context.Context, sid string) (*Session, error) {
	raw, err := s.client.Get(ctx, keyPrefix+sid).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("session decode: %w", err)
	}
	return &sess, nil
}

// SaveIdentity hydrates the cached identity on an existing session.  The
// TTL is refreshed along with the write; saving onto a vanished session is
// ErrNotFound so the caller can force a re-login.
func (s *RedisStore) SaveIdentity(ctx context.Context, sid string, id Identity) error {
	sess, err := s.Get(ctx, sid)
	if err != nil {
		return err
	}
	sess.User = &id
	return s.write(ctx, sess)
}

func (s *RedisStore) Destroy(ctx context.Context, sid string) error {
	// DEL of a missing key is a no-op, which gives us idempotency for free.
	if err := s.client.Del(ctx, keyPrefix+sid).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

func (s *RedisStore) write(ctx context.Context, sess *Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session encode: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+sess.SID, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("session set: %w", err)
	}
	return nil
}
