package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a mutex-guarded in-process session store.  It backs tests
// and the degraded mode used when Redis is unreachable at startup; sessions
// then live only as long as the process.
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{sessions: make(map[string]*Session)}
}

func (s *MemoryStore) Create(ctx context.Context, userID int64) (*Session, error) {
	sess := &Session{SID: uuid.NewString(), UserID: userID}
	s.mu.Lock()
	s.sessions[sess.SID] = sess
	s.mu.Unlock()
	return sess, nil
}

func (s *MemoryStore) Get(ctx context.Context, sid string) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return nil, ErrNotFound
	}
	// Copy so callers never mutate the stored value directly.
	cp := *sess
	if sess.User != nil {
		u := *sess.User
		cp.User = &u
	}
	return &cp, nil
}

func (s *MemoryStore) SaveIdentity(ctx context.Context, sid string, id Identity) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[sid]
	if !ok {
		return ErrNotFound
	}
	sess.User = &id
	return nil
}

func (s *MemoryStore) Destroy(ctx context.Context, sid string) error {
	s.mu.Lock()
	delete(s.sessions, sid)
	s.mu.Unlock()
	return nil
}
