package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"

	"padron/internal/domain"
	"padron/internal/padron"
	"padron/internal/port"
)

const (
	keyPrefix      = "padron:import_session:"
	progressSuffix = ":progress"
)

type sessionStore struct {
	client *goredis.Client
	ttl    time.Duration
}

// NewClient parses a redis:// URL and returns a connected client.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("connecting to redis: %w", err)
	}
	return client, nil
}

// NewSessionStore creates a Redis-backed SessionStore. Every Save refreshes
// the key expiry to ttl; a zero ttl stores keys without expiry.
func NewSessionStore(client *goredis.Client, ttl time.Duration) port.SessionStore {
	return &sessionStore{client: client, ttl: ttl}
}

// SessionKey returns the Redis key holding a session.
func SessionKey(id uuid.UUID) string {
	return keyPrefix + id.String()
}

// ProgressKey returns the Redis key holding a session's commit progress.
func ProgressKey(id uuid.UUID) string {
	return SessionKey(id) + progressSuffix
}

func (s *sessionStore) Get(ctx context.Context, id uuid.UUID) (*padron.Session, error) {
	data, err := s.client.Get(ctx, SessionKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("redis.SessionStore.Get: %w", err)
	}

	var session padron.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("redis.SessionStore.Get decode: %w", err)
	}
	return &session, nil
}

func (s *sessionStore) Save(ctx context.Context, session *padron.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("redis.SessionStore.Save encode: %w", err)
	}
	if err := s.client.Set(ctx, SessionKey(session.ID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis.SessionStore.Save: %w", err)
	}
	return nil
}

func (s *sessionStore) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.client.Del(ctx, SessionKey(id), ProgressKey(id)).Err(); err != nil {
		return fmt.Errorf("redis.SessionStore.Delete: %w", err)
	}
	return nil
}

func (s *sessionStore) SetProgress(ctx context.Context, id uuid.UUID, p padron.Progress) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("redis.SessionStore.SetProgress encode: %w", err)
	}
	if err := s.client.Set(ctx, ProgressKey(id), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis.SessionStore.SetProgress: %w", err)
	}
	return nil
}

func (s *sessionStore) GetProgress(ctx context.Context, id uuid.UUID) (padron.Progress, error) {
	data, err := s.client.Get(ctx, ProgressKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return padron.Progress{}, domain.ErrNotFound
		}
		return padron.Progress{}, fmt.Errorf("redis.SessionStore.GetProgress: %w", err)
	}
	var p padron.Progress
	if err := json.Unmarshal(data, &p); err != nil {
		return padron.Progress{}, fmt.Errorf("redis.SessionStore.GetProgress decode: %w", err)
	}
	return p, nil
}
