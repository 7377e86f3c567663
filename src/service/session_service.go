package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"mediaarchive/src/cache"
	"mediaarchive/src/model"

	"github.com/bytedance/sonic"
)

// SessionData represents cached admin identity
type SessionData struct {
	ID        string `json:"id"`
	UserName  string `json:"userName"`
	Role      string `json:"role"`
	CreatedAt int64  `json:"createdAt"`
}

// ErrCacheMiss indicates the requested session is not in the cache
var ErrCacheMiss = errors.New("cache miss")

// SessionService caches the identity behind an access token so that
// authenticated requests skip the user lookup.
type SessionService interface {
	CacheUserSession(ctx context.Context, user *model.User) error
	GetUserSession(ctx context.Context, userID string) (*SessionData, error)
	InvalidateSession(ctx context.Context, userID string) error
}

type sessionService struct {
	store cache.Store
	ttl   time.Duration
}

func NewSessionService(store cache.Store, ttl time.Duration) SessionService {
	return &sessionService{
		store: store,
		ttl:   ttl,
	}
}

func (s *sessionService) CacheUserSession(ctx context.Context, user *model.User) error {
	sessionData := &SessionData{
		ID:        user.ID.String(),
		UserName:  user.UserName,
		Role:      user.Role,
		CreatedAt: time.Now().Unix(),
	}

	serialized, err := sonic.Marshal(sessionData)
	if err != nil {
		return fmt.Errorf("failed to marshal session data: %w", err)
	}

	if err := s.store.Set(ctx, cache.GetSessionKey(sessionData.ID), serialized, s.ttl); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// GetUserSession returns ErrCacheMiss when the session is absent. Any other
// error means the cache itself failed.
func (s *sessionService) GetUserSession(ctx context.Context, userID string) (*SessionData, error) {
	data, ok, err := s.store.Get(ctx, cache.GetSessionKey(userID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCacheMiss
	}

	var sessionData SessionData
	if err := sonic.Unmarshal(data, &sessionData); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session data: %w", err)
	}

	return &sessionData, nil
}

func (s *sessionService) InvalidateSession(ctx context.Context, userID string) error {
	return s.store.Delete(ctx, cache.GetSessionKey(userID))
}
