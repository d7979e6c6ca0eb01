package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/carepointhealth/patient-flow-backend/internal/domain/errors"
	"github.com/carepointhealth/patient-flow-backend/internal/domain/monitoring"
)

// SessionKeyPrefix namespaces per-user activity session documents.
const SessionKeyPrefix = "pf:monitor:session:"

// SessionStore persists user activity sessions as JSON documents in Redis.
// The TTL sits above the activity retention window so idle sessions expire
// on their own without an explicit delete path. Writes replace the whole
// document; concurrent writers for one user can lose each other's
// increments, which the monitoring engine accepts.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewSessionStore creates a Redis-backed session store.
func NewSessionStore(client *redis.Client, ttl time.Duration, logger *zap.Logger) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

// Get returns the stored session for a user, or nil when none exists.
func (s *SessionStore) Get(ctx context.Context, userID string) (*monitoring.UserActivitySession, error) {
	data, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		s.logger.Error("session get failed", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.NewExternalError("redis", "session get failed").WithCause(err)
	}

	var session monitoring.UserActivitySession
	if err := json.Unmarshal(data, &session); err != nil {
		s.logger.Error("session unmarshal failed", zap.String("user_id", userID), zap.Error(err))
		return nil, errors.NewInternalError("session unmarshal failed").WithCause(err)
	}

	return &session, nil
}

// Put writes the session document for its user and refreshes the TTL.
func (s *SessionStore) Put(ctx context.Context, session *monitoring.UserActivitySession) error {
	if session == nil || session.UserID == "" {
		return errors.NewValidationError("INVALID_SESSION", "session with user ID is required")
	}

	data, err := json.Marshal(session)
	if err != nil {
		return errors.NewInternalError("session marshal failed").WithCause(err)
	}

	if err := s.client.Set(ctx, s.key(session.UserID), data, s.ttl).Err(); err != nil {
		s.logger.Error("session put failed", zap.String("user_id", session.UserID), zap.Error(err))
		return errors.NewExternalError("redis", "session put failed").WithCause(err)
	}

	return nil
}

func (s *SessionStore) key(userID string) string {
	return SessionKeyPrefix + userID
}
