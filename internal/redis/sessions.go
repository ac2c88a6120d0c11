package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/taskplanner-api/internal"
)

const otelName = "github.com/sanLimbu/taskplanner-api/internal/redis"

const sessionPrefix = "sessions:"

// SessionStore persists opaque session tokens mapped to user identifiers,
// expiring server side after the configured TTL.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore instantiates the session repository.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{
		client: client,
		ttl:    ttl,
	}
}

// Create mints a new token for the user.
func (s *SessionStore) Create(ctx context.Context, userID string) (string, error) {
	defer newOTELSpan(ctx, "SessionStore.Create").End()

	token := uuid.NewString()

	if err := s.client.Set(ctx, sessionPrefix+token, userID, s.ttl).Err(); err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Set")
	}

	return token, nil
}

// Find resolves a token back to the user it was minted for, refreshing the
// TTL on every hit so active sessions stay alive.
func (s *SessionStore) Find(ctx context.Context, token string) (string, error) {
	defer newOTELSpan(ctx, "SessionStore.Find").End()

	userID, err := s.client.Get(ctx, sessionPrefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", internal.WrapErrorf(err, internal.ErrorCodeUnauthorized, "unknown session")
		}

		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Get")
	}

	_ = s.client.Expire(ctx, sessionPrefix+token, s.ttl).Err()

	return userID, nil
}

// Delete invalidates a token, an already-expired token is not an error.
func (s *SessionStore) Delete(ctx context.Context, token string) error {
	defer newOTELSpan(ctx, "SessionStore.Delete").End()

	if err := s.client.Del(ctx, sessionPrefix+token).Err(); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Del")
	}

	return nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemRedis)

	return span
}
