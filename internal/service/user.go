package service

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// UserRepository defines the datastore handling persisting User records.
type UserRepository interface {
	Create(ctx context.Context, email, firstName, lastName string, passwordHash []byte) (internal.User, error)
	Find(ctx context.Context, id string) (internal.User, error)
	FindByEmail(ctx context.Context, email string) (internal.User, error)
}

// SessionRepository defines the datastore handling session tokens.
type SessionRepository interface {
	Create(ctx context.Context, userID string) (string, error)
	Delete(ctx context.Context, token string) error
	Find(ctx context.Context, token string) (string, error)
}

// User defines the application service in charge of accounts and sessions.
type User struct {
	logger   *zap.Logger
	repo     UserRepository
	sessions SessionRepository
}

// NewUser ...
func NewUser(logger *zap.Logger, repo UserRepository, sessions SessionRepository) *User {
	return &User{
		logger:   logger,
		repo:     repo,
		sessions: sessions,
	}
}

// Register creates a new account with a normalized email and a bcrypt
// credential hash.
func (u *User) Register(ctx context.Context, params internal.CreateUserParams) (internal.User, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "User.Register")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "bcrypt.GenerateFromPassword")
	}

	user, err := u.repo.Create(ctx, params.NormalizedEmail(), params.FirstName, params.LastName, hash)
	if err != nil {
		return internal.User{}, err
	}

	u.logger.Info("registered user", zap.String("user_id", user.ID))

	return user, nil
}

// Login verifies the credentials and mints a session token. A missing
// account and a wrong password are indistinguishable to the caller.
func (u *User) Login(ctx context.Context, email, password string) (string, internal.User, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "User.Login")
	defer span.End()

	user, err := u.repo.FindByEmail(ctx, internal.CreateUserParams{Email: email}.NormalizedEmail())
	if err != nil {
		return "", internal.User{}, internal.NewErrorf(internal.ErrorCodeUnauthorized, "invalid credentials")
	}

	if !user.IsActive {
		return "", internal.User{}, internal.NewErrorf(internal.ErrorCodeUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword(user.PasswordHash, []byte(password)); err != nil {
		return "", internal.User{}, internal.NewErrorf(internal.ErrorCodeUnauthorized, "invalid credentials")
	}

	token, err := u.sessions.Create(ctx, user.ID)
	if err != nil {
		return "", internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "sessions.Create")
	}

	return token, user, nil
}

// Logout invalidates the session token.
func (u *User) Logout(ctx context.Context, token string) error {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "User.Logout")
	defer span.End()

	return u.sessions.Delete(ctx, token)
}

// UserFromSession resolves a session token to the account it belongs to.
func (u *User) UserFromSession(ctx context.Context, token string) (internal.User, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "User.UserFromSession")
	defer span.End()

	userID, err := u.sessions.Find(ctx, token)
	if err != nil {
		return internal.User{}, err
	}

	user, err := u.repo.Find(ctx, userID)
	if err != nil {
		return internal.User{}, internal.WrapErrorf(err, internal.ErrorCodeUnauthorized, "repo.Find")
	}

	return user, nil
}
