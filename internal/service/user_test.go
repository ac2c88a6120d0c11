package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/sanLimbu/taskplanner-api/internal"
	"github.com/sanLimbu/taskplanner-api/internal/service"
)

type fakeUserRepository struct {
	users map[string]internal.User
}

func (f *fakeUserRepository) Create(_ context.Context, email, firstName, lastName string, passwordHash []byte) (internal.User, error) {
	if f.users == nil {
		f.users = map[string]internal.User{}
	}

	if _, exists := f.users[email]; exists {
		return internal.User{}, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "email already exists")
	}

	user := internal.User{
		ID:           "user-" + email,
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	f.users[email] = user

	return user, nil
}

func (f *fakeUserRepository) Find(_ context.Context, id string) (internal.User, error) {
	for _, user := range f.users {
		if user.ID == id {
			return user, nil
		}
	}

	return internal.User{}, internal.NewErrorf(internal.ErrorCodeNotFound, "user not found")
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, email string) (internal.User, error) {
	user, ok := f.users[email]
	if !ok {
		return internal.User{}, internal.NewErrorf(internal.ErrorCodeNotFound, "user not found")
	}

	return user, nil
}

type fakeSessionRepository struct {
	sessions map[string]string
	next     int
}

func (f *fakeSessionRepository) Create(_ context.Context, userID string) (string, error) {
	if f.sessions == nil {
		f.sessions = map[string]string{}
	}

	f.next++
	token := "token-" + userID

	f.sessions[token] = userID

	return token, nil
}

func (f *fakeSessionRepository) Delete(_ context.Context, token string) error {
	delete(f.sessions, token)
	return nil
}

func (f *fakeSessionRepository) Find(_ context.Context, token string) (string, error) {
	userID, ok := f.sessions[token]
	if !ok {
		return "", internal.NewErrorf(internal.ErrorCodeUnauthorized, "unknown session")
	}

	return userID, nil
}

func validRegistration() internal.CreateUserParams {
	return internal.CreateUserParams{
		Email:           "Ada@Example.com",
		FirstName:       "Ada",
		LastName:        "Lovelace",
		Password:        "correct horse battery",
		PasswordConfirm: "correct horse battery",
	}
}

func TestUser_Register(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepository{}
	svc := service.NewUser(zap.NewNop(), repo, &fakeSessionRepository{})

	user, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	require.Equal(t, "ada@example.com", user.Email)
	require.NoError(t, bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("correct horse battery")))

	// Same email with different casing hits the same account.
	params := validRegistration()
	params.Email = "ADA@example.COM"

	_, err = svc.Register(context.Background(), params)
	require.Error(t, err)
}

func TestUser_Register_Invalid(t *testing.T) {
	t.Parallel()

	svc := service.NewUser(zap.NewNop(), &fakeUserRepository{}, &fakeSessionRepository{})

	params := validRegistration()
	params.PasswordConfirm = "mismatch"

	_, err := svc.Register(context.Background(), params)
	require.Error(t, err)

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, internal.ErrorCodeInvalidArgument, ierr.Code())
}

func TestUser_Login(t *testing.T) {
	t.Parallel()

	repo := &fakeUserRepository{}
	sessions := &fakeSessionRepository{}
	svc := service.NewUser(zap.NewNop(), repo, sessions)

	registered, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	t.Run("OK", func(t *testing.T) {
		token, user, err := svc.Login(context.Background(), " ADA@example.com ", "correct horse battery")
		require.NoError(t, err)
		require.NotEmpty(t, token)
		require.Equal(t, registered.ID, user.ID)

		resolved, err := svc.UserFromSession(context.Background(), token)
		require.NoError(t, err)
		require.Equal(t, registered.ID, resolved.ID)
	})

	t.Run("wrong password and unknown account are indistinguishable", func(t *testing.T) {
		_, _, errWrong := svc.Login(context.Background(), "ada@example.com", "not the password")
		_, _, errUnknown := svc.Login(context.Background(), "nobody@example.com", "correct horse battery")

		for _, err := range []error{errWrong, errUnknown} {
			var ierr *internal.Error
			require.ErrorAs(t, err, &ierr)
			require.Equal(t, internal.ErrorCodeUnauthorized, ierr.Code())
			require.Equal(t, "invalid credentials", ierr.Error())
		}
	})

	t.Run("inactive account", func(t *testing.T) {
		user := repo.users["ada@example.com"]
		user.IsActive = false
		repo.users["ada@example.com"] = user

		defer func() {
			user.IsActive = true
			repo.users["ada@example.com"] = user
		}()

		_, _, err := svc.Login(context.Background(), "ada@example.com", "correct horse battery")

		var ierr *internal.Error
		require.ErrorAs(t, err, &ierr)
		require.Equal(t, internal.ErrorCodeUnauthorized, ierr.Code())
	})
}

func TestUser_Logout(t *testing.T) {
	t.Parallel()

	svc := service.NewUser(zap.NewNop(), &fakeUserRepository{}, &fakeSessionRepository{})

	_, err := svc.Register(context.Background(), validRegistration())
	require.NoError(t, err)

	token, _, err := svc.Login(context.Background(), "ada@example.com", "correct horse battery")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), token))

	_, err = svc.UserFromSession(context.Background(), token)

	var ierr *internal.Error
	require.ErrorAs(t, err, &ierr)
	require.Equal(t, internal.ErrorCodeUnauthorized, ierr.Code())
}
