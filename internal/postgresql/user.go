package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// User represents the repository used for interacting with User records.
type User struct {
	pool *pgxpool.Pool
}

// NewUser instantiates the User repository.
func NewUser(pool *pgxpool.Pool) *User {
	return &User{
		pool: pool,
	}
}

// Create inserts a new account. The email must already be normalized by the
// caller, the unique index rejects duplicates.
func (u *User) Create(ctx context.Context, email, firstName, lastName string, passwordHash []byte) (internal.User, error) {
	defer newOTELSpan(ctx, "User.Create").End()

	const query = `
		INSERT INTO users (id, email, first_name, last_name, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, TRUE)
		RETURNING created_at`

	user := internal.User{
		ID:           uuid.NewString(),
		Email:        email,
		FirstName:    firstName,
		LastName:     lastName,
		PasswordHash: passwordHash,
		IsActive:     true,
	}

	row := u.pool.QueryRow(ctx, query, user.ID, user.Email, user.FirstName, user.LastName, user.PasswordHash)

	if err := row.Scan(&user.CreatedAt); err != nil {
		return internal.User{}, wrapScanError(err, "insert user")
	}

	return user, nil
}

// FindByEmail returns the account registered under the normalized email.
func (u *User) FindByEmail(ctx context.Context, email string) (internal.User, error) {
	defer newOTELSpan(ctx, "User.FindByEmail").End()

	const query = `
		SELECT id, email, first_name, last_name, password_hash, is_active, created_at
		FROM users
		WHERE email = $1`

	return u.scanOne(ctx, query, email)
}

// Find returns the account with the requested identifier.
func (u *User) Find(ctx context.Context, id string) (internal.User, error) {
	defer newOTELSpan(ctx, "User.Find").End()

	const query = `
		SELECT id, email, first_name, last_name, password_hash, is_active, created_at
		FROM users
		WHERE id = $1`

	return u.scanOne(ctx, query, id)
}

// Delete removes an account, owned tasks cascade at the schema level.
func (u *User) Delete(ctx context.Context, id string) error {
	defer newOTELSpan(ctx, "User.Delete").End()

	tag, err := u.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Exec")
	}

	if tag.RowsAffected() == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "user not found: %s", id)
	}

	return nil
}

func (u *User) scanOne(ctx context.Context, query string, arg any) (internal.User, error) {
	var user internal.User

	row := u.pool.QueryRow(ctx, query, arg)

	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.FirstName,
		&user.LastName,
		&user.PasswordHash,
		&user.IsActive,
		&user.CreatedAt)
	if err != nil {
		return internal.User{}, wrapScanError(err, "scan user")
	}

	return user, nil
}
