package internal

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// User represents an account owning zero or more tasks.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash []byte    `json:"-"`
	IsActive     bool      `json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateUserParams carries a registration request.
type CreateUserParams struct {
	Email           string
	FirstName       string
	LastName        string
	Password        string
	PasswordConfirm string
}

// NormalizedEmail returns the login identifier the account is stored under.
func (p CreateUserParams) NormalizedEmail() string {
	return strings.ToLower(strings.TrimSpace(p.Email))
}

// Validate ...
func (p CreateUserParams) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.EmailFormat),
		validation.Field(&p.FirstName, validation.Required, validation.Length(1, 150)),
		validation.Field(&p.LastName, validation.Required, validation.Length(1, 150)),
		validation.Field(&p.Password, validation.Required, validation.Length(8, 72)),
		validation.Field(&p.PasswordConfirm, validation.Required, validation.By(func(interface{}) error {
			if p.PasswordConfirm != p.Password {
				return validation.NewError("validation_password", "passwords do not match")
			}

			return nil
		})))
	if err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "validation.ValidateStruct")
	}

	return nil
}
