package rest

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// UserService ...
type UserService interface {
	Login(ctx context.Context, email, password string) (string, internal.User, error)
	Logout(ctx context.Context, token string) error
	Register(ctx context.Context, params internal.CreateUserParams) (internal.User, error)
}

// UserHandler ...
type UserHandler struct {
	svc UserService
}

// NewUserHandler ...
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// Register connects the handlers to the router. These routes are public.
func (u *UserHandler) Register(r chi.Router) {
	r.Post("/users", u.create)
	r.Post("/sessions", u.login)
	r.Delete("/sessions", u.logout)
}

// CreateUserRequest defines the request used for registering users.
type CreateUserRequest struct {
	Email           string `json:"email"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
}

// CreateUserResponse defines the response returned back after registering.
type CreateUserResponse struct {
	User internal.User `json:"user"`
}

func (u *UserHandler) create(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	user, err := u.svc.Register(r.Context(), internal.CreateUserParams{
		Email:           req.Email,
		FirstName:       req.FirstName,
		LastName:        req.LastName,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	})
	if err != nil {
		renderErrorResponse(r.Context(), w, "registration failed", err)
		return
	}

	renderResponse(w, &CreateUserResponse{User: user}, http.StatusCreated)
}

// LoginRequest defines the request used for authenticating.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse defines the response returned back after authenticating.
type LoginResponse struct {
	User internal.User `json:"user"`
}

func (u *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder"))
		return
	}
	defer r.Body.Close()

	token, user, err := u.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		renderErrorResponse(r.Context(), w, "login failed", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	renderResponse(w, &LoginResponse{User: user}, http.StatusOK)
}

func (u *UserHandler) logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(SessionCookie)
	if err == nil && cookie.Value != "" {
		if err := u.svc.Logout(r.Context(), cookie.Value); err != nil {
			renderErrorResponse(r.Context(), w, "logout failed", err)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
	})

	renderResponse(w, struct{}{}, http.StatusOK)
}
