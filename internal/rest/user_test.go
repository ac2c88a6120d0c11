package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/taskplanner-api/internal"
	"github.com/sanLimbu/taskplanner-api/internal/rest"
)

type fakeUserService struct {
	loginErr     error
	loggedOut    []string
	registerUser internal.User
}

func (f *fakeUserService) Login(_ context.Context, email, _ string) (string, internal.User, error) {
	if f.loginErr != nil {
		return "", internal.User{}, f.loginErr
	}

	return "minted-token", internal.User{ID: "user-1", Email: email}, nil
}

func (f *fakeUserService) Logout(_ context.Context, token string) error {
	f.loggedOut = append(f.loggedOut, token)
	return nil
}

func (f *fakeUserService) Register(_ context.Context, params internal.CreateUserParams) (internal.User, error) {
	if err := params.Validate(); err != nil {
		return internal.User{}, err
	}

	return f.registerUser, nil
}

func newUserRouter(svc *fakeUserService) chi.Router {
	router := chi.NewRouter()
	rest.NewUserHandler(svc).Register(router)

	return router
}

func postJSON(t *testing.T, router chi.Router, target string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, target, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	return rec
}

func TestUserHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("OK", func(t *testing.T) {
		t.Parallel()

		svc := &fakeUserService{registerUser: internal.User{ID: "user-1", Email: "ada@example.com"}}
		router := newUserRouter(svc)

		rec := postJSON(t, router, "/users", map[string]string{
			"email":            "ada@example.com",
			"first_name":       "Ada",
			"last_name":        "Lovelace",
			"password":         "correct horse battery",
			"password_confirm": "correct horse battery",
		})

		require.Equal(t, http.StatusCreated, rec.Code)

		var res rest.CreateUserResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, "user-1", res.User.ID)

		// The credential hash never leaves the server.
		require.NotContains(t, rec.Body.String(), "password")
	})

	t.Run("validation failure surfaces field errors", func(t *testing.T) {
		t.Parallel()

		router := newUserRouter(&fakeUserService{})

		rec := postJSON(t, router, "/users", map[string]string{
			"email":            "ada@example.com",
			"first_name":       "Ada",
			"last_name":        "Lovelace",
			"password":         "correct horse battery",
			"password_confirm": "different",
		})

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var res rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.NotEmpty(t, res.Fields)
	})
}

func TestUserHandler_Login(t *testing.T) {
	t.Parallel()

	t.Run("sets the session cookie", func(t *testing.T) {
		t.Parallel()

		router := newUserRouter(&fakeUserService{})

		rec := postJSON(t, router, "/sessions", map[string]string{
			"email":    "ada@example.com",
			"password": "correct horse battery",
		})

		require.Equal(t, http.StatusOK, rec.Code)

		cookies := rec.Result().Cookies()
		require.Len(t, cookies, 1)
		require.Equal(t, rest.SessionCookie, cookies[0].Name)
		require.Equal(t, "minted-token", cookies[0].Value)
		require.True(t, cookies[0].HttpOnly)
	})

	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()

		svc := &fakeUserService{loginErr: internal.NewErrorf(internal.ErrorCodeUnauthorized, "invalid credentials")}
		router := newUserRouter(svc)

		rec := postJSON(t, router, "/sessions", map[string]string{
			"email":    "ada@example.com",
			"password": "wrong",
		})

		require.Equal(t, http.StatusUnauthorized, rec.Code)
		require.Empty(t, rec.Result().Cookies())
	})
}

func TestUserHandler_Logout(t *testing.T) {
	t.Parallel()

	svc := &fakeUserService{}
	router := newUserRouter(svc)

	req := httptest.NewRequest(http.MethodDelete, "/sessions", nil)
	req.AddCookie(&http.Cookie{Name: rest.SessionCookie, Value: "minted-token"})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, []string{"minted-token"}, svc.loggedOut)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	require.Empty(t, cookies[0].Value)
	require.Negative(t, cookies[0].MaxAge)
}
