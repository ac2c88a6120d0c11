package rest_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/sanLimbu/taskplanner-api/internal"
	"github.com/sanLimbu/taskplanner-api/internal/rest"
)

type fakeTaskService struct {
	sections     internal.SectionedTasks
	sectionsErr  error
	gotCursors   internal.SectionCursors
	page         internal.Page
	gotSection   internal.Section
	gotPage      int
	task         internal.Task
	taskErr      error
	createErr    error
	searchResult internal.SearchResults
	gotSearch    internal.SearchParams
}

func (f *fakeTaskService) By(_ context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	f.gotSearch = args
	return f.searchResult, nil
}

func (f *fakeTaskService) Create(_ context.Context, params internal.CreateParams) (internal.Task, error) {
	if f.createErr != nil {
		return internal.Task{}, f.createErr
	}

	if err := params.Validate(); err != nil {
		return internal.Task{}, err
	}

	return internal.Task{
		ID:       "created-task",
		UserID:   params.UserID,
		Title:    params.Title,
		Status:   params.Status,
		Priority: params.Priority,
		Dates:    params.Dates,
	}, nil
}

func (f *fakeTaskService) Delete(context.Context, string, string) error {
	return f.taskErr
}

func (f *fakeTaskService) Section(_ context.Context, _ string, section internal.Section, _ time.Time, page int) (internal.Page, error) {
	f.gotSection = section
	f.gotPage = page

	return f.page, nil
}

func (f *fakeTaskService) Sections(_ context.Context, _ string, _ time.Time, cursors internal.SectionCursors) (internal.SectionedTasks, error) {
	f.gotCursors = cursors

	return f.sections, f.sectionsErr
}

func (f *fakeTaskService) Task(context.Context, string, string) (internal.Task, error) {
	return f.task, f.taskErr
}

func (f *fakeTaskService) Update(_ context.Context, _, _ string, params internal.CreateParams) (internal.Task, error) {
	if err := params.Validate(); err != nil {
		return internal.Task{}, err
	}

	return f.task, f.taskErr
}

type fakeResolver struct {
	user internal.User
}

func (f *fakeResolver) UserFromSession(_ context.Context, token string) (internal.User, error) {
	if token != "valid-token" {
		return internal.User{}, internal.NewErrorf(internal.ErrorCodeUnauthorized, "unknown session")
	}

	return f.user, nil
}

func newRouter(svc *fakeTaskService) chi.Router {
	router := chi.NewRouter()

	resolver := &fakeResolver{user: internal.User{ID: "2872f1a4-3f35-4a6c-8a3e-24fd3d3a4c55"}}
	now := func() time.Time { return time.Date(2024, 6, 12, 9, 0, 0, 0, time.UTC) }

	rest.NewTaskHandler(svc, now).Register(router, rest.RequireAuth(resolver))

	return router
}

func authenticate(req *http.Request) *http.Request {
	req.AddCookie(&http.Cookie{Name: rest.SessionCookie, Value: "valid-token"})
	return req
}

func TestTaskHandler_List(t *testing.T) {
	t.Parallel()

	t.Run("full listing passes per-section cursors through", func(t *testing.T) {
		t.Parallel()

		svc := &fakeTaskService{
			sections: internal.SectionedTasks{
				Today:    internal.Page{Number: 2, TotalPages: 3},
				Tomorrow: internal.Page{Number: 1, TotalPages: 1},
				Upcoming: internal.Page{Number: 1, TotalPages: 1},
			},
		}
		router := newRouter(svc)

		req := authenticate(httptest.NewRequest(http.MethodGet, "/tasks?today_page=2&upcoming_page=notanumber", nil))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, internal.SectionCursors{Today: 2, Tomorrow: 0, Upcoming: 0}, svc.gotCursors)

		var res internal.SectionedTasks
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, 2, res.Today.Number)
	})

	t.Run("AJAX marker switches to a single fragment", func(t *testing.T) {
		t.Parallel()

		svc := &fakeTaskService{
			page: internal.Page{
				Items:      []internal.Task{{ID: "abc", Title: "water the plants"}},
				Number:     2,
				TotalPages: 4,
				HasNext:    true,
			},
		}
		router := newRouter(svc)

		req := authenticate(httptest.NewRequest(http.MethodGet, "/tasks?section=tomorrow&page=2", nil))
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, internal.SectionTomorrow, svc.gotSection)
		require.Equal(t, 2, svc.gotPage)

		var res rest.FragmentResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Contains(t, res.HTML, `id="tasks-tomorrow-section"`)
		require.Contains(t, res.HTML, "water the plants")
		require.Contains(t, res.HTML, `data-section="tomorrow" data-page="3"`)
	})

	t.Run("unknown section on the fragment path is a 400", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		req := authenticate(httptest.NewRequest(http.MethodGet, "/tasks?section=overdue", nil))
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestTaskHandler_Auth(t *testing.T) {
	t.Parallel()

	t.Run("browser without session is redirected to login", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/tasks", nil))

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/login", rec.Header().Get("Location"))
	})

	t.Run("AJAX without session gets a JSON 401", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		req := httptest.NewRequest(http.MethodGet, "/tasks?section=today", nil)
		req.Header.Set("X-Requested-With", "XMLHttpRequest")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var res rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, "authentication required", res.Error)
	})

	t.Run("API client accepting JSON gets a 401, not a redirect", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.Header.Set("Accept", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)

		var res rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, "authentication required", res.Error)
	})

	t.Run("stale session token is rejected", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		req.AddCookie(&http.Cookie{Name: rest.SessionCookie, Value: "expired"})
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
	})
}

func TestTaskHandler_Create(t *testing.T) {
	t.Parallel()

	t.Run("JSON body", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		body, _ := json.Marshal(map[string]string{
			"title":      "water the plants",
			"priority":   "high",
			"start_date": "2024-06-12T10:00:00Z",
			"end_date":   "2024-06-12T11:00:00Z",
		})

		req := authenticate(httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var res rest.TaskResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Equal(t, "created-task", res.Task.ID)
		require.Equal(t, internal.StatusPending, res.Task.Status)
	})

	t.Run("form post redirects back to the listing", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		form := url.Values{
			"title":      {"water the plants"},
			"priority":   {"low"},
			"start_date": {"2024-06-12T10:00"},
			"end_date":   {"2024-06-12T11:00"},
		}

		req := authenticate(httptest.NewRequest(http.MethodPost, "/tasks", strings.NewReader(form.Encode())))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusSeeOther, rec.Code)
		require.Equal(t, "/tasks", rec.Header().Get("Location"))
	})

	t.Run("validation failure reports field errors", func(t *testing.T) {
		t.Parallel()

		router := newRouter(&fakeTaskService{})

		body, _ := json.Marshal(map[string]string{
			"priority":   "high",
			"start_date": "2024-06-12T10:00:00Z",
			"end_date":   "2024-06-12T09:00:00Z",
		})

		req := authenticate(httptest.NewRequest(http.MethodPost, "/tasks", bytes.NewReader(body)))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)

		var res rest.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &res))
		require.Contains(t, res.Fields, "title")
	})
}

func TestTaskHandler_Search(t *testing.T) {
	t.Parallel()

	svc := &fakeTaskService{
		searchResult: internal.SearchResults{
			Tasks: []internal.Task{{ID: "found"}},
			Total: 1,
		},
	}
	router := newRouter(svc)

	req := authenticate(httptest.NewRequest(http.MethodGet, "/search?title=plants&priority=high&from=5", nil))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, svc.gotSearch.Title)
	require.Equal(t, "plants", *svc.gotSearch.Title)
	require.Equal(t, internal.PriorityHigh, *svc.gotSearch.Priority)
	require.Equal(t, int64(5), svc.gotSearch.From)
	require.Equal(t, "2872f1a4-3f35-4a6c-8a3e-24fd3d3a4c55", svc.gotSearch.UserID)

	// Query-owner scoping is never taken from user input.
	req = authenticate(httptest.NewRequest(http.MethodGet, "/search?priority=urgent", nil))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}
