package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/sanLimbu/taskplanner-api/internal"
)

//go:generate counterfeiter -o resttesting/task_service.gen.go . TaskService

// TaskService ...
type TaskService interface {
	By(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, userID, id string) error
	Section(ctx context.Context, userID string, section internal.Section, now time.Time, page int) (internal.Page, error)
	Sections(ctx context.Context, userID string, now time.Time, cursors internal.SectionCursors) (internal.SectionedTasks, error)
	Task(ctx context.Context, userID, id string) (internal.Task, error)
	Update(ctx context.Context, userID, id string, params internal.CreateParams) (internal.Task, error)
}

// TaskHandler ...
type TaskHandler struct {
	svc TaskService
	now func() time.Time
}

// NewTaskHandler instantiates the handler. The clock is injectable so tests
// can pin the bucket boundaries.
func NewTaskHandler(svc TaskService, now func() time.Time) *TaskHandler {
	if now == nil {
		now = time.Now
	}

	return &TaskHandler{
		svc: svc,
		now: now,
	}
}

// Register connects the handlers to the router behind the auth guard.
func (t *TaskHandler) Register(r chi.Router, auth func(http.Handler) http.Handler) {
	r.Group(func(r chi.Router) {
		r.Use(auth)

		r.Get("/tasks", t.list)
		r.Post("/tasks", t.create)
		r.Get("/tasks/{id}", t.read)
		r.Put("/tasks/{id}", t.update)
		r.Delete("/tasks/{id}", t.delete)
		r.Get("/search", t.search)
	})
}

// CreateTaskRequest defines the request used for creating tasks.
type CreateTaskRequest struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// TaskResponse defines the response returned back for single-task
// operations.
type TaskResponse struct {
	Task internal.Task `json:"task"`
}

// FragmentResponse is the envelope of a partial-refresh response.
type FragmentResponse struct {
	HTML string `json:"html"`
}

// list serves the sectioned task listing. A request carrying the AJAX marker
// and a section identifier gets a single rendered fragment, anything else
// gets the full composite context with every bucket paginated by its own
// cursor.
func (t *TaskHandler) list(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no user in context"))
		return
	}

	if r.Header.Get(headerRequestedWith) == "XMLHttpRequest" {
		t.listSection(w, r, user)
		return
	}

	cursors := internal.SectionCursors{
		Today:    parsePage(r.URL.Query().Get("today_page")),
		Tomorrow: parsePage(r.URL.Query().Get("tomorrow_page")),
		Upcoming: parsePage(r.URL.Query().Get("upcoming_page")),
	}

	res, err := t.svc.Sections(r.Context(), user.ID, t.now(), cursors)
	if err != nil {
		renderErrorResponse(r.Context(), w, "list failed", err)
		return
	}

	renderResponse(w, &res, http.StatusOK)
}

func (t *TaskHandler) listSection(w http.ResponseWriter, r *http.Request, user internal.User) {
	section, err := internal.ParseSection(r.URL.Query().Get("section"))
	if err != nil {
		renderErrorResponse(r.Context(), w, "missing or unknown section", err)
		return
	}

	page, err := t.svc.Section(r.Context(), user.ID, section, t.now(), parsePage(r.URL.Query().Get("page")))
	if err != nil {
		renderErrorResponse(r.Context(), w, "section failed", err)
		return
	}

	html, err := renderFragment(section, page)
	if err != nil {
		renderErrorResponse(r.Context(), w, "could not render section", err)
		return
	}

	renderResponse(w, &FragmentResponse{HTML: html}, http.StatusOK)
}

func (t *TaskHandler) create(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no user in context"))
		return
	}

	req, formEncoded, err := decodeTaskRequest(r)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", err)
		return
	}

	task, err := t.svc.Create(r.Context(), req.params(user.ID))
	if err != nil {
		renderErrorResponse(r.Context(), w, "create failed", err)
		return
	}

	// Browser form submissions land back on the listing route.
	if formEncoded {
		http.Redirect(w, r, "/tasks", http.StatusSeeOther)
		return
	}

	renderResponse(w, &TaskResponse{Task: task}, http.StatusCreated)
}

func (t *TaskHandler) read(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no user in context"))
		return
	}

	task, err := t.svc.Task(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		renderErrorResponse(r.Context(), w, "find failed", err)
		return
	}

	renderResponse(w, &TaskResponse{Task: task}, http.StatusOK)
}

func (t *TaskHandler) update(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no user in context"))
		return
	}

	req, _, err := decodeTaskRequest(r)
	if err != nil {
		renderErrorResponse(r.Context(), w, "invalid request", err)
		return
	}

	task, err := t.svc.Update(r.Context(), user.ID, chi.URLParam(r, "id"), req.params(user.ID))
	if err != nil {
		renderErrorResponse(r.Context(), w, "update failed", err)
		return
	}

	renderResponse(w, &TaskResponse{Task: task}, http.StatusOK)
}

func (t *TaskHandler) delete(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no user in context"))
		return
	}

	if err := t.svc.Delete(r.Context(), user.ID, chi.URLParam(r, "id")); err != nil {
		renderErrorResponse(r.Context(), w, "delete failed", err)
		return
	}

	renderResponse(w, struct{}{}, http.StatusOK)
}

// SearchTasksResponse defines the response returned back after searching.
type SearchTasksResponse struct {
	Tasks []internal.Task `json:"tasks"`
	Total int64           `json:"total"`
}

func (t *TaskHandler) search(w http.ResponseWriter, r *http.Request) {
	user, ok := userFromContext(r.Context())
	if !ok {
		renderErrorResponse(r.Context(), w, "authentication required",
			internal.NewErrorf(internal.ErrorCodeUnauthorized, "no user in context"))
		return
	}

	q := r.URL.Query()

	args := internal.SearchParams{
		UserID: user.ID,
		Size:   internal.DefaultPageSize,
	}

	if n, err := strconv.Atoi(q.Get("from")); err == nil && n > 0 {
		args.From = int64(n)
	}

	if v := q.Get("title"); v != "" {
		args.Title = &v
	}

	if v := q.Get("description"); v != "" {
		args.Description = &v
	}

	if v := q.Get("priority"); v != "" {
		p := internal.Priority(v)
		if err := p.Validate(); err != nil {
			renderErrorResponse(r.Context(), w, "invalid priority", err)
			return
		}

		args.Priority = &p
	}

	if v := q.Get("status"); v != "" {
		s := internal.Status(v)
		if err := s.Validate(); err != nil {
			renderErrorResponse(r.Context(), w, "invalid status", err)
			return
		}

		args.Status = &s
	}

	res, err := t.svc.By(r.Context(), args)
	if err != nil {
		renderErrorResponse(r.Context(), w, "search failed", err)
		return
	}

	renderResponse(w, &SearchTasksResponse{Tasks: res.Tasks, Total: res.Total}, http.StatusOK)
}

func (c CreateTaskRequest) params(userID string) internal.CreateParams {
	status := internal.Status(c.Status)
	if c.Status == "" {
		status = internal.StatusPending
	}

	priority := internal.Priority(c.Priority)
	if c.Priority == "" {
		priority = internal.PriorityMedium
	}

	return internal.CreateParams{
		UserID:      userID,
		Title:       c.Title,
		Description: c.Description,
		Status:      status,
		Priority:    priority,
		Dates: internal.Dates{
			Start: c.StartDate,
			End:   c.EndDate,
		},
	}
}

// decodeTaskRequest accepts both JSON and form-encoded bodies, the latter is
// what the task creation form posts.
func decodeTaskRequest(r *http.Request) (CreateTaskRequest, bool, error) {
	defer r.Body.Close()

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/x-www-form-urlencoded") {
		if err := r.ParseForm(); err != nil {
			return CreateTaskRequest{}, true, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "r.ParseForm")
		}

		req := CreateTaskRequest{
			Title:       r.PostFormValue("title"),
			Description: r.PostFormValue("description"),
			Status:      r.PostFormValue("status"),
			Priority:    r.PostFormValue("priority"),
		}

		var err error

		if req.StartDate, err = parseFormTime(r.PostFormValue("start_date")); err != nil {
			return CreateTaskRequest{}, true, err
		}

		if req.EndDate, err = parseFormTime(r.PostFormValue("end_date")); err != nil {
			return CreateTaskRequest{}, true, err
		}

		return req, true, nil
	}

	var req CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return CreateTaskRequest{}, false, internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "json decoder")
	}

	return req, false, nil
}

func parseFormTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}

	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"} {
		if ts, err := time.Parse(layout, v); err == nil {
			return ts, nil
		}
	}

	return time.Time{}, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unrecognized date: %q", v)
}

// parsePage interprets a page-cursor query parameter, anything unparseable
// falls through to the paginator's clamping as page zero.
func parsePage(v string) int {
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}

	return n
}
