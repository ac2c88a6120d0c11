package service

import (
	"context"
	"time"

	"github.com/mercari/go-circuitbreaker"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/sanLimbu/taskplanner-api/internal"
)

const otelName = "github.com/sanLimbu/taskplanner-api/internal/service"

// TaskRepository defines the datastore handling persisting Task records.
type TaskRepository interface {
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, userID, id string) error
	Find(ctx context.Context, userID, id string) (internal.Task, error)
	List(ctx context.Context, userID string) ([]internal.Task, error)
	Update(ctx context.Context, userID, id string, params internal.CreateParams) (internal.Task, error)
}

// TaskSearchRepository defines the datastore handling searching Task records.
type TaskSearchRepository interface {
	Search(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error)
}

// TaskMessageBrokerRepository defines the datastore handling publishing Task
// lifecycle events.
type TaskMessageBrokerRepository interface {
	Created(ctx context.Context, task internal.Task) error
	Deleted(ctx context.Context, id string) error
	Updated(ctx context.Context, task internal.Task) error
}

// Task defines the application service in charge of interacting with Tasks.
type Task struct {
	logger    *zap.Logger
	repo      TaskRepository
	search    TaskSearchRepository
	msgBroker TaskMessageBrokerRepository
	cb        *circuitbreaker.CircuitBreaker
}

// NewTask ...
func NewTask(logger *zap.Logger, repo TaskRepository, search TaskSearchRepository, msgBroker TaskMessageBrokerRepository) *Task {
	return &Task{
		logger:    logger,
		repo:      repo,
		search:    search,
		msgBroker: msgBroker,
		cb: circuitbreaker.New(
			circuitbreaker.WithOpenTimeout(time.Minute),
			circuitbreaker.WithTripFunc(circuitbreaker.NewTripFuncFailureRate(10, 0.4)),
			circuitbreaker.WithOnStateChangeHookFn(func(from, to circuitbreaker.State) {
				logger.Info("search circuit breaker state change",
					zap.String("from", string(from)),
					zap.String("to", string(to)))
			}),
		),
	}
}

// Create stores a new record owned by the user in params.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.Create")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.Task{}, err
	}

	task, err := t.repo.Create(ctx, params)
	if err != nil {
		return internal.Task{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "repo.Create")
	}

	// The listing path must not depend on the broker being up.
	_ = t.msgBroker.Created(ctx, task)

	return task, nil
}

// Task gets an existing Task owned by userID from the datastore.
func (t *Task) Task(ctx context.Context, userID, id string) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.Task")
	defer span.End()

	task, err := t.repo.Find(ctx, userID, id)
	if err != nil {
		return internal.Task{}, err
	}

	return task, nil
}

// Update updates an existing Task in the datastore, checking the same
// invariants as creation.
func (t *Task) Update(ctx context.Context, userID, id string, params internal.CreateParams) (internal.Task, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.Update")
	defer span.End()

	if err := params.Validate(); err != nil {
		return internal.Task{}, err
	}

	task, err := t.repo.Update(ctx, userID, id, params)
	if err != nil {
		return internal.Task{}, err
	}

	_ = t.msgBroker.Updated(ctx, task)

	return task, nil
}

// Delete removes an existing Task from the datastore.
func (t *Task) Delete(ctx context.Context, userID, id string) error {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.Delete")
	defer span.End()

	if err := t.repo.Delete(ctx, userID, id); err != nil {
		return err
	}

	_ = t.msgBroker.Deleted(ctx, id)

	return nil
}

// Sections classifies the user's tasks into the three date buckets relative
// to "now" and paginates each bucket by its own cursor. Buckets share one
// base read so a task lands in exactly one of them.
func (t *Task) Sections(ctx context.Context, userID string, now time.Time, cursors internal.SectionCursors) (internal.SectionedTasks, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.Sections")
	defer span.End()

	base, err := t.repo.List(ctx, userID)
	if err != nil {
		return internal.SectionedTasks{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "repo.List")
	}

	return internal.SectionedTasks{
		Today:        internal.Paginate(internal.FilterToday(base, now), cursors.Today, internal.DefaultPageSize),
		Tomorrow:     internal.Paginate(internal.FilterTomorrow(base, now), cursors.Tomorrow, internal.DefaultPageSize),
		Upcoming:     internal.Paginate(internal.FilterUpcoming(base, now), cursors.Upcoming, internal.DefaultPageSize),
		OverdueCount: len(internal.FilterOverdue(base, now)),
		Now:          now,
	}, nil
}

// Section paginates a single named date bucket, used by the partial-refresh
// path. Callers must have parsed the section identifier already.
func (t *Task) Section(ctx context.Context, userID string, section internal.Section, now time.Time, page int) (internal.Page, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.Section")
	defer span.End()

	base, err := t.repo.List(ctx, userID)
	if err != nil {
		return internal.Page{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "repo.List")
	}

	var items []internal.Task

	switch section {
	case internal.SectionToday:
		items = internal.FilterToday(base, now)
	case internal.SectionTomorrow:
		items = internal.FilterTomorrow(base, now)
	case internal.SectionUpcoming:
		items = internal.FilterUpcoming(base, now)
	case internal.SectionOverdue:
		items = internal.FilterOverdue(base, now)
	default:
		return internal.Page{}, internal.NewErrorf(internal.ErrorCodeInvalidArgument, "unknown section: %q", section)
	}

	return internal.Paginate(items, page, internal.DefaultPageSize), nil
}

// By searches the user's tasks matching the received values. The search
// backend sits behind a circuit breaker, a tripped breaker surfaces as a
// plain error rather than hammering the index.
func (t *Task) By(ctx context.Context, args internal.SearchParams) (internal.SearchResults, error) {
	ctx, span := trace.SpanFromContext(ctx).TracerProvider().Tracer(otelName).Start(ctx, "Task.By")
	defer span.End()

	if !t.cb.Ready() {
		return internal.SearchResults{}, internal.NewErrorf(internal.ErrorCodeUnknown, "search unavailable")
	}

	res, err := t.search.Search(ctx, args)
	if err = t.cb.Done(ctx, err); err != nil {
		return internal.SearchResults{}, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "search.Search")
	}

	return res, nil
}
