package memcached

import (
	"context"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.uber.org/zap"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// Task decorates a TaskStore with cache-aside caching of point reads. List
// results are never cached, section bucketing depends on the current moment.
type Task struct {
	client     *memcache.Client
	orig       TaskStore
	expiration time.Duration
	logger     *zap.Logger
}

// TaskStore defines the datastore being decorated.
type TaskStore interface {
	Create(ctx context.Context, params internal.CreateParams) (internal.Task, error)
	Delete(ctx context.Context, userID, id string) error
	Find(ctx context.Context, userID, id string) (internal.Task, error)
	List(ctx context.Context, userID string) ([]internal.Task, error)
	Update(ctx context.Context, userID, id string, params internal.CreateParams) (internal.Task, error)
}

// NewTask instantiates the Task repository.
func NewTask(client *memcache.Client, orig TaskStore, logger *zap.Logger) *Task {
	return &Task{
		client:     client,
		orig:       orig,
		expiration: 15 * time.Minute,
		logger:     logger,
	}
}

// Create delegates and primes the cache with the new record.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	task, err := t.orig.Create(ctx, params)
	if err != nil {
		return internal.Task{}, err
	}

	setTask(ctx, t.client, taskKey(task.UserID, task.ID), &task, t.expiration)

	return task, nil
}

// Delete delegates and evicts.
func (t *Task) Delete(ctx context.Context, userID, id string) error {
	if err := t.orig.Delete(ctx, userID, id); err != nil {
		return err
	}

	deleteTask(ctx, t.client, taskKey(userID, id))

	return nil
}

// Find serves from the cache when possible, falling back to the original
// store and caching the result.
func (t *Task) Find(ctx context.Context, userID, id string) (internal.Task, error) {
	var res internal.Task

	if err := getTask(ctx, t.client, taskKey(userID, id), &res); err == nil {
		return res, nil
	}

	t.logger.Debug("Find: cache miss", zap.String("task_id", id))

	res, err := t.orig.Find(ctx, userID, id)
	if err != nil {
		return internal.Task{}, err
	}

	setTask(ctx, t.client, taskKey(userID, id), &res, t.expiration)

	return res, nil
}

// List always hits the original store.
func (t *Task) List(ctx context.Context, userID string) ([]internal.Task, error) {
	return t.orig.List(ctx, userID)
}

// Update delegates, then replaces the cached record.
func (t *Task) Update(ctx context.Context, userID, id string, params internal.CreateParams) (internal.Task, error) {
	task, err := t.orig.Update(ctx, userID, id, params)
	if err != nil {
		return internal.Task{}, err
	}

	setTask(ctx, t.client, taskKey(userID, id), &task, t.expiration)

	return task, nil
}

func taskKey(userID, id string) string {
	return "tasks:" + userID + ":" + id
}
