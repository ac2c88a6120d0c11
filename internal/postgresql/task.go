package postgresql

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/sanLimbu/taskplanner-api/internal"
)

// Task represents the repository used for interacting with Task records.
type Task struct {
	pool *pgxpool.Pool
}

// NewTask instantiates the Task repository.
func NewTask(pool *pgxpool.Pool) *Task {
	return &Task{
		pool: pool,
	}
}

// Create inserts a new task record owned by params.UserID.
func (t *Task) Create(ctx context.Context, params internal.CreateParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Create").End()

	const query = `
		INSERT INTO tasks (id, user_id, title, description, status, priority, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	task := internal.Task{
		ID:          uuid.NewString(),
		UserID:      params.UserID,
		Title:       params.Title,
		Description: params.Description,
		Status:      params.Status,
		Priority:    params.Priority,
		Dates:       params.Dates,
	}

	row := t.pool.QueryRow(ctx, query,
		task.ID,
		task.UserID,
		task.Title,
		task.Description,
		string(task.Status),
		string(task.Priority),
		task.Dates.Start,
		task.Dates.End)

	if err := row.Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return internal.Task{}, wrapScanError(err, "insert task")
	}

	return task, nil
}

// Find returns the task with the requested identifier when it belongs to the
// user. A task owned by somebody else is indistinguishable from a missing
// one.
func (t *Task) Find(ctx context.Context, userID, id string) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Find").End()

	const query = `
		SELECT id, user_id, title, description, status, priority, start_date, end_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1 AND id = $2`

	row := t.pool.QueryRow(ctx, query, userID, id)

	task, err := scanTask(row)
	if err != nil {
		return internal.Task{}, err
	}

	return task, nil
}

// List returns every task owned by the user, newest start date first with
// stable ties. An unknown user simply yields no rows.
func (t *Task) List(ctx context.Context, userID string) ([]internal.Task, error) {
	defer newOTELSpan(ctx, "Task.List").End()

	const query = `
		SELECT id, user_id, title, description, status, priority, start_date, end_date, created_at, updated_at
		FROM tasks
		WHERE user_id = $1
		ORDER BY start_date DESC, created_at DESC, id`

	rows, err := t.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Query")
	}
	defer rows.Close()

	var res []internal.Task

	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}

		res = append(res, task)
	}

	if err := rows.Err(); err != nil {
		return nil, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "rows.Err")
	}

	return res, nil
}

// Update replaces the mutable attributes of an owned task in one atomic
// statement and bumps updated_at.
func (t *Task) Update(ctx context.Context, userID, id string, params internal.CreateParams) (internal.Task, error) {
	defer newOTELSpan(ctx, "Task.Update").End()

	const query = `
		UPDATE tasks
		SET title = $3, description = $4, status = $5, priority = $6, start_date = $7, end_date = $8, updated_at = now()
		WHERE user_id = $1 AND id = $2
		RETURNING id, user_id, title, description, status, priority, start_date, end_date, created_at, updated_at`

	row := t.pool.QueryRow(ctx, query,
		userID,
		id,
		params.Title,
		params.Description,
		string(params.Status),
		string(params.Priority),
		params.Dates.Start,
		params.Dates.End)

	task, err := scanTask(row)
	if err != nil {
		return internal.Task{}, err
	}

	return task, nil
}

// Delete removes an owned task.
func (t *Task) Delete(ctx context.Context, userID, id string) error {
	defer newOTELSpan(ctx, "Task.Delete").End()

	const query = `DELETE FROM tasks WHERE user_id = $1 AND id = $2`

	tag, err := t.pool.Exec(ctx, query, userID, id)
	if err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "pool.Exec")
	}

	if tag.RowsAffected() == 0 {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "task not found: %s", id)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTask(row scanner) (internal.Task, error) {
	var (
		task             internal.Task
		status, priority string
	)

	err := row.Scan(
		&task.ID,
		&task.UserID,
		&task.Title,
		&task.Description,
		&status,
		&priority,
		&task.Dates.Start,
		&task.Dates.End,
		&task.CreatedAt,
		&task.UpdatedAt)
	if err != nil {
		return internal.Task{}, wrapScanError(err, "scan task")
	}

	task.Status = internal.Status(status)
	task.Priority = internal.Priority(priority)

	return task, nil
}
