package internal

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Priority indicates how important a Task is.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Rank returns the ordering weight of a priority, lower sorts first. Unknown
// values always sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}

	return 4
}

// Validate ...
func (p Priority) Validate() error {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown priority: %s", p)
}

// Status indicates where a Task is in its lifecycle.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Validate ...
func (s Status) Validate() error {
	switch s {
	case StatusPending, StatusInProgress, StatusCompleted, StatusCancelled:
		return nil
	}

	return NewErrorf(ErrorCodeInvalidArgument, "unknown status: %s", s)
}

// Dates indicates the scheduling window of a Task.
type Dates struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Validate enforces the scheduling invariant: an end date equal to the start
// date is valid, one strictly earlier is not.
func (d Dates) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Start, validation.Required),
		validation.Field(&d.End, validation.Required, validation.By(func(interface{}) error {
			if d.End.Before(d.Start) {
				return validation.NewError("validation_dates", "end date must not be before start date")
			}

			return nil
		})))
	if err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "validation.ValidateStruct")
	}

	return nil
}

// Task is a user-owned activity that needs to be completed within a period of
// time.
type Task struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      Status    `json:"status"`
	Priority    Priority  `json:"priority"`
	Dates       Dates     `json:"dates"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validate ...
func (t Task) Validate() error {
	if err := validation.ValidateStruct(&t,
		validation.Field(&t.Title, validation.Required, validation.Length(1, 200)),
		validation.Field(&t.UserID, validation.Required, validation.Length(36, 36)),
	); err != nil {
		return WrapErrorf(err, ErrorCodeInvalidArgument, "validation.ValidateStruct")
	}

	if err := t.Status.Validate(); err != nil {
		return err
	}

	if err := t.Priority.Validate(); err != nil {
		return err
	}

	return t.Dates.Validate()
}

// IsOverdue reports whether the task slipped past its end date while still
// actionable. Completed and cancelled tasks are never overdue.
func (t Task) IsOverdue(now time.Time) bool {
	if !t.Dates.End.Before(now) {
		return false
	}

	return t.Status == StatusPending || t.Status == StatusInProgress
}

// DaysUntilDue returns the whole-day difference between the end date and the
// current date, negative when the end date already passed.
func (t Task) DaysUntilDue(now time.Time) int {
	due := civilDate(t.Dates.End, now.Location())
	today := civilDate(now, now.Location())

	return int(due.Sub(today).Hours() / 24)
}

// civilDate truncates a moment to its calendar date in the given location.
// Stored timestamps come back in UTC, so bucket boundaries must be computed
// in the clock's zone for the comparisons to line up.
func civilDate(t time.Time, loc *time.Location) time.Time {
	year, month, day := t.In(loc).Date()

	return time.Date(year, month, day, 0, 0, 0, 0, loc)
}
