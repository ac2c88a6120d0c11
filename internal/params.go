package internal

// CreateParams carries the attributes of a new task. Ownership is assigned by
// the caller from the authenticated session, never from user input.
type CreateParams struct {
	UserID      string
	Title       string
	Description string
	Status      Status
	Priority    Priority
	Dates       Dates
}

// Validate ...
func (p CreateParams) Validate() error {
	task := Task{
		UserID:      p.UserID,
		Title:       p.Title,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		Dates:       p.Dates,
	}

	return task.Validate()
}

// SectionCursors carries the independent page cursor of each date bucket.
// Zero values mean "first page"; out-of-range values clamp downstream.
type SectionCursors struct {
	Today    int
	Tomorrow int
	Upcoming int
}

// SearchParams defines the arguments used for searching a user's tasks.
type SearchParams struct {
	UserID      string
	Title       *string
	Description *string
	Priority    *Priority
	Status      *Status
	From        int64
	Size        int64
}

// IsZero determines whether the search arguments have values or not.
func (a SearchParams) IsZero() bool {
	return a.Title == nil &&
		a.Description == nil &&
		a.Priority == nil &&
		a.Status == nil
}

// SearchResults defines the collection of tasks that were found.
type SearchResults struct {
	Tasks []Task `json:"tasks"`
	Total int64  `json:"total"`
}
