package domain

import (
	"fmt"
	"strings"
)

// Task listing bounds.
const (
	DefaultTaskLimit = 100
	MaxTaskLimit     = 100
)

// TaskSortField names a column tasks can be ordered by.
type TaskSortField string

// Sortable task fields, spelled the way clients send them in sortBy.
const (
	TaskSortCreatedAt   TaskSortField = "createdAt"
	TaskSortUpdatedAt   TaskSortField = "updatedAt"
	TaskSortDescription TaskSortField = "description"
	TaskSortCompleted   TaskSortField = "completed"
)

// TaskQuery describes a filtered, sorted page of one owner's tasks.
type TaskQuery struct {
	// Completed filters on completion state when non-nil.
	Completed *bool
	// Description filters on a case-insensitive substring when non-empty.
	Description string
	Limit       int
	Offset      int
	SortField   TaskSortField
	SortDesc    bool
}

// DefaultTaskQuery lists the newest tasks first.
func DefaultTaskQuery() TaskQuery {
	return TaskQuery{
		Limit:     DefaultTaskLimit,
		SortField: TaskSortCreatedAt,
		SortDesc:  true,
	}
}

// ParseTaskSort parses a "field:direction" expression such as
// "createdAt:desc". The direction is optional and defaults to ascending.
func ParseTaskSort(expr string) (TaskSortField, bool, error) {
	field, dir, _ := strings.Cut(strings.TrimSpace(expr), ":")

	sortField := TaskSortField(field)
	switch sortField {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortDescription, TaskSortCompleted:
	default:
		return "", false, NewValidationError("sortBy", fmt.Sprintf("cannot sort by %q", field), ErrValidation)
	}

	switch strings.ToLower(dir) {
	case "", "asc":
		return sortField, false, nil
	case "desc":
		return sortField, true, nil
	default:
		return "", false, NewValidationError("sortBy", fmt.Sprintf("unknown direction %q", dir), ErrValidation)
	}
}

// Validate checks the paging bounds and sort field.
func (q TaskQuery) Validate() error {
	if q.Limit < 1 || q.Limit > MaxTaskLimit {
		return NewValidationError("limit", fmt.Sprintf("must be between 1 and %d", MaxTaskLimit), ErrValidation)
	}
	if q.Offset < 0 {
		return NewValidationError("skip", "must be non-negative", ErrValidation)
	}
	switch q.SortField {
	case TaskSortCreatedAt, TaskSortUpdatedAt, TaskSortDescription, TaskSortCompleted:
		return nil
	default:
		return NewValidationError("sortBy", fmt.Sprintf("cannot sort by %q", q.SortField), ErrValidation)
	}
}
