package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

// Fields a client may patch on each entity. Anything else is rejected
// before the store is touched.
var (
	UserUpdatableFields = []string{"name", "email", "password", "age"}
	TaskUpdatableFields = []string{"description", "completed"}
)

// CheckAllowedFields returns a ValidationError wrapping ErrInvalidUpdateKeys
// when fields contains a name outside allowed, and one wrapping
// ErrEmptyUpdate when fields is empty.
func CheckAllowedFields(fields []string, allowed []string) error {
	if len(fields) == 0 {
		return NewValidationError("", "request must name at least one field", ErrEmptyUpdate)
	}

	var rejected []string
	for _, f := range fields {
		if !slices.Contains(allowed, f) {
			rejected = append(rejected, f)
		}
	}
	if len(rejected) == 0 {
		return nil
	}

	sort.Strings(rejected)
	return NewValidationError(
		"",
		fmt.Sprintf("invalid update keys: %s", strings.Join(rejected, ", ")),
		ErrInvalidUpdateKeys,
	)
}

// UserUpdate carries the whitelisted profile fields a user may change.
// Nil pointers leave the field untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Age      *int
}

// IsEmpty reports whether no field is set.
func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Age == nil
}

// ApplyTo writes the set fields onto a copy of user and validates the
// result. user itself is never modified, so a failed update leaves the
// caller's record unchanged.
func (u UserUpdate) ApplyTo(user *User) (*User, error) {
	if u.IsEmpty() {
		return nil, NewValidationError("", "request must name at least one field", ErrEmptyUpdate)
	}

	updated := *user
	updated.Password = ""
	if u.Name != nil {
		updated.Name = strings.TrimSpace(*u.Name)
	}
	if u.Email != nil {
		updated.Email = NormalizeEmail(*u.Email)
	}
	if u.Password != nil {
		if *u.Password == "" {
			return nil, NewValidationError("password", "cannot be empty", ErrInvalidPassword)
		}
		updated.Password = *u.Password
	}
	if u.Age != nil {
		updated.Age = *u.Age
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now().UTC()
	return &updated, nil
}

// TaskUpdate carries the whitelisted task fields an owner may change.
type TaskUpdate struct {
	Description *string
	Completed   *bool
}

// IsEmpty reports whether no field is set.
func (u TaskUpdate) IsEmpty() bool {
	return u.Description == nil && u.Completed == nil
}

// ApplyTo writes the set fields onto a copy of task and validates it.
func (u TaskUpdate) ApplyTo(task *Task) (*Task, error) {
	if u.IsEmpty() {
		return nil, NewValidationError("", "request must name at least one field", ErrEmptyUpdate)
	}

	updated := *task
	if u.Description != nil {
		updated.Description = strings.TrimSpace(*u.Description)
	}
	if u.Completed != nil {
		updated.Completed = *u.Completed
	}

	if err := updated.Validate(); err != nil {
		return nil, err
	}

	updated.UpdatedAt = time.Now().UTC()
	return &updated, nil
}
