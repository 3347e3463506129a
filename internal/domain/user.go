package domain

import (
	"math"
	"strings"
	"time"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// Password length bounds. bcrypt ignores input beyond 72 bytes.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// MaxAge is the largest age the users.age INTEGER column can hold.
const MaxAge = math.MaxInt32

var emailValidator = validator.New()

// User represents a registered user of the task manager.
// It contains profile information and authentication details.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Age            int       `json:"age"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration/updates
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser creates a new User with a fresh ID and timestamps.
// The email is normalised and the plaintext password is kept on the struct;
// the caller is responsible for hashing it before the user is stored.
func NewUser(name, email, password string, age int) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Age:       age,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Validate checks if the User has valid data.
func (u *User) Validate() error {
	if u.ID == uuid.Nil {
		return NewValidationError("id", "cannot be empty", ErrInvalidID)
	}

	if u.Name == "" {
		return NewValidationError("name", "cannot be empty", ErrEmptyContent)
	}

	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if u.Age < 0 {
		return NewValidationError("age", "must be a non-negative number", ErrInvalidAge)
	}
	if u.Age > MaxAge {
		return NewValidationError("age", "is too large", ErrInvalidAge)
	}

	// A plaintext password is only present during creation or a password
	// change; stored users carry the hash instead.
	if u.Password != "" {
		return ValidatePassword(u.Password)
	}
	if u.HashedPassword == "" {
		return NewValidationError("password", "cannot be empty", ErrInvalidPassword)
	}

	return nil
}

// ValidateEmail checks that email is present and well formed.
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", ErrInvalidEmail)
	}
	if err := emailValidator.Var(email, "email"); err != nil {
		return NewValidationError("email", "is invalid", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword enforces the strong password rule: 8 to 72 characters
// with at least one lower-case letter, one upper-case letter, one digit and
// one symbol.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return NewValidationError("password", "must be at least 8 characters long", ErrInvalidPassword)
	}
	if len(password) > MaxPasswordLength {
		return NewValidationError("password", "must be at most 72 characters long", ErrInvalidPassword)
	}

	var lower, upper, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}

	if !lower || !upper || !digit || !symbol {
		return NewValidationError(
			"password",
			"must contain upper and lower case letters, a number and a symbol",
			ErrInvalidPassword,
		)
	}

	return nil
}
