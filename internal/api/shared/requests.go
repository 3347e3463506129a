package shared

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/taskmanager-api/internal/domain"
)

// MaxBodyBytes bounds JSON request bodies.
const MaxBodyBytes = 1 << 20

// Global validator instance for reuse
var validate = validator.New()

// ErrInvalidJSON is returned for bodies that are not a single well-formed
// JSON object of the expected shape.
var ErrInvalidJSON = errors.New("invalid request body")

// DecodeJSON decodes the request body into v. Unknown fields and trailing
// data are rejected.
func DecodeJSON(r *http.Request, v interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return domain.NewValidationError("", fmt.Sprintf("invalid request body: %v", err), ErrInvalidJSON)
	}
	if dec.More() {
		return domain.NewValidationError("", "request body must contain a single JSON object", ErrInvalidJSON)
	}
	return nil
}

// DecodePatch decodes a partial-update body into v after checking that
// every key is in allowed. Keys outside allowed, an empty object and null
// values are validation errors; nothing is decoded into v in that case.
func DecodePatch(r *http.Request, allowed []string, v interface{}) error {
	var fields map[string]json.RawMessage
	if err := DecodeJSON(r, &fields); err != nil {
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	if err := domain.CheckAllowedFields(keys, allowed); err != nil {
		return err
	}
	for _, k := range keys {
		if bytes.Equal(bytes.TrimSpace(fields[k]), []byte("null")) {
			return domain.NewValidationError(k, "cannot be null", domain.ErrValidation)
		}
	}

	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to re-encode patch: %w", err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return domain.NewValidationError(typeErr.Field, "has the wrong type", ErrInvalidJSON)
		}
		return domain.NewValidationError("", "invalid request body", ErrInvalidJSON)
	}
	return nil
}

// ValidateRequest validates the given struct using the validator package.
func ValidateRequest(v interface{}) error {
	// Check if the object implements the Validate interface
	if validator, ok := v.(interface{ Validate() error }); ok {
		return validator.Validate()
	}

	// Otherwise, use the struct validator
	return validate.Struct(v)
}
