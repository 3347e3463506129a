package api

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/taskmanager-api/internal/api/shared"
	"github.com/phrazzld/taskmanager-api/internal/domain"
	"github.com/phrazzld/taskmanager-api/internal/platform/logger"
)

// getPathUUID extracts a UUID from the URL path parameters.
// It parses and validates the UUID, handling common error cases.
func getPathUUID(r *http.Request, paramName string) (uuid.UUID, error) {
	pathParam := chi.URLParam(r, paramName)
	if pathParam == "" {
		return uuid.Nil, domain.NewValidationError(paramName, "is required", domain.ErrInvalidID)
	}

	id, err := uuid.Parse(pathParam)
	if err != nil {
		return uuid.Nil, domain.NewValidationError(paramName, "has invalid format", domain.ErrInvalidID)
	}

	return id, nil
}

// requireUser returns the authenticated user placed in the context by the
// auth middleware, writing a 401 if there is none.
func requireUser(w http.ResponseWriter, r *http.Request, log *slog.Logger) (*domain.User, bool) {
	user, ok := shared.UserFromContext(r.Context())
	if !ok {
		log.Warn("user not found in request context")
		HandleAPIError(w, r, domain.ErrUnauthorized, "")
		return nil, false
	}
	return user, true
}

// handleUserAndPathUUID extracts both the authenticated user and a UUID
// from the path parameters. It writes an error response if either
// extraction fails.
func handleUserAndPathUUID(
	w http.ResponseWriter,
	r *http.Request,
	paramName string,
	log *slog.Logger,
) (*domain.User, uuid.UUID, bool) {
	if log == nil {
		log = logger.FromContextOrDefault(r.Context(), slog.Default())
	}

	user, ok := requireUser(w, r, log)
	if !ok {
		return nil, uuid.Nil, false
	}

	pathID, err := getPathUUID(r, paramName)
	if err != nil {
		log.Debug("invalid path parameter",
			slog.String("param_name", paramName),
			slog.String("value", chi.URLParam(r, paramName)))
		HandleAPIError(w, r, err, "")
		return nil, uuid.Nil, false
	}

	return user, pathID, true
}

// parseTaskQuery reads the GET /tasks filters:
// completed, description, limit, skip and sortBy=field:asc|desc.
func parseTaskQuery(r *http.Request) (domain.TaskQuery, error) {
	q := domain.DefaultTaskQuery()
	values := r.URL.Query()

	if v := values.Get("completed"); v != "" {
		switch v {
		case "true", "false":
			completed := v == "true"
			q.Completed = &completed
		default:
			return q, domain.NewValidationError("completed", "must be true or false", domain.ErrValidation)
		}
	}

	q.Description = values.Get("description")

	if v := values.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, domain.NewValidationError("limit", "must be an integer", domain.ErrValidation)
		}
		q.Limit = n
	}

	if v := values.Get("skip"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return q, domain.NewValidationError("skip", "must be an integer", domain.ErrValidation)
		}
		q.Offset = n
	}

	if v := values.Get("sortBy"); v != "" {
		field, desc, err := domain.ParseTaskSort(v)
		if err != nil {
			return q, err
		}
		q.SortField = field
		q.SortDesc = desc
	}

	return q, q.Validate()
}
