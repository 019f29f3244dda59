package handler

// RESPONSE HELPERS:
// Every endpoint answers with the same envelope the service layer already
// uses, model.Result:
//
//	{"success": true,  "message": "answer created", "data": {...}}
//	{"success": false, "message": "answer content is required"}
//
// go-chi/render does the encoding; render.Status stores the status code on
// the request context and render.JSON writes it together with the body.
//
// ERROR MAPPING:
// Services return *apperror.AppError values wrapping a sentinel. This is the
// only place that turns a sentinel into an HTTP status. Anything that is not
// an AppError is a 500 and its text never reaches the client.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/sakif/homework-qa/internal/apperror"
	"github.com/sakif/homework-qa/internal/auth"
	"github.com/sakif/homework-qa/internal/model"
)

// UserLookup resolves the user ID from a token into a full user. The auth
// service satisfies it.
type UserLookup interface {
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
}

const internalErrorMessage = "an internal error occurred"

// statusFor maps a domain error onto an HTTP status code.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperror.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, apperror.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperror.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperror.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperror.ErrUnauthorized):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// writeResult sends res. Successful results use okStatus; failed ones get the
// status of their error.
func writeResult[T any](w http.ResponseWriter, r *http.Request, logger *slog.Logger, okStatus int, res model.Result[T]) {
	if !res.Success {
		writeError(w, r, logger, res.Err)
		return
	}
	render.Status(r, okStatus)
	render.JSON(w, r, res)
}

// writeError sends a failed Result for err.
func writeError(w http.ResponseWriter, r *http.Request, logger *slog.Logger, err error) {
	status := statusFor(err)
	res := model.Fail[any](err)

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		res.Message = appErr.Message
	}
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		res.Message = internalErrorMessage
	}

	render.Status(r, status)
	render.JSON(w, r, res)
}

// decodeJSON reads the request body into v. A malformed body is a
// validation error.
func decodeJSON(r *http.Request, v any) error {
	if err := render.DecodeJSON(r.Body, v); err != nil {
		return apperror.ValidationFailed("body", "invalid JSON body")
	}
	return nil
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, error) {
	return parseID("id", chi.URLParam(r, "id"))
}

func parseID(field, raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.ValidationFailed(field, field+" must be a positive integer")
	}
	return id, nil
}

// optionalID parses a query parameter that may be absent.
func optionalID(r *http.Request, field string) (*int64, error) {
	raw := r.URL.Query().Get(field)
	if raw == "" {
		return nil, nil
	}
	id, err := parseID(field, raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// currentUser returns the authenticated user for r. The auth middleware must
// have run; a token whose user has since been removed counts as unauthorized.
func currentUser(r *http.Request, users UserLookup) (*model.User, error) {
	id, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		return nil, apperror.Unauthorized("valid authentication required")
	}
	user, err := users.GetUserByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized("account no longer exists")
		}
		return nil, err
	}
	return user, nil
}
