// Package server provides the HTTP REST API for the interview tracker.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"github.com/jonathan/interview-tracker/internal/access"
	"github.com/jonathan/interview-tracker/internal/db"
	"github.com/jonathan/interview-tracker/internal/query"
	"github.com/jonathan/interview-tracker/internal/schemas"
	"github.com/jonathan/interview-tracker/internal/types"
)

// Stable machine-readable error kinds.
const (
	KindUnauthenticated  = "unauthenticated"
	KindForbidden        = "forbidden"
	KindNotFound         = "not_found"
	KindValidationFailed = "validation_failed"
	KindConflict         = "conflict"
	KindInternal         = "internal"
)

// ErrEmailAlreadyExists indicates email is already registered
type ErrEmailAlreadyExists struct {
	Email string
}

func (e *ErrEmailAlreadyExists) Error() string {
	return fmt.Sprintf("email already registered: %s", e.Email)
}

// ErrInvalidCredentials indicates invalid login credentials
type ErrInvalidCredentials struct{}

func (e *ErrInvalidCredentials) Error() string {
	return "invalid email or password"
}

// ErrUserNotFound indicates user was not found
type ErrUserNotFound struct {
	UserID uuid.UUID
	Email  string
}

func (e *ErrUserNotFound) Error() string {
	if e.Email != "" {
		return fmt.Sprintf("user not found: %s", e.Email)
	}
	return fmt.Sprintf("user not found: %s", e.UserID)
}

// ErrPasswordMismatch indicates current password is incorrect
type ErrPasswordMismatch struct{}

func (e *ErrPasswordMismatch) Error() string {
	return "current password is incorrect"
}

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrUnauthenticated indicates a missing or unusable credential.
type ErrUnauthenticated struct {
	Message string
}

func (e *ErrUnauthenticated) Error() string {
	return e.Message
}

// ErrForbidden indicates an authenticated caller lacks permission.
type ErrForbidden struct {
	Message string
}

func (e *ErrForbidden) Error() string {
	return e.Message
}

// ErrNotFound indicates a resource that does not exist or is not visible to the caller.
type ErrNotFound struct {
	Resource string
}

func (e *ErrNotFound) Error() string {
	return e.Resource + " not found"
}

// ErrConflict indicates a request that collides with existing state.
type ErrConflict struct {
	Message string
}

func (e *ErrConflict) Error() string {
	return e.Message
}

// Kind classifies err into one of the stable error kinds.
func Kind(err error) string {
	var (
		emailExists   *ErrEmailAlreadyExists
		badCreds      *ErrInvalidCredentials
		userNotFound  *ErrUserNotFound
		pwMismatch    *ErrPasswordMismatch
		validation    *ErrValidation
		unauth        *ErrUnauthenticated
		forbidden     *ErrForbidden
		notFound      *ErrNotFound
		conflict      *ErrConflict
		fieldErr      *types.FieldError
		schemaInvalid *schemas.ValidationError
	)
	switch {
	case err == nil:
		return ""
	case errors.As(err, &badCreds), errors.As(err, &unauth):
		return KindUnauthenticated
	case errors.As(err, &forbidden),
		errors.Is(err, access.ErrAdminRequired),
		errors.Is(err, access.ErrSelfDemotion),
		errors.Is(err, access.ErrSelfDeletion):
		return KindForbidden
	case errors.As(err, &userNotFound), errors.As(err, &notFound):
		return KindNotFound
	case errors.As(err, &validation), errors.As(err, &pwMismatch), errors.As(err, &fieldErr),
		errors.As(err, &schemaInvalid), errors.Is(err, query.ErrEmptyChangeSet):
		return KindValidationFailed
	case errors.As(err, &emailExists), errors.As(err, &conflict),
		errors.Is(err, db.ErrDuplicate), errors.Is(err, db.ErrReferenced):
		return KindConflict
	default:
		return KindInternal
	}
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	switch Kind(err) {
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindValidationFailed:
		return http.StatusBadRequest
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// errorField returns the offending request field, if the error names one.
func errorField(err error) string {
	var (
		validation    *ErrValidation
		fieldErr      *types.FieldError
		schemaInvalid *schemas.ValidationError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Field
	case errors.As(err, &fieldErr):
		return fieldErr.Field
	case errors.As(err, &schemaInvalid):
		return schemaInvalid.First().Field
	default:
		return ""
	}
}

// errorMessage returns the client-facing message. Internal errors are never
// described beyond a generic message.
func errorMessage(err error) string {
	var (
		schemaInvalid *schemas.ValidationError
		conflict      *ErrConflict
		emailExists   *ErrEmailAlreadyExists
	)
	switch {
	case Kind(err) == KindInternal:
		return "internal server error"
	case errors.Is(err, db.ErrDuplicate) && !errors.As(err, &conflict) && !errors.As(err, &emailExists):
		return "resource already exists"
	case errors.Is(err, db.ErrReferenced) && !errors.As(err, &conflict):
		return "resource is still referenced"
	case errors.As(err, &schemaInvalid):
		first := schemaInvalid.First()
		return fmt.Sprintf("%s: %s", first.Field, first.Message)
	case errors.Is(err, query.ErrEmptyChangeSet):
		return query.ErrEmptyChangeSet.Error()
	default:
		return err.Error()
	}
}
