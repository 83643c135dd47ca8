package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes without leaking infrastructure details.
var (
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrBadRequest         = errors.New("bad request")
	ErrPreconditionFailed = errors.New("precondition failed")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrStorage            = errors.New("storage unavailable")
)

// ErrInvalidRequest is the request-validation kind; it is the same value as ErrBadRequest.
var ErrInvalidRequest = ErrBadRequest

// Reasons carried by application submission failures. Each wraps its kind.
var (
	ErrNoResume             = fmt.Errorf("no resume on file: %w", ErrPreconditionFailed)
	ErrDeadlinePassed       = fmt.Errorf("application deadline has passed: %w", ErrConflict)
	ErrDuplicateApplication = fmt.Errorf("already applied to this internship: %w", ErrConflict)
	ErrInternshipNotOpen    = fmt.Errorf("internship is not accepting applications: %w", ErrConflict)
)
