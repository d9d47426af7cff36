package service

import (
	"errors"
	"fmt"
	"strings"

	"github.com/chanaka-devx/L-essence/internal/model"
)

// ValidationError reports malformed or missing input.  Fields lists every
// offending input name.
type ValidationError struct {
	Fields []string
	Msg    string
}

func (e ValidationError) Error() string {
	switch {
	case e.Msg != "" && len(e.Fields) > 0:
		return fmt.Sprintf("%s: %s", strings.Join(e.Fields, ", "), e.Msg)
	case e.Msg != "":
		return e.Msg
	case len(e.Fields) > 0:
		return "invalid " + strings.Join(e.Fields, ", ")
	default:
		return "validation error"
	}
}

// ConflictError reports that the request collides with current state.
type ConflictError struct {
	Msg string
	Err error
}

func (e ConflictError) Error() string {
	if e.Msg == "" {
		return "conflict"
	}
	return e.Msg
}

func (e ConflictError) Unwrap() error { return e.Err }

// TransitionError reports a status change that is not an edge of the
// booking lifecycle.
type TransitionError struct {
	From model.BookingStatus
	To   model.BookingStatus
}

func (e TransitionError) Error() string {
	return fmt.Sprintf("cannot change booking status from %s to %s", e.From, e.To)
}

type NotFoundError struct {
	Resource string
	Err      error
}

func (e NotFoundError) Error() string {
	if e.Resource == "" {
		return "not found"
	}
	return fmt.Sprintf("%s not found", e.Resource)
}

func (e NotFoundError) Unwrap() error { return e.Err }

// StorageError wraps a persistence failure.  Error() never includes the
// driver message; Unwrap exposes it for logging.
type StorageError struct {
	Op  string
	Err error
}

func (e StorageError) Error() string {
	if e.Op == "" {
		return "storage failure"
	}
	return "storage failure during " + e.Op
}

func (e StorageError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var target ValidationError
	return errors.As(err, &target)
}

func IsConflict(err error) bool {
	var target ConflictError
	return errors.As(err, &target)
}

func IsTransition(err error) bool {
	var target TransitionError
	return errors.As(err, &target)
}

func IsNotFound(err error) bool {
	var target NotFoundError
	return errors.As(err, &target)
}

func IsStorage(err error) bool {
	var target StorageError
	return errors.As(err, &target)
}

func invalid(msg string, fields ...string) error {
	return ValidationError{Fields: fields, Msg: msg}
}

func storage(op string, err error) error {
	return StorageError{Op: op, Err: err}
}
