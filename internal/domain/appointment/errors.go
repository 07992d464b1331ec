package appointment

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrTransient = errors.New("transient infrastructure failure")
)

// ValidationError rejects malformed input before any conflict check.
type ValidationError struct {
	Code string
}

func (e ValidationError) Error() string {
	return e.Code
}

func Invalid(code string) error {
	return ValidationError{Code: code}
}

// ConflictError is the double-booking rejection. Conflicting is the interval
// of the active appointment the candidate collided with, when known.
type ConflictError struct {
	Code          string
	Conflicting   Interval
	AppointmentID uint
}

func (e ConflictError) Error() string {
	if e.Conflicting.Empty() {
		return e.Code
	}
	return fmt.Sprintf("%s: overlaps %s", e.Code, e.Conflicting)
}

const (
	CodeTimeConflict          = "time_conflict"
	CodeOutsideWorkingHours   = "outside_working_hours"
	CodeOutsideOperatingHours = "outside_operating_hours"
	CodeShopClosed            = "shop_closed"
	CodeBarberUnavailable     = "barber_unavailable"
)

// OutOfWindowError means the candidate is not covered by the barber's working
// windows or the shop's operating hours.
type OutOfWindowError struct {
	Code string
}

func (e OutOfWindowError) Error() string {
	return e.Code
}

type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition %s -> %s", e.From, e.To)
}

type NotFoundError struct {
	Entity string
	ID     uint
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

func (e NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func NotFound(entity string, id uint) error {
	return NotFoundError{Entity: entity, ID: id}
}

// TransientError wraps persistence timeouts and outages. Callers may retry the
// whole operation.
type TransientError struct {
	Op  string
	Err error
}

func (e TransientError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e TransientError) Unwrap() error {
	return e.Err
}

func (e TransientError) Is(target error) bool {
	return target == ErrTransient
}

func Transient(op string, err error) error {
	return TransientError{Op: op, Err: err}
}

func IsConflict(err error) bool {
	var ce ConflictError
	return errors.As(err, &ce)
}

func IsOutOfWindow(err error) bool {
	var oe OutOfWindowError
	return errors.As(err, &oe)
}

func IsValidation(err error) bool {
	var ve ValidationError
	return errors.As(err, &ve)
}

func IsInvalidTransition(err error) bool {
	var te InvalidTransitionError
	return errors.As(err, &te)
}
