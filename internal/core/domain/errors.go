package domain

import (
	"errors"
	"net/http"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindForbidden
	KindConflict
	KindLocked
	KindPaymentInitFailed
	KindTransactionFailed
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindConflict:
		return "conflict"
	case KindLocked:
		return "locked"
	case KindPaymentInitFailed:
		return "payment_init_failed"
	case KindTransactionFailed:
		return "transaction_failed"
	default:
		return "internal"
	}
}

// HTTPStatus is the status code the HTTP layer answers with for this kind.
func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindConflict:
		return http.StatusConflict
	case KindLocked:
		return http.StatusLocked
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind and message, so wrapped
// copies of a sentinel still satisfy errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// Wrap returns a copy of the sentinel carrying err as its cause.
func (e *Error) Wrap(err error) *Error {
	return &Error{Kind: e.Kind, Message: e.Message, Err: err}
}

func NewError(kind ErrorKind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func WrapError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// KindOf returns the kind of the outermost *Error in the chain, KindInternal otherwise.
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

var (
	// Validation
	ErrInvalidEventID   = NewError(KindValidation, "invalid event id")
	ErrInvalidUserID    = NewError(KindValidation, "invalid user id")
	ErrInvalidBookingID = NewError(KindValidation, "invalid booking id")
	ErrNoSeatsSelected  = NewError(KindValidation, "no seats selected")
	ErrInvalidSeat      = NewError(KindValidation, "seat numbers must be positive")
	ErrInvalidEvent     = NewError(KindValidation, "event name, ticket price and total tickets are required")
	ErrInvalidMetadata  = NewError(KindValidation, "payment metadata is malformed")
	ErrUnknownOutcome   = NewError(KindValidation, "unknown payment outcome kind")

	// Not found
	ErrEventNotFound   = NewError(KindNotFound, "event not found")
	ErrBookingNotFound = NewError(KindNotFound, "booking not found")

	// Forbidden
	ErrNotBookingOwner = NewError(KindForbidden, "you are not authorized to cancel this booking")

	// Conflict
	ErrSeatsUnavailable = NewError(KindConflict, "some tickets are already booked or invalid")
	ErrNothingToCancel  = NewError(KindConflict, "no tickets were found to cancel")
	ErrTicketMismatch   = NewError(KindConflict, "booked ticket count does not match selected seats")
	ErrEventMismatch    = NewError(KindConflict, "payment outcome does not belong to the booking's event")

	// Locked
	ErrSeatsLocked = NewError(KindLocked, "some seats are being booked by someone else, please try again later")

	ErrPaymentInitFailed = NewError(KindPaymentInitFailed, "error creating payment checkout session")
	ErrTransactionFailed = NewError(KindTransactionFailed, "inventory transaction aborted")
)
