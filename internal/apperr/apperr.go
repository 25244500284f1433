// Package apperr defines the error kinds used across the data-manager
// services. These typed values allow higher layers such as handlers to
// distinguish expected business-rule violations (duplicate email,
// unknown favorite) from unexpected system failures without comparing
// message strings.
package apperr

import "errors"

// Kind classifies an expected business failure.
type Kind int

const (
	// KindValidation indicates bad or mismatched input, e.g. a
	// password confirmation that does not match.
	KindValidation Kind = iota + 1
	// KindDuplicate indicates a uniqueness violation, e.g. an email
	// that is already registered or a movie already favorited.
	KindDuplicate
	// KindNotFound indicates a missing user, movie, favorite or
	// metadata match.
	KindNotFound
	// KindExternalLookup indicates a metadata-client failure, such as
	// a connection error to the upstream movie API.
	KindExternalLookup
)

// String returns the wire name of the kind, used in structured error
// responses.
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindDuplicate:
		return "duplicate"
	case KindNotFound:
		return "not_found"
	case KindExternalLookup:
		return "external_lookup"
	default:
		return "internal"
	}
}

// Error is a business error with a classification and a user-facing
// message. The wrapped cause, if any, is kept for logging.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// New creates an error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Wrap creates an error of the given kind around an underlying cause.
func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation creates a KindValidation error.
func Validation(message string) *Error { return New(KindValidation, message) }

// Duplicate creates a KindDuplicate error.
func Duplicate(message string) *Error { return New(KindDuplicate, message) }

// NotFound creates a KindNotFound error.
func NotFound(message string) *Error { return New(KindNotFound, message) }

// ExternalLookup creates a KindExternalLookup error.
func ExternalLookup(message string) *Error { return New(KindExternalLookup, message) }

// KindOf returns the kind of err, or 0 if err is not an *Error.
func KindOf(err error) Kind {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Message returns the user-facing message of err. For errors outside
// the taxonomy it falls back to err.Error().
func Message(err error) string {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Message
	}
	return err.Error()
}
