package mutation

import (
	"errors"
	"fmt"

	"merchops/internal/remote"
)

// Kind separates the failure channels of a mutation. Validation never
// touched the wire and nothing was applied; transport and conflict both
// roll back the optimistic state but must surface differently to the user.
type Kind int

const (
	KindValidation Kind = iota
	KindTransport
	KindConflict
	KindMapping
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTransport:
		return "transport"
	case KindConflict:
		return "conflict"
	case KindMapping:
		return "mapping"
	}
	return "unknown"
}

type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("mutation %s failure: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Retryable reports whether replaying the same mutation can help.
func (e *Error) Retryable() bool { return e.Kind == KindTransport }

// UserMessage is the non-technical summary shown by the view layer. A
// conflict must read as "state changed elsewhere", never as a network
// problem.
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindValidation:
		return "the requested change is not allowed"
	case KindConflict:
		return "the record was changed elsewhere, refresh and try again"
	case KindMapping:
		return "the service returned an unexpected response"
	default:
		return "a network problem interrupted the change, try again"
	}
}

// Validation wraps a guard or existence check rejection.
func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Err: err}
}

// Classify buckets a remote call failure into the taxonomy.
func Classify(err error) *Error {
	var mapErr *remote.MappingError
	switch {
	case errors.Is(err, remote.ErrConflict):
		return &Error{Kind: KindConflict, Err: err}
	case errors.As(err, &mapErr):
		return &Error{Kind: KindMapping, Err: err}
	default:
		return &Error{Kind: KindTransport, Err: err}
	}
}

// KindOf extracts the kind from any error, defaulting to transport.
func KindOf(err error) Kind {
	var merr *Error
	if errors.As(err, &merr) {
		return merr.Kind
	}
	return KindTransport
}
