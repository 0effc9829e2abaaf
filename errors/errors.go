package errors

import (
	// Go Internal Packages
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies an error by how the console must react to it.
type Kind uint8

const (
	Other        Kind = iota
	Invalid           // rejected locally, no request was sent
	Remote            // the remote service failed or refused the operation
	Unauthorized      // credential rejected, session must be torn down
	Conflict          // guard violation: terminal status, request already in flight
	Aborted           // operator declined a confirmation step
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Remote:
		return "remote"
	case Unauthorized:
		return "unauthorized"
	case Conflict:
		return "conflict"
	case Aborted:
		return "aborted"
	}
	return "other"
}

// Error is the error type shared by every package of the console.
type Error struct {
	Kind Kind
	Msg  string
	// Detail is the explanation supplied by the remote service, if any.
	Detail string
	// Status is the HTTP status of a remote failure, 0 otherwise.
	Status int
	Err    error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(e.Msg)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// E builds an *Error of the given kind wrapping err (which may be nil).
func E(kind Kind, msg string, err error) error {
	return &Error{Kind: kind, Msg: msg, Err: err}
}

// RemoteErr builds a Remote error carrying the HTTP status and the remote detail.
func RemoteErr(status int, detail string, err error) error {
	msg := fmt.Sprintf("remote request failed with status %d", status)
	return &Error{Kind: Remote, Msg: msg, Detail: detail, Status: status, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, Other if there is none.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return Other
}

// Is reports whether err carries the given kind.
func Is(kind Kind, err error) bool {
	return err != nil && KindOf(err) == kind
}

// UserMessage returns the text shown to the operator for err: the remote detail when the
// service supplied one, the local message for validation and guard errors, fallback otherwise.
func UserMessage(err error, fallback string) string {
	var e *Error
	if !stderrors.As(err, &e) {
		return fallback
	}
	switch {
	case e.Detail != "":
		return fmt.Sprintf("%s: %s", fallback, e.Detail)
	case e.Kind == Invalid || e.Kind == Conflict || e.Kind == Aborted:
		return e.Error()
	}
	return fallback
}
