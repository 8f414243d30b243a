package linking

import (
	"context"
	"errors"
	"fmt"

	"github.com/p0t4t0sandwich/bee-name-generator/internal/domain"
)

// ErrorKind is the closed set of ways a link can fail
type ErrorKind string

const (
	KindInvalidUsername ErrorKind = "invalid_username"
	KindAlreadyLinked   ErrorKind = "already_linked"
	KindNoPendingLink   ErrorKind = "no_pending_link"
	KindLinkFailed      ErrorKind = "link_failed"
	KindTimeout         ErrorKind = "timeout"
	KindInternal        ErrorKind = "internal_error"
)

// LinkError carries a kind, the message shown to the user and the underlying
// cause, which is only ever logged
type LinkError struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *LinkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

func newLinkError(kind ErrorKind, message string, err error) *LinkError {
	return &LinkError{Kind: kind, Message: message, Err: err}
}

// classify converts a collaborator failure into a LinkError
func classify(err error) *LinkError {
	var le *LinkError
	switch {
	case errors.As(err, &le):
		return le
	case errors.Is(err, context.DeadlineExceeded):
		return newLinkError(KindTimeout, ErrMsgTimeout, err)
	case errors.Is(err, domain.ErrNotAcknowledged):
		return newLinkError(KindLinkFailed, ErrMsgLinkFailed, err)
	default:
		return newLinkError(KindInternal, ErrMsgInternal, err)
	}
}

// IsKind reports whether err is a LinkError of the given kind
func IsKind(err error, kind ErrorKind) bool {
	var le *LinkError
	return errors.As(err, &le) && le.Kind == kind
}
