package domain

import "errors"

// Error message string constants - single source of truth for error messages
const (
	ErrMsgUserNotFound        = "user not found"
	ErrMsgPendingLinkNotFound = "pending link not found"
	ErrMsgBeeNameNotFound     = "bee name not found"
	ErrMsgBeeNameExists       = "bee name already exists"
	ErrMsgAccountNotFound     = "account not found"
	ErrMsgInvalidPlatform     = "invalid platform"
	ErrMsgInvalidInput        = "invalid input"
	ErrMsgNotAcknowledged     = "write not acknowledged"
)

// Common domain errors. Wrap with fmt.Errorf("...: %w", err) for context.
var (
	ErrUserNotFound        = errors.New(ErrMsgUserNotFound)
	ErrPendingLinkNotFound = errors.New(ErrMsgPendingLinkNotFound)
	ErrBeeNameNotFound     = errors.New(ErrMsgBeeNameNotFound)
	ErrBeeNameExists       = errors.New(ErrMsgBeeNameExists)

	// ErrAccountNotFound is returned by platform verifiers when the username does not exist
	ErrAccountNotFound = errors.New(ErrMsgAccountNotFound)

	ErrInvalidPlatform = errors.New(ErrMsgInvalidPlatform)
	ErrInvalidInput    = errors.New(ErrMsgInvalidInput)

	// ErrNotAcknowledged means the store accepted the call but changed nothing
	ErrNotAcknowledged = errors.New(ErrMsgNotAcknowledged)
)
