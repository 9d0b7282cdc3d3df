package models

import "errors"

// Error kinds shared by every layer. Wrap with %w and test with errors.Is.
var (
	// ErrNotFound is returned when an invite code or file id does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidArgument is returned for empty names and malformed codes.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInviteNotFound is returned when a file is inserted for an invite that does not exist.
	ErrInviteNotFound = errors.New("invite not found")

	// ErrCreationExhausted is returned when invite code generation keeps colliding.
	ErrCreationExhausted = errors.New("invite creation exhausted")

	// ErrBlobUnavailable is returned when the backing blob store fails.
	ErrBlobUnavailable = errors.New("blob store unavailable")
)
