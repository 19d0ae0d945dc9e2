package models

import "errors"

// Sentinel errors shared by repositories and services. Controllers map these
// to HTTP status codes; the AMQP dispatcher maps them onto the response
// envelope the same way.
var (
	// ErrNotFound is returned when a lookup misses or the row is inactive.
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned on unique-constraint conflicts.
	ErrAlreadyExists = errors.New("record already exists")

	// ErrVersionPending is returned when an organization already has a
	// version awaiting moderation.
	ErrVersionPending = errors.New("organization already has a pending version")

	// ErrInvalidTransition is returned for a (status, method) pair the
	// moderation state machine does not define.
	ErrInvalidTransition = errors.New("invalid moderation transition")

	// ErrNotModerator is returned when a moderator-only operation is
	// attempted by another role.
	ErrNotModerator = errors.New("operation requires moderator role")

	// ErrRestoreActive is returned when restoring an entity that is not
	// inactive.
	ErrRestoreActive = errors.New("entity is not inactive")
)
