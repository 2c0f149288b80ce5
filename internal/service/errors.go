package service

import "errors"

// Validation and conflict errors are detected before any mutation;
// handlers map them to HTTP status codes with errors.Is.
var (
	// ErrInvalidInput indicates a missing or malformed identifier.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNameTaken indicates the display name already exists in the group.
	ErrNameTaken = errors.New("name already taken in this group")

	// ErrAlreadyGenerated indicates the group is locked: pairs have been
	// generated and the assignment set is immutable.
	ErrAlreadyGenerated = errors.New("secret santas have already been generated")

	// ErrTooFewMembers indicates pair generation was requested for a
	// group with fewer than two members, which would force a
	// self-assignment.
	ErrTooFewMembers = errors.New("at least two members are required to generate pairs")
)
