package core

import "errors"

// Sentinel errors for the board's operations. Handlers match them with
// errors.Is to pick a transport status; everything else is internal.
var (
	// ErrAuthRequired is returned when a mutation is attempted without an
	// authenticated caller. It is raised before any remote call is made.
	ErrAuthRequired = errors.New("authentication required")

	// ErrValidation is returned when creator-supplied fields are missing or
	// invalid. Also raised before any remote call.
	ErrValidation = errors.New("validation failed")

	// ErrPostNotFound is returned when a mutation targets a post that does
	// not exist in the store.
	ErrPostNotFound = errors.New("post not found")

	// ErrUploadFailed is returned when the image host rejects or fails an
	// upload. The create that carried the image is aborted without a write.
	ErrUploadFailed = errors.New("image upload failed")

	// ErrWriteFailed is returned when a store write fails.
	ErrWriteFailed = errors.New("store write failed")

	// ErrUserNotFound is returned when a profile lookup misses.
	ErrUserNotFound = errors.New("user not found")
)
