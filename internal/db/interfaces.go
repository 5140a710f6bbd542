package db

import (
	"context"
	"errors"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// Sentinel errors shared by all repositories in this package. Callers match
// them with errors.Is.
var (
	// ErrNotFound is returned when a requested document does not exist.
	ErrNotFound = errors.New("document not found")
	// ErrAlreadyExists is returned by Create when the document ID is taken.
	ErrAlreadyExists = errors.New("document already exists")
)

// PostWatcher is a live subscription to the post collection. Next blocks
// until the store pushes the next complete result set; it never delivers
// partial diffs. Stop tears the subscription down, after which Next returns
// an error and the watcher must be discarded.
type PostWatcher interface {
	Next() ([]models.Post, error)
	Stop()
}

// PostRepository defines the storage operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) (string, error)
	UpdateStatus(ctx context.Context, postID string, status models.PostStatus) error
	Delete(ctx context.Context, postID string) error
	// Watch opens a snapshot subscription over the whole collection, ordered
	// by creation time descending. The subscription lives until Stop is
	// called or ctx is cancelled.
	Watch(ctx context.Context) PostWatcher
}

// UserRepository defines the storage operations for user profiles.
type UserRepository interface {
	GetByUID(ctx context.Context, uid string) (*models.UserProfile, error)
	Create(ctx context.Context, profile *models.UserProfile) error
	// Upsert merges the identity fields into the profile document, creating
	// it when absent.
	Upsert(ctx context.Context, profile *models.UserProfile) error
}

// AuditRepository defines the storage operations for audit log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry models.AuditLog) error
}
