package core

import (
	"context"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// SyncState describes the health of the post mirror.
type SyncState string

const (
	// SyncLoading means no snapshot has arrived yet.
	SyncLoading SyncState = "loading"
	// SyncLive means the mirror reflects the latest store notification.
	SyncLive SyncState = "live"
	// SyncDegraded means the subscription is broken. The mirror keeps
	// serving the last good snapshot while the service retries behind it.
	SyncDegraded SyncState = "degraded"
)

// SyncMeta rides along with every mirror read so consumers can tell an empty
// board from one that is still loading or cut off from the store.
type SyncMeta struct {
	State SyncState `json:"state"`
	// UpdatedAt is the epoch-millisecond time the current snapshot was
	// applied, 0 before the first one lands.
	UpdatedAt int64  `json:"updatedAt"`
	LastError string `json:"lastError,omitempty"`
}

// SyncUpdate is one full-mirror notification delivered to subscribers.
type SyncUpdate struct {
	Posts []models.Post `json:"posts"`
	Meta  SyncMeta      `json:"meta"`
}

// SyncService owns the live local mirror of the post collection.
type SyncService interface {
	// Start launches the background subscription. It returns immediately;
	// calling it more than once is a no-op.
	Start(ctx context.Context)
	// Stop tears the subscription down and waits for the listener goroutine
	// to exit. It is idempotent.
	Stop()
	// Snapshot returns the current mirror and its metadata. The returned
	// slice is shared with other readers and must be treated as read-only.
	Snapshot() ([]models.Post, SyncMeta)
	// Subscribe registers for mirror updates. The channel buffers at most
	// the latest update; slow consumers miss intermediate snapshots, never
	// the newest one. The returned func unsubscribes and closes the channel.
	Subscribe() (<-chan SyncUpdate, func())
}

// PostService exposes the board's mutations and mirror-backed reads.
type PostService interface {
	// List reads the current mirror through the search and type filters.
	// It never queries the remote store.
	List(query string, typeFilter TypeFilter) ([]models.Post, SyncMeta)
	Create(ctx context.Context, principal *models.Principal, req models.CreatePostRequest) (*models.Post, error)
	Resolve(ctx context.Context, principal *models.Principal, postID string) error
	Delete(ctx context.Context, principal *models.Principal, postID string) error
}

// UserService manages profile records keyed by Firebase Auth UID.
type UserService interface {
	// SyncProfile upserts the caller's profile record after sign-in. The
	// returned bool reports whether a new record was created.
	SyncProfile(ctx context.Context, principal *models.Principal) (*models.UserProfile, bool, error)
	GetByUID(ctx context.Context, uid string) (*models.UserProfile, error)
}

// AuditService records audit entries. Recording is best-effort: failures are
// logged, never surfaced to the operation being audited.
type AuditService interface {
	Record(ctx context.Context, entry models.AuditLog)
}
