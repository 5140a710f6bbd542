package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

const postsCollection = "posts"

// firestorePostRepository implements the PostRepository interface using Firestore.
type firestorePostRepository struct {
	client *firestore.Client
}

// NewFirestorePostRepository creates a new instance of firestorePostRepository.
func NewFirestorePostRepository(client *firestore.Client) PostRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for PostRepository.")
	}
	return &firestorePostRepository{client: client}
}

// Create adds a new post document with an auto-generated ID. createdAt is
// assigned server-side through the serverTimestamp tag, so the caller's
// clock never influences board ordering.
func (r *firestorePostRepository) Create(ctx context.Context, post *models.Post) (string, error) {
	if post == nil {
		return "", fmt.Errorf("post cannot be nil for Create")
	}
	docRef := r.client.Collection(postsCollection).NewDoc()
	post.ID = docRef.ID
	if _, err := docRef.Create(ctx, post); err != nil {
		return "", fmt.Errorf("failed to create post: %w", err)
	}
	return docRef.ID, nil
}

// UpdateStatus overwrites the status field of an existing post. Writing a
// status the document already has is a plain overwrite, which is what keeps
// resolve idempotent.
func (r *firestorePostRepository) UpdateStatus(ctx context.Context, postID string, st models.PostStatus) error {
	if postID == "" {
		return fmt.Errorf("postID cannot be empty for UpdateStatus")
	}
	_, err := r.client.Collection(postsCollection).Doc(postID).Update(ctx, []firestore.Update{
		{Path: "status", Value: string(st)},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("post %q: %w", postID, ErrNotFound)
		}
		return fmt.Errorf("failed to update status of post %q: %w", postID, err)
	}
	return nil
}

// Delete removes a post document. Firestore reports deleting an absent
// document as success, which matches the idempotent delete contract.
func (r *firestorePostRepository) Delete(ctx context.Context, postID string) error {
	if postID == "" {
		return fmt.Errorf("postID cannot be empty for Delete")
	}
	if _, err := r.client.Collection(postsCollection).Doc(postID).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete post %q: %w", postID, err)
	}
	return nil
}

// Watch subscribes to the whole post collection, newest first. Every
// notification from Firestore carries the complete result set, so consumers
// replace their state instead of merging diffs.
func (r *firestorePostRepository) Watch(ctx context.Context) PostWatcher {
	query := r.client.Collection(postsCollection).OrderBy("createdAt", firestore.Desc)
	return &firestorePostWatcher{snapshots: query.Snapshots(ctx)}
}

// firestorePostWatcher adapts a Firestore query snapshot iterator to the
// PostWatcher interface.
type firestorePostWatcher struct {
	snapshots *firestore.QuerySnapshotIterator
}

func (w *firestorePostWatcher) Next() ([]models.Post, error) {
	snap, err := w.snapshots.Next()
	if err != nil {
		return nil, fmt.Errorf("post snapshot stream: %w", err)
	}

	posts := make([]models.Post, 0, snap.Size)
	docs := snap.Documents
	defer docs.Stop()
	for {
		doc, err := docs.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to iterate post snapshot: %w", err)
		}
		var post models.Post
		if err := doc.DataTo(&post); err != nil {
			// One malformed document must not poison the whole mirror.
			log.Printf("Error decoding post document %s: %v. Skipping.", doc.Ref.ID, err)
			continue
		}
		post.ID = doc.Ref.ID
		post.NormalizeCreatedAt()
		posts = append(posts, post)
	}
	return posts, nil
}

func (w *firestorePostWatcher) Stop() {
	w.snapshots.Stop()
}
