package db

import (
	"context"
	"fmt"
	"log"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

const usersCollection = "users"

// firestoreUserRepository implements the UserRepository interface using Firestore.
type firestoreUserRepository struct {
	client *firestore.Client
}

// NewFirestoreUserRepository creates a new instance of firestoreUserRepository.
func NewFirestoreUserRepository(client *firestore.Client) UserRepository {
	if client == nil {
		log.Fatal("Firestore client is not initialized for UserRepository.")
	}
	return &firestoreUserRepository{client: client}
}

// GetByUID retrieves a profile document. The UID doubles as the document ID.
func (r *firestoreUserRepository) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if uid == "" {
		return nil, fmt.Errorf("uid cannot be empty for GetByUID")
	}
	docSnap, err := r.client.Collection(usersCollection).Doc(uid).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("user %q: %w", uid, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get user %q: %w", uid, err)
	}
	var profile models.UserProfile
	if err := docSnap.DataTo(&profile); err != nil {
		return nil, fmt.Errorf("failed to decode user %q: %w", uid, err)
	}
	profile.UID = docSnap.Ref.ID
	return &profile, nil
}

// Create writes a brand-new profile document. Both timestamps are assigned
// server-side through the serverTimestamp tags.
func (r *firestoreUserRepository) Create(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UID == "" {
		return fmt.Errorf("profile UID cannot be empty for Create")
	}
	if _, err := r.client.Collection(usersCollection).Doc(profile.UID).Create(ctx, profile); err != nil {
		if status.Code(err) == codes.AlreadyExists {
			return fmt.Errorf("user %q: %w", profile.UID, ErrAlreadyExists)
		}
		return fmt.Errorf("failed to create user %q: %w", profile.UID, err)
	}
	return nil
}

// Upsert merges the identity fields into the profile document, creating it
// when absent. createdAt is deliberately left out of the merge so the
// original creation time survives repeat sign-ins.
func (r *firestoreUserRepository) Upsert(ctx context.Context, profile *models.UserProfile) error {
	if profile == nil || profile.UID == "" {
		return fmt.Errorf("profile UID cannot be empty for Upsert")
	}
	fields := map[string]interface{}{
		"displayName": profile.DisplayName,
		"email":       profile.Email,
		"photoURL":    profile.PhotoURL,
		"updatedAt":   firestore.ServerTimestamp,
	}
	if profile.Role != "" {
		fields["role"] = string(profile.Role)
	}
	if _, err := r.client.Collection(usersCollection).Doc(profile.UID).Set(ctx, fields, firestore.MergeAll); err != nil {
		return fmt.Errorf("failed to upsert user %q: %w", profile.UID, err)
	}
	return nil
}
