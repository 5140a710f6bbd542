package core

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// fakeUserRepo mirrors the store's profile semantics: Create fails on a taken
// UID, Upsert merges the identity fields and leaves role and createdAt alone.
type fakeUserRepo struct {
	mu       sync.Mutex
	profiles map[string]*models.UserProfile
	now      time.Time

	getErr    error
	createErr error
	upsertErr error

	creates int
	upserts int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		profiles: make(map[string]*models.UserProfile),
		now:      time.Date(2025, 3, 14, 9, 0, 0, 0, time.UTC),
	}
}

func (r *fakeUserRepo) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	profile, ok := r.profiles[uid]
	if !ok {
		return nil, fmt.Errorf("user %q: %w", uid, db.ErrNotFound)
	}
	stored := *profile
	return &stored, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.creates++
	if r.createErr != nil {
		return r.createErr
	}
	if _, ok := r.profiles[profile.UID]; ok {
		return fmt.Errorf("user %q: %w", profile.UID, db.ErrAlreadyExists)
	}
	stored := *profile
	stored.CreatedAt = r.now
	stored.UpdatedAt = r.now
	r.profiles[profile.UID] = &stored
	return nil
}

func (r *fakeUserRepo) Upsert(ctx context.Context, profile *models.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.upserts++
	if r.upsertErr != nil {
		return r.upsertErr
	}
	existing, ok := r.profiles[profile.UID]
	if !ok {
		stored := *profile
		stored.CreatedAt = r.now
		stored.UpdatedAt = r.now
		r.profiles[profile.UID] = &stored
		return nil
	}
	existing.DisplayName = profile.DisplayName
	existing.Email = profile.Email
	existing.PhotoURL = profile.PhotoURL
	if profile.Role != "" {
		existing.Role = profile.Role
	}
	existing.UpdatedAt = r.now
	return nil
}

func (r *fakeUserRepo) stored(uid string) (models.UserProfile, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	profile, ok := r.profiles[uid]
	if !ok {
		return models.UserProfile{}, false
	}
	return *profile, true
}

func strPtr(s string) *string { return &s }

func TestUserServiceSyncProfileFirstSignIn(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	profile, created, err := svc.SyncProfile(context.Background(), testPrincipal())
	require.NoError(t, err)
	assert.True(t, created)
	require.NotNil(t, profile)

	assert.Equal(t, "uid-1", profile.UID)
	assert.Equal(t, models.RoleStudent, profile.Role)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Ada", *profile.DisplayName)

	stored, ok := repo.stored("uid-1")
	require.True(t, ok)
	assert.Equal(t, models.RoleStudent, stored.Role)
	assert.Equal(t, 1, repo.creates)
	assert.Zero(t, repo.upserts)
}

func TestUserServiceSyncProfileRepeatSignInKeepsRoleAndCreatedAt(t *testing.T) {
	repo := newFakeUserRepo()
	firstSeen := time.Date(2024, 9, 1, 8, 0, 0, 0, time.UTC)
	repo.profiles["uid-1"] = &models.UserProfile{
		UID:         "uid-1",
		DisplayName: strPtr("Ada L."),
		Email:       strPtr("old@campus.edu"),
		Role:        models.RoleStaff,
		CreatedAt:   firstSeen,
	}
	svc := NewUserService(repo)

	profile, created, err := svc.SyncProfile(context.Background(), testPrincipal())
	require.NoError(t, err)
	assert.False(t, created)

	// The caller sees the merged record: fresh claims, original role and age.
	assert.Equal(t, models.RoleStaff, profile.Role)
	assert.Equal(t, firstSeen, profile.CreatedAt)
	require.NotNil(t, profile.DisplayName)
	assert.Equal(t, "Ada", *profile.DisplayName)

	stored, _ := repo.stored("uid-1")
	assert.Equal(t, models.RoleStaff, stored.Role)
	assert.Equal(t, firstSeen, stored.CreatedAt)
	require.NotNil(t, stored.Email)
	assert.Equal(t, "ada@campus.edu", *stored.Email)
	assert.Zero(t, repo.creates)
	assert.Equal(t, 1, repo.upserts)
}

func TestUserServiceSyncProfileOmittedClaimsStayNil(t *testing.T) {
	repo := newFakeUserRepo()
	svc := NewUserService(repo)

	profile, created, err := svc.SyncProfile(context.Background(), &models.Principal{UID: "uid-2", Email: "bea@campus.edu"})
	require.NoError(t, err)
	assert.True(t, created)

	assert.Nil(t, profile.DisplayName)
	assert.Nil(t, profile.PhotoURL)
	require.NotNil(t, profile.Email)
	assert.Equal(t, "bea@campus.edu", *profile.Email)
}

func TestUserServiceSyncProfileLostCreateRaceFallsBackToUpsert(t *testing.T) {
	repo := newFakeUserRepo()
	repo.createErr = fmt.Errorf("user %q: %w", "uid-1", db.ErrAlreadyExists)
	svc := NewUserService(repo)

	profile, created, err := svc.SyncProfile(context.Background(), testPrincipal())
	require.NoError(t, err)
	assert.False(t, created, "losing the first-sign-in race is not a create")
	require.NotNil(t, profile)

	assert.Equal(t, 1, repo.creates)
	assert.Equal(t, 1, repo.upserts)
	// The merge must not force the default role onto the racing winner's doc.
	assert.Empty(t, profile.Role)
}

func TestUserServiceSyncProfileRequiresAuth(t *testing.T) {
	svc := NewUserService(newFakeUserRepo())

	for _, principal := range []*models.Principal{nil, {UID: ""}} {
		_, _, err := svc.SyncProfile(context.Background(), principal)
		require.ErrorIs(t, err, ErrAuthRequired)
	}
}

func TestUserServiceSyncProfileSurfacesLookupFailure(t *testing.T) {
	repo := newFakeUserRepo()
	repo.getErr = errors.New("firestore unavailable")
	svc := NewUserService(repo)

	_, created, err := svc.SyncProfile(context.Background(), testPrincipal())
	require.Error(t, err)
	assert.False(t, created)
	assert.Zero(t, repo.creates)
}

func TestUserServiceGetByUID(t *testing.T) {
	repo := newFakeUserRepo()
	repo.profiles["uid-1"] = &models.UserProfile{UID: "uid-1", DisplayName: strPtr("Ada")}
	svc := NewUserService(repo)

	t.Run("returns the stored profile", func(t *testing.T) {
		profile, err := svc.GetByUID(context.Background(), "uid-1")
		require.NoError(t, err)
		require.NotNil(t, profile.DisplayName)
		assert.Equal(t, "Ada", *profile.DisplayName)
	})

	t.Run("unknown uid", func(t *testing.T) {
		_, err := svc.GetByUID(context.Background(), "ghost")
		require.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("empty uid", func(t *testing.T) {
		_, err := svc.GetByUID(context.Background(), "")
		require.ErrorIs(t, err, ErrValidation)
	})
}
