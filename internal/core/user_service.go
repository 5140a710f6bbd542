package core

import (
	"context"
	"errors"
	"fmt"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// userService implements the UserService interface.
type userService struct {
	userRepo db.UserRepository
}

// NewUserService creates a new UserService instance.
func NewUserService(userRepo db.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// SyncProfile upserts the caller's profile record after a successful
// sign-in. First sign-ins create the record with the default student role;
// repeat sign-ins refresh the identity fields and leave createdAt and role
// alone.
func (s *userService) SyncProfile(ctx context.Context, principal *models.Principal) (*models.UserProfile, bool, error) {
	if s.userRepo == nil {
		return nil, false, errors.New("UserRepository not initialized in UserService")
	}
	if principal == nil || principal.UID == "" {
		return nil, false, ErrAuthRequired
	}

	profile := principal.Profile()

	existing, err := s.userRepo.GetByUID(ctx, principal.UID)
	if err != nil {
		if !errors.Is(err, db.ErrNotFound) {
			return nil, false, fmt.Errorf("failed to look up profile %q: %w", principal.UID, err)
		}

		profile.Role = models.RoleStudent
		createErr := s.userRepo.Create(ctx, profile)
		if createErr == nil {
			return profile, true, nil
		}
		if !errors.Is(createErr, db.ErrAlreadyExists) {
			return nil, false, fmt.Errorf("failed to create profile %q: %w", principal.UID, createErr)
		}
		// Lost a first-sign-in race against another request; merge instead.
		profile.Role = ""
		if upsertErr := s.userRepo.Upsert(ctx, profile); upsertErr != nil {
			return nil, false, fmt.Errorf("failed to upsert profile %q: %w", principal.UID, upsertErr)
		}
		return profile, false, nil
	}

	if err := s.userRepo.Upsert(ctx, profile); err != nil {
		return nil, false, fmt.Errorf("failed to upsert profile %q: %w", principal.UID, err)
	}
	profile.Role = existing.Role
	profile.CreatedAt = existing.CreatedAt
	return profile, false, nil
}

// GetByUID fetches a stored profile.
func (s *userService) GetByUID(ctx context.Context, uid string) (*models.UserProfile, error) {
	if s.userRepo == nil {
		return nil, errors.New("UserRepository not initialized in UserService")
	}
	if uid == "" {
		return nil, fmt.Errorf("%w: uid is required", ErrValidation)
	}
	profile, err := s.userRepo.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrUserNotFound, uid)
		}
		return nil, fmt.Errorf("failed to get profile %q: %w", uid, err)
	}
	return profile, nil
}
