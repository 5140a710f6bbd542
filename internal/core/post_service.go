package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/db"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/pkg/imagehost"
)

// postService implements the PostService interface.
type postService struct {
	repo     db.PostRepository
	syncSvc  SyncService
	uploader imagehost.Uploader
	audit    AuditService
	logger   *zap.Logger
}

// NewPostService creates a new PostService instance.
func NewPostService(repo db.PostRepository, syncSvc SyncService, uploader imagehost.Uploader, audit AuditService, logger *zap.Logger) PostService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &postService{
		repo:     repo,
		syncSvc:  syncSvc,
		uploader: uploader,
		audit:    audit,
		logger:   logger,
	}
}

// List reads the current mirror through the filters. The remote store is
// never queried on the read path.
func (s *postService) List(query string, typeFilter TypeFilter) ([]models.Post, SyncMeta) {
	posts, meta := s.syncSvc.Snapshot()
	return FilterPosts(posts, query, typeFilter), meta
}

// Create validates the request, uploads the image if one is attached, then
// writes the post document. The order matters: a failed upload aborts the
// create before anything reaches the store. The opposite failure, a write
// that fails after the image went up, leaves an orphaned image behind; there
// is no delete API on the hosts, so the orphan is logged and accepted.
func (s *postService) Create(ctx context.Context, principal *models.Principal, req models.CreatePostRequest) (*models.Post, error) {
	if principal == nil || principal.UID == "" {
		return nil, ErrAuthRequired
	}
	if err := validateCreate(&req); err != nil {
		return nil, err
	}

	imageURL := ""
	if req.Image != nil {
		if s.uploader == nil {
			return nil, fmt.Errorf("%w: no image host configured", ErrUploadFailed)
		}
		url, err := s.uploader.Upload(ctx, req.Image.Content, req.Image.Filename, req.Image.ContentType)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrUploadFailed, err)
		}
		imageURL = url
	}

	post := &models.Post{
		Type:         req.Type,
		Title:        req.Title,
		Description:  req.Description,
		Location:     req.Location,
		Category:     req.Category,
		Date:         req.Date,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		ImageURL:     imageURL,
		CreatedBy:    principal.UID,
		CreatorName:  principal.DisplayName,
		CreatorPhoto: principal.PhotoURL,
		Status:       models.PostStatusOpen,
	}

	if _, err := s.repo.Create(ctx, post); err != nil {
		if imageURL != "" {
			s.logger.Warn("post write failed after image upload, hosted image is orphaned",
				zap.String("imageUrl", imageURL),
				zap.String("uid", principal.UID),
				zap.Error(err))
		}
		return nil, fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.recordAudit(ctx, principal.UID, models.AuditActionPostCreate, post.ID, map[string]interface{}{
		"type":  string(post.Type),
		"title": post.Title,
	})
	return post, nil
}

// Resolve flips a post to resolved. Resolving an already-resolved post is an
// overwrite with the same value and succeeds. Any authenticated caller may
// resolve any post; ownership only decides which controls a client renders.
func (s *postService) Resolve(ctx context.Context, principal *models.Principal, postID string) error {
	if principal == nil || principal.UID == "" {
		return ErrAuthRequired
	}
	if postID == "" {
		return fmt.Errorf("%w: post id is required", ErrValidation)
	}

	if err := s.repo.UpdateStatus(ctx, postID, models.PostStatusResolved); err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrPostNotFound, postID)
		}
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.recordAudit(ctx, principal.UID, models.AuditActionPostResolve, postID, nil)
	return nil
}

// Delete removes a post permanently. Deleting an id that no longer exists
// succeeds, so retries and races between two deleters are harmless.
func (s *postService) Delete(ctx context.Context, principal *models.Principal, postID string) error {
	if principal == nil || principal.UID == "" {
		return ErrAuthRequired
	}
	if postID == "" {
		return fmt.Errorf("%w: post id is required", ErrValidation)
	}

	if err := s.repo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("%w: %v", ErrWriteFailed, err)
	}

	s.recordAudit(ctx, principal.UID, models.AuditActionPostDelete, postID, nil)
	return nil
}

func (s *postService) recordAudit(ctx context.Context, userID, action, targetID string, details map[string]interface{}) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, models.AuditLog{
		UserID:     userID,
		Action:     action,
		TargetType: models.AuditTargetPost,
		TargetID:   targetID,
		Details:    details,
	})
}

// validateCreate checks the creator-supplied fields locally, before any
// remote call. All missing fields are reported at once.
func validateCreate(req *models.CreatePostRequest) error {
	var missing []string
	for _, field := range []struct{ name, value string }{
		{"title", req.Title},
		{"description", req.Description},
		{"location", req.Location},
		{"category", req.Category},
		{"date", req.Date},
		{"contactEmail", req.ContactEmail},
	} {
		if strings.TrimSpace(field.value) == "" {
			missing = append(missing, field.name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing required fields: %s", ErrValidation, strings.Join(missing, ", "))
	}
	if !models.ValidPostType(req.Type) {
		return fmt.Errorf("%w: type must be %q or %q", ErrValidation, models.PostTypeLost, models.PostTypeFound)
	}
	if !models.ValidCategory(req.Category) {
		return fmt.Errorf("%w: unknown category %q", ErrValidation, req.Category)
	}
	return nil
}
