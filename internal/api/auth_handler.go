package api

import (
	"context"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/middleware"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// SessionRevoker invalidates a user's refresh tokens. *auth.Client from the
// Firebase Admin SDK satisfies it.
type SessionRevoker interface {
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// AuthHandler handles sign-in consummation and sign-out.
type AuthHandler struct {
	userService core.UserService
	revoker     SessionRevoker
	audit       core.AuditService
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(us core.UserService, revoker SessionRevoker, audit core.AuditService) *AuthHandler {
	return &AuthHandler{userService: us, revoker: revoker, audit: audit}
}

// InitializeProfile handles POST /users/initialize, called by the client
// once after a successful federated sign-in. The profile upsert is
// best-effort: a failure is logged and the sign-in still succeeds, so the
// response falls back to the token-derived profile.
func (h *AuthHandler) InitializeProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	h.recordAudit(c, principal.UID, models.AuditActionUserSignIn)

	profile, created, err := h.userService.SyncProfile(c.Request.Context(), principal)
	if err != nil {
		log.Printf("InitializeProfile: profile sync failed for %s (sign-in still accepted): %v", principal.UID, err)
		c.JSON(http.StatusOK, principal.Profile())
		return
	}

	if created {
		c.JSON(http.StatusCreated, profile)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SignOut handles POST /users/signout. Revoking the refresh tokens is
// best-effort: the session is considered cleared whatever the outcome, so
// the response is 204 either way.
func (h *AuthHandler) SignOut(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	if h.revoker != nil {
		if err := h.revoker.RevokeRefreshTokens(c.Request.Context(), principal.UID); err != nil {
			log.Printf("SignOut: failed to revoke refresh tokens for %s: %v", principal.UID, err)
		}
	}

	h.recordAudit(c, principal.UID, models.AuditActionUserSignOut)
	c.Status(http.StatusNoContent)
}

func (h *AuthHandler) recordAudit(c *gin.Context, uid, action string) {
	if h.audit == nil {
		return
	}
	h.audit.Record(c.Request.Context(), models.AuditLog{
		UserID:     uid,
		Action:     action,
		TargetType: models.AuditTargetUser,
		TargetID:   uid,
	})
}
