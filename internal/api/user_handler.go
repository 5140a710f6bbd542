package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/middleware"
)

// UserHandler handles API endpoints related to user profiles.
type UserHandler struct {
	userService core.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(us core.UserService) *UserHandler {
	return &UserHandler{userService: us}
}

// GetCurrentUserProfile handles GET /users/me. It returns the stored profile
// record of the authenticated caller.
func (h *UserHandler) GetCurrentUserProfile(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	profile, err := h.userService.GetByUID(c.Request.Context(), principal.UID)
	if err != nil {
		if errors.Is(err, core.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, ErrorResponse{Error: "User profile not found", Details: "Sign in again to initialize the profile."})
			return
		}
		log.Printf("GetCurrentUserProfile: %v", err)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to retrieve user profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
