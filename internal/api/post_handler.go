package api

import (
	"errors"
	"io"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/middleware"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// PostHandler handles API endpoints related to posts.
type PostHandler struct {
	postService core.PostService
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(ps core.PostService) *PostHandler {
	return &PostHandler{postService: ps}
}

// mapPostErrorToStatus maps errors from core.PostService to HTTP status
// codes and an ErrorResponse body.
func mapPostErrorToStatus(c *gin.Context, err error) {
	var statusCode int
	var errResponse ErrorResponse

	switch {
	case errors.Is(err, core.ErrAuthRequired):
		statusCode = http.StatusUnauthorized
		errResponse = ErrorResponse{Error: core.ErrAuthRequired.Error()}
	case errors.Is(err, core.ErrValidation):
		statusCode = http.StatusBadRequest
		errResponse = ErrorResponse{Error: "Validation failed", Details: err.Error()}
	case errors.Is(err, core.ErrPostNotFound):
		statusCode = http.StatusNotFound
		errResponse = ErrorResponse{Error: core.ErrPostNotFound.Error()}
	case errors.Is(err, core.ErrUploadFailed):
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Image upload failed", Details: err.Error()}
	case errors.Is(err, core.ErrWriteFailed):
		statusCode = http.StatusBadGateway
		errResponse = ErrorResponse{Error: "Store write failed", Details: err.Error()}
	default:
		log.Printf("Internal Server Error: %v", err)
		statusCode = http.StatusInternalServerError
		errResponse = ErrorResponse{Error: "An unexpected internal server error occurred."}
	}
	c.JSON(statusCode, errResponse)
}

// ListPosts handles GET /posts. Results come from the in-memory mirror; the
// remote store is never queried on this path. Supported query params:
// q (substring search) and type (lost|found|all).
func (h *PostHandler) ListPosts(c *gin.Context) {
	query := c.Query("q")
	typeFilter := core.ParseTypeFilter(c.Query("type"))

	posts, meta := h.postService.List(query, typeFilter)
	c.JSON(http.StatusOK, PostListResponse{Posts: posts, Meta: meta})
}

// CreatePost handles POST /posts. The body is either JSON (no image) or
// multipart/form-data with the post fields as form values and an optional
// "image" file part.
func (h *PostHandler) CreatePost(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}

	var req models.CreatePostRequest
	if c.ContentType() == "multipart/form-data" {
		if err := c.ShouldBind(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
		attachment, err := readImageFile(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid image upload", Details: err.Error()})
			return
		}
		req.Image = attachment
	} else {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request payload", Details: err.Error()})
			return
		}
	}

	post, err := h.postService.Create(c.Request.Context(), principal, req)
	if err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

// ResolvePost handles POST /posts/:postId/resolve.
func (h *PostHandler) ResolvePost(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}
	postID := c.Param("postId")

	if err := h.postService.Resolve(c.Request.Context(), principal, postID); err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.JSON(http.StatusOK, SuccessResponse{Message: "Post marked as resolved"})
}

// DeletePost handles DELETE /posts/:postId. Deleting an id that no longer
// exists still answers 204.
func (h *PostHandler) DeletePost(c *gin.Context) {
	principal, ok := middleware.PrincipalFrom(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "User identity not found in context"})
		return
	}
	postID := c.Param("postId")

	if err := h.postService.Delete(c.Request.Context(), principal, postID); err != nil {
		mapPostErrorToStatus(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// readImageFile extracts the optional "image" part from a multipart request.
// A request without one returns (nil, nil).
func readImageFile(c *gin.Context) (*models.ImageAttachment, error) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}

	return &models.ImageAttachment{
		Content:     content,
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, nil
}
