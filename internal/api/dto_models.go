package api

import (
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/core"
	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/models"
)

// ErrorResponse is a generic structure for returning errors via API.
type ErrorResponse struct {
	Error   string `json:"error"`             // A high-level error message or code
	Details string `json:"details,omitempty"` // More specific details about the error, if available
}

// SuccessResponse is a generic structure for simple success messages.
type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// PostListResponse wraps the filtered mirror together with its sync metadata
// so clients can tell an empty board from one that is still loading or
// degraded.
type PostListResponse struct {
	Posts []models.Post `json:"posts"`
	Meta  core.SyncMeta `json:"meta"`
}

// CategoriesResponse lists the closed category set in display order.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}
