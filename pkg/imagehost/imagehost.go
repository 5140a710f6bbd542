// Package imagehost uploads user-submitted images to an external hosting
// service and hands back a public URL.
//
// Uploads are one-way: no adapter exposes a delete, so an image whose post
// write later fails stays hosted. Callers are expected to log such orphans
// and move on.
package imagehost

import (
	"context"
	"fmt"
)

// ErrUpload is wrapped by every failure an adapter returns.
var ErrUpload = fmt.Errorf("image upload failed")

// ErrTooLarge is returned when the payload exceeds the configured size
// limit. It wraps ErrUpload so callers matching the broad class still catch it.
var ErrTooLarge = fmt.Errorf("%w: image exceeds size limit", ErrUpload)

// Uploader sends one binary image to a remote host.
type Uploader interface {
	// Upload stores content under a host-chosen location and returns its
	// public URL.
	Upload(ctx context.Context, content []byte, filename, contentType string) (string, error)
}
