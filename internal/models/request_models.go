package models

// ImageAttachment is an optional image file submitted alongside a create
// request. Content is the raw bytes as received; nothing is decoded here.
type ImageAttachment struct {
	Content     []byte
	Filename    string
	ContentType string
}

// CreatePostRequest carries the creator-supplied fields of a new report.
// It has no id, status, creator or timestamp fields on purpose: those are
// injected by the service and the store, never accepted from the client.
//
// Field presence is checked by the service so that every missing field is
// reported in one validation error, rather than by binding tags that stop at
// the first.
type CreatePostRequest struct {
	Type         PostType `json:"type" form:"type"`
	Title        string   `json:"title" form:"title"`
	Description  string   `json:"description" form:"description"`
	Location     string   `json:"location" form:"location"`
	Category     string   `json:"category" form:"category"`
	Date         string   `json:"date" form:"date"`
	ContactEmail string   `json:"contactEmail" form:"contactEmail"`
	ContactPhone string   `json:"contactPhone" form:"contactPhone"`

	// Image is populated by the handler from the multipart part, if any.
	Image *ImageAttachment `json:"-" form:"-"`
}
