package models

import "time"

// PostType says whether the reporter lost the item or found it.
type PostType string

const (
	PostTypeLost  PostType = "lost"
	PostTypeFound PostType = "found"
)

// PostStatus tracks whether a report is still active. The transition is
// one-way: open posts can be resolved, resolved posts never reopen.
type PostStatus string

const (
	PostStatusOpen     PostStatus = "open"
	PostStatusResolved PostStatus = "resolved"
)

// categories is the closed set of labels a report can be filed under.
// Creation validates against it; documents already in the store are never
// re-checked, so removing an entry here does not invalidate old posts.
var categories = []string{
	"Electronics",
	"ID Cards / Wallets",
	"Keys",
	"Books / Notes",
	"Clothing",
	"Accessories",
	"Others",
}

// Categories returns the closed set of post categories in display order.
func Categories() []string {
	out := make([]string, len(categories))
	copy(out, categories)
	return out
}

// ValidCategory reports whether c is one of the known categories.
func ValidCategory(c string) bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// ValidPostType reports whether t is a known post type.
func ValidPostType(t PostType) bool {
	return t == PostTypeLost || t == PostTypeFound
}

// Post represents one lost or found report on the board.
type Post struct {
	ID           string     `json:"id" firestore:"-"` // Document ID, assigned by Firestore
	Type         PostType   `json:"type" firestore:"type"`
	Title        string     `json:"title" firestore:"title"`
	Description  string     `json:"description" firestore:"description"`
	Location     string     `json:"location" firestore:"location"`
	Category     string     `json:"category" firestore:"category"`
	Date         string     `json:"date" firestore:"date"` // Calendar date as entered by the reporter
	ContactEmail string     `json:"contactEmail" firestore:"contactEmail"`
	ContactPhone string     `json:"contactPhone,omitempty" firestore:"contactPhone,omitempty"`
	ImageURL     string     `json:"imageUrl,omitempty" firestore:"imageUrl,omitempty"`
	CreatedBy    string     `json:"createdBy" firestore:"createdBy"` // Firebase Auth UID of the reporter
	CreatorName  string     `json:"creatorName,omitempty" firestore:"creatorName,omitempty"`
	CreatorPhoto string     `json:"creatorPhoto,omitempty" firestore:"creatorPhoto,omitempty"`
	Status       PostStatus `json:"status" firestore:"status"`
	CreatedAt    time.Time  `json:"-" firestore:"createdAt,serverTimestamp"`

	// CreatedAtMillis is the wire form of CreatedAt: epoch milliseconds,
	// or 0 while the server has not assigned the timestamp yet.
	CreatedAtMillis int64 `json:"createdAt" firestore:"-"`
}

// NormalizeCreatedAt fills CreatedAtMillis from the server-assigned
// timestamp. A document read back before the server committed its timestamp
// has a zero CreatedAt and normalizes to 0.
func (p *Post) NormalizeCreatedAt() {
	if p.CreatedAt.IsZero() {
		p.CreatedAtMillis = 0
		return
	}
	p.CreatedAtMillis = p.CreatedAt.UnixMilli()
}
