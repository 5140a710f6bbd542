package models

import "time"

// Role classifies a campus account. It is informational only; no board
// operation branches on it.
type Role string

const (
	RoleStudent Role = "student"
	RoleStaff   Role = "staff"
	RoleAdmin   Role = "admin"
)

// UserProfile represents a user record in the system. The document ID is the
// Firebase Auth UID and the record is refreshed on every successful sign-in.
// DisplayName, Email and PhotoURL are pointers because the identity provider
// may omit any of them.
type UserProfile struct {
	UID         string    `json:"uid" firestore:"-"`
	DisplayName *string   `json:"displayName" firestore:"displayName"`
	Email       *string   `json:"email" firestore:"email"`
	PhotoURL    *string   `json:"photoURL" firestore:"photoURL"`
	Role        Role      `json:"role,omitempty" firestore:"role,omitempty"`
	CreatedAt   time.Time `json:"createdAt" firestore:"createdAt,serverTimestamp"`
	UpdatedAt   time.Time `json:"updatedAt" firestore:"updatedAt,serverTimestamp"`
}

// Principal is the verified identity of the caller for a single request,
// extracted from a Firebase ID token by the auth middleware.
type Principal struct {
	UID         string `json:"uid"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"displayName,omitempty"`
	PhotoURL    string `json:"photoURL,omitempty"`
}

// Profile builds the denormalized profile record for this principal. Empty
// claims become nil pointers so the store distinguishes "provider omitted
// this" from an empty string.
func (p *Principal) Profile() *UserProfile {
	prof := &UserProfile{UID: p.UID}
	if p.DisplayName != "" {
		name := p.DisplayName
		prof.DisplayName = &name
	}
	if p.Email != "" {
		email := p.Email
		prof.Email = &email
	}
	if p.PhotoURL != "" {
		photo := p.PhotoURL
		prof.PhotoURL = &photo
	}
	return prof
}
