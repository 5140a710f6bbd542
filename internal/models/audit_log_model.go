package models

import "time"

// Actions recorded in the audit trail.
const (
	AuditActionPostCreate  = "POST_CREATE"
	AuditActionPostResolve = "POST_RESOLVE"
	AuditActionPostDelete  = "POST_DELETE"
	AuditActionUserSignIn  = "USER_SIGNIN"
	AuditActionUserSignOut = "USER_SIGNOUT"
)

// Target types referenced by audit entries.
const (
	AuditTargetPost = "POST"
	AuditTargetUser = "USER"
)

// AuditLog represents a single audit trail event. Entries are written
// best-effort; they never block or fail the operation they describe.
type AuditLog struct {
	ID         string                 `json:"id" firestore:"-"`
	Timestamp  time.Time              `json:"timestamp" firestore:"timestamp,serverTimestamp"`
	UserID     string                 `json:"userId" firestore:"userId"`
	Action     string                 `json:"action" firestore:"action"`
	TargetType string                 `json:"targetType,omitempty" firestore:"targetType,omitempty"`
	TargetID   string                 `json:"targetId,omitempty" firestore:"targetId,omitempty"`
	Details    map[string]interface{} `json:"details,omitempty" firestore:"details,omitempty"`
}
