package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/upb/yamdb/internal/authz"
)

// AuditAction represents the type of moderation action being audited
type AuditAction string

const (
	AuditActionReviewUpdated   AuditAction = "review_updated"
	AuditActionReviewDeleted   AuditAction = "review_deleted"
	AuditActionCommentUpdated  AuditAction = "comment_updated"
	AuditActionCommentDeleted  AuditAction = "comment_deleted"
	AuditActionUserRoleChanged AuditAction = "user_role_changed"
	AuditActionUserDeleted     AuditAction = "user_deleted"
)

// AuditLog records a change made by a privileged user to content they do not own
type AuditLog struct {
	ID           uuid.UUID       `json:"id" db:"id"`
	ActorID      uuid.UUID       `json:"actor_id" db:"actor_id"`
	ActorRole    authz.Role      `json:"actor_role" db:"actor_role"`
	Action       AuditAction     `json:"action" db:"action"`
	ResourceType string          `json:"resource_type" db:"resource_type"` // review, comment, user
	ResourceID   uuid.UUID       `json:"resource_id" db:"resource_id"`
	OwnerID      *uuid.UUID      `json:"owner_id,omitempty" db:"owner_id"`
	Details      json.RawMessage `json:"details,omitempty" db:"details"`
	RequestID    string          `json:"request_id" db:"request_id"`
	IPAddress    string          `json:"ip_address" db:"ip_address"`
	UserAgent    string          `json:"user_agent" db:"user_agent"`
	Timestamp    time.Time       `json:"timestamp" db:"timestamp"`
}

// TableName returns the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}

// NewAuditLog creates a new AuditLog instance
func NewAuditLog(actor authz.Principal, action AuditAction, resourceType string, resourceID uuid.UUID) *AuditLog {
	return &AuditLog{
		ID:           uuid.New(),
		ActorID:      actor.ID(),
		ActorRole:    actor.Role(),
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Timestamp:    time.Now().UTC(),
	}
}

// WithOwner sets the owner of the affected resource
func (a *AuditLog) WithOwner(ownerID uuid.UUID) *AuditLog {
	a.OwnerID = &ownerID
	return a
}

// WithDetails sets the details
func (a *AuditLog) WithDetails(details interface{}) *AuditLog {
	if data, err := json.Marshal(details); err == nil {
		a.Details = data
	}
	return a
}

// WithRequest sets request metadata
func (a *AuditLog) WithRequest(requestID, ipAddress, userAgent string) *AuditLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	a.UserAgent = userAgent
	return a
}
