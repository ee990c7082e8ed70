package entities

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// EscrowAuditAction names an admin operation recorded on an escrow.
type EscrowAuditAction string

const (
	AuditAdminUpdate EscrowAuditAction = "ADMIN_UPDATE"
	AuditRelease     EscrowAuditAction = "RELEASE"
	AuditCancel      EscrowAuditAction = "CANCEL"
	AuditExpire      EscrowAuditAction = "EXPIRE"
)

// EscrowAuditLog captures the before and after values of an admin change.
// ActorID is nil for system actions such as deadline expiry.
type EscrowAuditLog struct {
	ID        uuid.UUID         `json:"id"`
	EscrowID  uuid.UUID         `json:"escrowId"`
	ActorID   *uuid.UUID        `json:"actorId,omitempty"`
	Action    EscrowAuditAction `json:"action"`
	Before    json.RawMessage   `json:"before,omitempty"`
	After     json.RawMessage   `json:"after,omitempty"`
	Note      string            `json:"note,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}
