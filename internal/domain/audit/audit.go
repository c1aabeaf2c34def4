package audit

import (
	"context"
	"encoding/json"
	"net"
	"time"

	"github.com/google/uuid"
)

// EntityType represents the type of entity being audited
type EntityType string

const (
	EntityTypeListing      EntityType = "LISTING"
	EntityTypeTrade        EntityType = "TRADE"
	EntityTypeChat         EntityType = "CHAT"
	EntityTypeUser         EntityType = "USER"
	EntityTypeNotification EntityType = "NOTIFICATION"
	EntityTypeGrade        EntityType = "GRADE"
)

// Action represents the type of action being audited
type Action string

const (
	ActionCreate     Action = "CREATE"
	ActionUpdate     Action = "UPDATE"
	ActionDelete     Action = "DELETE"
	ActionLogin      Action = "LOGIN"
	ActionLogout     Action = "LOGOUT"
	ActionTransition Action = "TRANSITION"
	ActionCancel     Action = "CANCEL"
	ActionForce      Action = "FORCE"
)

// RiskLevel represents the risk classification of an operation
type RiskLevel string

const (
	RiskLevelLow      RiskLevel = "LOW"
	RiskLevelMedium   RiskLevel = "MEDIUM"
	RiskLevelHigh     RiskLevel = "HIGH"
	RiskLevelCritical RiskLevel = "CRITICAL"
)

// AuditLog represents an audit log entry
type AuditLog struct {
	ID         int64           `json:"id"`
	AuditID    uuid.UUID       `json:"auditId"`
	EntityType EntityType      `json:"entityType"`
	EntityID   string          `json:"entityId"`
	Action     Action          `json:"action"`
	Actor      string          `json:"actor"`
	ActorRole  string          `json:"actorRole,omitempty"`
	ActorIP    net.IP          `json:"actorIp,omitempty"`
	UserAgent  string          `json:"userAgent,omitempty"`
	OldValues  json.RawMessage `json:"oldValues,omitempty"`
	NewValues  json.RawMessage `json:"newValues,omitempty"`
	Reason     string          `json:"reason,omitempty"`
	RiskLevel  RiskLevel       `json:"riskLevel"`
	TraceID    string          `json:"traceId,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
	Signature  []byte          `json:"signature,omitempty"`
}

// AuditEntry represents an entry to be logged (input for creating audit logs)
type AuditEntry struct {
	EntityType EntityType
	EntityID   string
	Action     Action
	Actor      string
	ActorRole  string
	ActorIP    net.IP
	UserAgent  string
	OldValues  interface{}
	NewValues  interface{}
	Reason     string
	TraceID    string
}

// QueryFilter represents filters for querying audit logs
type QueryFilter struct {
	EntityType *EntityType
	EntityID   *string
	Action     *Action
	Actor      *string
	RiskLevel  *RiskLevel
	StartTime  *time.Time
	EndTime    *time.Time
	TraceID    *string
}

// Cursor represents a pagination cursor for audit logs
type Cursor struct {
	CreatedAt time.Time `json:"ts"`
	ID        int64     `json:"id"`
}

// Repository defines the interface for audit log persistence
type Repository interface {
	// Create creates a new audit log entry
	Create(ctx context.Context, entry *AuditLog) error

	// GetByID retrieves an audit log by its audit ID
	GetByID(ctx context.Context, auditID uuid.UUID) (*AuditLog, error)

	// Query retrieves audit logs based on filters with cursor-based pagination
	Query(ctx context.Context, filter QueryFilter, cursor *Cursor, limit int) ([]*AuditLog, *Cursor, error)

	// GetByEntityID retrieves all audit logs for a specific entity
	GetByEntityID(ctx context.Context, entityType EntityType, entityID string) ([]*AuditLog, error)

	// VerifySignature verifies the signature of an audit log entry
	VerifySignature(ctx context.Context, auditID uuid.UUID, key []byte) (bool, error)
}

// DetermineRiskLevel determines the risk level based on entity type and action
func DetermineRiskLevel(entityType EntityType, action Action) RiskLevel {
	// Critical: admin overrides of trade state
	if action == ActionForce {
		return RiskLevelCritical
	}

	// High: account changes and deletions
	if entityType == EntityTypeUser && action != ActionLogin && action != ActionLogout {
		return RiskLevelHigh
	}
	if action == ActionDelete {
		return RiskLevelHigh
	}

	// Medium: money-adjacent state changes
	if entityType == EntityTypeTrade && (action == ActionTransition || action == ActionCancel) {
		return RiskLevelMedium
	}

	return RiskLevelLow
}

// NewAuditLog creates a new AuditLog from an AuditEntry
func NewAuditLog(entry *AuditEntry) (*AuditLog, error) {
	log := &AuditLog{
		AuditID:    uuid.New(),
		EntityType: entry.EntityType,
		EntityID:   entry.EntityID,
		Action:     entry.Action,
		Actor:      entry.Actor,
		ActorRole:  entry.ActorRole,
		ActorIP:    entry.ActorIP,
		UserAgent:  entry.UserAgent,
		Reason:     entry.Reason,
		TraceID:    entry.TraceID,
		RiskLevel:  DetermineRiskLevel(entry.EntityType, entry.Action),
		CreatedAt:  time.Now().UTC(),
	}

	if entry.OldValues != nil {
		data, err := json.Marshal(entry.OldValues)
		if err != nil {
			return nil, err
		}
		log.OldValues = data
	}

	if entry.NewValues != nil {
		data, err := json.Marshal(entry.NewValues)
		if err != nil {
			return nil, err
		}
		log.NewValues = data
	}

	return log, nil
}
