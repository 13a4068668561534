package alert

import (
	"time"

	"github.com/google/uuid"
)

// Alert types.
const (
	TypeHighRisk          = "HIGH_RISK"
	TypeNonResponse       = "NON_RESPONSE"
	TypeEmergencyOverride = "EMERGENCY_OVERRIDE"
	TypeConsentTimeout    = "CONSENT_TIMEOUT"
)

// Severities.
const (
	SeverityLow      = "LOW"
	SeverityMedium   = "MEDIUM"
	SeverityHigh     = "HIGH"
	SeverityCritical = "CRITICAL"
)

// Alert statuses.
const (
	StatusPending      = "PENDING"
	StatusAcknowledged = "ACKNOWLEDGED"
	StatusResolved     = "RESOLVED"
	StatusExpired      = "EXPIRED"
	StatusCancelled    = "CANCELLED"
)

// Alert maps to the alerts table.
type Alert struct {
	ID                uuid.UUID  `db:"id" json:"id"`
	EpisodeID         uuid.UUID  `db:"episode_id" json:"episode_id"`
	AlertType         string     `db:"alert_type" json:"alert_type"`
	Severity          string     `db:"severity" json:"severity"`
	AssignedTo        uuid.UUID  `db:"assigned_to" json:"assigned_to"`
	Status            string     `db:"status" json:"status"`
	AcknowledgedAt    *time.Time `db:"acknowledged_at" json:"acknowledged_at,omitempty"`
	ResolvedAt        *time.Time `db:"resolved_at" json:"resolved_at,omitempty"`
	EscalationOutcome *string    `db:"escalation_outcome" json:"escalation_outcome,omitempty"`
	EscalationNotes   *string    `db:"escalation_notes" json:"escalation_notes,omitempty"`
	AutoForwarded     bool       `db:"auto_forwarded" json:"auto_forwarded"`
	SLADeadline       *time.Time `db:"sla_deadline" json:"sla_deadline,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
