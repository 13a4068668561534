package audit

import (
	"time"

	"github.com/google/uuid"
)

// ClinicalAuditLog maps to the clinical_audit_log table. Append-only.
// episode_id carries no foreign key so the trail survives episode deletion.
type ClinicalAuditLog struct {
	ID                uuid.UUID              `db:"id" json:"id"`
	UserID            uuid.UUID              `db:"user_id" json:"user_id"`
	EpisodeID         *uuid.UUID             `db:"episode_id" json:"episode_id,omitempty"`
	Action            string                 `db:"action" json:"action"`
	ResourceType      *string                `db:"resource_type" json:"resource_type,omitempty"`
	ResourceID        *uuid.UUID             `db:"resource_id" json:"resource_id,omitempty"`
	RiskScoreAtAction *int                   `db:"risk_score_at_action" json:"risk_score_at_action,omitempty"`
	Details           map[string]interface{} `db:"details" json:"details,omitempty"`
	IPAddress         *string                `db:"ip_address" json:"ip_address,omitempty"`
	UserAgent         *string                `db:"user_agent" json:"user_agent,omitempty"`
	CreatedAt         time.Time              `db:"created_at" json:"created_at"`
}
