package episode

import (
	"time"

	"github.com/google/uuid"
)

// Episode statuses.
const (
	StatusActive    = "ACTIVE"
	StatusCompleted = "COMPLETED"
	StatusPaused    = "PAUSED"
	StatusCancelled = "CANCELLED"
)

// Consent statuses.
const (
	ConsentPending  = "PENDING"
	ConsentGranted  = "GRANTED"
	ConsentDeclined = "DECLINED"
)

// Episode maps to the episodes table. One row per monitored recovery; at most
// one ACTIVE episode may exist per (patient, template) pair.
type Episode struct {
	ID                     uuid.UUID  `db:"id" json:"id"`
	PatientID              uuid.UUID  `db:"patient_id" json:"patient_id"`
	TemplateID             uuid.UUID  `db:"template_id" json:"template_id"`
	PrimarySurgeonID       uuid.UUID  `db:"primary_surgeon_id" json:"primary_surgeon_id"`
	SecondaryClinicianID   *uuid.UUID `db:"secondary_clinician_id" json:"secondary_clinician_id,omitempty"`
	SurgeryDate            time.Time  `db:"surgery_date" json:"surgery_date"`
	DischargeDate          time.Time  `db:"discharge_date" json:"discharge_date"`
	CurrentDay             int        `db:"current_day" json:"current_day"`
	Status                 string     `db:"status" json:"status"`
	PainScoreDischarge     int        `db:"pain_score_discharge" json:"pain_score_discharge"`
	SwellingLevelDischarge string     `db:"swelling_level_discharge" json:"swelling_level_discharge"`
	ConsentStatus          string     `db:"consent_status" json:"consent_status"`
	ConsentTimestamp       *time.Time `db:"consent_timestamp" json:"consent_timestamp,omitempty"`
	ChecklistTime          string     `db:"checklist_time" json:"checklist_time"`
	Timezone               string     `db:"timezone" json:"timezone"`
	CreatedAt              time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt              time.Time  `db:"updated_at" json:"updated_at"`
}

// ConsentLog maps to the consent_logs table. Append-only: rows are never
// updated or deleted, revocation writes a new row.
type ConsentLog struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	EpisodeID   uuid.UUID  `db:"episode_id" json:"episode_id"`
	PatientID   uuid.UUID  `db:"patient_id" json:"patient_id"`
	ConsentType string     `db:"consent_type" json:"consent_type"`
	Status      string     `db:"status" json:"status"`
	Method      string     `db:"method" json:"method"`
	ConsentText string     `db:"consent_text" json:"consent_text"`
	IPAddress   *string    `db:"ip_address" json:"ip_address,omitempty"`
	GrantedAt   *time.Time `db:"granted_at" json:"granted_at,omitempty"`
	RevokedAt   *time.Time `db:"revoked_at" json:"revoked_at,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
}
