package template

import (
	"time"

	"github.com/google/uuid"
)

// RecoveryTemplate maps to the recovery_templates table. One active template
// per surgery type drives the monitoring protocol for every episode enrolled
// against it.
type RecoveryTemplate struct {
	ID                 uuid.UUID `db:"id" json:"id"`
	SurgeryType        string    `db:"surgery_type" json:"surgery_type"`
	DisplayName        string    `db:"display_name" json:"display_name"`
	ChecklistConfig    []byte    `db:"checklist_config" json:"checklist_config"`
	MilestoneConfig    []byte    `db:"milestone_config" json:"milestone_config"`
	MandatoryImageDays []int32   `db:"mandatory_image_days" json:"mandatory_image_days"`
	MonitoringDays     int       `db:"monitoring_days" json:"monitoring_days"`
	IsActive           bool      `db:"is_active" json:"is_active"`
	CreatedBy          uuid.UUID `db:"created_by" json:"created_by"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}
