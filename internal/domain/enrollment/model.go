package enrollment

import (
	"regexp"
	"time"

	"github.com/google/uuid"
)

// ConsentText is the monitoring consent script delivered to the patient over
// WhatsApp at enrollment. Stored verbatim on every consent log row so the
// trail records exactly what the patient was asked to agree to.
const ConsentText = "Welcome to OrthoWatch Recovery Monitoring. Before we begin, please confirm: " +
	"I agree to participate in digital recovery monitoring. " +
	"I consent to sharing medical images for clinical review. " +
	"I consent to secure data storage of my health information. " +
	"Reply YES to confirm, or call the hospital for questions."

const (
	ConsentTypeMonitoring = "MONITORING"
	MethodWhatsApp        = "WHATSAPP"
)

// TaskConsentTimeout is the deferred task type scheduled at enrollment.
const TaskConsentTimeout = "consent_timeout"

const dateLayout = "2006-01-02"

var indianMobile = regexp.MustCompile(`^\+91[6-9]\d{9}$`)

var validSwelling = map[string]bool{
	"NONE":     true,
	"MILD":     true,
	"MODERATE": true,
	"SEVERE":   true,
}

// Request carries one enrollment submission. Dates arrive as YYYY-MM-DD
// strings and are parsed during Validate.
type Request struct {
	PatientName            string     `json:"patient_name"`
	Age                    int        `json:"age"`
	Gender                 *string    `json:"gender,omitempty"`
	PhonePrimary           string     `json:"phone_primary"`
	PhoneCaregiver         *string    `json:"phone_caregiver,omitempty"`
	PreferredLanguage      string     `json:"preferred_language,omitempty"`
	HospitalMRN            *string    `json:"hospital_mrn,omitempty"`
	SurgeryType            string     `json:"surgery_type"`
	SurgeryDate            string     `json:"surgery_date"`
	DischargeDate          string     `json:"discharge_date"`
	PrimarySurgeonID       uuid.UUID  `json:"primary_surgeon_id"`
	SecondaryClinicianID   *uuid.UUID `json:"secondary_clinician_id,omitempty"`
	PainScoreDischarge     *int       `json:"pain_score_discharge"`
	SwellingLevelDischarge string     `json:"swelling_level_discharge"`

	surgeryDate   time.Time
	dischargeDate time.Time
}

// Validate checks field-level constraints and parses the date strings.
// Cross-field date ordering is checked by the service, not here.
func (r *Request) Validate() error {
	if len(r.PatientName) < 2 || len(r.PatientName) > 255 {
		return validationf("Patient name must be between 2 and 255 characters")
	}
	if r.Age < 1 {
		return validationf("Age must be at least 1")
	}
	if r.Age > 149 {
		return validationf("Age must be less than 150")
	}
	if !indianMobile.MatchString(r.PhonePrimary) {
		return validationf("Phone must be a valid Indian mobile number (e.g., +919876543210)")
	}
	if r.PhoneCaregiver != nil && !indianMobile.MatchString(*r.PhoneCaregiver) {
		return validationf("Caregiver phone must be a valid Indian mobile number")
	}
	if r.PreferredLanguage == "" {
		r.PreferredLanguage = "en"
	}
	if r.SurgeryType == "" {
		return validationf("Surgery type is required")
	}
	if r.SurgeryDate == "" {
		return validationf("Surgery date is required")
	}
	if r.DischargeDate == "" {
		return validationf("Discharge date is required")
	}
	var err error
	if r.surgeryDate, err = time.Parse(dateLayout, r.SurgeryDate); err != nil {
		return validationf("Surgery date must be in YYYY-MM-DD format")
	}
	if r.dischargeDate, err = time.Parse(dateLayout, r.DischargeDate); err != nil {
		return validationf("Discharge date must be in YYYY-MM-DD format")
	}
	if r.PrimarySurgeonID == uuid.Nil {
		return validationf("Primary surgeon ID is required")
	}
	if r.PainScoreDischarge == nil {
		return validationf("Pain score at discharge is required")
	}
	if *r.PainScoreDischarge < 0 || *r.PainScoreDischarge > 10 {
		return validationf("Pain score must be between 0 and 10")
	}
	if !validSwelling[r.SwellingLevelDischarge] {
		return validationf("Swelling level must be one of: NONE, MILD, MODERATE, SEVERE")
	}
	return nil
}

// Result is returned to the caller after a successful enrollment.
type Result struct {
	EpisodeID     uuid.UUID `json:"episode_id"`
	PatientID     uuid.UUID `json:"patient_id"`
	Status        string    `json:"status"`
	ConsentStatus string    `json:"consent_status"`
	Message       string    `json:"message"`
}
