package identity

import (
	"time"

	"github.com/google/uuid"
)

// Patient maps to the patients table. phone_primary is the identity key for
// enrollment: a second enrollment with the same phone reuses the existing row.
type Patient struct {
	ID                uuid.UUID `db:"id" json:"id"`
	FullName          string    `db:"full_name" json:"full_name"`
	Age               int       `db:"age" json:"age"`
	Gender            *string   `db:"gender" json:"gender,omitempty"`
	PhonePrimary      string    `db:"phone_primary" json:"phone_primary"`
	PhoneCaregiver    *string   `db:"phone_caregiver" json:"phone_caregiver,omitempty"`
	PreferredLanguage string    `db:"preferred_language" json:"preferred_language"`
	HospitalMRN       *string   `db:"hospital_mrn" json:"hospital_mrn,omitempty"`
	CreatedAt         time.Time `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time `db:"updated_at" json:"updated_at"`
}

// User roles.
const (
	RoleAdmin   = "ADMIN"
	RoleSurgeon = "SURGEON"
	RoleNurse   = "NURSE"
)

// User maps to the users table. Clinical staff only; patients interact over
// WhatsApp and never hold accounts.
type User struct {
	ID           uuid.UUID  `db:"id" json:"id"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	Role         string     `db:"role" json:"role"`
	Phone        *string    `db:"phone" json:"phone,omitempty"`
	IsActive     bool       `db:"is_active" json:"is_active"`
	LastLoginAt  *time.Time `db:"last_login_at" json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}
