package enrollment

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/orthowatch/orthowatch/internal/domain/audit"
	"github.com/orthowatch/orthowatch/internal/domain/episode"
	"github.com/orthowatch/orthowatch/internal/domain/identity"
	"github.com/orthowatch/orthowatch/internal/domain/template"
	"github.com/orthowatch/orthowatch/internal/platform/db"
	"github.com/orthowatch/orthowatch/internal/platform/tasks"
)

const uniqueViolation = "23505"

// Service runs the enrollment workflow. All writes happen inside one
// transaction; the consent timeout task is scheduled only after commit.
type Service struct {
	pool      *pgxpool.Pool
	patients  identity.PatientRepository
	users     identity.UserRepository
	templates template.Repository
	episodes  episode.Repository
	consents  episode.ConsentLogRepository
	audits    audit.Repository
	scheduler tasks.Scheduler
	logger    zerolog.Logger

	consentTimeout time.Duration
}

// Deps bundles the repositories and collaborators the service needs.
type Deps struct {
	Patients  identity.PatientRepository
	Users     identity.UserRepository
	Templates template.Repository
	Episodes  episode.Repository
	Consents  episode.ConsentLogRepository
	Audits    audit.Repository
	Scheduler tasks.Scheduler
}

func NewService(pool *pgxpool.Pool, deps Deps, consentTimeout time.Duration, logger zerolog.Logger) *Service {
	return &Service{
		pool:           pool,
		patients:       deps.Patients,
		users:          deps.Users,
		templates:      deps.Templates,
		episodes:       deps.Episodes,
		consents:       deps.Consents,
		audits:         deps.Audits,
		scheduler:      deps.Scheduler,
		logger:         logger.With().Str("component", "enrollment").Logger(),
		consentTimeout: consentTimeout,
	}
}

// inTx wraps fn in a database transaction. A nil pool runs fn directly,
// which lets tests exercise the workflow against in-memory repositories.
func (s *Service) inTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.pool == nil {
		return fn(ctx)
	}
	return db.InTx(ctx, s.pool, fn)
}

// Enroll registers a patient for recovery monitoring. It resolves the
// template and clinicians, finds or creates the patient by primary phone,
// opens an ACTIVE episode with PENDING consent, writes the consent and audit
// trail rows, and schedules the consent timeout check.
func (s *Service) Enroll(ctx context.Context, req *Request, actorID uuid.UUID, ipAddress, userAgent string) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if req.surgeryDate.After(req.dischargeDate) {
		return nil, validationf("Surgery date must be on or before discharge date")
	}

	var ep *episode.Episode
	var patient *identity.Patient

	err := s.inTx(ctx, func(ctx context.Context) error {
		tmpl, err := s.templates.GetActiveBySurgeryType(ctx, req.SurgeryType)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFoundf("No active recovery template found for surgery type: %s", req.SurgeryType)
			}
			return err
		}

		surgeon, err := s.users.GetByID(ctx, req.PrimarySurgeonID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return notFoundf("Surgeon not found with ID: %s", req.PrimarySurgeonID)
			}
			return err
		}
		if surgeon.Role != identity.RoleSurgeon {
			// Indistinguishable from a missing id so callers cannot probe
			// which user ids exist.
			return notFoundf("Surgeon not found with ID: %s", req.PrimarySurgeonID)
		}

		if req.SecondaryClinicianID != nil {
			if _, err := s.users.GetByID(ctx, *req.SecondaryClinicianID); err != nil {
				if errors.Is(err, pgx.ErrNoRows) {
					return notFoundf("Clinician not found with ID: %s", *req.SecondaryClinicianID)
				}
				return err
			}
		}

		patient, err = s.resolvePatient(ctx, req)
		if err != nil {
			return err
		}

		ep = &episode.Episode{
			PatientID:              patient.ID,
			TemplateID:             tmpl.ID,
			PrimarySurgeonID:       surgeon.ID,
			SecondaryClinicianID:   req.SecondaryClinicianID,
			SurgeryDate:            req.surgeryDate,
			DischargeDate:          req.dischargeDate,
			Status:                 episode.StatusActive,
			PainScoreDischarge:     *req.PainScoreDischarge,
			SwellingLevelDischarge: req.SwellingLevelDischarge,
			ConsentStatus:          episode.ConsentPending,
			ChecklistTime:          "09:00",
			Timezone:               "Asia/Kolkata",
		}
		if err := s.episodes.Create(ctx, ep); err != nil {
			if isUniqueViolation(err) {
				return duplicatef("Patient already has an active episode for surgery type: %s", req.SurgeryType)
			}
			return err
		}

		// The initial consent request is logged as GRANTED with a null
		// granted_at; the row is updated when the patient replies.
		cl := &episode.ConsentLog{
			EpisodeID:   ep.ID,
			PatientID:   patient.ID,
			ConsentType: ConsentTypeMonitoring,
			Status:      episode.ConsentGranted,
			Method:      MethodWhatsApp,
			ConsentText: ConsentText,
		}
		if err := s.consents.Create(ctx, cl); err != nil {
			return err
		}

		entry := &audit.ClinicalAuditLog{
			UserID:       actorID,
			EpisodeID:    &ep.ID,
			Action:       "ENROLL_PATIENT",
			ResourceType: strPtr("EPISODE"),
			ResourceID:   &ep.ID,
			Details: map[string]interface{}{
				"patientName": req.PatientName,
				"surgeryType": req.SurgeryType,
				"patientId":   patient.ID.String(),
			},
		}
		if ipAddress != "" {
			entry.IPAddress = &ipAddress
		}
		if userAgent != "" {
			entry.UserAgent = &userAgent
		}
		return s.audits.Create(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	// Scheduling runs after commit. A failure here must not undo the
	// enrollment; the startup poll will still pick the task up late if the
	// queue insert succeeded on retry, and the miss is logged for operators.
	if err := s.scheduler.ScheduleOnce(ctx, TaskConsentTimeout, ep.ID, s.consentTimeout); err != nil {
		s.logger.Error().Err(err).
			Str("episode_id", ep.ID.String()).
			Msg("failed to schedule consent timeout check")
	}

	s.logger.Info().
		Str("episode_id", ep.ID.String()).
		Str("patient_id", patient.ID.String()).
		Msg("patient enrolled")

	return &Result{
		EpisodeID:     ep.ID,
		PatientID:     patient.ID,
		Status:        ep.Status,
		ConsentStatus: ep.ConsentStatus,
		Message:       "Patient enrolled. Consent message sent via WhatsApp.",
	}, nil
}

// resolvePatient finds the patient by primary phone or creates a new row.
// For an existing patient the duplicate episode check runs before the
// demographic update so a rejected enrollment leaves the row untouched.
func (s *Service) resolvePatient(ctx context.Context, req *Request) (*identity.Patient, error) {
	existing, err := s.patients.GetByPhone(ctx, req.PhonePrimary)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		p := &identity.Patient{
			FullName:          req.PatientName,
			Age:               req.Age,
			Gender:            req.Gender,
			PhonePrimary:      req.PhonePrimary,
			PhoneCaregiver:    req.PhoneCaregiver,
			PreferredLanguage: req.PreferredLanguage,
			HospitalMRN:       req.HospitalMRN,
		}
		if err := s.patients.Create(ctx, p); err != nil {
			// Two first-time enrollments can race past GetByPhone and
			// collide on the phone_primary unique constraint. The conflict
			// aborts the surrounding transaction, so the loser cannot
			// retry the lookup inline; it reports a conflict instead.
			if isUniqueViolation(err) {
				return nil, duplicatef("An enrollment for phone %s is already in progress, please retry", req.PhonePrimary)
			}
			return nil, err
		}
		return p, nil
	}

	dup, err := s.episodes.ExistsActiveForSurgeryType(ctx, existing.ID, req.SurgeryType)
	if err != nil {
		return nil, err
	}
	if dup {
		return nil, duplicatef("Patient already has an active episode for surgery type: %s", req.SurgeryType)
	}

	existing.FullName = req.PatientName
	existing.Age = req.Age
	existing.Gender = req.Gender
	existing.PhoneCaregiver = req.PhoneCaregiver
	existing.PreferredLanguage = req.PreferredLanguage
	existing.HospitalMRN = req.HospitalMRN
	if err := s.patients.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

func strPtr(s string) *string { return &s }
