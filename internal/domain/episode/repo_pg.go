package episode

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orthowatch/orthowatch/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Episode Repository ===========

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const episodeCols = `id, patient_id, template_id, primary_surgeon_id, secondary_clinician_id,
	surgery_date, discharge_date, current_day, status,
	pain_score_discharge, swelling_level_discharge,
	consent_status, consent_timestamp, checklist_time, timezone, created_at, updated_at`

func (r *repoPG) scanEpisode(row pgx.Row) (*Episode, error) {
	var e Episode
	err := row.Scan(&e.ID, &e.PatientID, &e.TemplateID, &e.PrimarySurgeonID, &e.SecondaryClinicianID,
		&e.SurgeryDate, &e.DischargeDate, &e.CurrentDay, &e.Status,
		&e.PainScoreDischarge, &e.SwellingLevelDischarge,
		&e.ConsentStatus, &e.ConsentTimestamp, &e.ChecklistTime, &e.Timezone, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repoPG) Create(ctx context.Context, e *Episode) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO episodes (id, patient_id, template_id, primary_surgeon_id, secondary_clinician_id,
			surgery_date, discharge_date, current_day, status,
			pain_score_discharge, swelling_level_discharge, consent_status, checklist_time, timezone)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`,
		e.ID, e.PatientID, e.TemplateID, e.PrimarySurgeonID, e.SecondaryClinicianID,
		e.SurgeryDate, e.DischargeDate, e.CurrentDay, e.Status,
		e.PainScoreDischarge, e.SwellingLevelDischarge, e.ConsentStatus, e.ChecklistTime, e.Timezone)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Episode, error) {
	return r.scanEpisode(r.conn(ctx).QueryRow(ctx, `SELECT `+episodeCols+` FROM episodes WHERE id = $1`, id))
}

func (r *repoPG) ExistsActiveForSurgeryType(ctx context.Context, patientID uuid.UUID, surgeryType string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM episodes e
			JOIN recovery_templates t ON t.id = e.template_id
			WHERE e.patient_id = $1 AND t.surgery_type = $2 AND e.status = 'ACTIVE'
		)`, patientID, surgeryType).Scan(&exists)
	return exists, err
}

func (r *repoPG) SetConsentStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE episodes SET consent_status = $2, consent_timestamp = NOW(), updated_at = NOW()
		WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// =========== Consent Log Repository ===========

type consentLogRepoPG struct{ pool *pgxpool.Pool }

func NewConsentLogRepoPG(pool *pgxpool.Pool) ConsentLogRepository {
	return &consentLogRepoPG{pool: pool}
}

func (r *consentLogRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *consentLogRepoPG) Create(ctx context.Context, cl *ConsentLog) error {
	if cl.ID == uuid.Nil {
		cl.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO consent_logs (id, episode_id, patient_id, consent_type, status, method, consent_text, ip_address, granted_at, revoked_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
		cl.ID, cl.EpisodeID, cl.PatientID, cl.ConsentType, cl.Status, cl.Method,
		cl.ConsentText, cl.IPAddress, cl.GrantedAt, cl.RevokedAt)
	return err
}
