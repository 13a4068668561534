package template

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const templateCols = `id, surgery_type, display_name, checklist_config, milestone_config, mandatory_image_days, monitoring_days, is_active, created_by, created_at, updated_at`

func (r *repoPG) scanTemplate(row pgx.Row) (*RecoveryTemplate, error) {
	var t RecoveryTemplate
	err := row.Scan(&t.ID, &t.SurgeryType, &t.DisplayName, &t.ChecklistConfig, &t.MilestoneConfig,
		&t.MandatoryImageDays, &t.MonitoringDays, &t.IsActive, &t.CreatedBy, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *repoPG) Create(ctx context.Context, t *RecoveryTemplate) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO recovery_templates (id, surgery_type, display_name, checklist_config, milestone_config, mandatory_image_days, monitoring_days, is_active, created_by)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		t.ID, t.SurgeryType, t.DisplayName, t.ChecklistConfig, t.MilestoneConfig,
		t.MandatoryImageDays, t.MonitoringDays, t.IsActive, t.CreatedBy)
	return err
}

func (r *repoPG) GetActiveBySurgeryType(ctx context.Context, surgeryType string) (*RecoveryTemplate, error) {
	return r.scanTemplate(r.conn(ctx).QueryRow(ctx,
		`SELECT `+templateCols+` FROM recovery_templates WHERE surgery_type = $1 AND is_active = TRUE`,
		surgeryType))
}
