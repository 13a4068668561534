package alert

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

func (r *repoPG) Create(ctx context.Context, a *Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO alerts (id, episode_id, alert_type, severity, assigned_to, status, auto_forwarded, sla_deadline)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		a.ID, a.EpisodeID, a.AlertType, a.Severity, a.AssignedTo, a.Status, a.AutoForwarded, a.SLADeadline)
	return err
}

func (r *repoPG) ExistsForEpisode(ctx context.Context, episodeID uuid.UUID, alertType string) (bool, error) {
	var exists bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM alerts WHERE episode_id = $1 AND alert_type = $2)`,
		episodeID, alertType).Scan(&exists)
	return exists, err
}
