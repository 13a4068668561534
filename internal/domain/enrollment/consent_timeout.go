package enrollment

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/orthowatch/orthowatch/internal/domain/alert"
	"github.com/orthowatch/orthowatch/internal/domain/episode"
)

// ConsentTimeoutCheck fires once per episode, one consent-timeout window
// after enrollment. If consent is still PENDING it raises a CONSENT_TIMEOUT
// alert for the primary surgeon. The check is idempotent: a redelivered task
// finds the existing alert and does nothing, and a deleted episode is a
// silent no-op.
type ConsentTimeoutCheck struct {
	episodes episode.Repository
	alerts   alert.Repository
	logger   zerolog.Logger
}

func NewConsentTimeoutCheck(episodes episode.Repository, alerts alert.Repository, logger zerolog.Logger) *ConsentTimeoutCheck {
	return &ConsentTimeoutCheck{
		episodes: episodes,
		alerts:   alerts,
		logger:   logger.With().Str("component", "consent_timeout").Logger(),
	}
}

func (c *ConsentTimeoutCheck) Run(ctx context.Context, episodeID uuid.UUID) error {
	ep, err := c.episodes.GetByID(ctx, episodeID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			c.logger.Info().Str("episode_id", episodeID.String()).Msg("episode gone, skipping consent timeout check")
			return nil
		}
		return err
	}

	if ep.ConsentStatus != episode.ConsentPending {
		c.logger.Info().
			Str("episode_id", episodeID.String()).
			Str("consent_status", ep.ConsentStatus).
			Msg("consent already resolved, no alert needed")
		return nil
	}

	exists, err := c.alerts.ExistsForEpisode(ctx, ep.ID, alert.TypeConsentTimeout)
	if err != nil {
		return err
	}
	if exists {
		c.logger.Info().Str("episode_id", episodeID.String()).Msg("consent timeout alert already raised")
		return nil
	}

	a := &alert.Alert{
		EpisodeID:  ep.ID,
		AlertType:  alert.TypeConsentTimeout,
		Severity:   alert.SeverityMedium,
		AssignedTo: ep.PrimarySurgeonID,
		Status:     alert.StatusPending,
	}
	if err := c.alerts.Create(ctx, a); err != nil {
		return err
	}

	c.logger.Warn().
		Str("episode_id", ep.ID.String()).
		Str("assigned_to", ep.PrimarySurgeonID.String()).
		Msg("patient did not respond to consent request in time, alert raised")
	return nil
}
