package alert

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Alert) error
	// ExistsForEpisode reports whether the episode already has an alert of
	// the given type, regardless of status.
	ExistsForEpisode(ctx context.Context, episodeID uuid.UUID, alertType string) (bool, error)
}
