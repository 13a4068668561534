package episode

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, e *Episode) error
	GetByID(ctx context.Context, id uuid.UUID) (*Episode, error)
	// ExistsActiveForSurgeryType reports whether the patient already has an
	// ACTIVE episode whose template covers the given surgery type.
	ExistsActiveForSurgeryType(ctx context.Context, patientID uuid.UUID, surgeryType string) (bool, error)
	SetConsentStatus(ctx context.Context, id uuid.UUID, status string) error
}

type ConsentLogRepository interface {
	Create(ctx context.Context, cl *ConsentLog) error
}
