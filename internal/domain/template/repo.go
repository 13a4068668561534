package template

import (
	"context"
)

type Repository interface {
	Create(ctx context.Context, t *RecoveryTemplate) error
	GetActiveBySurgeryType(ctx context.Context, surgeryType string) (*RecoveryTemplate, error)
}
