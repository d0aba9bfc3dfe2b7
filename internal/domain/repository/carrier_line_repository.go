package repository

import (
	"context"

	"seacargos-service/internal/domain/entity"
)

// CarrierLineRepository defines the interface for carrier line reference
// lookups.
type CarrierLineRepository interface {
	GetByCode(ctx context.Context, code string) (*entity.CarrierLine, error)
}
