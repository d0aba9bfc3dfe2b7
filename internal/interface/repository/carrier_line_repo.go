package repository

import (
	"context"
	"time"

	"seacargos-service/internal/domain/entity"
	"seacargos-service/internal/domain/repository"

	"gorm.io/gorm"
)

// GormCarrierLineRepository implements the CarrierLineRepository interface
type GormCarrierLineRepository struct {
	db *gorm.DB
}

// NewGormCarrierLineRepository creates a new GORM carrier line repository
func NewGormCarrierLineRepository(db *gorm.DB) repository.CarrierLineRepository {
	return &GormCarrierLineRepository{
		db: db,
	}
}

// CarrierLines GORM model for database mapping
type CarrierLines struct {
	ID        uint   `gorm:"primaryKey"`
	Code      string `gorm:"column:code;unique"`
	Name      string `gorm:"column:name;unique"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName overrides the default table name
func (CarrierLines) TableName() string {
	return "m_carrier_lines"
}

// GetByCode finds a carrier line by code
func (r *GormCarrierLineRepository) GetByCode(ctx context.Context, code string) (*entity.CarrierLine, error) {
	var line CarrierLines
	result := r.db.WithContext(ctx).Where("code = ?", code).First(&line)

	if result.Error != nil {
		return nil, result.Error
	}

	// Convert GORM model to domain entity
	return &entity.CarrierLine{
		ID:        line.ID,
		Code:      line.Code,
		Name:      line.Name,
		CreatedAt: line.CreatedAt,
		UpdatedAt: line.UpdatedAt,
	}, nil
}
