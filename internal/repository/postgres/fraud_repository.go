package postgres

import (
	"context"
	"fmt"
	"linkPulse/domain"

	"gorm.io/gorm"
)

type FraudRepository struct {
	DB *gorm.DB
}

func NewFraudRepository(db *gorm.DB) *FraudRepository {
	return &FraudRepository{DB: db}
}

func (r *FraudRepository) Create(ctx context.Context, event domain.FraudEvent) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&event).Error; err != nil {
		return fmt.Errorf("failed to insert fraud event: %w", err)
	}

	return nil
}
