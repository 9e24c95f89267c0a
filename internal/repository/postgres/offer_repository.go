package postgres

import (
	"context"
	"errors"
	"fmt"
	"linkPulse/domain"

	"gorm.io/gorm"
)

type OfferRepository struct {
	DB *gorm.DB
}

func NewOfferRepository(db *gorm.DB) *OfferRepository {
	return &OfferRepository{DB: db}
}

// FindByID loads the full policy snapshot: tracking template, rules,
// targeting and caps (in declaration order).
func (r *OfferRepository) FindByID(ctx context.Context, id string) (domain.Offer, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Offer{}, false, fmt.Errorf("context error: %w", err)
	}

	var offer domain.Offer
	err := r.DB.WithContext(ctx).
		Preload("Tracking").
		Preload("Rules").
		Preload("GeoRules").
		Preload("DeviceRules").
		Preload("TimeTargeting").
		Preload("Caps", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		First(&offer, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Offer{}, false, nil
	}
	if err != nil {
		return domain.Offer{}, false, fmt.Errorf("failed to query offer: %w", err)
	}

	return offer, true, nil
}
