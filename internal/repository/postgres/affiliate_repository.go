package postgres

import (
	"context"
	"errors"
	"fmt"
	"linkPulse/domain"

	"gorm.io/gorm"
)

type AffiliateRepository struct {
	DB *gorm.DB
}

func NewAffiliateRepository(db *gorm.DB) *AffiliateRepository {
	return &AffiliateRepository{DB: db}
}

func (r *AffiliateRepository) FindByID(ctx context.Context, id string) (domain.Affiliate, bool, error) {
	if err := ctx.Err(); err != nil {
		return domain.Affiliate{}, false, fmt.Errorf("context error: %w", err)
	}

	var aff domain.Affiliate
	err := r.DB.WithContext(ctx).First(&aff, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return domain.Affiliate{}, false, nil
	}
	if err != nil {
		return domain.Affiliate{}, false, fmt.Errorf("failed to query affiliate: %w", err)
	}

	return aff, true, nil
}

// FindOfferAccess returns the per-offer override row, nil when none exists.
func (r *AffiliateRepository) FindOfferAccess(ctx context.Context, affiliateID, offerID string) (*domain.AffiliateOfferAccess, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var access domain.AffiliateOfferAccess
	err := r.DB.WithContext(ctx).
		Where("affiliate_id = ? AND offer_id = ?", affiliateID, offerID).
		First(&access).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query offer access: %w", err)
	}

	return &access, nil
}
