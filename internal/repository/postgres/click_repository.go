package postgres

import (
	"context"
	"errors"
	"fmt"
	"linkPulse/domain"
	"time"

	"gorm.io/gorm"
)

type ClickRepository struct {
	DB *gorm.DB
}

func NewClickRepository(db *gorm.DB) *ClickRepository {
	return &ClickRepository{DB: db}
}

func (r *ClickRepository) Create(ctx context.Context, click *domain.Click) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(click).Error; err != nil {
		return fmt.Errorf("failed to insert click: %w", err)
	}

	return nil
}

// CountForOffer counts clicks for the offer created at or after since; nil
// since counts all-time.
func (r *ClickRepository) CountForOffer(ctx context.Context, offerID string, since *time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).Model(&domain.Click{}).Where("offer_id = ?", offerID)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	return count, nil
}

func (r *ClickRepository) HasRecentFingerprint(ctx context.Context, offerID, fingerprint string, since time.Time) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("context error: %w", err)
	}

	var count int64
	err := r.DB.WithContext(ctx).Model(&domain.Click{}).
		Where("offer_id = ? AND fingerprint = ? AND created_at >= ?", offerID, fingerprint, since).
		Limit(1).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to query fingerprint: %w", err)
	}

	return count > 0, nil
}

func (r *ClickRepository) FindByID(ctx context.Context, id string) (*domain.Click, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var click domain.Click
	err := r.DB.WithContext(ctx).First(&click, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query click: %w", err)
	}

	return &click, nil
}

// FindLatestBySubID returns the most recent click for (offer, subid1),
// bounded below by since when non-nil. Ties break by recency.
func (r *ClickRepository) FindLatestBySubID(ctx context.Context, offerID, subID1 string, since *time.Time) (*domain.Click, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	query := r.DB.WithContext(ctx).
		Where("offer_id = ? AND subid1 = ?", offerID, subID1)
	if since != nil {
		query = query.Where("created_at >= ?", *since)
	}

	var click domain.Click
	err := query.Order("created_at desc").First(&click).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to search clicks: %w", err)
	}

	return &click, nil
}

// ClickStats returns total and unique click counts for an offer.
func (r *ClickRepository) ClickStats(ctx context.Context, offerID string) (int64, int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, 0, fmt.Errorf("context error: %w", err)
	}

	var total int64
	if err := r.DB.WithContext(ctx).Model(&domain.Click{}).
		Where("offer_id = ?", offerID).
		Count(&total).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count clicks: %w", err)
	}

	var unique int64
	if err := r.DB.WithContext(ctx).Model(&domain.Click{}).
		Where("offer_id = ? AND is_unique = 1", offerID).
		Count(&unique).Error; err != nil {
		return 0, 0, fmt.Errorf("failed to count unique clicks: %w", err)
	}

	return total, unique, nil
}
