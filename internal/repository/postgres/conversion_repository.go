package postgres

import (
	"context"
	"fmt"
	"linkPulse/domain"

	"gorm.io/gorm"
)

type ConversionRepository struct {
	DB *gorm.DB
}

func NewConversionRepository(db *gorm.DB) *ConversionRepository {
	return &ConversionRepository{DB: db}
}

// Create inserts the conversion. The (offer_id, transaction_id) unique index
// is the dedup guard: a duplicate surfaces as gorm.ErrDuplicatedKey, which
// callers must treat as an idempotent outcome, not a failure.
func (r *ConversionRepository) Create(ctx context.Context, conversion *domain.Conversion) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	return r.DB.WithContext(ctx).Create(conversion).Error
}

func (r *ConversionRepository) FindByTransaction(ctx context.Context, offerID, transactionID string) (domain.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversion{}, fmt.Errorf("context error: %w", err)
	}

	var conversion domain.Conversion
	err := r.DB.WithContext(ctx).
		Where("offer_id = ? AND transaction_id = ?", offerID, transactionID).
		First(&conversion).Error
	if err != nil {
		return domain.Conversion{}, fmt.Errorf("failed to query conversion by transaction: %w", err)
	}

	return conversion, nil
}

func (r *ConversionRepository) FindByID(ctx context.Context, id string) (domain.Conversion, error) {
	if err := ctx.Err(); err != nil {
		return domain.Conversion{}, fmt.Errorf("context error: %w", err)
	}

	var conversion domain.Conversion
	if err := r.DB.WithContext(ctx).First(&conversion, "id = ?", id).Error; err != nil {
		return domain.Conversion{}, err
	}

	return conversion, nil
}

func (r *ConversionRepository) UpdateStatus(ctx context.Context, id, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := r.DB.WithContext(ctx).Model(&domain.Conversion{}).
		Where("id = ?", id).
		Update("status", status)
	if row.Error != nil {
		return fmt.Errorf("failed to update conversion status: %w", row.Error)
	}
	if row.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *ConversionRepository) AppendStatusHistory(ctx context.Context, entry domain.ConversionStatusHistory) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}

	return nil
}

// ConversionStatusCounts groups conversion counts by status for an offer.
func (r *ConversionRepository) ConversionStatusCounts(ctx context.Context, offerID string) (map[string]int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	type statusCount struct {
		Status string
		Count  int64
	}

	var rows []statusCount
	err := r.DB.WithContext(ctx).Model(&domain.Conversion{}).
		Select("status, count(*) as count").
		Where("offer_id = ?", offerID).
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group conversions by status: %w", err)
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}

	return counts, nil
}
