package reports

import (
	"context"
	"errors"
	"fmt"
	"linkPulse/domain"
)

var ErrOfferNotFound = errors.New("offer not found")

type OfferRepository interface {
	FindByID(ctx context.Context, id string) (domain.Offer, bool, error)
}

type ClickStatsRepository interface {
	ClickStats(ctx context.Context, offerID string) (total, unique int64, err error)
}

type ConversionStatsRepository interface {
	ConversionStatusCounts(ctx context.Context, offerID string) (map[string]int64, error)
}

type ReportsService struct {
	offerRepo      OfferRepository
	clickStats     ClickStatsRepository
	conversionRepo ConversionStatsRepository
}

func NewReportsService(
	offerRepo OfferRepository,
	clickStats ClickStatsRepository,
	conversionRepo ConversionStatsRepository,
) *ReportsService {
	return &ReportsService{
		offerRepo:      offerRepo,
		clickStats:     clickStats,
		conversionRepo: conversionRepo,
	}
}

func (s *ReportsService) OfferSummary(ctx context.Context, offerID string) (domain.OfferSummary, error) {
	_, found, err := s.offerRepo.FindByID(ctx, offerID)
	if err != nil {
		return domain.OfferSummary{}, fmt.Errorf("failed to load offer: %w", err)
	}
	if !found {
		return domain.OfferSummary{}, ErrOfferNotFound
	}

	total, unique, err := s.clickStats.ClickStats(ctx, offerID)
	if err != nil {
		return domain.OfferSummary{}, fmt.Errorf("failed to load click stats: %w", err)
	}

	counts, err := s.conversionRepo.ConversionStatusCounts(ctx, offerID)
	if err != nil {
		return domain.OfferSummary{}, fmt.Errorf("failed to load conversion stats: %w", err)
	}

	summary := domain.OfferSummary{
		OfferID:             offerID,
		Clicks:              total,
		UniqueClicks:        unique,
		ConversionsPending:  counts[domain.ConversionStatusPending],
		ConversionsApproved: counts[domain.ConversionStatusApproved],
		ConversionsRejected: counts[domain.ConversionStatusRejected],
	}
	for _, n := range counts {
		summary.ConversionsTotal += n
	}

	return summary, nil
}
