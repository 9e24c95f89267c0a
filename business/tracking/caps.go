package tracking

import (
	"context"
	"fmt"
	"linkPulse/domain"
	"time"
)

type CapDecision struct {
	Allowed bool
	Reason  string
}

// capWindowStart resolves the counting window for a cap type. A nil start
// means no lower bound (all-time). The second return is false for unknown
// cap types, which are skipped.
func capWindowStart(capType string, now time.Time) (*time.Time, bool) {
	now = now.UTC()

	switch capType {
	case domain.CapTypeHourly:
		start := time.Date(now.Year(), now.Month(), now.Day(), now.Hour(), 0, 0, 0, time.UTC)
		return &start, true
	case domain.CapTypeDaily:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		return &start, true
	case domain.CapTypeGlobal:
		return nil, true
	default:
		return nil, false
	}
}

// checkCaps walks the offer caps in declaration order and fails fast on the
// first breached ceiling. Malformed entries (non-positive limit, unknown
// type) are skipped. The count-then-insert sequence is not atomic against
// concurrent requests, so the cap is a soft ceiling under load.
func checkCaps(ctx context.Context, counter ClickCounter, offer *domain.Offer, now time.Time) (CapDecision, error) {
	for _, cap := range offer.Caps {
		if cap.CapLimit <= 0 {
			continue
		}

		since, ok := capWindowStart(cap.CapType, now)
		if !ok {
			continue
		}

		count, err := counter.CountForOffer(ctx, offer.ID, since)
		if err != nil {
			return CapDecision{}, fmt.Errorf("failed to count clicks for cap check: %w", err)
		}

		if count >= int64(cap.CapLimit) {
			return CapDecision{
				Allowed: false,
				Reason:  fmt.Sprintf("%s cap (%d)", cap.CapType, cap.CapLimit),
			}, nil
		}
	}

	return CapDecision{Allowed: true}, nil
}
