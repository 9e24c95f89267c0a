package conversion

import (
	"context"
	"fmt"
	"linkPulse/domain"
	"time"
)

// resolveClick finds the originating click for a conversion event.
//
// A direct click reference is authoritative regardless of age. The fallback
// is a ranked-candidate lookup: the most recent click for (offer, subid1),
// optionally bounded by the offer's conversion window. It returns best match
// or nil; the two paths are kept separate so the fallback can be disabled
// without touching direct-reference attribution.
func (s *ConversionService) resolveClick(ctx context.Context, clickID, offerID, subID1 string, windowSec int) (*domain.Click, error) {
	if clickID != "" {
		click, err := s.clickRepo.FindByID(ctx, clickID)
		if err != nil {
			return nil, fmt.Errorf("failed to load click: %w", err)
		}
		return click, nil
	}

	if offerID == "" || subID1 == "" {
		return nil, nil
	}

	var since *time.Time
	if windowSec > 0 {
		t := s.now().UTC().Add(-time.Duration(windowSec) * time.Second)
		since = &t
	}

	click, err := s.clickRepo.FindLatestBySubID(ctx, offerID, subID1, since)
	if err != nil {
		return nil, fmt.Errorf("failed to search clicks by subid: %w", err)
	}

	return click, nil
}
