package tracking

import (
	"context"
	"fmt"
	"linkPulse/domain"
	"linkPulse/pkg/logger"
	"linkPulse/pkg/utils"
	"strconv"
	"time"
)

// OfferRepository loads the full offer policy snapshot (tracking template,
// rules, targeting, caps) for a single request.
type OfferRepository interface {
	FindByID(ctx context.Context, id string) (domain.Offer, bool, error)
}

type AffiliateRepository interface {
	FindByID(ctx context.Context, id string) (domain.Affiliate, bool, error)
	// FindOfferAccess returns nil when no per-offer override exists.
	FindOfferAccess(ctx context.Context, affiliateID, offerID string) (*domain.AffiliateOfferAccess, error)
}

type ClickRepository interface {
	Create(ctx context.Context, click *domain.Click) error
	ClickCounter
	// HasRecentFingerprint reports whether a click with the same offer and
	// fingerprint was created at or after since.
	HasRecentFingerprint(ctx context.Context, offerID, fingerprint string, since time.Time) (bool, error)
}

type ClickCounter interface {
	// CountForOffer counts persisted clicks for the offer created at or
	// after since; a nil since means all-time.
	CountForOffer(ctx context.Context, offerID string, since *time.Time) (int64, error)
}

// PolicyCache is the optional time-bounded offer snapshot cache.
type PolicyCache interface {
	GetOffer(ctx context.Context, id string) (*domain.Offer, bool)
	SetOffer(ctx context.Context, offer *domain.Offer)
}

// FraudReporter records blocked/suspicious events. Implementations must
// never block and never return failures to the caller.
type FraudReporter interface {
	Report(eventType, severity string, meta map[string]any)
}

type RouteRequest struct {
	OfferID     string
	AffiliateID string
	SmartlinkID string
	SubID1      string
	SubID2      string
	SubID3      string
	Source      string
	IP          string
	UserAgent   string
	Referer     string
	Country     string
}

type RouteResult struct {
	ClickID     string
	RedirectURL string
	IsUnique    bool
}

type TrackingService struct {
	offerRepo OfferRepository
	affRepo   AffiliateRepository
	clickRepo ClickRepository
	cache     PolicyCache
	fraud     FraudReporter
	now       func() time.Time
}

func NewTrackingService(
	offerRepo OfferRepository,
	affRepo AffiliateRepository,
	clickRepo ClickRepository,
	cache PolicyCache,
	fraud FraudReporter,
) *TrackingService {
	return &TrackingService{
		offerRepo: offerRepo,
		affRepo:   affRepo,
		clickRepo: clickRepo,
		cache:     cache,
		fraud:     fraud,
		now:       time.Now,
	}
}

// Route runs the full click decision pipeline: policy snapshot, targeting,
// caps, fingerprinting, persistence, macro expansion. Policy denials come
// back as *Rejection; anything else is a server-side failure.
func (s *TrackingService) Route(ctx context.Context, req RouteRequest) (RouteResult, error) {
	now := s.now().UTC()

	offer, found, err := s.loadOffer(ctx, req.OfferID)
	if err != nil {
		return RouteResult{}, err
	}
	if !found || offer.Status != domain.OfferStatusActive || offer.TrackURL() == "" {
		return RouteResult{}, s.reject(&Rejection{
			Kind:      RejectOfferUnavailable,
			Reason:    "Offer not available",
			EventType: domain.FraudEventOfferBlocked,
		}, req)
	}

	aff, found, err := s.affRepo.FindByID(ctx, req.AffiliateID)
	if err != nil {
		return RouteResult{}, fmt.Errorf("failed to load affiliate: %w", err)
	}
	if !found || aff.Status != domain.AffiliateStatusActive {
		return RouteResult{}, s.reject(&Rejection{
			Kind:      RejectAffiliateBlocked,
			Reason:    "Affiliate not allowed",
			EventType: domain.FraudEventAffiliateBlocked,
		}, req)
	}

	access, err := s.affRepo.FindOfferAccess(ctx, req.AffiliateID, req.OfferID)
	if err != nil {
		return RouteResult{}, fmt.Errorf("failed to load offer access: %w", err)
	}
	if access != nil && !access.IsAllowed {
		return RouteResult{}, s.reject(&Rejection{
			Kind:      RejectAccessDenied,
			Reason:    "Offer access denied",
			EventType: domain.FraudEventAccessDenied,
		}, req)
	}

	device := DetectDevice(req.UserAgent)

	if decision := EvaluateTargeting(&offer, req.Country, device, now); !decision.Allowed {
		return RouteResult{}, s.reject(&Rejection{
			Kind:      RejectTargeting,
			Reason:    decision.Reason,
			EventType: domain.FraudEventTargetingBlock,
		}, req)
	}

	capDecision, err := checkCaps(ctx, s.clickRepo, &offer, now)
	if err != nil {
		return RouteResult{}, err
	}
	if !capDecision.Allowed {
		return RouteResult{}, s.reject(&Rejection{
			Kind:      RejectCapReached,
			Reason:    capDecision.Reason,
			EventType: domain.FraudEventCapReached,
		}, req)
	}

	fingerprint := Fingerprint(req.IP, req.UserAgent)
	repeat, err := s.clickRepo.HasRecentFingerprint(ctx, offer.ID, fingerprint, now.Add(-uniqueWindow))
	if err != nil {
		return RouteResult{}, fmt.Errorf("failed to check click uniqueness: %w", err)
	}

	isUnique := 1
	if repeat {
		isUnique = 0
	}

	click := domain.Click{
		ID:          utils.NewID26(),
		OfferID:     offer.ID,
		AffiliateID: aff.ID,
		SmartlinkID: req.SmartlinkID,
		SubID1:      req.SubID1,
		SubID2:      req.SubID2,
		SubID3:      req.SubID3,
		Source:      req.Source,
		IP:          req.IP,
		UA:          req.UserAgent,
		Country:     req.Country,
		Device:      device,
		OS:          DetectOS(req.UserAgent),
		Browser:     DetectBrowser(req.UserAgent),
		Referer:     req.Referer,
		Fingerprint: fingerprint,
		IsUnique:    isUnique,
		CreatedAt:   now,
	}

	if err := s.clickRepo.Create(ctx, &click); err != nil {
		return RouteResult{}, fmt.Errorf("failed to persist click: %w", err)
	}

	redirectURL := ExpandMacros(offer.TrackURL(), map[string]string{
		"click_id":  click.ID,
		"offer_id":  offer.ID,
		"aff_id":    aff.ID,
		"sl_id":     req.SmartlinkID,
		"subid1":    req.SubID1,
		"subid2":    req.SubID2,
		"subid3":    req.SubID3,
		"source":    req.Source,
		"country":   req.Country,
		"device":    device,
		"os":        click.OS,
		"browser":   click.Browser,
		"ip":        req.IP,
		"ua":        req.UserAgent,
		"timestamp": strconv.FormatInt(now.UnixMilli(), 10),
	})

	return RouteResult{
		ClickID:     click.ID,
		RedirectURL: redirectURL,
		IsUnique:    isUnique == 1,
	}, nil
}

func (s *TrackingService) loadOffer(ctx context.Context, id string) (domain.Offer, bool, error) {
	if s.cache != nil {
		if offer, ok := s.cache.GetOffer(ctx, id); ok {
			return *offer, true, nil
		}
	}

	offer, found, err := s.offerRepo.FindByID(ctx, id)
	if err != nil {
		return domain.Offer{}, false, fmt.Errorf("failed to load offer: %w", err)
	}

	if found && s.cache != nil {
		s.cache.SetOffer(ctx, &offer)
	}

	return offer, found, nil
}

// reject records the fraud signal for a denial and hands the rejection back
// as the pipeline error. Reporter failures stay inside the reporter.
func (s *TrackingService) reject(rej *Rejection, req RouteRequest) error {
	if s.fraud != nil {
		s.fraud.Report(rej.EventType, "low", map[string]any{
			"offer_id": req.OfferID,
			"aff_id":   req.AffiliateID,
			"ip":       req.IP,
			"ua":       req.UserAgent,
			"country":  req.Country,
			"reason":   rej.Reason,
		})
	}

	logger.Warn("Click rejected", "event", rej.EventType, "reason", rej.Reason, "offer_id", req.OfferID, "aff_id", req.AffiliateID)

	return rej
}
