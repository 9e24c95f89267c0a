package conversion

import (
	"context"
	"errors"
	"fmt"
	"linkPulse/domain"
	"linkPulse/pkg/logger"
	"linkPulse/pkg/utils"
	"strings"
	"time"

	"gorm.io/gorm"
)

var (
	ErrTransactionRequired  = errors.New("transaction_id required")
	ErrOfferOrClickRequired = errors.New("provide offer_id or click_id")
	ErrInvalidStatus        = errors.New("invalid status")
	ErrOfferNotFound        = errors.New("offer not found")
	ErrAffiliateNotResolved = errors.New("affiliate not resolved")
	ErrConversionNotFound   = errors.New("conversion not found")
)

var validStatuses = map[string]bool{
	domain.ConversionStatusPending:  true,
	domain.ConversionStatusApproved: true,
	domain.ConversionStatusRejected: true,
}

type OfferRepository interface {
	FindByID(ctx context.Context, id string) (domain.Offer, bool, error)
}

type ClickRepository interface {
	// FindByID returns nil when no click with that primary key exists.
	FindByID(ctx context.Context, id string) (*domain.Click, error)
	// FindLatestBySubID returns the most recent click for (offer, subid1)
	// created at or after since; nil since means unbounded, nil result
	// means no candidate.
	FindLatestBySubID(ctx context.Context, offerID, subID1 string, since *time.Time) (*domain.Click, error)
}

type ConversionRepository interface {
	Create(ctx context.Context, conversion *domain.Conversion) error
	FindByTransaction(ctx context.Context, offerID, transactionID string) (domain.Conversion, error)
	FindByID(ctx context.Context, id string) (domain.Conversion, error)
	UpdateStatus(ctx context.Context, id, status string) error
	AppendStatusHistory(ctx context.Context, entry domain.ConversionStatusHistory) error
}

type IngestRequest struct {
	OfferID       string
	ClickID       string
	TransactionID string
	Status        string
	Payout        float64
	Revenue       float64
	Currency      string
	Goal          string
	SubID1        string
	SubID2        string
	IP            string
	Country       string
	// Reason annotates the initial status history entry.
	Reason string
	// Meta is the complete incoming postback, stored for auditing.
	Meta map[string]any
}

type IngestResult struct {
	ConversionID string
	Duplicate    bool
	Status       string
}

type ConversionService struct {
	offerRepo      OfferRepository
	clickRepo      ClickRepository
	conversionRepo ConversionRepository
	now            func() time.Time
}

func NewConversionService(
	offerRepo OfferRepository,
	clickRepo ClickRepository,
	conversionRepo ConversionRepository,
) *ConversionService {
	return &ConversionService{
		offerRepo:      offerRepo,
		clickRepo:      clickRepo,
		conversionRepo: conversionRepo,
		now:            time.Now,
	}
}

// Ingest deduplicates and persists a conversion postback. The transaction id
// is the idempotency key: duplicate delivery of the same (offer,
// transaction) pair is answered successfully with Duplicate=true and the
// stored status, relying on the store-enforced uniqueness constraint rather
// than a check-then-insert.
func (s *ConversionService) Ingest(ctx context.Context, req IngestRequest) (IngestResult, error) {
	transactionID := strings.TrimSpace(req.TransactionID)
	if transactionID == "" {
		return IngestResult{}, ErrTransactionRequired
	}

	offerID := strings.TrimSpace(req.OfferID)
	clickID := strings.TrimSpace(req.ClickID)
	if offerID == "" && clickID == "" {
		return IngestResult{}, ErrOfferOrClickRequired
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = domain.ConversionStatusPending
	}
	if !validStatuses[status] {
		return IngestResult{}, ErrInvalidStatus
	}

	windowSec := 0
	if offerID != "" {
		offer, found, err := s.offerRepo.FindByID(ctx, offerID)
		if err != nil {
			return IngestResult{}, fmt.Errorf("failed to load offer: %w", err)
		}
		if !found {
			return IngestResult{}, ErrOfferNotFound
		}
		windowSec = offer.ConversionWindowSec()
	}

	click, err := s.resolveClick(ctx, clickID, offerID, req.SubID1, windowSec)
	if err != nil {
		return IngestResult{}, err
	}

	resolvedOfferID := offerID
	resolvedAffiliateID := ""
	if click != nil {
		if resolvedOfferID == "" {
			resolvedOfferID = click.OfferID
		}
		resolvedAffiliateID = click.AffiliateID
	}

	if resolvedOfferID == "" {
		return IngestResult{}, ErrOfferNotFound
	}
	if resolvedAffiliateID == "" {
		return IngestResult{}, ErrAffiliateNotResolved
	}

	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if currency == "" {
		currency = "USD"
	}

	conv := domain.Conversion{
		ID:            utils.NewID26(),
		OfferID:       resolvedOfferID,
		AffiliateID:   resolvedAffiliateID,
		TransactionID: transactionID,
		Status:        status,
		Payout:        req.Payout,
		Revenue:       req.Revenue,
		Currency:      currency,
		Goal:          req.Goal,
		SubID1:        req.SubID1,
		SubID2:        req.SubID2,
		IP:            req.IP,
		Country:       req.Country,
		Meta:          req.Meta,
	}

	if click != nil {
		id := click.ID
		conv.ClickID = &id
		if conv.SubID1 == "" {
			conv.SubID1 = click.SubID1
		}
		if conv.SubID2 == "" {
			conv.SubID2 = click.SubID2
		}
		if conv.Country == "" {
			conv.Country = click.Country
		}
	}

	if err := s.conversionRepo.Create(ctx, &conv); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			existing, lookupErr := s.conversionRepo.FindByTransaction(ctx, resolvedOfferID, transactionID)
			if lookupErr != nil {
				return IngestResult{}, fmt.Errorf("failed to load duplicate conversion: %w", lookupErr)
			}
			return IngestResult{
				ConversionID: existing.ID,
				Duplicate:    true,
				Status:       existing.Status,
			}, nil
		}
		return IngestResult{}, fmt.Errorf("failed to persist conversion: %w", err)
	}

	s.appendHistory(ctx, conv.ID, domain.ConversionStatusNone, status, req.Reason)

	return IngestResult{
		ConversionID: conv.ID,
		Duplicate:    false,
		Status:       status,
	}, nil
}

// ApplyStatus records a moderation-side transition: the transition rules
// themselves live outside this core, this only validates the target status,
// updates the row and appends the history entry.
func (s *ConversionService) ApplyStatus(ctx context.Context, conversionID, toStatus, reason string) error {
	toStatus = strings.ToLower(strings.TrimSpace(toStatus))
	if !validStatuses[toStatus] {
		return ErrInvalidStatus
	}

	conv, err := s.conversionRepo.FindByID(ctx, conversionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrConversionNotFound
		}
		return fmt.Errorf("failed to load conversion: %w", err)
	}

	if conv.Status == toStatus {
		return nil
	}

	if err := s.conversionRepo.UpdateStatus(ctx, conversionID, toStatus); err != nil {
		return fmt.Errorf("failed to update conversion status: %w", err)
	}

	s.appendHistory(ctx, conversionID, conv.Status, toStatus, reason)

	return nil
}

// appendHistory is best-effort: the conversion row is already durable, a
// missing history entry must not fail the request.
func (s *ConversionService) appendHistory(ctx context.Context, conversionID, from, to, reason string) {
	entry := domain.ConversionStatusHistory{
		ID:           utils.NewID26(),
		ConversionID: conversionID,
		FromStatus:   from,
		ToStatus:     to,
		Reason:       reason,
	}

	if err := s.conversionRepo.AppendStatusHistory(ctx, entry); err != nil {
		logger.Warn("Failed to append conversion status history", "conversion_id", conversionID, err)
	}
}
