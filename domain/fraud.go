package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	FraudEventOfferBlocked     = "offer_blocked"
	FraudEventAffiliateBlocked = "affiliate_blocked"
	FraudEventAccessDenied     = "affiliate_offer_denied"
	FraudEventTargetingBlock   = "targeting_block"
	FraudEventCapReached       = "cap_reached"
)

// FraudEvent is a best-effort, write-only log row. Lost entries are
// acceptable; they never block the request that produced them.
type FraudEvent struct {
	ID        string            `gorm:"primaryKey;size:26" json:"id"`
	EventType string            `gorm:"column:event_type;index;not null" json:"event_type"`
	Severity  string            `gorm:"column:severity;not null;default:low" json:"severity"`
	Meta      datatypes.JSONMap `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;index;autoCreateTime" json:"created_at"`
}

func (FraudEvent) TableName() string {
	return "fraud_events"
}
