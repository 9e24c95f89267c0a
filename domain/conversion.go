package domain

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ConversionStatusPending  = "pending"
	ConversionStatusApproved = "approved"
	ConversionStatusRejected = "rejected"

	// ConversionStatusNone is the sentinel "from" state for the initial
	// history row of a freshly ingested conversion.
	ConversionStatusNone = "none"
)

// Conversion is keyed for idempotency on (offer_id, transaction_id): the
// unique index is what makes duplicate postback delivery safe.
type Conversion struct {
	ID            string  `gorm:"primaryKey;size:26" json:"id"`
	OfferID       string  `gorm:"column:offer_id;size:26;uniqueIndex:uniq_offer_transaction;not null" json:"offer_id"`
	AffiliateID   string  `gorm:"column:affiliate_id;size:26;index;not null" json:"affiliate_id"`
	ClickID       *string `gorm:"column:click_id;size:26;index" json:"click_id,omitempty"`
	TransactionID string  `gorm:"column:transaction_id;uniqueIndex:uniq_offer_transaction;not null" json:"transaction_id"`
	Status        string  `gorm:"column:status;not null;default:pending" json:"status"`
	Payout        float64 `gorm:"column:payout;default:0" json:"payout"`
	Revenue       float64 `gorm:"column:revenue;default:0" json:"revenue"`
	Currency      string  `gorm:"column:currency;size:10;not null;default:USD" json:"currency"`
	Goal          string  `gorm:"column:goal" json:"goal,omitempty"`
	SubID1        string  `gorm:"column:subid1" json:"subid1,omitempty"`
	SubID2        string  `gorm:"column:subid2" json:"subid2,omitempty"`
	IP            string  `gorm:"column:ip;size:64" json:"ip,omitempty"`
	Country       string  `gorm:"column:country;size:2" json:"country,omitempty"`

	Meta datatypes.JSONMap `gorm:"column:meta;type:jsonb" json:"meta,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Conversion) TableName() string {
	return "conversions"
}

// ConversionStatusHistory is append-only; rows are never mutated.
type ConversionStatusHistory struct {
	ID           string    `gorm:"primaryKey;size:26" json:"id"`
	ConversionID string    `gorm:"column:conversion_id;size:26;index;not null" json:"conversion_id"`
	FromStatus   string    `gorm:"column:from_status;not null" json:"from_status"`
	ToStatus     string    `gorm:"column:to_status;not null" json:"to_status"`
	Reason       string    `gorm:"column:reason" json:"reason,omitempty"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (ConversionStatusHistory) TableName() string {
	return "conversion_status_history"
}
