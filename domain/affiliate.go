package domain

import "time"

const (
	AffiliateStatusActive   = "active"
	AffiliateStatusInactive = "inactive"
)

type Affiliate struct {
	ID        string    `gorm:"primaryKey;size:26" json:"id"`
	Name      string    `gorm:"column:name;not null" json:"name"`
	Email     string    `gorm:"column:email" json:"email,omitempty"`
	Status    string    `gorm:"column:status;not null;default:active" json:"status"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Affiliate) TableName() string {
	return "affiliates"
}

// AffiliateOfferAccess is the per-offer override: when a row exists and
// IsAllowed is false the affiliate is locked out of the offer. Absence of a
// row is permissive.
type AffiliateOfferAccess struct {
	ID          string    `gorm:"primaryKey;size:26" json:"id"`
	AffiliateID string    `gorm:"column:affiliate_id;size:26;uniqueIndex:uniq_affiliate_offer;not null" json:"affiliate_id"`
	OfferID     string    `gorm:"column:offer_id;size:26;uniqueIndex:uniq_affiliate_offer;not null" json:"offer_id"`
	IsAllowed   bool      `gorm:"column:is_allowed;not null;default:true" json:"is_allowed"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (AffiliateOfferAccess) TableName() string {
	return "affiliate_offer_access"
}
