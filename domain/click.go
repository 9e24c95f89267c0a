package domain

import "time"

// Click is immutable once created: one row per accepted click request.
// IsUnique is 1 for the first click with a given (offer, fingerprint) inside
// the trailing 24h window, 0 for repeats.
type Click struct {
	ID          string `gorm:"primaryKey;size:26" json:"id"`
	OfferID     string `gorm:"column:offer_id;size:26;index:idx_clicks_offer_created;index:idx_clicks_offer_fingerprint;index:idx_clicks_offer_subid1;not null" json:"offer_id"`
	AffiliateID string `gorm:"column:affiliate_id;size:26;index;not null" json:"affiliate_id"`
	SmartlinkID string `gorm:"column:smartlink_id;size:26" json:"smartlink_id,omitempty"`
	SubID1      string `gorm:"column:subid1;index:idx_clicks_offer_subid1" json:"subid1,omitempty"`
	SubID2      string `gorm:"column:subid2" json:"subid2,omitempty"`
	SubID3      string `gorm:"column:subid3" json:"subid3,omitempty"`
	Source      string `gorm:"column:source" json:"source,omitempty"`
	IP          string `gorm:"column:ip;size:64" json:"ip,omitempty"`
	UA          string `gorm:"column:ua;type:text" json:"ua,omitempty"`
	Country     string `gorm:"column:country;size:2" json:"country,omitempty"`
	Device      string `gorm:"column:device" json:"device,omitempty"`
	OS          string `gorm:"column:os" json:"os,omitempty"`
	Browser     string `gorm:"column:browser" json:"browser,omitempty"`
	Referer     string `gorm:"column:referer;type:text" json:"referer,omitempty"`
	Fingerprint string `gorm:"column:fingerprint;size:64;index:idx_clicks_offer_fingerprint" json:"fingerprint"`
	IsUnique    int    `gorm:"column:is_unique;not null;default:1" json:"is_unique"`

	CreatedAt time.Time `gorm:"column:created_at;index:idx_clicks_offer_created;index:idx_clicks_offer_fingerprint;index:idx_clicks_offer_subid1" json:"created_at"`
}

func (Click) TableName() string {
	return "clicks"
}
