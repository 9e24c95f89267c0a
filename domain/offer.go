package domain

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

const (
	OfferStatusActive = "active"
	OfferStatusPaused = "paused"
)

const (
	RuleModeAllow = "allow"
	RuleModeDeny  = "deny"
)

const (
	CapTypeHourly = "hourly"
	CapTypeDaily  = "daily"
	CapTypeGlobal = "global"
)

// Offer is the advertiser campaign definition. The tracking core only reads
// offers; mutation belongs to the admin layer.
type Offer struct {
	ID             string  `gorm:"primaryKey;size:26" json:"id"`
	Name           string  `gorm:"column:name;not null" json:"name"`
	Description    string  `gorm:"column:description" json:"description,omitempty"`
	Category       string  `gorm:"column:category" json:"category,omitempty"`
	Type           string  `gorm:"column:type;not null;default:CPA" json:"type"`
	Status         string  `gorm:"column:status;not null;default:active" json:"status"`
	Currency       string  `gorm:"column:currency;size:10;not null;default:USD" json:"currency"`
	PayoutDefault  float64 `gorm:"column:payout_default;default:0" json:"payout_default"`
	RevenueDefault float64 `gorm:"column:revenue_default;default:0" json:"revenue_default"`
	AllowIncent    bool    `gorm:"column:allow_incent;default:false" json:"allow_incent"`

	Tracking      *OfferTracking      `gorm:"foreignKey:OfferID" json:"tracking,omitempty"`
	Rules         *OfferRules         `gorm:"foreignKey:OfferID" json:"rules,omitempty"`
	GeoRules      []OfferGeoRule      `gorm:"foreignKey:OfferID" json:"geo_rules,omitempty"`
	DeviceRules   []OfferDeviceRule   `gorm:"foreignKey:OfferID" json:"device_rules,omitempty"`
	TimeTargeting *OfferTimeTargeting `gorm:"foreignKey:OfferID" json:"time_targeting,omitempty"`
	Caps          []OfferCap          `gorm:"foreignKey:OfferID" json:"caps,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Offer) TableName() string {
	return "offers"
}

// TrackURL returns the advertiser redirect template, empty when not configured.
func (o *Offer) TrackURL() string {
	if o.Tracking == nil {
		return ""
	}
	return o.Tracking.TrackURL
}

// ConversionWindowSec returns the attribution window, 0 means unbounded.
func (o *Offer) ConversionWindowSec() int {
	if o.Rules == nil {
		return 0
	}
	return o.Rules.ConversionWindowSec
}

type OfferTracking struct {
	ID         string `gorm:"primaryKey;size:26" json:"id"`
	OfferID    string `gorm:"column:offer_id;size:26;uniqueIndex;not null" json:"offer_id"`
	PreviewURL string `gorm:"column:preview_url" json:"preview_url,omitempty"`
	TrackURL   string `gorm:"column:track_url;not null" json:"track_url"`
}

func (OfferTracking) TableName() string {
	return "offer_tracking"
}

type OfferRules struct {
	ID                  string            `gorm:"primaryKey;size:26" json:"id"`
	OfferID             string            `gorm:"column:offer_id;size:26;uniqueIndex;not null" json:"offer_id"`
	ConversionWindowSec int               `gorm:"column:conversion_window_sec;default:0" json:"conversion_window_sec"`
	HoldPeriodSec       int               `gorm:"column:hold_period_sec;default:0" json:"hold_period_sec"`
	DuplicateRule       datatypes.JSONMap `gorm:"column:duplicate_rule;type:jsonb" json:"duplicate_rule,omitempty"`
	TrafficRules        datatypes.JSONMap `gorm:"column:traffic_rules;type:jsonb" json:"traffic_rules,omitempty"`
}

func (OfferRules) TableName() string {
	return "offer_rules"
}

type OfferGeoRule struct {
	ID      string `gorm:"primaryKey;size:26" json:"id"`
	OfferID string `gorm:"column:offer_id;size:26;index;not null" json:"offer_id"`
	Country string `gorm:"column:country;size:2;not null" json:"country"`
	Mode    string `gorm:"column:mode;not null" json:"mode"`
}

func (OfferGeoRule) TableName() string {
	return "offer_geo_rules"
}

type OfferDeviceRule struct {
	ID      string `gorm:"primaryKey;size:26" json:"id"`
	OfferID string `gorm:"column:offer_id;size:26;index;not null" json:"offer_id"`
	Device  string `gorm:"column:device;not null" json:"device"`
	Mode    string `gorm:"column:mode;not null" json:"mode"`
}

func (OfferDeviceRule) TableName() string {
	return "offer_device_rules"
}

// OfferTimeTargeting stores the allowed weekday/hour sets as jsonb arrays,
// e.g. ["mon","tue"] and [9,10,11]. Empty arrays mean no restriction.
type OfferTimeTargeting struct {
	ID        string         `gorm:"primaryKey;size:26" json:"id"`
	OfferID   string         `gorm:"column:offer_id;size:26;uniqueIndex;not null" json:"offer_id"`
	DaysJSON  datatypes.JSON `gorm:"column:days;type:jsonb" json:"days,omitempty"`
	HoursJSON datatypes.JSON `gorm:"column:hours;type:jsonb" json:"hours,omitempty"`
}

func (OfferTimeTargeting) TableName() string {
	return "offer_time_targeting"
}

func (t *OfferTimeTargeting) Days() []string {
	if len(t.DaysJSON) == 0 {
		return nil
	}
	var days []string
	if err := json.Unmarshal(t.DaysJSON, &days); err != nil {
		return nil
	}
	return days
}

func (t *OfferTimeTargeting) Hours() []int {
	if len(t.HoursJSON) == 0 {
		return nil
	}
	var hours []int
	if err := json.Unmarshal(t.HoursJSON, &hours); err != nil {
		return nil
	}
	return hours
}

// OfferCap is a click volume ceiling. Caps are evaluated in Position order.
type OfferCap struct {
	ID       string `gorm:"primaryKey;size:26" json:"id"`
	OfferID  string `gorm:"column:offer_id;size:26;index;not null" json:"offer_id"`
	CapType  string `gorm:"column:cap_type;not null" json:"cap_type"`
	CapLimit int    `gorm:"column:cap_limit;not null" json:"cap_limit"`
	Position int    `gorm:"column:position;default:0" json:"position"`
}

func (OfferCap) TableName() string {
	return "offer_caps"
}
