package tracking

import (
	"linkPulse/domain"
	"time"
)

type TargetingDecision struct {
	Allowed bool
	Reason  string
}

var weekdayNames = [...]string{"sun", "mon", "tue", "wed", "thu", "fri", "sat"}

// EvaluateTargeting decides allow/deny for geo, device and time windows.
// Rules are checked in that order and the first failure wins. An empty
// country means the request geo could not be resolved. Absent rule
// categories are permissive.
func EvaluateTargeting(offer *domain.Offer, country, device string, now time.Time) TargetingDecision {
	if len(offer.GeoRules) > 0 {
		allow, deny := splitModes(offer.GeoRules, func(r domain.OfferGeoRule) (string, string) {
			return r.Country, r.Mode
		})

		if len(deny) > 0 && country != "" && contains(deny, country) {
			return TargetingDecision{Allowed: false, Reason: "GEO denied"}
		}
		if len(allow) > 0 {
			if country == "" {
				return TargetingDecision{Allowed: false, Reason: "GEO required"}
			}
			if !contains(allow, country) {
				return TargetingDecision{Allowed: false, Reason: "GEO not allowed"}
			}
		}
	}

	if len(offer.DeviceRules) > 0 {
		allow, deny := splitModes(offer.DeviceRules, func(r domain.OfferDeviceRule) (string, string) {
			return r.Device, r.Mode
		})

		if len(deny) > 0 && contains(deny, device) {
			return TargetingDecision{Allowed: false, Reason: "Device denied"}
		}
		if len(allow) > 0 && !contains(allow, device) {
			return TargetingDecision{Allowed: false, Reason: "Device not allowed"}
		}
	}

	if tt := offer.TimeTargeting; tt != nil {
		utc := now.UTC()

		if days := tt.Days(); len(days) > 0 && !contains(days, weekdayNames[int(utc.Weekday())]) {
			return TargetingDecision{Allowed: false, Reason: "Day blocked"}
		}
		if hours := tt.Hours(); len(hours) > 0 && !containsInt(hours, utc.Hour()) {
			return TargetingDecision{Allowed: false, Reason: "Hour blocked"}
		}
	}

	return TargetingDecision{Allowed: true}
}

func splitModes[T any](rules []T, fields func(T) (value, mode string)) (allow, deny []string) {
	for _, r := range rules {
		value, mode := fields(r)
		switch mode {
		case domain.RuleModeAllow:
			allow = append(allow, value)
		case domain.RuleModeDeny:
			deny = append(deny, value)
		}
	}
	return allow, deny
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

func containsInt(values []int, v int) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
