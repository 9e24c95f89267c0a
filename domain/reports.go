package domain

// OfferSummary is the per-offer KPI read used by the reporting endpoint.
type OfferSummary struct {
	OfferID             string `json:"offer_id"`
	Clicks              int64  `json:"clicks"`
	UniqueClicks        int64  `json:"unique_clicks"`
	ConversionsPending  int64  `json:"conversions_pending"`
	ConversionsApproved int64  `json:"conversions_approved"`
	ConversionsRejected int64  `json:"conversions_rejected"`
	ConversionsTotal    int64  `json:"conversions_total"`
}
