package rest

import (
	"context"
	"errors"
	"linkPulse/business/tracking"
	"linkPulse/pkg/logger"
	"linkPulse/pkg/metrics"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

type (
	ClickHandler struct {
		trackingService TrackingService
		timeout         time.Duration
	}

	TrackingService interface {
		Route(ctx context.Context, req tracking.RouteRequest) (tracking.RouteResult, error)
	}
)

func NewClickHandler(trackingService TrackingService) *ClickHandler {
	return &ClickHandler{
		trackingService: trackingService,
		timeout:         10 * time.Second,
	}
}

// Track handles GET /t/click: validates, runs the routing pipeline, answers
// with a 302 redirect or a plain-text rejection.
func (h *ClickHandler) Track(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.ClickLatency.Observe(time.Since(start).Seconds())
	}()

	offerID := strings.TrimSpace(c.QueryParam("offer_id"))
	affiliateID := strings.TrimSpace(c.QueryParam("aff_id"))
	if offerID == "" || affiliateID == "" {
		return c.String(http.StatusBadRequest, "Missing offer_id or aff_id")
	}

	r := c.Request()
	req := tracking.RouteRequest{
		OfferID:     offerID,
		AffiliateID: affiliateID,
		SmartlinkID: strings.TrimSpace(c.QueryParam("sl_id")),
		SubID1:      c.QueryParam("subid1"),
		SubID2:      c.QueryParam("subid2"),
		SubID3:      c.QueryParam("subid3"),
		Source:      c.QueryParam("source"),
		IP:          clientIP(r),
		UserAgent:   r.UserAgent(),
		Referer:     r.Referer(),
		Country:     resolveCountry(r),
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.trackingService.Route(ctx, req)
	if err != nil {
		var rejection *tracking.Rejection
		if errors.As(err, &rejection) {
			metrics.ClicksRejected.WithLabelValues(rejection.EventType).Inc()

			switch rejection.Kind {
			case tracking.RejectOfferUnavailable:
				return c.String(http.StatusNotFound, rejection.Reason)
			case tracking.RejectCapReached:
				return c.String(http.StatusTooManyRequests, "Cap reached: "+rejection.Reason)
			case tracking.RejectTargeting:
				return c.String(http.StatusForbidden, "Blocked: "+rejection.Reason)
			default:
				return c.String(http.StatusForbidden, rejection.Reason)
			}
		}

		logger.Error("Click routing failed", err)
		return c.String(http.StatusInternalServerError, "Internal error")
	}

	metrics.ClicksAccepted.Inc()

	return c.Redirect(http.StatusFound, result.RedirectURL)
}

// clientIP prefers the first X-Forwarded-For hop, then X-Real-IP.
func clientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		return strings.TrimSpace(strings.Split(xff, ",")[0])
	}

	return r.Header.Get("X-Real-IP")
}

// geoHeaders in priority order; "XX" is the unknown-country placeholder.
var geoHeaders = []string{"CF-IPCountry", "X-Vercel-IP-Country", "X-Country"}

func resolveCountry(r *http.Request) string {
	for _, header := range geoHeaders {
		v := r.Header.Get(header)
		if v != "" && !strings.EqualFold(v, "XX") {
			// the column is varchar(2); clamp oversized header values
			v = strings.ToUpper(v)
			if len(v) > 2 {
				v = v[:2]
			}
			return v
		}
	}

	return ""
}
