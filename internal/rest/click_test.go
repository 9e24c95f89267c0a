package rest

import (
	"context"
	"errors"
	"linkPulse/business/tracking"
	"linkPulse/domain"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeTrackingService struct {
	lastReq tracking.RouteRequest
	result  tracking.RouteResult
	err     error
}

func (f *fakeTrackingService) Route(ctx context.Context, req tracking.RouteRequest) (tracking.RouteResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func newClickContext(target string, headers map[string]string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func TestTrackRedirects(t *testing.T) {
	svc := &fakeTrackingService{result: tracking.RouteResult{
		ClickID:     "click00000000000000000000a",
		RedirectURL: "https://adv.example.com/in?c=click00000000000000000000a",
		IsUnique:    true,
	}}
	handler := NewClickHandler(svc)

	c, rec := newClickContext("/t/click?offer_id=offer1&aff_id=aff1&subid1=s1&source=newsletter", map[string]string{
		"X-Forwarded-For": "203.0.113.9, 10.0.0.1",
		"CF-IPCountry":    "de",
		"User-Agent":      "Mozilla/5.0 (Windows NT 10.0) Chrome/124.0",
	})

	if err := handler.Track(c); err != nil {
		t.Fatalf("Track() error: %v", err)
	}
	if rec.Code != http.StatusFound {
		t.Fatalf("status = %d, want 302", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != svc.result.RedirectURL {
		t.Fatalf("Location = %q", loc)
	}

	if svc.lastReq.OfferID != "offer1" || svc.lastReq.AffiliateID != "aff1" {
		t.Fatalf("ids = (%s, %s)", svc.lastReq.OfferID, svc.lastReq.AffiliateID)
	}
	if svc.lastReq.IP != "203.0.113.9" {
		t.Fatalf("ip = %q, want first forwarded hop", svc.lastReq.IP)
	}
	if svc.lastReq.Country != "DE" {
		t.Fatalf("country = %q, want DE", svc.lastReq.Country)
	}
	if svc.lastReq.SubID1 != "s1" || svc.lastReq.Source != "newsletter" {
		t.Fatalf("subid/source = (%s, %s)", svc.lastReq.SubID1, svc.lastReq.Source)
	}
}

func TestTrackMissingParams(t *testing.T) {
	handler := NewClickHandler(&fakeTrackingService{})

	for _, target := range []string{"/t/click", "/t/click?offer_id=offer1", "/t/click?aff_id=aff1"} {
		c, rec := newClickContext(target, nil)
		if err := handler.Track(c); err != nil {
			t.Fatalf("Track(%s) error: %v", target, err)
		}
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("Track(%s) status = %d, want 400", target, rec.Code)
		}
		if rec.Body.String() != "Missing offer_id or aff_id" {
			t.Fatalf("Track(%s) body = %q", target, rec.Body.String())
		}
	}
}

func TestTrackRejectionMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantBody string
	}{
		{
			name: "offer unavailable",
			err: &tracking.Rejection{
				Kind:      tracking.RejectOfferUnavailable,
				Reason:    "Offer not available",
				EventType: domain.FraudEventOfferBlocked,
			},
			wantCode: http.StatusNotFound,
			wantBody: "Offer not available",
		},
		{
			name: "cap reached",
			err: &tracking.Rejection{
				Kind:      tracking.RejectCapReached,
				Reason:    "hourly cap (100)",
				EventType: domain.FraudEventCapReached,
			},
			wantCode: http.StatusTooManyRequests,
			wantBody: "Cap reached: hourly cap (100)",
		},
		{
			name: "targeting",
			err: &tracking.Rejection{
				Kind:      tracking.RejectTargeting,
				Reason:    "GEO denied",
				EventType: domain.FraudEventTargetingBlock,
			},
			wantCode: http.StatusForbidden,
			wantBody: "Blocked: GEO denied",
		},
		{
			name: "affiliate blocked",
			err: &tracking.Rejection{
				Kind:      tracking.RejectAffiliateBlocked,
				Reason:    "Affiliate not allowed",
				EventType: domain.FraudEventAffiliateBlocked,
			},
			wantCode: http.StatusForbidden,
			wantBody: "Affiliate not allowed",
		},
		{
			name:     "server failure",
			err:      errors.New("db down"),
			wantCode: http.StatusInternalServerError,
			wantBody: "Internal error",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewClickHandler(&fakeTrackingService{err: tc.err})
			c, rec := newClickContext("/t/click?offer_id=offer1&aff_id=aff1", nil)

			if err := handler.Track(c); err != nil {
				t.Fatalf("Track() error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}
			if rec.Body.String() != tc.wantBody {
				t.Fatalf("body = %q, want %q", rec.Body.String(), tc.wantBody)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Forwarded-For", " 203.0.113.9 , 10.0.0.1")
	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := clientIP(r); got != "203.0.113.9" {
		t.Fatalf("clientIP = %q, want forwarded hop", got)
	}

	r = httptest.NewRequest(http.MethodGet, "/", nil)
	r.Header.Set("X-Real-IP", "198.51.100.7")
	if got := clientIP(r); got != "198.51.100.7" {
		t.Fatalf("clientIP = %q, want X-Real-IP fallback", got)
	}
}

func TestResolveCountry(t *testing.T) {
	tests := []struct {
		name    string
		headers map[string]string
		want    string
	}{
		{"cloudflare", map[string]string{"CF-IPCountry": "us"}, "US"},
		{"vercel fallback", map[string]string{"X-Vercel-IP-Country": "ID"}, "ID"},
		{"unknown placeholder skipped", map[string]string{"CF-IPCountry": "XX", "X-Country": "fr"}, "FR"},
		{"oversized value clamped", map[string]string{"X-Country": "FRA"}, "FR"},
		{"no headers", nil, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			for k, v := range tc.headers {
				r.Header.Set(k, v)
			}
			if got := resolveCountry(r); got != tc.want {
				t.Fatalf("resolveCountry = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrackForwardsUserAgentAndReferer(t *testing.T) {
	svc := &fakeTrackingService{result: tracking.RouteResult{RedirectURL: "https://adv.example.com/in"}}
	handler := NewClickHandler(svc)

	c, _ := newClickContext("/t/click?offer_id=offer1&aff_id=aff1", map[string]string{
		"User-Agent": "Mozilla/5.0 (iPhone) Safari/604.1",
		"Referer":    "https://pub.example.com/review",
	})
	if err := handler.Track(c); err != nil {
		t.Fatalf("Track() error: %v", err)
	}

	if !strings.Contains(svc.lastReq.UserAgent, "iPhone") {
		t.Fatalf("user agent = %q", svc.lastReq.UserAgent)
	}
	if svc.lastReq.Referer != "https://pub.example.com/review" {
		t.Fatalf("referer = %q", svc.lastReq.Referer)
	}
}
