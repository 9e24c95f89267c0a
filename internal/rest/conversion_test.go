package rest

import (
	"context"
	"encoding/json"
	"linkPulse/business/conversion"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

type fakeConversionService struct {
	lastReq conversion.IngestRequest
	result  conversion.IngestResult
	err     error
}

func (f *fakeConversionService) Ingest(ctx context.Context, req conversion.IngestRequest) (conversion.IngestResult, error) {
	f.lastReq = req
	return f.result, f.err
}

func newConversionContext(method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

func decodeConversion(t *testing.T, rec *httptest.ResponseRecorder) ConversionResponse {
	t.Helper()
	var resp ConversionResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body %q: %v", rec.Body.String(), err)
	}
	return resp
}

func TestHandleGetQueryIngest(t *testing.T) {
	svc := &fakeConversionService{result: conversion.IngestResult{
		ConversionID: "conv000000000000000000000a",
		Status:       "pending",
	}}
	handler := NewConversionHandler(svc)

	c, rec := newConversionContext(http.MethodGet,
		"/t/conv?offer_id=offer1&transaction_id=tx-1&payout=2.50&status=pending&subid1=s1", "")

	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body %s", rec.Code, rec.Body.String())
	}

	resp := decodeConversion(t, rec)
	if !resp.OK || resp.ConversionID != "conv000000000000000000000a" || resp.Duplicate {
		t.Fatalf("response = %+v", resp)
	}
	if resp.Status != "pending" {
		t.Fatalf("status = %s", resp.Status)
	}

	if svc.lastReq.OfferID != "offer1" || svc.lastReq.TransactionID != "tx-1" {
		t.Fatalf("forwarded = %+v", svc.lastReq)
	}
	if svc.lastReq.Payout != 2.50 {
		t.Fatalf("payout = %v, want 2.50", svc.lastReq.Payout)
	}
	if svc.lastReq.SubID1 != "s1" {
		t.Fatalf("subid1 = %q", svc.lastReq.SubID1)
	}
}

func TestHandlePostJSONBody(t *testing.T) {
	svc := &fakeConversionService{result: conversion.IngestResult{ConversionID: "conv1", Status: "approved"}}
	handler := NewConversionHandler(svc)

	body := `{"click_id":"click1","transaction_id":"tx-2","status":"approved","revenue":"10","payout":"not-a-number"}`
	c, rec := newConversionContext(http.MethodPost, "/t/conv", body)

	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if svc.lastReq.ClickID != "click1" || svc.lastReq.Status != "approved" {
		t.Fatalf("forwarded = %+v", svc.lastReq)
	}
	if svc.lastReq.Revenue != 10 {
		t.Fatalf("revenue = %v", svc.lastReq.Revenue)
	}
	if svc.lastReq.Payout != 0 {
		t.Fatalf("malformed payout should degrade to 0, got %v", svc.lastReq.Payout)
	}
}

func TestHandlePostMixesBodyAndQuery(t *testing.T) {
	svc := &fakeConversionService{result: conversion.IngestResult{ConversionID: "conv1", Status: "pending"}}
	handler := NewConversionHandler(svc)

	c, rec := newConversionContext(http.MethodPost,
		"/t/conv?offer_id=offer1&subid1=s1", `{"transaction_id":"tx-3"}`)

	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if svc.lastReq.OfferID != "offer1" || svc.lastReq.SubID1 != "s1" || svc.lastReq.TransactionID != "tx-3" {
		t.Fatalf("query backfill failed: %+v", svc.lastReq)
	}
}

func TestHandleCapturesPostbackMeta(t *testing.T) {
	svc := &fakeConversionService{result: conversion.IngestResult{ConversionID: "conv1", Status: "pending"}}
	handler := NewConversionHandler(svc)

	body := `{"transaction_id":"tx1","offer_id":"o1","custom_field":"adv-data"}`
	c, rec := newConversionContext(http.MethodPost, "/t/conv?source=postback", body)

	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	meta := svc.lastReq.Meta
	if meta == nil {
		t.Fatal("incoming postback payload was not captured")
	}
	if meta["custom_field"] != "adv-data" {
		t.Fatalf("meta custom_field = %v", meta["custom_field"])
	}
	if meta["transaction_id"] != "tx1" || meta["offer_id"] != "o1" {
		t.Fatalf("meta known fields = %v", meta)
	}
	if meta["source"] != "postback" {
		t.Fatalf("meta query param = %v", meta["source"])
	}
}

func TestHandleGetQueryMetaAndReason(t *testing.T) {
	svc := &fakeConversionService{result: conversion.IngestResult{ConversionID: "conv1", Status: "rejected"}}
	handler := NewConversionHandler(svc)

	c, rec := newConversionContext(http.MethodGet,
		"/t/conv?offer_id=o1&transaction_id=tx1&reason=chargeback", "")

	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	if svc.lastReq.Reason != "chargeback" {
		t.Fatalf("reason = %q", svc.lastReq.Reason)
	}
	meta := svc.lastReq.Meta
	if meta == nil || meta["offer_id"] != "o1" || meta["reason"] != "chargeback" {
		t.Fatalf("meta = %v", meta)
	}
}

func TestHandleMissingTransaction(t *testing.T) {
	handler := NewConversionHandler(&fakeConversionService{})

	c, rec := newConversionContext(http.MethodGet, "/t/conv?offer_id=offer1", "")
	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}

	var resp ConversionErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.OK || resp.Error != "transaction_id required" {
		t.Fatalf("error response = %+v", resp)
	}
}

func TestHandleServiceErrorMapping(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
	}{
		{"offer or click required", conversion.ErrOfferOrClickRequired, http.StatusBadRequest},
		{"invalid status", conversion.ErrInvalidStatus, http.StatusBadRequest},
		{"offer not found", conversion.ErrOfferNotFound, http.StatusNotFound},
		{"affiliate not resolved", conversion.ErrAffiliateNotResolved, http.StatusNotFound},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			handler := NewConversionHandler(&fakeConversionService{err: tc.err})
			c, rec := newConversionContext(http.MethodGet, "/t/conv?offer_id=offer1&transaction_id=tx", "")

			if err := handler.Handle(c); err != nil {
				t.Fatalf("Handle() error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("status = %d, want %d", rec.Code, tc.wantCode)
			}

			var resp ConversionErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid error body: %v", err)
			}
			if resp.Error != tc.err.Error() {
				t.Fatalf("error = %q, want %q", resp.Error, tc.err.Error())
			}
		})
	}
}

func TestHandleDuplicateResponse(t *testing.T) {
	svc := &fakeConversionService{result: conversion.IngestResult{
		ConversionID: "conv1",
		Duplicate:    true,
		Status:       "approved",
	}}
	handler := NewConversionHandler(svc)

	c, rec := newConversionContext(http.MethodGet, "/t/conv?offer_id=offer1&transaction_id=tx-dup", "")
	if err := handler.Handle(c); err != nil {
		t.Fatalf("Handle() error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 on duplicate", rec.Code)
	}

	resp := decodeConversion(t, rec)
	if !resp.OK || !resp.Duplicate || resp.Status != "approved" {
		t.Fatalf("duplicate response = %+v", resp)
	}
}
