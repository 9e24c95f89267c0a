package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"linkPulse/business/conversion"
	"linkPulse/pkg/logger"
	"linkPulse/pkg/metrics"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type (
	ConversionHandler struct {
		validate          *validator.Validate
		conversionService ConversionService
		timeout           time.Duration
	}

	ConversionService interface {
		Ingest(ctx context.Context, req conversion.IngestRequest) (conversion.IngestResult, error)
	}

	// ConversionRequest accepts both query-string (GET) and JSON body
	// (POST) submission; payout/revenue stay strings so malformed numbers
	// degrade to 0 instead of failing the bind.
	ConversionRequest struct {
		OfferID       string `json:"offer_id" query:"offer_id"`
		ClickID       string `json:"click_id" query:"click_id"`
		TransactionID string `json:"transaction_id" query:"transaction_id" validate:"required"`
		Status        string `json:"status" query:"status"`
		Payout        string `json:"payout" query:"payout"`
		Revenue       string `json:"revenue" query:"revenue"`
		Currency      string `json:"currency" query:"currency"`
		Goal          string `json:"goal" query:"goal"`
		SubID1        string `json:"subid1" query:"subid1"`
		SubID2        string `json:"subid2" query:"subid2"`
		Reason        string `json:"reason" query:"reason"`
	}

	ConversionResponse struct {
		OK           bool   `json:"ok"`
		ConversionID string `json:"conversion_id"`
		Duplicate    bool   `json:"duplicate"`
		Status       string `json:"status,omitempty"`
	}

	ConversionErrorResponse struct {
		OK    bool   `json:"ok"`
		Error string `json:"error"`
	}
)

func NewConversionHandler(conversionService ConversionService) *ConversionHandler {
	return &ConversionHandler{
		validate:          validator.New(),
		conversionService: conversionService,
		timeout:           10 * time.Second,
	}
}

// Handle serves GET and POST /t/conv.
func (h *ConversionHandler) Handle(c echo.Context) error {
	start := time.Now()
	defer func() {
		metrics.ConversionLatency.Observe(time.Since(start).Seconds())
	}()

	r := c.Request()

	// Keep the raw body around: the full incoming postback is persisted as
	// the conversion audit payload.
	var body []byte
	if r.Body != nil {
		body, _ = io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(body))
	}

	var req ConversionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ConversionErrorResponse{Error: err.Error()})
	}
	fillFromQuery(c, &req)

	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ConversionErrorResponse{Error: "transaction_id required"})
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	result, err := h.conversionService.Ingest(ctx, conversion.IngestRequest{
		OfferID:       req.OfferID,
		ClickID:       req.ClickID,
		TransactionID: req.TransactionID,
		Status:        req.Status,
		Payout:        toNum(req.Payout),
		Revenue:       toNum(req.Revenue),
		Currency:      req.Currency,
		Goal:          req.Goal,
		SubID1:        req.SubID1,
		SubID2:        req.SubID2,
		IP:            clientIP(r),
		Country:       resolveCountry(r),
		Reason:        req.Reason,
		Meta:          collectMeta(c, body),
	})
	if err != nil {
		switch {
		case errors.Is(err, conversion.ErrTransactionRequired),
			errors.Is(err, conversion.ErrOfferOrClickRequired),
			errors.Is(err, conversion.ErrInvalidStatus):
			return c.JSON(http.StatusBadRequest, ConversionErrorResponse{Error: err.Error()})
		case errors.Is(err, conversion.ErrOfferNotFound),
			errors.Is(err, conversion.ErrAffiliateNotResolved):
			return c.JSON(http.StatusNotFound, ConversionErrorResponse{Error: err.Error()})
		}

		logger.Error("Conversion ingest failed", err)
		return c.JSON(http.StatusInternalServerError, ConversionErrorResponse{Error: "Conversion ingest failed"})
	}

	if result.Duplicate {
		metrics.ConversionsDuplicate.Inc()
	} else {
		metrics.ConversionsIngested.Inc()
	}

	return c.JSON(http.StatusOK, ConversionResponse{
		OK:           true,
		ConversionID: result.ConversionID,
		Duplicate:    result.Duplicate,
		Status:       result.Status,
	})
}

// fillFromQuery backfills fields the body bind left empty, so POST callers
// may mix query-string and body parameters.
func fillFromQuery(c echo.Context, req *ConversionRequest) {
	fields := map[string]*string{
		"offer_id":       &req.OfferID,
		"click_id":       &req.ClickID,
		"transaction_id": &req.TransactionID,
		"status":         &req.Status,
		"payout":         &req.Payout,
		"revenue":        &req.Revenue,
		"currency":       &req.Currency,
		"goal":           &req.Goal,
		"subid1":         &req.SubID1,
		"subid2":         &req.SubID2,
		"reason":         &req.Reason,
	}

	for name, field := range fields {
		if *field == "" {
			if v := c.QueryParam(name); v != "" {
				*field = v
			}
		}
	}
}

// collectMeta merges the JSON body fields and the query parameters into the
// complete incoming postback, preserved on the conversion row for auditing.
// Query parameters win on key collision.
func collectMeta(c echo.Context, body []byte) map[string]any {
	meta := map[string]any{}

	if len(body) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(body, &fields); err == nil {
			for name, value := range fields {
				meta[name] = value
			}
		}
	}

	for name, values := range c.QueryParams() {
		if len(values) > 0 {
			meta[name] = values[0]
		}
	}

	if len(meta) == 0 {
		return nil
	}

	return meta
}

func toNum(v string) float64 {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0
	}

	return n
}
