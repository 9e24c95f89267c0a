package rest

import (
	"context"
	"errors"
	"linkPulse/business/reports"
	"linkPulse/domain"
	"linkPulse/pkg/logger"
	"net/http"
	"time"

	"github.com/AMFarhan21/fres"
	"github.com/labstack/echo/v4"
)

type (
	ReportsHandler struct {
		reportsService ReportsService
		timeout        time.Duration
	}

	ReportsService interface {
		OfferSummary(ctx context.Context, offerID string) (domain.OfferSummary, error)
	}
)

// ResponseError represent the response error struct
type ResponseError struct {
	Message string `json:"message"`
}

func NewReportsHandler(reportsService ReportsService) *ReportsHandler {
	return &ReportsHandler{
		reportsService: reportsService,
		timeout:        10 * time.Second,
	}
}

func (h *ReportsHandler) OfferSummary(c echo.Context) error {
	offerID := c.Param("id")

	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	summary, err := h.reportsService.OfferSummary(ctx, offerID)
	if err != nil {
		if errors.Is(err, reports.ErrOfferNotFound) {
			return c.JSON(http.StatusNotFound, ResponseError{Message: err.Error()})
		}

		logger.Error("Failed to build offer summary", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(summary))
}
