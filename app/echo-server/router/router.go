package router

import (
	"linkPulse/internal/rest"

	"github.com/labstack/echo/v4"
)

// SetTrackingRoutes wires the public tracking endpoints. The conversion
// endpoint accepts both GET (query-string) and POST (body) postbacks.
func SetTrackingRoutes(e *echo.Echo, clickHandler *rest.ClickHandler, conversionHandler *rest.ConversionHandler) {
	t := e.Group("/t")
	t.GET("/click", clickHandler.Track)
	t.GET("/conv", conversionHandler.Handle)
	t.POST("/conv", conversionHandler.Handle)
}

func SetReportsRoutes(api *echo.Group, handler *rest.ReportsHandler) {
	reports := api.Group("/reports")
	reports.GET("/offers/:id/summary", handler.OfferSummary)
}
