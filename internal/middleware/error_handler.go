package middleware

import (
	"linkPulse/pkg/logger"
	"net/http"

	"github.com/labstack/echo/v4"
)

// ErrorHandler is the fallback for errors no handler mapped itself.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status := http.StatusInternalServerError
	message := "Internal server error"

	if he, ok := err.(*echo.HTTPError); ok {
		status = he.Code
		if msg, ok := he.Message.(string); ok {
			message = msg
		}
	} else {
		logger.Error("Unhandled request error", "path", c.Path(), err)
	}

	if jsonErr := c.JSON(status, map[string]string{"message": message}); jsonErr != nil {
		logger.Error("Failed to write error response", jsonErr)
	}
}
