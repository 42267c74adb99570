package middleware

import (
	"net/http"
	"time"

	"jobradar/pkg/models"
	"jobradar/pkg/utils"

	"github.com/labstack/echo/v4"
)

const maxBodyBytes = 1024 * 1024

// RequestValidation tags every request with an ID and rejects oversized
// write bodies before they reach a handler
func RequestValidation() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			requestID := utils.GenerateRequestID()
			c.Set("request_id", requestID)
			c.Response().Header().Set("X-Request-ID", requestID)

			switch c.Request().Method {
			case http.MethodPost, http.MethodPut, http.MethodPatch:
				if c.Request().ContentLength > maxBodyBytes {
					return c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{
						Error:     "request_too_large",
						Message:   "Request body too large",
						RequestID: requestID,
						Timestamp: time.Now(),
					})
				}
			}

			return next(c)
		}
	}
}
