package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"jobradar/internal/notify"
)

type notificationTestRequest struct {
	Channel string `json:"channel" validate:"required,oneof=email slack discord"`
}

// NotificationChannelsHandler lists the channels with usable credentials
func NotificationChannelsHandler(svc *notify.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"configured": svc.ConfiguredChannels(),
		})
	}
}

// NotificationTestHandler sends a sample digest through one channel so its
// configuration can be verified without waiting for a real discovery
func NotificationTestHandler(svc *notify.Service) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req notificationTestRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		result := svc.SendTest(c.Request().Context(), req.Channel)
		code := http.StatusOK
		if !result.Success {
			code = http.StatusBadGateway
		}
		return c.JSON(code, result)
	}
}
