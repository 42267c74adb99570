package handlers

import (
	"net/http"
	"time"

	"jobradar/internal/llm"
	"jobradar/internal/logging"
	"jobradar/internal/store"
	"jobradar/pkg/models"
	"jobradar/pkg/utils"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

const version = "1.0.0"

// HealthHandler handles health check requests
func HealthHandler(c echo.Context) error {
	requestID := utils.GenerateRequestID()
	logger := logging.GetGlobalLogger()

	logger.Debug("Health check requested", map[string]interface{}{"request_id": requestID})

	response := models.HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
		Checks: map[string]string{
			"api": "ok",
		},
	}

	return c.JSON(http.StatusOK, response)
}

// ReadinessHandler reports whether the store and extraction provider are
// usable. The store must answer; a degraded LLM only flips its check.
func ReadinessHandler(st store.Store, llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		logger.Debug("Readiness check requested", map[string]interface{}{"request_id": requestID})

		checks := map[string]string{"api": "ok"}
		status := "ready"
		code := http.StatusOK

		if err := st.Ping(c.Request().Context()); err != nil {
			checks["store"] = "unavailable"
			status = "not_ready"
			code = http.StatusServiceUnavailable
		} else {
			checks["store"] = "ok"
		}

		if llmManager.IsHealthy() {
			checks["llm"] = "ok"
		} else {
			checks["llm"] = "degraded"
		}

		return c.JSON(code, models.HealthResponse{
			Status:    status,
			Timestamp: time.Now(),
			Version:   version,
			Uptime:    time.Since(startTime),
			Checks:    checks,
		})
	}
}

// LivenessHandler handles liveness probe requests
func LivenessHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, models.HealthResponse{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   version,
		Uptime:    time.Since(startTime),
	})
}

// StatusHandler provides detailed service status including the number of
// active targets under surveillance
func StatusHandler(st store.Store, llmManager *llm.Manager) echo.HandlerFunc {
	return func(c echo.Context) error {
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		logger.Debug("Status check requested", map[string]interface{}{"request_id": requestID})

		checks := map[string]string{
			"api": "operational",
			"llm": llmManager.GetProviderName(),
		}

		activeTargets := 0
		if targets, err := st.ListActiveTargets(c.Request().Context()); err == nil {
			activeTargets = len(targets)
			checks["store"] = "operational"
		} else {
			checks["store"] = "unavailable"
		}

		return c.JSON(http.StatusOK, models.HealthResponse{
			Status:        "operational",
			Timestamp:     time.Now(),
			Version:       version,
			Uptime:        time.Since(startTime),
			Checks:        checks,
			ActiveTargets: activeTargets,
		})
	}
}
