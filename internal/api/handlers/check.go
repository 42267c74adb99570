package handlers

import (
	"net/http"
	"time"

	"jobradar/internal/logging"
	"jobradar/internal/pipeline"
	"jobradar/pkg/utils"

	"github.com/labstack/echo/v4"
)

// CheckJobsHandler triggers one synchronous discovery run and returns its
// summary. The caller always gets a summary body, even for a failed run.
func CheckJobsHandler(orchestrator *pipeline.Orchestrator) echo.HandlerFunc {
	return func(c echo.Context) error {
		startTime := time.Now()
		requestID := utils.GenerateRequestID()
		logger := logging.GetGlobalLogger()

		logger.Info("Discovery run requested", map[string]interface{}{
			"request_id": requestID,
		})

		summary := orchestrator.Run(c.Request().Context())

		logger.Info("Discovery run request finished", map[string]interface{}{
			"request_id":     requestID,
			"status":         summary.Status,
			"total_new_jobs": summary.TotalNewJobs,
			"elapsed":        time.Since(startTime).String(),
		})

		code := http.StatusOK
		if summary.Status == pipeline.RunFailed {
			code = http.StatusServiceUnavailable
		}
		return c.JSON(code, summary)
	}
}
