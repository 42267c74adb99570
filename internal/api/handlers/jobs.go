package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"jobradar/internal/logging"
	"jobradar/internal/store"
	"jobradar/pkg/models"
)

// ListJobsHandler returns recorded jobs, newest first, with optional
// company/status/since filters
func ListJobsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		filter := models.JobFilter{
			Company: c.QueryParam("company"),
			Status:  c.QueryParam("status"),
		}
		if since := c.QueryParam("since"); since != "" {
			parsed, err := time.Parse(time.RFC3339, since)
			if err != nil {
				return errorJSON(c, http.StatusBadRequest, "invalid_request", "since must be RFC3339")
			}
			filter.Since = parsed
		}
		if limit := c.QueryParam("limit"); limit != "" {
			n, err := strconv.Atoi(limit)
			if err != nil || n < 1 {
				return errorJSON(c, http.StatusBadRequest, "invalid_request", "limit must be a positive integer")
			}
			filter.Limit = n
		}
		if offset := c.QueryParam("offset"); offset != "" {
			n, err := strconv.Atoi(offset)
			if err != nil || n < 0 {
				return errorJSON(c, http.StatusBadRequest, "invalid_request", "offset must be a non-negative integer")
			}
			filter.Offset = n
		}

		jobs, err := st.ListJobs(c.Request().Context(), filter)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to list jobs")
		}
		if jobs == nil {
			jobs = []models.JobRecord{}
		}
		return c.JSON(http.StatusOK, jobs)
	}
}

// GetJobHandler returns one recorded job by id
func GetJobHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		job, err := st.GetJob(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Job not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to load job")
		}
		return c.JSON(http.StatusOK, job)
	}
}

// UpdateJobStatusHandler moves a job through its application workflow
func UpdateJobStatusHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.UpdateJobStatusRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		ctx := c.Request().Context()
		id := c.Param("id")
		if err := st.UpdateJobStatus(ctx, id, req.Status, req.Notes, req.ReferralContact); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Job not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to update job status")
		}

		logger.Info("Job status updated", map[string]interface{}{
			"job_id": id,
			"status": req.Status,
		})

		job, err := st.GetJob(ctx, id)
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to load updated job")
		}
		return c.JSON(http.StatusOK, job)
	}
}

// DeleteJobHandler removes one recorded job. Its deduplication key goes
// with it, so the posting can be rediscovered on a later run.
func DeleteJobHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := st.DeleteJob(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Job not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to delete job")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
