package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"jobradar/internal/logging"
	"jobradar/internal/store"
	"jobradar/pkg/models"
	"jobradar/pkg/utils"
)

var validate = validator.New()

func errorJSON(c echo.Context, code int, errKey, message string) error {
	requestID, _ := c.Get("request_id").(string)
	if requestID == "" {
		requestID = utils.GenerateRequestID()
	}
	return c.JSON(code, models.ErrorResponse{
		Error:     errKey,
		Message:   message,
		RequestID: requestID,
		Timestamp: time.Now(),
	})
}

// ListTargetsHandler returns all configured targets
func ListTargetsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		targets, err := st.ListTargets(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to list targets")
		}
		return c.JSON(http.StatusOK, targets)
	}
}

// GetTargetHandler returns one target by id
func GetTargetHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		target, err := st.GetTarget(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Target not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to load target")
		}
		return c.JSON(http.StatusOK, target)
	}
}

// CreateTargetHandler registers a new career page for surveillance
func CreateTargetHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		logger := logging.GetGlobalLogger()

		var req models.CreateTargetRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		active := true
		if req.Active != nil {
			active = *req.Active
		}
		strategy := req.ScrapeStrategy
		if strategy == "" {
			strategy = models.StrategyDefault
		}

		now := time.Now()
		target := models.Target{
			ID:             uuid.New().String(),
			CompanyName:    req.CompanyName,
			CareersURL:     req.CareersURL,
			RoleKeyword:    req.RoleKeyword,
			Active:         active,
			ScrapeStrategy: strategy,
			CreatedAt:      now,
			UpdatedAt:      now,
		}

		if err := st.CreateTarget(c.Request().Context(), &target); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to create target")
		}

		logger.Info("Target created", map[string]interface{}{
			"target_id": target.ID,
			"company":   target.CompanyName,
		})
		return c.JSON(http.StatusCreated, target)
	}
}

// UpdateTargetHandler partially updates a target; nil fields are untouched
func UpdateTargetHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		var req models.UpdateTargetRequest
		if err := c.Bind(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "invalid_request", "Invalid request format")
		}
		if err := validate.Struct(&req); err != nil {
			return errorJSON(c, http.StatusBadRequest, "validation_failed", err.Error())
		}

		ctx := c.Request().Context()
		target, err := st.GetTarget(ctx, c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Target not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to load target")
		}

		if req.CompanyName != nil {
			target.CompanyName = *req.CompanyName
		}
		if req.CareersURL != nil {
			target.CareersURL = *req.CareersURL
		}
		if req.RoleKeyword != nil {
			target.RoleKeyword = *req.RoleKeyword
		}
		if req.Active != nil {
			target.Active = *req.Active
		}
		if req.ScrapeStrategy != nil {
			target.ScrapeStrategy = *req.ScrapeStrategy
		}
		target.UpdatedAt = time.Now()

		if err := st.UpdateTarget(ctx, target); err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to update target")
		}
		return c.JSON(http.StatusOK, target)
	}
}

// DeleteTargetHandler removes a target; its recorded jobs are kept
func DeleteTargetHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := st.DeleteTarget(c.Request().Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return errorJSON(c, http.StatusNotFound, "not_found", "Target not found")
			}
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to delete target")
		}
		return c.NoContent(http.StatusNoContent)
	}
}
