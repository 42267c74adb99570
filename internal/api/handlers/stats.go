package handlers

import (
	"net/http"
	"sort"

	"github.com/labstack/echo/v4"

	"jobradar/internal/store"
	"jobradar/pkg/models"
)

// StatsHandler returns dashboard statistics
func StatsHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := st.Stats(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to compute stats")
		}
		return c.JSON(http.StatusOK, stats)
	}
}

// CompaniesHandler returns companies ranked by recorded job count
func CompaniesHandler(st store.Store) echo.HandlerFunc {
	return func(c echo.Context) error {
		stats, err := st.Stats(c.Request().Context())
		if err != nil {
			return errorJSON(c, http.StatusInternalServerError, "store_error", "Failed to compute stats")
		}

		companies := make([]models.CompanyCount, 0, len(stats.JobsByCompany))
		for name, count := range stats.JobsByCompany {
			companies = append(companies, models.CompanyCount{Name: name, JobCount: count})
		}
		sort.Slice(companies, func(i, j int) bool {
			if companies[i].JobCount != companies[j].JobCount {
				return companies[i].JobCount > companies[j].JobCount
			}
			return companies[i].Name < companies[j].Name
		})

		return c.JSON(http.StatusOK, companies)
	}
}
