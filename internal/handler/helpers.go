package handler

import (
	"errors"
	"net/http"

	"catalog-service/internal/middleware"
	"catalog-service/internal/service"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// tenantFromContext returns the tenant id placed on the context by the auth
// middleware. A missing value means the route was wired without it.
func tenantFromContext(c echo.Context) (uint, bool) {
	tenantID, ok := c.Get(middleware.ContextTenantIDKey).(uint)
	return tenantID, ok && tenantID != 0
}

// respondServiceError maps a service error onto an HTTP response. Validation
// and NotFound carry their message to the caller; everything else is logged
// in full and answered with a generic message only.
func respondServiceError(c echo.Context, log *zap.Logger, err error) error {
	switch {
	case errors.Is(err, service.ErrValidation):
		prometheus.RecordCatalogError("validation")
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, service.ErrNotFound):
		prometheus.RecordCatalogError("not_found")
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	default:
		log.Error("Unexpected service error", zap.Error(err))
		prometheus.RecordCatalogError("internal")
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal server error"})
	}
}
