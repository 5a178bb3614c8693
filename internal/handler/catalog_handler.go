package handler

import (
	"net/http"
	"strconv"
	"time"

	"catalog-service/internal/service"
	"catalog-service/pkg/logger"
	"catalog-service/prometheus"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

// CatalogHandler exposes the tenant-scoped catalog endpoints
type CatalogHandler struct {
	catalogs *service.CatalogService
}

func NewCatalogHandler(catalogs *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogs: catalogs}
}

// ListCatalogs handles GET /catalogs with optional name / multiLocale filters
// and offset pagination
func (h *CatalogHandler) ListCatalogs(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("list")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant context"})
	}

	filter := service.ListFilter{
		Name: c.QueryParam("name"),
	}
	if raw := c.QueryParam("multiLocale"); raw != "" {
		multiLocale, err := strconv.ParseBool(raw)
		if err != nil {
			log.Warn("Invalid multiLocale parameter", zap.String("value", raw))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "multiLocale must be a boolean"})
		}
		filter.MultiLocale = &multiLocale
	}
	if raw := c.QueryParam("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil {
			filter.Page = page
		}
	}
	if raw := c.QueryParam("pageSize"); raw != "" {
		if pageSize, err := strconv.Atoi(raw); err == nil {
			filter.PageSize = pageSize
		}
	}

	defer prometheus.TrackDBOperation("query")(time.Now())
	page, err := h.catalogs.ListFiltered(filter, tenantID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	log.Info("Catalogs listed",
		zap.Uint("tenant_id", tenantID),
		zap.Int64("total", page.Total),
		zap.Int("returned", len(page.Data)))
	return c.JSON(http.StatusOK, page)
}

// CreateCatalog handles POST /catalogs
func (h *CatalogHandler) CreateCatalog(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("create")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant context"})
	}

	var req service.CatalogInput
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())
	catalog, err := h.catalogs.Create(req, tenantID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusCreated, catalog)
}

// UpdateCatalog handles PUT /catalogs/:id with a partial field set
func (h *CatalogHandler) UpdateCatalog(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("update")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant context"})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catalog id"})
	}

	var req service.CatalogUpdate
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Uint("catalog_id", id), zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	catalog, err := h.catalogs.Update(id, req, tenantID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, catalog)
}

// DeleteCatalog handles DELETE /catalogs/:id
func (h *CatalogHandler) DeleteCatalog(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("delete")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant context"})
	}

	id, err := parseIDParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid catalog id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	if err := h.catalogs.Delete(id, tenantID); err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Catalog deleted successfully"})
}

// BulkDeleteCatalogs handles POST /catalogs/bulk_delete. The response reports
// the count actually removed; ids of other tenants are silently skipped.
func (h *CatalogHandler) BulkDeleteCatalogs(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("bulk_delete")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant context"})
	}

	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())
	deletedCount, err := h.catalogs.BulkDelete(req.IDs, tenantID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "Catalogs deleted successfully",
		"deletedCount": deletedCount,
	})
}

// IndexAllCatalogs handles POST /catalogs/index_all. This is the one global
// operation: it stamps catalogs of every tenant.
func (h *CatalogHandler) IndexAllCatalogs(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("index_all")

	defer prometheus.TrackDBOperation("update")(time.Now())
	if err := h.catalogs.IndexAll(); err != nil {
		return respondServiceError(c, log, err)
	}

	return c.String(http.StatusOK, "All catalogs have been indexed successfully")
}

// IndexSelectedCatalogs handles POST /catalogs/index_selected
func (h *CatalogHandler) IndexSelectedCatalogs(c echo.Context) error {
	log := logger.FromContext(c)
	prometheus.RecordCatalogOperation("index_selected")

	tenantID, ok := tenantFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "missing tenant context"})
	}

	var req struct {
		IDs []uint `json:"ids"`
	}
	if err := c.Bind(&req); err != nil {
		log.Error("Invalid request data", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request data"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())
	indexed, err := h.catalogs.IndexSelected(req.IDs, tenantID)
	if err != nil {
		return respondServiceError(c, log, err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":         "Catalogs indexed successfully",
		"indexedCatalogs": indexed,
	})
}

func parseIDParam(c echo.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}
