package service

import (
	"errors"
	"fmt"
	"time"

	"catalog-service/internal/model"

	"github.com/benbjohnson/clock"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// maxBulkIDs caps bulk delete/index requests so an oversized id list cannot
// exhaust the store with a single statement.
const maxBulkIDs = 1000

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// CatalogInput carries the fields for catalog creation
type CatalogInput struct {
	Name     string             `json:"name"`
	Vertical model.VerticalType `json:"vertical"`
	Primary  bool               `json:"primary"`
	Locales  []string           `json:"locales"`
}

// CatalogUpdate carries a partial update; nil fields are left untouched
type CatalogUpdate struct {
	Name     *string             `json:"name"`
	Vertical *model.VerticalType `json:"vertical"`
	Primary  *bool               `json:"primary"`
	Locales  []string            `json:"locales"`
}

// IndexedCatalog reports the stamp applied to one catalog by IndexSelected
type IndexedCatalog struct {
	ID        uint      `json:"id"`
	IndexedAt time.Time `json:"indexed_at"`
}

// CatalogPage is one page of a filtered catalog listing
type CatalogPage struct {
	Data  []model.Catalog `json:"data"`
	Total int64           `json:"total"`
}

// ListFilter holds the optional filters and pagination for ListFiltered
type ListFilter struct {
	Name        string
	MultiLocale *bool
	Page        int
	PageSize    int
}

// CatalogService owns all catalog operations. Every operation except IndexAll
// is tenant-scoped: fetches and mutations filter by tenant id, and a catalog
// belonging to another tenant is indistinguishable from a missing one.
type CatalogService struct {
	db    *gorm.DB
	clock clock.Clock
	log   *zap.Logger
}

func NewCatalogService(db *gorm.DB, clk clock.Clock, log *zap.Logger) *CatalogService {
	return &CatalogService{db: db, clock: clk, log: log}
}

// Create inserts a new catalog for the tenant. When the new catalog is marked
// primary, any existing primary of the same (tenant, vertical) is demoted in
// the same transaction so there is never a window with two primaries.
func (s *CatalogService) Create(in CatalogInput, tenantID uint) (*model.Catalog, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrValidation)
	}
	if !in.Vertical.Valid() {
		return nil, fmt.Errorf("%w: unknown vertical %q", ErrValidation, in.Vertical)
	}
	if len(in.Locales) == 0 {
		return nil, fmt.Errorf("%w: at least one locale is required", ErrValidation)
	}

	var tenant model.Tenant
	if err := s.db.First(&tenant, tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: tenant not found", ErrNotFound)
		}
		s.log.Error("Tenant lookup failed", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("tenant lookup: %w", err)
	}

	// Catalog names are unique across all tenants
	var count int64
	if err := s.db.Model(&model.Catalog{}).Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("name check: %w", err)
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: catalog with this name already exists", ErrValidation)
	}

	catalog := &model.Catalog{
		Name:     in.Name,
		Vertical: in.Vertical,
		Primary:  in.Primary,
		Locales:  in.Locales,
		TenantID: tenant.ID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.Primary {
			if err := demoteExistingPrimary(tx, in.Vertical, tenantID); err != nil {
				return err
			}
		}
		return tx.Create(catalog).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: catalog with this name already exists", ErrValidation)
		}
		s.log.Error("Failed to create catalog",
			zap.String("name", in.Name),
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
		return nil, fmt.Errorf("create catalog: %w", err)
	}

	s.log.Info("Catalog created",
		zap.Uint("catalog_id", catalog.ID),
		zap.String("name", catalog.Name),
		zap.String("vertical", string(catalog.Vertical)),
		zap.Bool("primary", catalog.Primary),
		zap.Uint("tenant_id", tenantID))
	return catalog, nil
}

// Update merges the supplied fields onto the tenant's catalog and stamps
// indexed_at with the current time, whether or not the edit touched indexing.
// The existing primary of the target vertical is demoted when the update sets
// primary=true on a non-primary catalog, or sets primary=true together with a
// vertical change; demote and save share one transaction.
func (s *CatalogService) Update(id uint, in CatalogUpdate, tenantID uint) (*model.Catalog, error) {
	if in.Vertical != nil && !in.Vertical.Valid() {
		return nil, fmt.Errorf("%w: unknown vertical %q", ErrValidation, *in.Vertical)
	}
	if in.Locales != nil && len(in.Locales) == 0 {
		return nil, fmt.Errorf("%w: at least one locale is required", ErrValidation)
	}

	var catalog model.Catalog
	if err := s.db.Where("tenant_id = ?", tenantID).First(&catalog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: catalog not found", ErrNotFound)
		}
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}

	if in.Name != nil && *in.Name != catalog.Name {
		var count int64
		if err := s.db.Model(&model.Catalog{}).Where("name = ? AND id != ?", *in.Name, id).Count(&count).Error; err != nil {
			return nil, fmt.Errorf("name check: %w", err)
		}
		if count > 0 {
			return nil, fmt.Errorf("%w: catalog with this name already exists", ErrValidation)
		}
	}

	verticalChanging := in.Vertical != nil && *in.Vertical != catalog.Vertical
	needsDemote := in.Primary != nil && *in.Primary && (!catalog.Primary || verticalChanging)

	// Demote against the new vertical when one is supplied
	targetVertical := catalog.Vertical
	if in.Vertical != nil {
		targetVertical = *in.Vertical
	}

	if in.Name != nil {
		catalog.Name = *in.Name
	}
	if in.Vertical != nil {
		catalog.Vertical = *in.Vertical
	}
	if in.Primary != nil {
		catalog.Primary = *in.Primary
	}
	if in.Locales != nil {
		catalog.Locales = in.Locales
	}
	now := s.clock.Now()
	catalog.IndexedAt = &now

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if needsDemote {
			if err := demoteExistingPrimary(tx, targetVertical, tenantID); err != nil {
				return err
			}
		}
		return tx.Save(&catalog).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: catalog with this name already exists", ErrValidation)
		}
		s.log.Error("Failed to update catalog",
			zap.Uint("catalog_id", id),
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
		return nil, fmt.Errorf("update catalog: %w", err)
	}

	s.log.Info("Catalog updated",
		zap.Uint("catalog_id", catalog.ID),
		zap.String("vertical", string(catalog.Vertical)),
		zap.Bool("primary", catalog.Primary),
		zap.Uint("tenant_id", tenantID))
	return &catalog, nil
}

// Delete removes a single tenant-scoped catalog
func (s *CatalogService) Delete(id uint, tenantID uint) error {
	var catalog model.Catalog
	if err := s.db.Where("tenant_id = ?", tenantID).First(&catalog, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("%w: catalog not found", ErrNotFound)
		}
		return fmt.Errorf("catalog lookup: %w", err)
	}

	if err := s.db.Delete(&catalog).Error; err != nil {
		s.log.Error("Failed to delete catalog",
			zap.Uint("catalog_id", id),
			zap.Uint("tenant_id", tenantID),
			zap.Error(err))
		return fmt.Errorf("delete catalog: %w", err)
	}

	s.log.Info("Catalog deleted", zap.Uint("catalog_id", id), zap.Uint("tenant_id", tenantID))
	return nil
}

// BulkDelete removes every catalog of the tenant whose id appears in ids and
// returns the number actually removed. Ids belonging to other tenants are
// silently ignored; only the real removal count is reported.
func (s *CatalogService) BulkDelete(ids []uint, tenantID uint) (int, error) {
	if len(ids) == 0 {
		return 0, fmt.Errorf("%w: no ids provided for bulk deletion", ErrValidation)
	}
	if len(ids) > maxBulkIDs {
		return 0, fmt.Errorf("%w: at most %d ids per request", ErrValidation, maxBulkIDs)
	}

	var catalogs []model.Catalog
	if err := s.db.Where("id IN ? AND tenant_id = ?", ids, tenantID).Find(&catalogs).Error; err != nil {
		return 0, fmt.Errorf("catalog lookup: %w", err)
	}
	if len(catalogs) == 0 {
		return 0, fmt.Errorf("%w: no catalogs found for the provided ids", ErrNotFound)
	}

	matched := make([]uint, 0, len(catalogs))
	for _, catalog := range catalogs {
		matched = append(matched, catalog.ID)
	}

	if err := s.db.Delete(&model.Catalog{}, matched).Error; err != nil {
		s.log.Error("Bulk catalog deletion failed", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return 0, fmt.Errorf("bulk delete: %w", err)
	}

	s.log.Info("Bulk deleted catalogs",
		zap.Int("deleted_count", len(matched)),
		zap.Uint("tenant_id", tenantID))
	return len(matched), nil
}

// IndexAll stamps every catalog of every tenant with the current timestamp.
// This is the one deliberately tenant-unscoped operation: a global
// maintenance pass, used by the daily reindex schedule.
func (s *CatalogService) IndexAll() error {
	now := s.clock.Now()
	result := s.db.Session(&gorm.Session{AllowGlobalUpdate: true}).
		Model(&model.Catalog{}).
		Update("indexed_at", now)
	if result.Error != nil {
		s.log.Error("Full catalog reindex failed", zap.Error(result.Error))
		return fmt.Errorf("index all: %w", result.Error)
	}

	s.log.Info("Indexed all catalogs",
		zap.Int64("rows_affected", result.RowsAffected),
		zap.Time("indexed_at", now))
	return nil
}

// IndexSelected stamps the tenant's catalogs matching ids with one shared
// timestamp and returns the (id, indexed_at) pair for each matched catalog.
func (s *CatalogService) IndexSelected(ids []uint, tenantID uint) ([]IndexedCatalog, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("%w: no ids provided for indexing", ErrValidation)
	}
	if len(ids) > maxBulkIDs {
		return nil, fmt.Errorf("%w: at most %d ids per request", ErrValidation, maxBulkIDs)
	}

	var catalogs []model.Catalog
	if err := s.db.Where("id IN ? AND tenant_id = ?", ids, tenantID).Find(&catalogs).Error; err != nil {
		return nil, fmt.Errorf("catalog lookup: %w", err)
	}
	if len(catalogs) == 0 {
		return nil, fmt.Errorf("%w: no catalogs found for the provided ids", ErrNotFound)
	}

	matched := make([]uint, 0, len(catalogs))
	for _, catalog := range catalogs {
		matched = append(matched, catalog.ID)
	}

	now := s.clock.Now()
	if err := s.db.Model(&model.Catalog{}).Where("id IN ?", matched).Update("indexed_at", now).Error; err != nil {
		s.log.Error("Selective catalog reindex failed", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("index selected: %w", err)
	}

	indexed := make([]IndexedCatalog, 0, len(matched))
	for _, id := range matched {
		indexed = append(indexed, IndexedCatalog{ID: id, IndexedAt: now})
	}

	s.log.Info("Indexed selected catalogs",
		zap.Int("count", len(indexed)),
		zap.Uint("tenant_id", tenantID),
		zap.Time("indexed_at", now))
	return indexed, nil
}

// ListFiltered returns one page of the tenant's catalogs, newest first, with
// an optional name substring filter and an optional filter on catalogs that
// carry more than one locale.
func (s *CatalogService) ListFiltered(filter ListFilter, tenantID uint) (*CatalogPage, error) {
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := s.db.Model(&model.Catalog{}).Where("tenant_id = ?", tenantID)
	if filter.Name != "" {
		query = query.Where("name LIKE ?", "%"+filter.Name+"%")
	}
	if filter.MultiLocale != nil {
		// Locales are comma-joined, so multi-locale rows are the ones containing a comma
		if *filter.MultiLocale {
			query = query.Where("locales LIKE ?", "%,%")
		} else {
			query = query.Where("locales NOT LIKE ?", "%,%")
		}
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("catalog count: %w", err)
	}

	var catalogs []model.Catalog
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&catalogs).Error
	if err != nil {
		s.log.Error("Failed to list catalogs", zap.Uint("tenant_id", tenantID), zap.Error(err))
		return nil, fmt.Errorf("list catalogs: %w", err)
	}

	if catalogs == nil {
		catalogs = []model.Catalog{}
	}
	return &CatalogPage{Data: catalogs, Total: total}, nil
}

// demoteExistingPrimary clears the primary flag on every catalog of the given
// tenant and vertical. Callers run it inside the transaction that persists
// the new primary so the invariant holds at every commit point.
func demoteExistingPrimary(tx *gorm.DB, vertical model.VerticalType, tenantID uint) error {
	err := tx.Model(&model.Catalog{}).
		Where("vertical = ? AND is_primary = ? AND tenant_id = ?", vertical, true, tenantID).
		Update("is_primary", false).Error
	if err != nil {
		return fmt.Errorf("demote existing primary: %w", err)
	}
	return nil
}
