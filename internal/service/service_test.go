package service

import (
	"testing"
	"time"

	"catalog-service/internal/model"
	"catalog-service/pkg/database"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens a private in-memory database with the full schema applied.
// A single connection keeps every statement on the same sqlite memory store.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))
	return db
}

func newTestCatalogService(t *testing.T) (*CatalogService, *gorm.DB, *clock.Mock) {
	t.Helper()
	db := newTestDB(t)
	clk := clock.NewMock()
	clk.Set(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	return NewCatalogService(db, clk, zap.NewNop()), db, clk
}

func createTenant(t *testing.T, db *gorm.DB, name string) model.Tenant {
	t.Helper()
	tenant := model.Tenant{Name: name}
	require.NoError(t, db.Create(&tenant).Error)
	return tenant
}

func createUser(t *testing.T, db *gorm.DB, username, email, password string, tenantID uint) model.User {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{
		Username: username,
		Email:    email,
		Password: string(hashed),
		TenantID: tenantID,
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createCatalog(t *testing.T, db *gorm.DB, catalog model.Catalog) model.Catalog {
	t.Helper()
	require.NoError(t, db.Create(&catalog).Error)
	return catalog
}

func reloadCatalog(t *testing.T, db *gorm.DB, id uint) model.Catalog {
	t.Helper()
	var catalog model.Catalog
	require.NoError(t, db.First(&catalog, id).Error)
	return catalog
}

// primaryCount returns the number of primary catalogs for one (tenant, vertical)
func primaryCount(t *testing.T, db *gorm.DB, tenantID uint, vertical model.VerticalType) int64 {
	t.Helper()
	var count int64
	err := db.Model(&model.Catalog{}).
		Where("tenant_id = ? AND vertical = ? AND is_primary = ?", tenantID, vertical, true).
		Count(&count).Error
	require.NoError(t, err)
	return count
}
