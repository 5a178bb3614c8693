package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog-service/internal/middleware"
	"catalog-service/internal/model"
	"catalog-service/internal/service"
	"catalog-service/pkg/database"

	"github.com/benbjohnson/clock"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type handlerFixture struct {
	db       *gorm.DB
	clock    *clock.Mock
	catalogs *CatalogHandler
	auth     *AuthHandler
	tenantID uint
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))

	tenant := model.Tenant{Name: "Acme"}
	require.NoError(t, db.Create(&tenant).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)
	user := model.User{Username: "alice", Email: "alice@example.com", Password: string(hashed), TenantID: tenant.ID}
	require.NoError(t, db.Create(&user).Error)

	clk := clock.NewMock()
	clk.Set(time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC))
	log := zap.NewNop()

	return &handlerFixture{
		db:       db,
		clock:    clk,
		catalogs: NewCatalogHandler(service.NewCatalogService(db, clk, log)),
		auth:     NewAuthHandler(service.NewAuthService(db, log)),
		tenantID: tenant.ID,
	}
}

// request builds an echo context carrying the tenant id the way the auth
// middleware would
func (f *handlerFixture) request(t *testing.T, method, target, body string) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.Set(middleware.ContextTenantIDKey, f.tenantID)
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestCreateCatalogEndpoint(t *testing.T) {
	f := newHandlerFixture(t)

	c, rec := f.request(t, http.MethodPost, "/catalogs",
		`{"name":"Spring Fashion","vertical":"fashion","primary":true,"locales":["en_US","es_ES"]}`)
	require.NoError(t, f.catalogs.CreateCatalog(c))

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, "Spring Fashion", body["name"])
	assert.Equal(t, true, body["primary"])
}

func TestCreateCatalogEndpointRejectsEmptyLocales(t *testing.T) {
	f := newHandlerFixture(t)

	c, rec := f.request(t, http.MethodPost, "/catalogs",
		`{"name":"No Locales","vertical":"home","locales":[]}`)
	require.NoError(t, f.catalogs.CreateCatalog(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateCatalogEndpointNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	c, rec := f.request(t, http.MethodPut, "/catalogs/999", `{"name":"Ghost"}`)
	c.SetParamNames("id")
	c.SetParamValues("999")
	require.NoError(t, f.catalogs.UpdateCatalog(c))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkDeleteEndpointReportsCount(t *testing.T) {
	f := newHandlerFixture(t)
	catalogs := []model.Catalog{
		{Name: "One", Vertical: model.VerticalFashion, Locales: model.LocaleList{"en_US"}, TenantID: f.tenantID},
		{Name: "Two", Vertical: model.VerticalHome, Locales: model.LocaleList{"en_US"}, TenantID: f.tenantID},
	}
	require.NoError(t, f.db.Create(&catalogs).Error)

	c, rec := f.request(t, http.MethodPost, "/catalogs/bulk_delete", `{"ids":[1,2,999]}`)
	require.NoError(t, f.catalogs.BulkDeleteCatalogs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 2, body["deletedCount"])
}

func TestIndexSelectedEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	catalog := model.Catalog{Name: "One", Vertical: model.VerticalFashion, Locales: model.LocaleList{"en_US"}, TenantID: f.tenantID}
	require.NoError(t, f.db.Create(&catalog).Error)

	c, rec := f.request(t, http.MethodPost, "/catalogs/index_selected", `{"ids":[1]}`)
	require.NoError(t, f.catalogs.IndexSelectedCatalogs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	indexed, ok := body["indexedCatalogs"].([]interface{})
	require.True(t, ok)
	assert.Len(t, indexed, 1)
}

func TestListCatalogsEndpoint(t *testing.T) {
	f := newHandlerFixture(t)
	catalogs := []model.Catalog{
		{Name: "One", Vertical: model.VerticalFashion, Locales: model.LocaleList{"en_US", "fr_FR"}, TenantID: f.tenantID},
		{Name: "Two", Vertical: model.VerticalHome, Locales: model.LocaleList{"en_US"}, TenantID: f.tenantID},
	}
	require.NoError(t, f.db.Create(&catalogs).Error)

	c, rec := f.request(t, http.MethodGet, "/catalogs?multiLocale=true", "")
	require.NoError(t, f.catalogs.ListCatalogs(c))

	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody(t, rec)
	assert.EqualValues(t, 1, body["total"])
}

func TestListCatalogsEndpointRejectsBadMultiLocale(t *testing.T) {
	f := newHandlerFixture(t)

	c, rec := f.request(t, http.MethodGet, "/catalogs?multiLocale=sometimes", "")
	require.NoError(t, f.catalogs.ListCatalogs(c))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
