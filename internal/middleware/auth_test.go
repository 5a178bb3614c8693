package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-service/pkg/config"
	"catalog-service/pkg/jwtutil"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAuthMiddleware(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, bool) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/catalogs", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	nextCalled := false
	handler := AuthMiddleware(func(c echo.Context) error {
		nextCalled = true
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, c, nextCalled
}

func TestAuthMiddlewareMissingHeader(t *testing.T) {
	rec, _, nextCalled := runAuthMiddleware(t, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
}

func TestAuthMiddlewareMalformedHeader(t *testing.T) {
	rec, _, nextCalled := runAuthMiddleware(t, "Token abc")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
}

func TestAuthMiddlewareInvalidToken(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "middleware-test-key", ExpirationHours: 1})

	rec, _, nextCalled := runAuthMiddleware(t, "Bearer garbage")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, nextCalled)
}

func TestAuthMiddlewareValidTokenSetsContext(t *testing.T) {
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "middleware-test-key", ExpirationHours: 1})
	token, err := jwtutil.GenerateToken("alice@example.com", 7, 3)
	require.NoError(t, err)

	rec, c, nextCalled := runAuthMiddleware(t, "Bearer "+token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, nextCalled)

	assert.EqualValues(t, 7, c.Get(ContextUserIDKey))
	assert.Equal(t, "alice@example.com", c.Get(ContextEmailKey))
	assert.EqualValues(t, 3, c.Get(ContextTenantIDKey))
}
