package service

import (
	"testing"

	"catalog-service/pkg/config"
	"catalog-service/pkg/jwtutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	db := newTestDB(t)
	svc := NewAuthService(db, zap.NewNop())

	tenant := createTenant(t, db, "Acme")
	createUser(t, db, "alice", "alice@example.com", "s3cret", tenant.ID)
	return svc
}

func TestValidateCredentials(t *testing.T) {
	svc := newTestAuthService(t)

	identity, err := svc.ValidateCredentials("alice@example.com", "s3cret")
	require.NoError(t, err)

	assert.Equal(t, "alice", identity.Username)
	assert.Equal(t, "alice@example.com", identity.Email)
	assert.NotZero(t, identity.ID)
	assert.NotZero(t, identity.TenantID)
}

func TestValidateCredentialsUniformFailure(t *testing.T) {
	svc := newTestAuthService(t)

	// Wrong password and unknown email must be indistinguishable
	_, wrongPassword := svc.ValidateCredentials("alice@example.com", "nope")
	_, unknownEmail := svc.ValidateCredentials("nobody@example.com", "s3cret")

	assert.ErrorIs(t, wrongPassword, ErrInvalidCredentials)
	assert.ErrorIs(t, unknownEmail, ErrInvalidCredentials)
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestIssueSessionTokenCarriesClaims(t *testing.T) {
	svc := newTestAuthService(t)
	jwtutil.Initialize(&config.JWTConfig{SigningKey: "test-signing-key", ExpirationHours: 1})

	identity, err := svc.ValidateCredentials("alice@example.com", "s3cret")
	require.NoError(t, err)

	session, err := svc.IssueSession(identity)
	require.NoError(t, err)
	assert.Equal(t, "alice", session.Username)
	require.NotEmpty(t, session.Token)

	claims, err := jwtutil.ValidateToken(session.Token)
	require.NoError(t, err)
	assert.Equal(t, identity.Email, claims.Email)
	assert.Equal(t, identity.ID, claims.UserID)
	assert.Equal(t, identity.TenantID, claims.TenantID)
}
