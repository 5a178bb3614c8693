package service

import (
	"errors"
	"fmt"

	"catalog-service/internal/model"
	"catalog-service/pkg/jwtutil"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// dummyHash keeps unknown-email and wrong-password attempts on the same code
// path cost-wise: a bcrypt comparison runs either way.
var dummyHash = []byte("$2a$10$4BoPOypigXDiI7QHaQRp5OmpSFbmsT1K82z1i9fFCImP9Wi1K4apy")

// UserIdentity is the projection of an authenticated user handed to token issuance
type UserIdentity struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	TenantID uint   `json:"tenant_id"`
}

// Session is the login response payload
type Session struct {
	Username string `json:"username"`
	Token    string `json:"token"`
}

// AuthService verifies credentials and issues signed session tokens
type AuthService struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewAuthService(db *gorm.DB, log *zap.Logger) *AuthService {
	return &AuthService{db: db, log: log}
}

// ValidateCredentials looks up the user by email and compares the supplied
// password against the stored bcrypt hash. Unknown email and wrong password
// both return ErrInvalidCredentials; the caller cannot tell them apart.
func (s *AuthService) ValidateCredentials(email, password string) (*UserIdentity, error) {
	var user model.User
	result := s.db.Where("email = ?", email).First(&user)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			return nil, ErrInvalidCredentials
		}
		s.log.Error("Credential lookup failed", zap.Error(result.Error))
		return nil, fmt.Errorf("credential lookup: %w", result.Error)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return &UserIdentity{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		TenantID: user.TenantID,
	}, nil
}

// IssueSession constructs a signed token carrying the user's email, id and
// tenant id with the configured expiry. There is no refresh or revocation.
func (s *AuthService) IssueSession(identity *UserIdentity) (*Session, error) {
	token, err := jwtutil.GenerateToken(identity.Email, identity.ID, identity.TenantID)
	if err != nil {
		s.log.Error("Failed to generate session token", zap.Error(err))
		return nil, fmt.Errorf("token generation: %w", err)
	}

	return &Session{
		Username: identity.Username,
		Token:    token,
	}, nil
}
