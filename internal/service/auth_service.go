package service

import (
	"crypto/subtle"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dfma-ops/checkin-api/internal/models"
	appErrors "github.com/dfma-ops/checkin-api/pkg/errors"
)

// AuthConfig defines the shared-secret admin gate.
type AuthConfig struct {
	Password  string
	JWTSecret string
	JWTExpiry time.Duration
	Issuer    string
}

// AuthService exchanges the shared admin password for a short-lived JWT.
// There is a single admin identity and no user store.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.JWTExpiry <= 0 {
		config.JWTExpiry = 12 * time.Hour
	}
	return &AuthService{validator: validate, logger: logger, config: config}
}

// Login verifies the shared password and issues a token.
func (s *AuthService) Login(req models.LoginRequest) (*models.LoginResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload")
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.config.Password)) != 1 {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid admin password")
	}

	now := time.Now().UTC()
	expiresAt := now.Add(s.config.JWTExpiry)
	claims := models.AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "admin",
			Issuer:    s.config.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign token")
	}

	s.logger.Info("admin login")
	return &models.LoginResponse{Token: token, ExpiresAt: expiresAt.Unix()}, nil
}

// ValidateToken parses and checks an admin bearer token.
func (s *AuthService) ValidateToken(raw string) (*models.AdminClaims, error) {
	claims := &models.AdminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "unexpected signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired token")
	}
	return claims, nil
}
