package service

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"quizlink/internal/cache"
	"quizlink/internal/config"
	"quizlink/internal/domain"
	"quizlink/internal/dto"
	"quizlink/internal/validation"
)

const exportTokenSubject = "export"

var ErrInvalidExportToken = errors.New("invalid export token")

// AuthService gates result export behind a teacher passphrase and
// issues short-lived export tokens once the passphrase checks out.
type AuthService interface {
	SetPassphrase(ctx context.Context, passphrase string) error
	HasPassphrase(ctx context.Context) (bool, error)
	Unlock(ctx context.Context, passphrase string) (*dto.TokenResponse, error)
	ValidateToken(tokenString string) error
}

type authServiceImpl struct {
	cacheService domain.Cache
	authCfg      config.AuthConfig
	validator    *validation.Validator
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(cacheService domain.Cache, authCfg config.AuthConfig) AuthService {
	return &authServiceImpl{
		cacheService: cacheService,
		authCfg:      authCfg,
		validator:    validation.NewValidator(),
	}
}

// SetPassphrase hashes and stores the export passphrase.
func (s *authServiceImpl) SetPassphrase(ctx context.Context, passphrase string) error {
	if errs := s.validator.ValidatePassphrase(passphrase); errs.HasErrors() {
		return errs
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(passphrase), bcrypt.DefaultCost)
	if err != nil {
		return domain.NewInternalError("failed to hash passphrase", err)
	}
	if err := s.cacheService.Set(ctx, cache.KeyPassphraseHash, string(hash), 0); err != nil {
		return domain.NewInternalError("failed to store passphrase", err)
	}
	return nil
}

// HasPassphrase reports whether an export passphrase has been set.
func (s *authServiceImpl) HasPassphrase(ctx context.Context) (bool, error) {
	_, err := s.cacheService.Get(ctx, cache.KeyPassphraseHash)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return false, nil
		}
		return false, domain.NewInternalError("failed to read passphrase", err)
	}
	return true, nil
}

// Unlock checks the passphrase and issues an export token.
func (s *authServiceImpl) Unlock(ctx context.Context, passphrase string) (*dto.TokenResponse, error) {
	hash, err := s.cacheService.Get(ctx, cache.KeyPassphraseHash)
	if err != nil {
		if errors.Is(err, domain.ErrCacheMiss) {
			return nil, domain.NewUnauthorizedError("no export passphrase has been set")
		}
		return nil, domain.NewInternalError("failed to read passphrase", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(passphrase)); err != nil {
		return nil, domain.NewInvalidPassphraseError()
	}

	expiresAt := time.Now().Add(s.authCfg.ExportTokenTTL)
	claims := jwt.RegisteredClaims{
		Subject:   exportTokenSubject,
		ExpiresAt: jwt.NewNumericDate(expiresAt),
		IssuedAt:  jwt.NewNumericDate(time.Now()),
		NotBefore: jwt.NewNumericDate(time.Now()),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authCfg.JWTSecret))
	if err != nil {
		return nil, domain.NewInternalError("failed to sign export token", err)
	}
	return &dto.TokenResponse{Token: signed, ExpiresAt: expiresAt}, nil
}

// ValidateToken checks an export token's signature, expiry and subject.
func (s *authServiceImpl) ValidateToken(tokenString string) error {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidExportToken
		}
		return []byte(s.authCfg.JWTSecret), nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return domain.NewUnauthorizedError("export token has expired")
		}
		return domain.NewUnauthorizedError("export token is invalid")
	}
	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject != exportTokenSubject {
		return domain.NewUnauthorizedError("export token is invalid")
	}
	return nil
}
