package service

import (
	"context"
	"time"

	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/repository"
	"github.com/spec-kit/auth-service/pkg/util"
)

// TokenService issues access and refresh tokens and persists the store-side
// record every refresh token is bound to. Persist-then-sign is a deliberate
// two-step sequence: the record must exist before a token carrying its id is
// signed. The steps are not transactional; a signing failure after persistence
// leaves an orphan record behind, which external cleanup may reap.
type TokenService struct {
	issuer    *auth.TokenIssuer
	records   repository.RefreshTokenRepository
	accessTTL time.Duration
}

// NewTokenService builds the service.
func NewTokenService(cfg config.AuthConfig, records repository.RefreshTokenRepository) *TokenService {
	return &TokenService{
		issuer:    auth.NewTokenIssuer(cfg),
		records:   records,
		accessTTL: cfg.AccessTokenTTL(),
	}
}

// GenerateAccessToken signs a short-lived RS256 token for the payload.
func (s *TokenService) GenerateAccessToken(payload domain.TokenPayload) (string, error) {
	return s.issuer.GenerateAccessToken(payload)
}

// GenerateRefreshToken signs a long-lived HS256 token whose jti claim is the
// id of an already persisted refresh-token record.
func (s *TokenService) GenerateRefreshToken(payload domain.TokenPayload, tokenID string) (string, error) {
	return s.issuer.GenerateRefreshToken(payload, tokenID)
}

// PersistRefreshToken stores a new refresh-token record for the user and
// returns it, carrying the id the caller embeds in the signed token.
func (s *TokenService) PersistRefreshToken(ctx context.Context, user *domain.User) (*domain.RefreshTokenRecord, error) {
	record := &domain.RefreshTokenRecord{
		UserID:    user.ID,
		ExpiresAt: time.Now().Add(RefreshTokenLifetime()),
	}
	if err := s.records.Create(ctx, record); err != nil {
		return nil, util.NewStorageError(err)
	}
	return record, nil
}

// AccessTokenTTL returns the configured access token lifetime.
func (s *TokenService) AccessTokenTTL() time.Duration {
	return s.accessTTL
}

// Issuer exposes the underlying token issuer for middleware usage.
func (s *TokenService) Issuer() *auth.TokenIssuer {
	return s.issuer
}

// RefreshTokenLifetime returns the refresh token lifetime as of now: 365 or
// 366 days depending on whether the current calendar year is a leap year.
func RefreshTokenLifetime() time.Duration {
	return time.Duration(util.DaysInYear(time.Now().Year())) * 24 * time.Hour
}
