package auth

import (
	"errors"
	"os"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/pkg/util"
)

// Claims describes the JWT payload for both token kinds. Refresh tokens
// additionally set RegisteredClaims.ID to the persisted record id.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// TokenIssuer signs access tokens with an RSA private key read from disk and
// refresh tokens with a shared HS256 secret. The key file is re-read on every
// signing call so the key can be rotated without a restart; only the paths
// and the secret live for the process lifetime.
type TokenIssuer struct {
	privateKeyPath string
	refreshSecret  []byte
	issuer         string
	accessTTL      time.Duration
}

// NewTokenIssuer builds an issuer from auth configuration.
func NewTokenIssuer(cfg config.AuthConfig) *TokenIssuer {
	return &TokenIssuer{
		privateKeyPath: cfg.PrivateKeyPath,
		refreshSecret:  []byte(cfg.RefreshTokenSecret),
		issuer:         cfg.Issuer,
		accessTTL:      cfg.AccessTokenTTL(),
	}
}

// GenerateAccessToken signs the payload with RS256, expiring after the
// configured access TTL. An unreadable or unparsable key surfaces as a
// configuration error so the caller can distinguish it from bad input.
func (ti *TokenIssuer) GenerateAccessToken(payload domain.TokenPayload) (string, error) {
	keyBytes, err := os.ReadFile(ti.privateKeyPath)
	if err != nil {
		return "", util.NewConfigurationError("error while reading private key", err)
	}

	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return "", util.NewConfigurationError("error while parsing private key", err)
	}

	now := time.Now()
	claims := &Claims{
		Role: payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			Issuer:    ti.issuer,
			ExpiresAt: jwt.NewNumericDate(now.Add(ti.accessTTL)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	return token.SignedString(privateKey)
}

// GenerateRefreshToken signs the payload with HS256. The lifetime is 365 or
// 366 days depending on whether the current year is a leap year, and the jti
// claim is set to the persisted refresh-token record id the caller obtained
// beforehand.
func (ti *TokenIssuer) GenerateRefreshToken(payload domain.TokenPayload, tokenID string) (string, error) {
	now := time.Now()
	expiryInDays := util.DaysInYear(now.Year())

	claims := &Claims{
		Role: payload.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   payload.Subject,
			Issuer:    ti.issuer,
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expiryInDays) * 24 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(ti.refreshSecret)
}

// ParseAccessToken validates an RS256 access token against the public half
// of the signing key and returns its claims.
func (ti *TokenIssuer) ParseAccessToken(tokenStr string) (*Claims, error) {
	keyBytes, err := os.ReadFile(ti.privateKeyPath)
	if err != nil {
		return nil, util.NewConfigurationError("error while reading private key", err)
	}
	privateKey, err := jwt.ParseRSAPrivateKeyFromPEM(keyBytes)
	if err != nil {
		return nil, util.NewConfigurationError("error while parsing private key", err)
	}

	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodRS256 {
			return nil, errors.New("unexpected signing method")
		}
		return &privateKey.PublicKey, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

// ParseRefreshToken validates an HS256 refresh token and returns its claims.
func (ti *TokenIssuer) ParseRefreshToken(tokenStr string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return ti.refreshSecret, nil
	})
	if err != nil {
		return nil, err
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}
