package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/pkg/util"
)

// TokenPair bundles freshly issued tokens with their cookie lifetimes.
type TokenPair struct {
	AccessToken     string
	RefreshToken    string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	RecordID        string
}

// AuthService coordinates registration and login flows: user resolution,
// credential verification and token issuance.
type AuthService struct {
	users       *UserService
	tokens      *TokenService
	credentials *CredentialService
	dispatcher  events.Dispatcher
	logger      *zap.Logger
}

// NewAuthService builds the orchestrator.
func NewAuthService(users *UserService, tokens *TokenService, credentials *CredentialService, dispatcher events.Dispatcher, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:       users,
		tokens:      tokens,
		credentials: credentials,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

// Register creates a new account and issues both tokens.
func (s *AuthService) Register(ctx context.Context, firstName, lastName, email, password string) (*domain.User, *TokenPair, error) {
	s.logger.Debug("new request to register a user",
		zap.String("first_name", firstName),
		zap.String("last_name", lastName),
		zap.String("email", email),
		zap.String("password", "****"),
	)

	user, err := s.users.Create(ctx, firstName, lastName, email, password)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user registered successfully", zap.String("id", user.ID))

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{
		Email: user.Email,
		Role:  user.Role,
	})
	return user, pair, nil
}

// Login authenticates an existing account and issues both tokens.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}

	if !s.credentials.ValidatePassword(password, user.PasswordHash) {
		return nil, nil, util.NewUnauthorized("email or password does not match")
	}
	s.logger.Info("user logged in successfully", zap.String("id", user.ID))

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Email: user.Email})
	return user, pair, nil
}

// issueTokens performs the persist-then-sign sequence shared by both flows.
func (s *AuthService) issueTokens(ctx context.Context, user *domain.User) (*TokenPair, error) {
	payload := domain.TokenPayload{Subject: user.ID, Role: user.Role}

	accessToken, err := s.tokens.GenerateAccessToken(payload)
	if err != nil {
		return nil, err
	}

	record, err := s.tokens.PersistRefreshToken(ctx, user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(payload, record.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTokensIssued, user.ID, events.TokensIssuedPayload{
		RefreshTokenRecordID: record.ID,
		RefreshTokenExpires:  record.ExpiresAt,
	})

	return &TokenPair{
		AccessToken:     accessToken,
		RefreshToken:    refreshToken,
		AccessTokenTTL:  s.tokens.AccessTokenTTL(),
		RefreshTokenTTL: RefreshTokenLifetime(),
		RecordID:        record.ID,
	}, nil
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
