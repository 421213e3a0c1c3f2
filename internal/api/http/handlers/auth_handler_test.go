package handlers_test

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/json"
	"encoding/pem"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/auth-service/internal/api/http"
	"github.com/spec-kit/auth-service/internal/api/http/handlers"
	"github.com/spec-kit/auth-service/internal/auth"
	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
	"github.com/spec-kit/auth-service/internal/events"
	"github.com/spec-kit/auth-service/internal/observability"
	"github.com/spec-kit/auth-service/internal/service"
)

type memUserRepo struct {
	users map[string]*domain.User
}

func (m *memUserRepo) Create(_ context.Context, user *domain.User) error {
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	user.ID = uuid.NewString()
	clone := *user
	m.users[user.ID] = &clone
	return nil
}

func (m *memUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := m.users[id]; ok {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type memRefreshRepo struct {
	records []domain.RefreshTokenRecord
}

func (m *memRefreshRepo) Create(_ context.Context, record *domain.RefreshTokenRecord) error {
	record.ID = uuid.NewString()
	m.records = append(m.records, *record)
	return nil
}

func (m *memRefreshRepo) FindByUser(_ context.Context, userID string) ([]domain.RefreshTokenRecord, error) {
	var out []domain.RefreshTokenRecord
	for _, rec := range m.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type fixture struct {
	app     *fiber.App
	users   *memUserRepo
	refresh *memRefreshRepo
	tokens  *service.TokenService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	keyPath := filepath.Join(t.TempDir(), "private.pem")
	require.NoError(t, os.WriteFile(keyPath, pemBytes, 0o600))

	authCfg := config.AuthConfig{
		Issuer:                "auth-service",
		PrivateKeyPath:        keyPath,
		RefreshTokenSecret:    "test-refresh-secret",
		CookieDomain:          "localhost",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}

	f := &fixture{
		users:   &memUserRepo{users: make(map[string]*domain.User)},
		refresh: &memRefreshRepo{},
	}

	logger := zap.NewNop()
	dispatcher := events.NewInMemoryDispatcher()
	f.tokens = service.NewTokenService(authCfg, f.refresh)
	authService := service.NewAuthService(
		service.NewUserService(f.users, authCfg.BcryptCost),
		f.tokens,
		service.NewCredentialService(),
		dispatcher,
		logger,
	)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, observability.NewMetrics(), 0)
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler("auth-service", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService, authCfg),
		AuthMiddleware: auth.NewAuthMiddleware(f.tokens.Issuer(), f.users),
	})
	f.app = app
	return f
}

func (f *fixture) post(t *testing.T, path string, body any) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	return resp
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

func cookieByName(resp *http.Response, name string) *http.Cookie {
	for _, c := range resp.Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

var validRegisterBody = map[string]string{
	"firstName": "John",
	"lastName":  "Doe",
	"email":     "johndoe@gmail.com",
	"password":  "something",
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp := f.post(t, "/auth/register", validRegisterBody)
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	body := decodeBody(t, resp)
	id, _ := body["id"].(string)
	require.NotEmpty(t, id)
	require.Len(t, f.users.users, 1)
	assert.Contains(t, f.users.users, id)

	for _, name := range []string{"accessToken", "refreshToken"} {
		cookie := cookieByName(resp, name)
		require.NotNil(t, cookie, "missing %s cookie", name)
		assert.True(t, cookie.HttpOnly)
		assert.Equal(t, http.SameSiteStrictMode, cookie.SameSite)
		assert.Len(t, strings.Split(cookie.Value, "."), 3)
	}

	// refresh cookie jti must match the single persisted record
	records, err := f.refresh.FindByUser(context.Background(), id)
	require.NoError(t, err)
	require.Len(t, records, 1)

	claims, err := f.tokens.Issuer().ParseRefreshToken(cookieByName(resp, "refreshToken").Value)
	require.NoError(t, err)
	assert.Equal(t, records[0].ID, claims.ID)
}

func TestRegisterEndpoint_DuplicateEmail(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	first := f.post(t, "/auth/register", validRegisterBody)
	require.Equal(t, http.StatusCreated, first.StatusCode)

	second := f.post(t, "/auth/register", validRegisterBody)
	assert.Equal(t, http.StatusBadRequest, second.StatusCode)
	assert.Len(t, f.users.users, 1)
}

func TestRegisterEndpoint_ValidationErrors(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	resp := f.post(t, "/auth/register", map[string]string{
		"firstName": "John",
		"email":     "invalid-email",
		"password":  "short",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	body := decodeBody(t, resp)
	errs, ok := body["errors"].([]any)
	require.True(t, ok, "expected errors list, got %v", body)
	assert.Len(t, errs, 3)
	assert.Empty(t, f.users.users)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.post(t, "/auth/register", validRegisterBody)
	require.Equal(t, http.StatusCreated, reg.StatusCode)

	cases := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"correct credentials", map[string]string{"email": "johndoe@gmail.com", "password": "something"}, http.StatusOK},
		{"wrong password", map[string]string{"email": "johndoe@gmail.com", "password": "wrongpassword"}, http.StatusUnauthorized},
		{"unknown email", map[string]string{"email": "nonexistent@gmail.com", "password": "dummy"}, http.StatusNotFound},
		{"malformed email", map[string]string{"email": "invalid-email", "password": "something"}, http.StatusBadRequest},
		{"missing password", map[string]string{"email": "johndoe@gmail.com"}, http.StatusBadRequest},
		{"sql injection attempt", map[string]string{"email": "john@example.com'; DROP TABLE users; --", "password": "something"}, http.StatusBadRequest},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := f.post(t, "/auth/login", tc.body)
			assert.Equal(t, tc.wantStatus, resp.StatusCode)

			if tc.wantStatus == http.StatusOK {
				assert.NotNil(t, cookieByName(resp, "accessToken"))
				assert.NotNil(t, cookieByName(resp, "refreshToken"))
			}
		})
	}
}

func TestSelfEndpoint(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	reg := f.post(t, "/auth/register", validRegisterBody)
	require.Equal(t, http.StatusCreated, reg.StatusCode)
	access := cookieByName(reg, "accessToken")
	require.NotNil(t, access)

	req, err := http.NewRequest(http.MethodGet, "/auth/self", nil)
	require.NoError(t, err)
	req.AddCookie(access)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	assert.Equal(t, "johndoe@gmail.com", body["email"])
	assert.Equal(t, string(domain.RoleCustomer), body["role"])
	assert.NotContains(t, body, "password")
	assert.NotContains(t, body, "passwordHash")
}

func TestSelfEndpoint_Unauthenticated(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	req, err := http.NewRequest(http.MethodGet, "/auth/self", nil)
	require.NoError(t, err)

	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
