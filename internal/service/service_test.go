package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/auth-service/internal/config"
	"github.com/spec-kit/auth-service/internal/domain"
)

// --- fakes ---

type fakeUserRepo struct {
	users     map[string]*domain.User // keyed by id
	createErr error
	// hideFromGet simulates a concurrent registration: the advisory
	// pre-check misses, the unique constraint still fires on insert.
	hideFromGet bool
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*domain.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	user.ID = uuid.NewString()
	clone := *user
	f.users[user.ID] = &clone
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.User, error) {
	if user, ok := f.users[id]; ok && !f.hideFromGet {
		clone := *user
		return &clone, nil
	}
	return nil, pgx.ErrNoRows
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	if f.hideFromGet {
		return nil, pgx.ErrNoRows
	}
	for _, user := range f.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

type fakeRefreshRepo struct {
	records   []domain.RefreshTokenRecord
	createErr error
}

func (f *fakeRefreshRepo) Create(_ context.Context, record *domain.RefreshTokenRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	record.ID = uuid.NewString()
	f.records = append(f.records, *record)
	return nil
}

func (f *fakeRefreshRepo) FindByUser(_ context.Context, userID string) ([]domain.RefreshTokenRecord, error) {
	var out []domain.RefreshTokenRecord
	for _, rec := range f.records {
		if rec.UserID == userID {
			out = append(out, rec)
		}
	}
	return out, nil
}

var errStorageDown = errors.New("connection refused")

// --- helpers ---

func testAuthConfig(t *testing.T) config.AuthConfig {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	pemBytes := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	path := filepath.Join(t.TempDir(), "private.pem")
	require.NoError(t, os.WriteFile(path, pemBytes, 0o600))

	return config.AuthConfig{
		Issuer:                "auth-service",
		PrivateKeyPath:        path,
		RefreshTokenSecret:    "test-refresh-secret",
		CookieDomain:          "localhost",
		AccessTokenTTLMinutes: 60,
		BcryptCost:            4,
	}
}
