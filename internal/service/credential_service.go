package service

import "github.com/spec-kit/auth-service/internal/auth"

// CredentialService verifies plaintext passwords against stored hashes.
type CredentialService struct{}

// NewCredentialService builds the service.
func NewCredentialService() *CredentialService {
	return &CredentialService{}
}

// ValidatePassword reports whether the plaintext matches the stored hash.
// Incorrect passwords yield false, never an error.
func (s *CredentialService) ValidatePassword(plain, hashed string) bool {
	return auth.ValidatePassword(plain, hashed)
}
