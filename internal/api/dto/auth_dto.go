package dto

import "github.com/spec-kit/auth-service/internal/domain"

// RegisterRequest payload for new users.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Values exposes the payload to the declarative validation schema.
func (r RegisterRequest) Values() map[string]string {
	return map[string]string{
		"firstName": r.FirstName,
		"lastName":  r.LastName,
		"email":     r.Email,
		"password":  r.Password,
	}
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Values exposes the payload to the declarative validation schema.
func (r LoginRequest) Values() map[string]string {
	return map[string]string{
		"email":    r.Email,
		"password": r.Password,
	}
}

// AuthResponse is the body of a successful register or login.
type AuthResponse struct {
	ID string `json:"id"`
}

// UserResponse describes the authenticated user. The password hash is never
// part of any response shape.
type UserResponse struct {
	ID        string      `json:"id"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
}

// NewUserResponse maps a domain user onto the response shape.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      user.Role,
	}
}
