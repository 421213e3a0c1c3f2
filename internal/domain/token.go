package domain

// TokenPayload is the claim set embedded into both access and refresh tokens.
type TokenPayload struct {
	Subject string
	Role    Role
}
