package domain

import "time"

// RefreshTokenRecord is the persisted counterpart of an issued refresh token.
// The signed token carries this record's ID in its jti claim, so a token can
// be checked against the store without parsing anything else.
type RefreshTokenRecord struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
