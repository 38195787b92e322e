package auth

import (
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/golang-jwt/jwt/v5"
)

// TokenGenerator issues and verifies bearer tokens for a username.
type TokenGenerator interface {
	GenerateAccessToken(username string) (token string, err error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Claims carries the username in the standard subject claim.
type Claims struct {
	jwt.RegisteredClaims
}

type JWTTokenGenerator struct {
	Secret []byte
	TTL    time.Duration
	now    func() time.Time
}

const TokenTypeBearer = "bearer"

type TokenResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	User        *internal.User `json:"user"`
}
