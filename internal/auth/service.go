package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	"github.com/frahmantamala/asset-tracking/internal/core/common/validation"
	userDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/user"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository returns (nil, nil) when the username is unknown.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
}

// Service is the main auth service with dependencies
type Service struct {
	userRepo       UserRepository
	tokenGenerator TokenGenerator
	logger         *slog.Logger
}

// NewService creates a new auth service
func NewService(userRepo UserRepository, tokenGen TokenGenerator, logger *slog.Logger) *Service {
	return &Service{
		userRepo:       userRepo,
		tokenGenerator: tokenGen,
		logger:         logger,
	}
}

// NewJWTTokenGenerator creates a new HS256 token generator
func NewJWTTokenGenerator(secret string, ttl time.Duration) *JWTTokenGenerator {
	if ttl <= 0 {
		ttl = internal.DefaultTokenDuration
	}
	return &JWTTokenGenerator{
		Secret: []byte(secret),
		TTL:    ttl,
		now:    time.Now,
	}
}

// WithClock overrides the time source, used to mint already expired tokens in tests.
func (j *JWTTokenGenerator) WithClock(now func() time.Time) *JWTTokenGenerator {
	j.now = now
	return j
}

// Authenticate validates credentials and returns a bearer token
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (TokenResponse, error) {
	if err := validation.Struct(dto); err != nil {
		return TokenResponse{}, err
	}

	stored, err := s.userRepo.GetByUsername(ctx, dto.Username)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to load user", err)
	}
	if stored == nil {
		s.logger.Warn("login rejected: unknown user", "username", dto.Username)
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte(dto.Password)); err != nil {
		s.logger.Warn("login rejected: bad password", "username", dto.Username)
		return TokenResponse{}, internal.ErrInvalidCredentials
	}

	token, err := s.tokenGenerator.GenerateAccessToken(stored.Username)
	if err != nil {
		return TokenResponse{}, internal.NewInternalError("failed to issue token", err)
	}

	s.logger.Info("user logged in", "username", stored.Username, "role", stored.Role)

	return TokenResponse{
		AccessToken: token,
		TokenType:   TokenTypeBearer,
		User: &internal.User{
			ID:       stored.ID,
			Username: stored.Username,
			Role:     stored.Role,
			FullName: stored.FullName,
		},
	}, nil
}

// ResolveUser validates the token and loads the user its subject names.
func (s *Service) ResolveUser(ctx context.Context, tokenString string) (*internal.User, error) {
	if tokenString == "" {
		return nil, internal.ErrMissingToken
	}

	claims, err := s.tokenGenerator.ValidateToken(tokenString)
	if err != nil {
		return nil, err
	}

	stored, err := s.userRepo.GetByUsername(ctx, claims.Subject)
	if err != nil {
		return nil, internal.NewInternalError("failed to load user", err)
	}
	if stored == nil {
		return nil, internal.ErrUserNotFound
	}

	return &internal.User{
		ID:       stored.ID,
		Username: stored.Username,
		Role:     stored.Role,
		FullName: stored.FullName,
	}, nil
}

// GenerateAccessToken signs an HS256 token whose subject is the username
func (j *JWTTokenGenerator) GenerateAccessToken(username string) (string, error) {
	now := j.now()

	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   username,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(j.TTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.Secret)
}

// ValidateToken validates a JWT token and returns claims
func (j *JWTTokenGenerator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Secret, nil
	}, jwt.WithTimeFunc(j.now), jwt.WithExpirationRequired())

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, internal.ErrTokenExpired
		}
		return nil, internal.ErrInvalidToken.WithCause(err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, internal.ErrInvalidToken
	}

	return claims, nil
}
