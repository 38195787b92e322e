package user

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	userDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/user"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Repository returns (nil, nil) from lookups when no row matches.
type Repository interface {
	GetByID(ctx context.Context, id string) (*userDatamodel.User, error)
	GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error)
	Create(ctx context.Context, u *userDatamodel.User) error
	List(ctx context.Context) ([]*userDatamodel.User, error)
}

type Service struct {
	repo       Repository
	bcryptCost int
	logger     *slog.Logger
}

func NewService(repo Repository, bcryptCost int, logger *slog.Logger) *Service {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Service{
		repo:       repo,
		bcryptCost: bcryptCost,
		logger:     logger,
	}
}

// EnsureUser creates the account when the username is free and leaves an
// existing account untouched. It reports whether a row was created.
func (s *Service) EnsureUser(ctx context.Context, username, password, role, fullName string) (bool, error) {
	if !ValidRole(role) {
		return false, internal.NewValidationFieldError("role", fmt.Sprintf("role must be %s or %s", internal.RoleAdmin, internal.RoleViewer), internal.ErrCodeValidationFailed)
	}

	existing, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return false, fmt.Errorf("failed to look up user %s: %w", username, err)
	}
	if existing != nil {
		s.logger.Debug("user already present", "username", username)
		return false, nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return false, fmt.Errorf("failed to hash password: %w", err)
	}

	u := &User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		Role:         role,
		FullName:     fullName,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, ToDataModel(u)); err != nil {
		return false, fmt.Errorf("failed to create user %s: %w", username, err)
	}

	s.logger.Info("user created", "username", username, "role", role, "user_id", u.ID)
	return true, nil
}

func (s *Service) GetByUsername(ctx context.Context, username string) (*User, error) {
	dm, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("failed to get user by username: %w", err)
	}
	if dm == nil {
		return nil, internal.ErrUserNotFound
	}
	return FromDataModel(dm), nil
}

func (s *Service) List(ctx context.Context) ([]*User, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*User, 0, len(rows))
	for _, row := range rows {
		users = append(users, FromDataModel(row))
	}
	return users, nil
}
