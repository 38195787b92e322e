package user

import (
	"time"

	"github.com/frahmantamala/asset-tracking/internal"
	userDatamodel "github.com/frahmantamala/asset-tracking/internal/core/datamodel/user"
)

type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	FullName     string    `json:"full_name"`
	CreatedAt    time.Time `json:"created_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == internal.RoleAdmin
}

// Principal is the request-scoped view of the user, without credentials.
func (u *User) Principal() *internal.User {
	return &internal.User{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		FullName: u.FullName,
	}
}

func ValidRole(role string) bool {
	return role == internal.RoleAdmin || role == internal.RoleViewer
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		FullName:     u.FullName,
		CreatedAt:    u.CreatedAt,
	}
}

func FromDataModel(u *userDatamodel.User) *User {
	return &User{
		ID:           u.ID,
		Username:     u.Username,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		FullName:     u.FullName,
		CreatedAt:    u.CreatedAt,
	}
}
