// AngelaMos | 2026
// entity.go

package user

import (
	"time"

	"github.com/carterperez-dev/gym-crm/internal/auth"
	"github.com/carterperez-dev/gym-crm/internal/notification"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

// User is a staff account. Instructors own students; managers and admins
// run the gym. Deletion is soft so notifications keep their recipient.
type User struct {
	ID           string     `db:"id"`
	Email        string     `db:"email"`
	PasswordHash string     `db:"password_hash"`
	Name         string     `db:"name"`
	Role         string     `db:"role"`
	TokenVersion int        `db:"token_version"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
	DeletedAt    *time.Time `db:"deleted_at"`
}

func (u *User) IsAdmin() bool {
	return u.Role == scope.RoleAdmin
}

func (u *User) Info() *auth.UserInfo {
	return &auth.UserInfo{
		ID:           u.ID,
		Email:        u.Email,
		Name:         u.Name,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		TokenVersion: u.TokenVersion,
	}
}

func (u *User) Contact() notification.Contact {
	return notification.Contact{ID: u.ID, Name: u.Name, Email: u.Email}
}
