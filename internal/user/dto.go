// AngelaMos | 2026
// dto.go

package user

import (
	"time"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=128"`
	Name     string `json:"name"     validate:"required,min=2,max=100"`
	Role     string `json:"role"     validate:"omitempty,oneof=ADMIN MANAGER INSTRUCTOR"`
}

// UpdateUserRequest is the admin edit. A role change invalidates the
// user's outstanding access tokens.
type UpdateUserRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
	Role *string `json:"role,omitempty" validate:"omitempty,oneof=ADMIN MANAGER INSTRUCTOR"`
}

type UpdateMeRequest struct {
	Name *string `json:"name,omitempty" validate:"omitempty,min=2,max=100"`
}

type UpdateUserRoleRequest struct {
	Role string `json:"role" validate:"required,oneof=ADMIN MANAGER INSTRUCTOR"`
}

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type InstructorResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type ListUsersParams struct {
	core.PageParams
	Search string
	Role   string
}

func ToUserResponse(u *User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func ToUserResponseList(users []User) []UserResponse {
	out := make([]UserResponse, len(users))
	for i := range users {
		out[i] = ToUserResponse(&users[i])
	}
	return out
}

func ToInstructorResponseList(users []User) []InstructorResponse {
	out := make([]InstructorResponse, len(users))
	for i, u := range users {
		out[i] = InstructorResponse{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
	}
	return out
}
