// AngelaMos | 2026
// service.go

package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/carterperez-dev/gym-crm/internal/auth"
	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/notification"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) GetByID(
	ctx context.Context,
	id string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return user.Info(), nil
}

func (s *Service) GetByEmail(
	ctx context.Context,
	email string,
) (*auth.UserInfo, error) {
	user, err := s.repo.GetByEmail(ctx, strings.ToLower(email))
	if err != nil {
		return nil, err
	}

	return user.Info(), nil
}

// Create registers a self-service account, which is always an instructor.
func (s *Service) Create(
	ctx context.Context,
	email, passwordHash, name string,
) (*auth.UserInfo, error) {
	user, err := s.create(ctx, email, passwordHash, name, scope.RoleInstructor)
	if err != nil {
		return nil, err
	}
	return user.Info(), nil
}

func (s *Service) IncrementTokenVersion(
	ctx context.Context,
	userID string,
) error {
	return s.repo.IncrementTokenVersion(ctx, userID)
}

func (s *Service) UpdatePassword(
	ctx context.Context,
	userID, passwordHash string,
) error {
	return s.repo.UpdatePassword(ctx, userID, passwordHash)
}

// Contact resolves where a notification recipient can be reached.
func (s *Service) Contact(
	ctx context.Context,
	userID string,
) (notification.Contact, error) {
	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return notification.Contact{}, err
	}
	return user.Contact(), nil
}

func (s *Service) CreateUser(
	ctx context.Context,
	req CreateUserRequest,
) (*User, error) {
	role := req.Role
	if role == "" {
		role = scope.RoleInstructor
	}

	hash, err := core.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return s.create(ctx, req.Email, hash, req.Name, role)
}

func (s *Service) create(
	ctx context.Context,
	email, passwordHash, name, role string,
) (*User, error) {
	user := &User{
		ID:           uuid.New().String(),
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Name:         name,
		Role:         role,
	}

	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) UpdateUser(
	ctx context.Context,
	id string,
	req UpdateUserRequest,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.Role != nil {
		return s.changeRole(ctx, user, *req.Role)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

func (s *Service) UpdateUserRole(
	ctx context.Context,
	id, role string,
) (*User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return s.changeRole(ctx, user, role)
}

// changeRole saves user with the new role and bumps its token version so
// tokens carrying the old role stop working.
func (s *Service) changeRole(ctx context.Context, user *User, role string) (*User, error) {
	if !scope.ValidRole(role) {
		return nil, fmt.Errorf(
			"update role: invalid role %q: %w",
			role,
			core.ErrInvalidInput,
		)
	}

	changed := user.Role != role
	user.Role = role

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}

	if changed {
		if err := s.repo.IncrementTokenVersion(ctx, user.ID); err != nil {
			return nil, err
		}
	}

	return user, nil
}

func (s *Service) ListUsers(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	return s.repo.List(ctx, params)
}

// ListInstructors is open to every role so staff can pick whom to assign.
func (s *Service) ListInstructors(ctx context.Context) ([]User, error) {
	return s.repo.ListInstructors(ctx)
}

func (s *Service) GetMe(ctx context.Context, userID string) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("get me: %w", core.ErrUnauthorized)
	}

	return s.repo.GetByID(ctx, userID)
}

// UpdateMe lets any role edit its own profile. Roles are not
// self-service.
func (s *Service) UpdateMe(
	ctx context.Context,
	userID string,
	req UpdateMeRequest,
) (*User, error) {
	if userID == "" {
		return nil, fmt.Errorf("update me: %w", core.ErrUnauthorized)
	}

	return s.UpdateUser(ctx, userID, UpdateUserRequest{Name: req.Name})
}

// DeleteUser is reserved to admins. Admin accounts, including the
// caller's own, cannot be removed through this path.
func (s *Service) DeleteUser(
	ctx context.Context,
	caller scope.Caller,
	targetID string,
) error {
	if err := caller.RequireAdmin(); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}

	target, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return err
	}

	if target.IsAdmin() {
		return fmt.Errorf("cannot delete admin users: %w", core.ErrForbidden)
	}

	return s.repo.SoftDelete(ctx, targetID)
}

var (
	_ auth.UserProvider         = (*Service)(nil)
	_ notification.UserDirectory = (*Service)(nil)
)
