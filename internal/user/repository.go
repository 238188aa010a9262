// AngelaMos | 2026
// repository.go

package user

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	Update(ctx context.Context, user *User) error
	UpdatePassword(ctx context.Context, id, passwordHash string) error
	IncrementTokenVersion(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	List(ctx context.Context, params ListUsersParams) ([]User, int, error)
	// ListInstructors returns every live account that can own students,
	// ordered by name.
	ListInstructors(ctx context.Context) ([]User, error)
}

type repository struct {
	db core.DBTX
}

func NewRepository(db core.DBTX) Repository {
	return &repository{db: db}
}

const (
	selectUser = `SELECT id, email, password_hash, name, role, token_version,
		created_at, updated_at, deleted_at
		FROM users`

	// live excludes soft deleted accounts from every lookup and write.
	live = `deleted_at IS NULL`
)

func (r *repository) Create(ctx context.Context, u *User) error {
	return core.GetOne(ctx, r.db, u, "create user", `
		INSERT INTO users (id, email, password_hash, name, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at, token_version`,
		u.ID, u.Email, u.PasswordHash, u.Name, u.Role,
	)
}

func (r *repository) GetByID(ctx context.Context, id string) (*User, error) {
	return r.findOne(ctx, "get user", "id", id)
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, "get user by email", "email", email)
}

func (r *repository) findOne(ctx context.Context, op, column, value string) (*User, error) {
	var u User
	query := selectUser + ` WHERE ` + column + ` = $1 AND ` + live
	if err := core.GetOne(ctx, r.db, &u, op, query, value); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *repository) Update(ctx context.Context, u *User) error {
	return core.GetOne(ctx, r.db, &u.UpdatedAt, "update user", `
		UPDATE users SET name = $2, role = $3, updated_at = NOW()
		WHERE id = $1 AND `+live+`
		RETURNING updated_at`,
		u.ID, u.Name, u.Role,
	)
}

func (r *repository) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	return core.ExecOne(ctx, r.db, "update password", `
		UPDATE users SET password_hash = $2, updated_at = NOW()
		WHERE id = $1 AND `+live,
		id, passwordHash,
	)
}

// IncrementTokenVersion invalidates every access token issued before the
// call. Role changes and logout-all rely on it.
func (r *repository) IncrementTokenVersion(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "increment token version", `
		UPDATE users SET token_version = token_version + 1, updated_at = NOW()
		WHERE id = $1 AND `+live,
		id,
	)
}

func (r *repository) SoftDelete(ctx context.Context, id string) error {
	return core.ExecOne(ctx, r.db, "delete user", `
		UPDATE users SET deleted_at = NOW(), updated_at = NOW()
		WHERE id = $1 AND `+live,
		id,
	)
}

func (r *repository) List(
	ctx context.Context,
	params ListUsersParams,
) ([]User, int, error) {
	params.Normalize()

	where := core.NewWhere(live)
	where.AddIf(params.Search != "",
		"(email ILIKE $%d OR name ILIKE $%d)",
		"%"+core.EscapeLike(params.Search)+"%")
	where.AddIf(params.Role != "", "role = $%d", params.Role)

	var total int
	countQuery := "SELECT COUNT(*) FROM users WHERE " + where.String()
	if err := core.GetOne(ctx, r.db, &total, "count users", countQuery, where.Args()...); err != nil {
		return nil, 0, err
	}

	next := where.Next()
	query := fmt.Sprintf("%s WHERE %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		selectUser, where.String(), next, next+1)
	args := append(where.Args(), params.Limit, params.Offset())

	users := make([]User, 0, params.Limit)
	if err := core.SelectAll(ctx, r.db, &users, "list users", query, args...); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *repository) ListInstructors(ctx context.Context) ([]User, error) {
	query := selectUser + " WHERE " + live + " AND role = ANY($1) ORDER BY name ASC"

	users := []User{}
	roles := []string{scope.RoleAdmin, scope.RoleManager, scope.RoleInstructor}
	if err := core.SelectAll(ctx, r.db, &users, "list instructors", query, roles); err != nil {
		return nil, err
	}
	return users, nil
}
