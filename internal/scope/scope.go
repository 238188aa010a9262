// AngelaMos | 2026
// scope.go

// Package scope decides which records a caller may see or change.
//
// ADMIN sees everything. MANAGER and INSTRUCTOR are restricted to the
// students they own (students.instructor_id), to every record derived from
// those students, and to notifications addressed to them.
package scope

import (
	"context"
	"fmt"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

const (
	RoleAdmin      = "ADMIN"
	RoleManager    = "MANAGER"
	RoleInstructor = "INSTRUCTOR"
)

func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleInstructor:
		return true
	}
	return false
}

type Caller struct {
	ID   string
	Role string
}

func (c Caller) IsAdmin() bool {
	return c.Role == RoleAdmin
}

func (c Caller) Authenticated() bool {
	return c.ID != "" && c.Role != ""
}

// OwnerFilter is the instructor id every student-derived query must be
// restricted to, or "" when the caller is unrestricted.
func (c Caller) OwnerFilter() string {
	if c.IsAdmin() {
		return ""
	}
	return c.ID
}

// RecipientFilter is the notification recipient the caller is restricted
// to, or "" when the caller is unrestricted.
func (c Caller) RecipientFilter() string {
	if c.IsAdmin() {
		return ""
	}
	return c.ID
}

// CanAccessStudent reports whether a student owned by instructorID is
// inside the caller's scope.
func (c Caller) CanAccessStudent(instructorID string) bool {
	return c.IsAdmin() || (c.ID != "" && instructorID == c.ID)
}

// CheckOwnership guards writes to a student or anything derived from it.
func (c Caller) CheckOwnership(instructorID string) error {
	if !c.CanAccessStudent(instructorID) {
		return fmt.Errorf("student owned by another instructor: %w", core.ErrForbidden)
	}
	return nil
}

func (c Caller) CanAccessNotification(userID string) bool {
	return c.IsAdmin() || (c.ID != "" && userID == c.ID)
}

// RequireAdmin guards operations reserved to administrators regardless of
// ownership, such as deleting students or users.
func (c Caller) RequireAdmin() error {
	if !c.IsAdmin() {
		return fmt.Errorf("admin role required: %w", core.ErrForbidden)
	}
	return nil
}

type contextKey struct{}

func WithCaller(ctx context.Context, c Caller) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

func FromContext(ctx context.Context) (Caller, bool) {
	c, ok := ctx.Value(contextKey{}).(Caller)
	return c, ok && c.Authenticated()
}

// MustFromContext returns the caller or ErrUnauthorized when the request
// was not authenticated.
func MustFromContext(ctx context.Context) (Caller, error) {
	c, ok := FromContext(ctx)
	if !ok {
		return Caller{}, fmt.Errorf("no caller in context: %w", core.ErrUnauthorized)
	}
	return c, nil
}
