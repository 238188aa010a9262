// AngelaMos | 2026
// scope_test.go

package scope

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/gym-crm/internal/core"
)

func TestFilters(t *testing.T) {
	tests := []struct {
		name          string
		caller        Caller
		wantOwner     string
		wantRecipient string
	}{
		{name: "admin is unrestricted", caller: Caller{ID: "a", Role: RoleAdmin}},
		{
			name:          "manager sees own",
			caller:        Caller{ID: "m", Role: RoleManager},
			wantOwner:     "m",
			wantRecipient: "m",
		},
		{
			name:          "instructor sees own",
			caller:        Caller{ID: "i", Role: RoleInstructor},
			wantOwner:     "i",
			wantRecipient: "i",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantOwner, tt.caller.OwnerFilter())
			assert.Equal(t, tt.wantRecipient, tt.caller.RecipientFilter())
		})
	}
}

func TestCheckOwnership(t *testing.T) {
	admin := Caller{ID: "a", Role: RoleAdmin}
	inst := Caller{ID: "i", Role: RoleInstructor}

	assert.NoError(t, admin.CheckOwnership("someone"))
	assert.NoError(t, inst.CheckOwnership("i"))
	assert.ErrorIs(t, inst.CheckOwnership("other"), core.ErrForbidden)

	assert.False(t, Caller{Role: RoleInstructor}.CanAccessStudent(""),
		"an anonymous caller never matches an unowned record")
}

func TestNotificationAccess(t *testing.T) {
	assert.True(t, Caller{ID: "a", Role: RoleAdmin}.CanAccessNotification("x"))
	assert.True(t, Caller{ID: "x", Role: RoleManager}.CanAccessNotification("x"))
	assert.False(t, Caller{ID: "y", Role: RoleManager}.CanAccessNotification("x"))
}

func TestRequireAdmin(t *testing.T) {
	assert.NoError(t, Caller{ID: "a", Role: RoleAdmin}.RequireAdmin())
	assert.ErrorIs(t, Caller{ID: "m", Role: RoleManager}.RequireAdmin(), core.ErrForbidden)
}

func TestValidRole(t *testing.T) {
	for _, r := range []string{RoleAdmin, RoleManager, RoleInstructor} {
		assert.True(t, ValidRole(r), r)
	}
	assert.False(t, ValidRole("STUDENT"))
	assert.False(t, ValidRole("admin"))
}

func TestContextRoundTrip(t *testing.T) {
	_, err := MustFromContext(context.Background())
	assert.ErrorIs(t, err, core.ErrUnauthorized)

	ctx := WithCaller(context.Background(), Caller{ID: "i", Role: RoleInstructor})
	c, err := MustFromContext(ctx)
	require.NoError(t, err)
	assert.Equal(t, "i", c.ID)

	ctx = WithCaller(context.Background(), Caller{ID: "i"})
	_, ok := FromContext(ctx)
	assert.False(t, ok, "a caller without a role is not authenticated")
}
