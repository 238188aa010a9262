// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

type verifierFunc func(ctx context.Context, token string) (*AccessTokenClaims, error)

func (f verifierFunc) VerifyAccessToken(ctx context.Context, token string) (*AccessTokenClaims, error) {
	return f(ctx, token)
}

var tokens = verifierFunc(func(_ context.Context, token string) (*AccessTokenClaims, error) {
	switch token {
	case "admin":
		return &AccessTokenClaims{UserID: "u-admin", Role: scope.RoleAdmin}, nil
	case "manager":
		return &AccessTokenClaims{UserID: "u-manager", Role: scope.RoleManager}, nil
	case "instructor":
		return &AccessTokenClaims{UserID: "u-instructor", Role: scope.RoleInstructor}, nil
	case "student":
		return &AccessTokenClaims{UserID: "u-x", Role: "STUDENT"}, nil
	case "expired":
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenExpired)
	case "revoked":
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenRevoked)
	default:
		return nil, fmt.Errorf("verify token: %w", core.ErrTokenInvalid)
	}
})

func echoCaller(w http.ResponseWriter, r *http.Request) {
	caller, err := scope.MustFromContext(r.Context())
	if err != nil {
		core.HandleError(w, err, "caller")
		return
	}
	core.OK(w, map[string]string{"id": caller.ID, "role": caller.Role})
}

func serve(h http.Handler, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error.Code
}

func TestAuthenticator(t *testing.T) {
	h := Authenticator(tokens)(http.HandlerFunc(echoCaller))

	tests := []struct {
		name     string
		header   string
		wantCode int
		wantErr  string
	}{
		{"missing header", "", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "UNAUTHORIZED"},
		{"expired", "Bearer expired", http.StatusUnauthorized, "TOKEN_EXPIRED"},
		{"revoked", "Bearer revoked", http.StatusUnauthorized, "TOKEN_REVOKED"},
		{"garbage", "Bearer garbage", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"unknown role", "Bearer student", http.StatusUnauthorized, "TOKEN_INVALID"},
		{"valid", "bearer instructor", http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(h, tt.header)
			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, errorCode(t, rec))
			}
		})
	}
}

func TestAuthenticatorPutsCallerAndClaimsInContext(t *testing.T) {
	var claims *AccessTokenClaims
	var userID string
	h := Authenticator(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims = GetClaims(r.Context())
		userID = GetUserID(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := serve(h, "Bearer manager")
	require.Equal(t, http.StatusNoContent, rec.Code)
	require.NotNil(t, claims)
	assert.Equal(t, scope.RoleManager, claims.Role)
	assert.Equal(t, "u-manager", userID)
}

func TestRoleGates(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	admin := Authenticator(tokens)(RequireAdmin(ok))
	staff := Authenticator(tokens)(RequireStaff(ok))

	assert.Equal(t, http.StatusNoContent, serve(admin, "Bearer admin").Code)
	assert.Equal(t, http.StatusForbidden, serve(admin, "Bearer manager").Code)

	assert.Equal(t, http.StatusNoContent, serve(staff, "Bearer admin").Code)
	assert.Equal(t, http.StatusNoContent, serve(staff, "Bearer manager").Code)
	assert.Equal(t, http.StatusForbidden, serve(staff, "Bearer instructor").Code)

	assert.Equal(t, http.StatusUnauthorized, serve(RequireAdmin(ok), "").Code,
		"role gate without authentication")
}

func TestExtractToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer   abc.def ")
	assert.Equal(t, "abc.def", ExtractToken(req))

	req.Header.Set("Authorization", "Token abc")
	assert.Empty(t, ExtractToken(req))
}
