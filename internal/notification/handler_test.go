// AngelaMos | 2026
// handler_test.go

package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/gym-crm/internal/core"
	"github.com/carterperez-dev/gym-crm/internal/middleware"
	"github.com/carterperez-dev/gym-crm/internal/scope"
)

// tokenTable maps bearer tokens straight to claims.
type tokenTable map[string]*middleware.AccessTokenClaims

func (tt tokenTable) VerifyAccessToken(
	_ context.Context,
	token string,
) (*middleware.AccessTokenClaims, error) {
	c, ok := tt[token]
	if !ok {
		return nil, core.ErrTokenInvalid
	}
	return c, nil
}

var testTokens = tokenTable{
	"admin":      {UserID: adminID, Role: scope.RoleAdmin},
	"manager":    {UserID: instructorB, Role: scope.RoleManager},
	"instructor": {UserID: instructorA, Role: scope.RoleInstructor},
}

type fakeChecker struct {
	results []RuleResult
	calls   int
}

func (f *fakeChecker) RunManualCheck(context.Context) ([]RuleResult, error) {
	f.calls++
	return f.results, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.AppError  `json:"error"`
}

type handlerFixture struct {
	router  chi.Router
	repo    *memRepo
	checker *fakeChecker
}

func newHandlerFixture(t *testing.T) *handlerFixture {
	t.Helper()

	svc, repo := newTestService(t)
	checker := &fakeChecker{}

	r := chi.NewRouter()
	NewHandler(svc, checker).RegisterRoutes(r, middleware.Authenticator(testTokens), nil)

	return &handlerFixture{router: r, repo: repo, checker: checker}
}

func (f *handlerFixture) do(t *testing.T, method, path, token, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHandlerRequiresAuthentication(t *testing.T) {
	f := newHandlerFixture(t)

	code, env := f.do(t, http.MethodGet, "/notifications", "", "")
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.False(t, env.Success)

	code, _ = f.do(t, http.MethodGet, "/notifications", "forged", "")
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestHandlerListIsScoped(t *testing.T) {
	f := newHandlerFixture(t)
	seedInbox(t, f.repo, instructorA, 2, 0)
	seedInbox(t, f.repo, instructorB, 3, 0)

	code, env := f.do(t, http.MethodGet, "/notifications?limit=1", "instructor", "")
	require.Equal(t, http.StatusOK, code)

	var page struct {
		Items      []NotificationResponse `json:"items"`
		Pagination core.Pagination        `json:"pagination"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	assert.Equal(t, core.Pagination{Page: 1, Limit: 1, Total: 2, Pages: 2}, page.Pagination)
	require.Len(t, page.Items, 1)
	assert.Equal(t, instructorA, page.Items[0].UserID)

	code, _ = f.do(t, http.MethodGet, "/notifications?type=NOPE", "instructor", "")
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestHandlerGetOutOfScope(t *testing.T) {
	f := newHandlerFixture(t)
	seedInbox(t, f.repo, instructorB, 1, 0)

	code, env := f.do(t, http.MethodGet, "/notifications/"+inboxID(instructorB, 0), "instructor", "")
	assert.Equal(t, http.StatusNotFound, code)
	require.NotNil(t, env.Error)

	code, _ = f.do(t, http.MethodGet, "/notifications/"+inboxID(instructorB, 0), "admin", "")
	assert.Equal(t, http.StatusOK, code)
}

func TestHandlerMalformedIDIsNotFound(t *testing.T) {
	f := newHandlerFixture(t)

	for _, req := range []struct{ method, path string }{
		{http.MethodGet, "/notifications/abc"},
		{http.MethodPatch, "/notifications/abc/read"},
		{http.MethodDelete, "/notifications/not-a-uuid"},
	} {
		code, env := f.do(t, req.method, req.path, "admin", "")
		assert.Equal(t, http.StatusNotFound, code, req.path)
		require.NotNil(t, env.Error, req.path)
		assert.Equal(t, "NOT_FOUND", env.Error.Code)
	}
}

func TestHandlerMarkAllAsRead(t *testing.T) {
	f := newHandlerFixture(t)
	seedInbox(t, f.repo, instructorA, 5, 2)

	code, env := f.do(t, http.MethodPatch, "/notifications/read-all", "instructor", "")
	require.Equal(t, http.StatusOK, code)

	var resp MarkAllReadResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, int64(5), resp.Count)
}

func TestHandlerTriggerRoles(t *testing.T) {
	f := newHandlerFixture(t)

	code, _ := f.do(t, http.MethodPost, "/notifications/payment-overdue", "instructor", "")
	assert.Equal(t, http.StatusForbidden, code)

	for _, path := range []string{
		"/notifications/payment-overdue",
		"/notifications/payment-due",
		"/notifications/birthday",
	} {
		code, env := f.do(t, http.MethodPost, path, "manager", "")
		require.Equal(t, http.StatusOK, code, path)

		var resp TriggerResponse
		require.NoError(t, json.Unmarshal(env.Data, &resp))
		assert.Equal(t, 0, resp.Count)
		assert.NotEmpty(t, resp.Message)
	}
}

func TestHandlerManualCheck(t *testing.T) {
	f := newHandlerFixture(t)
	f.checker.results = []RuleResult{
		{Rule: RuleOverdue, Corrected: 2, Created: 3},
		{Rule: RuleDueSoon, Created: 1},
		{Rule: RuleBirthday},
	}

	code, _ := f.do(t, http.MethodPost, "/notifications/manual-check", "instructor", "")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Equal(t, 0, f.checker.calls)

	code, env := f.do(t, http.MethodPost, "/notifications/manual-check", "admin", "")
	require.Equal(t, http.StatusOK, code)

	var resp TriggerResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, 4, resp.Count)
	assert.Equal(t, int64(2), resp.Corrected)
	assert.Len(t, resp.Results, 3)
}

func TestHandlerCreateValidation(t *testing.T) {
	f := newHandlerFixture(t)

	code, env := f.do(t, http.MethodPost, "/notifications", "admin", `{"title":""}`)
	require.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.NotEmpty(t, env.Error.Details)

	body := `{"user_id":"` + instructorA + `","title":"Aviso","message":"Feriado"}`
	code, env = f.do(t, http.MethodPost, "/notifications", "admin", body)
	require.Equal(t, http.StatusCreated, code)

	var resp NotificationResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, TypeGeneral, resp.Type)
	assert.Equal(t, instructorA, resp.UserID)
}
