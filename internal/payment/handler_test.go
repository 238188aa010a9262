// AngelaMos | 2026
// handler_test.go

package payment

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
	"admin":      {UserID: admin.ID, Role: scope.RoleAdmin},
	"manager":    {UserID: instructorB, Role: scope.RoleManager},
	"instructor": {UserID: instructorA, Role: scope.RoleInstructor},
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.AppError  `json:"error"`
}

func serve(t *testing.T, svc *Service, method, path, token string) (int, envelope) {
	t.Helper()

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(testTokens))

	req := httptest.NewRequest(method, path, strings.NewReader(""))
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHandlerMarkOverdueIsStaffOnly(t *testing.T) {
	calls := 0
	svc := NewService(&memRepo{rows: map[string]Payment{}}, owners{},
		WithOverdueSweep(func(context.Context, scope.Caller) (int64, error) {
			calls++
			return 2, nil
		}),
	)

	code, _ := serve(t, svc, http.MethodPost, "/payments/mark-overdue", "instructor")
	assert.Equal(t, http.StatusForbidden, code)
	assert.Zero(t, calls)

	code, env := serve(t, svc, http.MethodPost, "/payments/mark-overdue", "manager")
	require.Equal(t, http.StatusOK, code)

	var body MarkOverdueResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, int64(2), body.Count)
	assert.Equal(t, "2 payments marked as overdue", body.Message)
	assert.Equal(t, 1, calls)
}

func TestHandlerSendChargeEmail(t *testing.T) {
	repo := &memRepo{rows: map[string]Payment{}}
	box := &outbox{}
	withMail := NewService(repo, owners{studentA: instructorA, studentB: instructorB}, WithMail(box))
	withoutMail := NewService(repo, owners{studentA: instructorA, studentB: instructorB})

	p, err := withMail.Create(context.Background(), insB, monthly(studentB, "99.9"))
	require.NoError(t, err)
	path := "/payments/" + p.ID + "/send-charge-email"

	code, _ := serve(t, withMail, http.MethodPatch, path, "instructor")
	assert.Equal(t, http.StatusForbidden, code)

	code, env := serve(t, withoutMail, http.MethodPatch, path, "manager")
	assert.Equal(t, http.StatusServiceUnavailable, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "MAIL_DISABLED", env.Error.Code)

	code, _ = serve(t, withMail, http.MethodPatch, "/payments/abc/send-charge-email", "manager")
	assert.Equal(t, http.StatusNotFound, code)

	code, env = serve(t, withMail, http.MethodPatch, path, "manager")
	require.Equal(t, http.StatusOK, code)
	var body ChargeEmailResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	assert.Equal(t, p.ID, body.PaymentID)
	assert.Len(t, box.sent, 1)
	assert.Contains(t, box.sent[0].Text, "R$ 99,90")
}
