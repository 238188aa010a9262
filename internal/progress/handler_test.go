// AngelaMos | 2026
// handler_test.go

package progress

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
	"instructor": {UserID: instructorA, Role: scope.RoleInstructor},
	"manager":    {UserID: instructorB, Role: scope.RoleManager},
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *core.AppError  `json:"error"`
}

func newTestRouter() (chi.Router, *memRepo) {
	svc, repo := newTestService()
	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(testTokens))
	return r, repo
}

func do(t *testing.T, router http.Handler, method, path, token, body string) (int, envelope) {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	}
	return rec.Code, env
}

func TestHandlerHistoryReturnsTrends(t *testing.T) {
	router, _ := newTestRouter()

	for _, body := range []string{
		`{"student_id":"` + studentA + `","weight":"85","record_date":"2026-01-10T00:00:00Z"}`,
		`{"student_id":"` + studentA + `","weight":"82","record_date":"2026-02-10T00:00:00Z"}`,
	} {
		code, _ := do(t, router, http.MethodPost, "/progress", "instructor", body)
		require.Equal(t, http.StatusCreated, code)
	}

	code, env := do(t, router, http.MethodGet, "/progress/student/"+studentA+"/history", "instructor", "")
	require.Equal(t, http.StatusOK, code)

	var body HistoryResponse
	require.NoError(t, json.Unmarshal(env.Data, &body))
	require.Len(t, body.Records, 2)
	assert.Equal(t, "85", body.Records[0].Weight.String())
	assert.Equal(t, TrendDown, body.Trends.Weight.Direction)
	assert.Equal(t, "-3", body.Trends.Weight.Change.String())

	code, _ = do(t, router, http.MethodGet, "/progress/student/"+studentB+"/history", "instructor", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodGet, "/progress/student/nope/history", "instructor", "")
	assert.Equal(t, http.StatusNotFound, code)
}

func TestHandlerRejectsBadInput(t *testing.T) {
	router, repo := newTestRouter()

	code, env := do(t, router, http.MethodPost, "/progress", "instructor",
		`{"student_id":"`+studentA+`","body_fat":"120"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Empty(t, repo.rows)

	code, _ = do(t, router, http.MethodPost, "/progress", "instructor", `{"weight":"80"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodGet, "/progress?start_date=yesterday", "instructor", "")
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = do(t, router, http.MethodPost, "/progress", "instructor",
		`{"student_id":"`+studentB+`","weight":"70"}`)
	assert.Equal(t, http.StatusForbidden, code)
}
