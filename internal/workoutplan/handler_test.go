// AngelaMos | 2026
// handler_test.go

package workoutplan

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

func TestHandlerCreateAndCopy(t *testing.T) {
	router, _ := newTestRouter()

	body := `{"student_id":"` + studentA + `","name":"Treino A","exercises":[
		{"name":"Supino","sets":4,"reps":"8-10","weight":"40"},
		{"name":"Remada","sets":3,"reps":"12","rest_time":60}
	]}`
	code, env := do(t, router, http.MethodPost, "/workout-plans", "instructor", body)
	require.Equal(t, http.StatusCreated, code)

	var created WorkoutPlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &created))
	require.Len(t, created.Exercises, 2)
	assert.Equal(t, 2, created.Exercises[1].Position)
	assert.Equal(t, "40", created.Exercises[0].Weight.String())

	code, env = do(t, router, http.MethodPost, "/workout-plans/"+created.ID+"/copy", "instructor",
		`{"student_id":"`+studentA2+`","name":"Treino A2"}`)
	require.Equal(t, http.StatusCreated, code)

	var copied WorkoutPlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &copied))
	assert.Equal(t, studentA2, copied.StudentID)
	assert.Len(t, copied.Exercises, 2)

	code, env = do(t, router, http.MethodPatch, "/workout-plans/"+created.ID+"/toggle-active", "instructor", "")
	require.Equal(t, http.StatusOK, code)
	var toggled WorkoutPlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &toggled))
	assert.False(t, toggled.IsActive)
}

func TestHandlerValidatesExercises(t *testing.T) {
	router, repo := newTestRouter()

	body := `{"student_id":"` + studentA + `","name":"Treino A","exercises":[{"name":"Supino","sets":0,"reps":"8"}]}`
	code, env := do(t, router, http.MethodPost, "/workout-plans", "instructor", body)
	assert.Equal(t, http.StatusBadRequest, code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	assert.Empty(t, repo.rows)
}

func TestHandlerScopeAndMalformedIDs(t *testing.T) {
	router, _ := newTestRouter()

	code, env := do(t, router, http.MethodPost, "/workout-plans", "manager",
		`{"student_id":"`+studentB+`","name":"Treino B"}`)
	require.Equal(t, http.StatusCreated, code)
	var plan WorkoutPlanResponse
	require.NoError(t, json.Unmarshal(env.Data, &plan))

	code, _ = do(t, router, http.MethodGet, "/workout-plans/"+plan.ID, "instructor", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodDelete, "/workout-plans/"+plan.ID, "instructor", "")
	assert.Equal(t, http.StatusForbidden, code)

	code, _ = do(t, router, http.MethodGet, "/workout-plans/not-a-uuid", "instructor", "")
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = do(t, router, http.MethodGet, "/workout-plans?student_id=nope", "instructor", "")
	assert.Equal(t, http.StatusBadRequest, code)
}
