// AngelaMos | 2026
// validator_test.go

package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type bindTarget struct {
	Email string    `json:"email"      validate:"required,email"`
	Plan  string    `json:"plan"       validate:"required,oneof=BASIC VIP"`
	Start time.Time `json:"start_time" validate:"required"`
	End   time.Time `json:"end_time"   validate:"required,gtfield=Start"`
}

func bind(body string) error {
	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	var dst bindTarget
	return Bind(r, &dst, NewValidator())
}

func TestBindRejectsMalformedJSON(t *testing.T) {
	err := bind(`{"email":`)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "BAD_REQUEST", appErr.Code)
}

func TestBindReportsFieldsByJSONName(t *testing.T) {
	err := bind(`{"email":"not-an-email","plan":"GOLD",
		"start_time":"2026-03-10T10:00:00Z","end_time":"2026-03-10T09:00:00Z"}`)

	var appErr *AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Code)

	fields := map[string]string{}
	for _, d := range appErr.Details {
		fields[d.Field] = d.Message
	}
	assert.Equal(t, "must be a valid email", fields["email"])
	assert.Equal(t, "must be one of: BASIC VIP", fields["plan"])
	assert.Equal(t, "must be after start", fields["end_time"])
}

func TestBindAcceptsValidBody(t *testing.T) {
	err := bind(`{"email":"ana@gym.test","plan":"VIP",
		"start_time":"2026-03-10T10:00:00Z","end_time":"2026-03-10T11:00:00Z"}`)
	assert.NoError(t, err)
}
