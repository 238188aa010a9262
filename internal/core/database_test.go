// AngelaMos | 2026
// database_test.go

package core

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestClassifyMapsPostgresCodes(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		want       error
		wantStatus int
	}{
		{name: "unique violation", code: "23505", want: ErrDuplicateKey, wantStatus: http.StatusConflict},
		{name: "foreign key violation", code: "23503", want: ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "malformed uuid", code: "22P02", want: ErrNotFound, wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Classify("get notification", &pgconn.PgError{Code: tt.code})

			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, tt.wantStatus, ToAppError(err, "notification").Status)
		})
	}
}

func TestClassifyKeepsUnknownErrorsInternal(t *testing.T) {
	cause := errors.New("connection reset")
	err := Classify("list payments", cause)

	assert.ErrorIs(t, err, cause)
	assert.EqualError(t, err, "list payments: connection reset")
	assert.Equal(t, http.StatusInternalServerError, ToAppError(err, "payment").Status)

	err = Classify("list payments", &pgconn.PgError{Code: "40001"})
	assert.Equal(t, http.StatusInternalServerError, ToAppError(err, "payment").Status)

	assert.NoError(t, Classify("list payments", nil))
}

func TestClassifyForeignKeyMessageHidesOperation(t *testing.T) {
	err := Classify("create notification", &pgconn.PgError{Code: "23503"})
	assert.Equal(t, "referenced record does not exist: invalid input", ToAppError(err, "notification").Message)
}
