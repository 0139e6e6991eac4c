package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"authentication", Authentication(MissingTokenError), http.StatusUnauthorized},
		{"authorization", Forbidden(), http.StatusForbidden},
		{"not_found", NotFound(BookingNotFound), http.StatusNotFound},
		{"internal", Internal(stderrors.New("boom")), http.StatusInternalServerError},
		{"foreign", stderrors.New("plain"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("ctx: %w", NotFound(UserNotFound)), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := Internal(stderrors.New("mongo: connection refused"))

	assert.Equal(t, InternalError, PublicMessage(err))
	assert.Contains(t, err.Error(), "connection refused")
	assert.Equal(t, InternalError, PublicMessage(stderrors.New("raw")))
	assert.Equal(t, SelfBookingError, PublicMessage(Validation(SelfBookingError)))
}

func TestIs(t *testing.T) {
	assert.True(t, Is(Forbidden(), KindAuthorization))
	assert.False(t, Is(Forbidden(), KindNotFound))
	assert.False(t, Is(nil, KindInternal))
}

func TestWriteHTTP(t *testing.T) {
	rec := httptest.NewRecorder()

	WriteHTTP(rec, Internal(stderrors.New("secret dsn")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error"}`, rec.Body.String())
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}
