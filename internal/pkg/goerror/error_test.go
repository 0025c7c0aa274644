package goerror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError_StatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "server", err: NewServer(errors.New("boom")), want: http.StatusInternalServerError},
		{name: "bad request", err: NewBusiness("invalid code", CodeBadRequest), want: http.StatusBadRequest},
		{name: "not found", err: NewBusiness("missing", CodeNotFound), want: http.StatusNotFound},
		{name: "too many", err: NewBusiness("slow down", CodeTooManyRequest), want: http.StatusTooManyRequests},
		{name: "unauthorized", err: NewBusiness("no", CodeUnauthorized), want: http.StatusUnauthorized},
		{name: "bad gateway", err: NewBusiness("upstream", CodeBadGateway), want: http.StatusBadGateway},
		{name: "invalid format", err: NewInvalidFormat(), want: http.StatusBadRequest},
		{name: "invalid input", err: NewInvalidInput(errors.New("email")), want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gerr *Error
			require.True(t, errors.As(tt.err, &gerr))
			assert.Equal(t, tt.want, gerr.StatusCode())
		})
	}
}

func TestNewBusiness_SentinelIdentity(t *testing.T) {
	sentinel := NewBusiness("code expired or not found", CodeNotFound)
	wrapped := fmt.Errorf("confirm: %w", sentinel)

	assert.ErrorIs(t, wrapped, sentinel)
	assert.NotErrorIs(t, wrapped, NewBusiness("code expired or not found", CodeNotFound))
}

func TestNewInvalidInput_Fields(t *testing.T) {
	err := NewInvalidInput(nil, "email", "email is required")

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, map[string]string{"email": "email is required"}, gerr.Fields())
	assert.Equal(t, TypeValidation, gerr.Type())

	err = NewInvalidInput(nil, "dangling")
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, CodeInvalidFormat, gerr.Code())
}

func TestNewServer_Unwrap(t *testing.T) {
	cause := errors.New("redis down")
	err := NewServer(cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "redis down", err.Error())
}
