package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shandysiswandi/otpauth/internal/pkg/goerror"
)

func TestNormalizeSubject(t *testing.T) {
	assert.Equal(t, "a@x.com", NormalizeSubject("  A@X.com "))
	assert.Equal(t, "+15550001111", NormalizeSubject("+15550001111"))
	assert.Equal(t, NormalizeSubject("bob@x.com"), NormalizeSubject("Bob@x.com"))
}

func TestOutcomes_StatusCodes(t *testing.T) {
	want := map[error]int{
		ErrRateLimited:  429,
		ErrNotFound:     404,
		ErrInvalid:      400,
		ErrUnauthorized: 401,
		ErrSendFailure:  502,
	}

	for err, code := range want {
		var gerr *goerror.Error
		wrapped := fmt.Errorf("wrap: %w", err)
		assert.True(t, errors.As(wrapped, &gerr))
		assert.Equal(t, code, gerr.StatusCode(), err.Error())
	}
}
