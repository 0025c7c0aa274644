package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginInput struct {
	Email string `validate:"required,contact"`
}

type confirmInput struct {
	Email string `validate:"required,contact"`
	Code  string `validate:"required,numeric,min=4,max=9"`
}

func TestV10Validator_Contact(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	for _, ok := range []string{"a@x.com", "User@Example.org", "+6281234567890"} {
		assert.NoError(t, v.Validate(loginInput{Email: ok}), ok)
	}

	for _, bad := range []string{"", "not-an-email", "081234567890", "+0"} {
		err := v.Validate(loginInput{Email: bad})
		var verr V10ValidationError
		require.ErrorAs(t, err, &verr, bad)
		assert.Contains(t, verr.Values(), "email")
	}
}

func TestV10Validator_Messages(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(confirmInput{Email: "nope", Code: "12ab"})

	var verr V10ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "Email must be a valid email address or E.164 phone number", verr["email"])
	assert.Contains(t, verr, "code")
	assert.Contains(t, verr.Error(), "email")
}

func TestV10Validator_NotStruct(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	assert.Error(t, v.Validate("plain string"))
}
