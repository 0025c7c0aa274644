package otp

import (
	"crypto/rand"
	"errors"
	"io"
	"math/big"

	"github.com/pquerna/otp"
)

// ErrInvalidDigits is returned for a code width outside [MinDigits, MaxDigits].
var ErrInvalidDigits = errors.New("otp: digits out of range")

const (
	MinDigits = 4
	MaxDigits = 9
)

// Generator produces numeric one-time codes.
type Generator interface {
	Generate() (string, error)
}

// Numeric draws codes uniformly from [0, 10^digits).
type Numeric struct {
	digits otp.Digits
	max    *big.Int
	rand   io.Reader
}

// NewNumeric returns a generator for codes of the given width.
func NewNumeric(digits int) (*Numeric, error) {
	return newNumeric(digits, rand.Reader)
}

func newNumeric(digits int, r io.Reader) (*Numeric, error) {
	if digits < MinDigits || digits > MaxDigits {
		return nil, ErrInvalidDigits
	}

	return &Numeric{
		digits: otp.Digits(digits),
		max:    new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(digits)), nil),
		rand:   r,
	}, nil
}

// Length reports the code width.
func (n *Numeric) Length() int {
	return n.digits.Length()
}

// Generate returns a zero padded code such as "004217".
func (n *Numeric) Generate() (string, error) {
	v, err := rand.Int(n.rand, n.max)
	if err != nil {
		return "", err
	}

	return n.digits.Format(int32(v.Int64())), nil
}
