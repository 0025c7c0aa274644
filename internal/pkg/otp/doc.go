// Package otp generates the short numeric codes sent to users during
// passwordless login.
//
// Codes are drawn uniformly from crypto/rand and zero padded to a fixed width
// using the digit helpers of github.com/pquerna/otp.
package otp
