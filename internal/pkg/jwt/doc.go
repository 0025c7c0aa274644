// Package jwt issues and verifies the signed tokens handed out after a
// successful login.
//
// It includes:
//   - Claims carrying the subject and a token type (access or refresh).
//   - A symmetric HMAC issuer (HS256, HS384 or HS512).
//   - Context helpers for storing and retrieving authenticated claims.
package jwt
