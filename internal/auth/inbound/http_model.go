package inbound

import (
	"net/http"
	"time"
)

const (
	refreshCookieName = "refresh_token"
	tokenTypeBearer   = "bearer"
)

type LoginRequest struct {
	Email string `json:"email"`
}

type LoginResponse struct {
	OK        bool `json:"ok"`
	Delivered bool `json:"delivered"`
}

func (LoginResponse) Message() string {
	return "If the address is reachable, a login code has been sent."
}

type ConfirmRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`

	cookie *http.Cookie
}

func (t TokenResponse) Cookies() []*http.Cookie {
	if t.cookie == nil {
		return nil
	}
	return []*http.Cookie{t.cookie}
}

type SessionResponse struct {
	Subject   string    `json:"subject"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

type refreshCookie struct {
	secure bool
	maxAge time.Duration
}

func (c refreshCookie) build(token string) *http.Cookie {
	return &http.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(c.maxAge / time.Second),
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	}
}
