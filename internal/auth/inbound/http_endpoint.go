package inbound

import (
	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/auth/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
)

// HTTPEndpoint exposes the passwordless login flow over HTTP.
type HTTPEndpoint struct {
	uc     uc
	cookie refreshCookie
}

// Login sends a one-time code to the email address or phone number.
func (h *HTTPEndpoint) Login(r *router.Request) (any, error) {
	var req LoginRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Login(r.Context(), usecase.LoginInput{Email: req.Email})
	if err != nil {
		return nil, err
	}

	return LoginResponse{OK: resp.OK, Delivered: resp.Delivered}, nil
}

// Confirm exchanges a code for an access token. The refresh token is only
// sent as an HttpOnly cookie.
func (h *HTTPEndpoint) Confirm(r *router.Request) (any, error) {
	var req ConfirmRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	resp, err := h.uc.Confirm(r.Context(), usecase.ConfirmInput{
		Email: req.Email,
		Code:  req.Code,
	})
	if err != nil {
		return nil, err
	}

	return TokenResponse{
		AccessToken: resp.AccessToken,
		TokenType:   tokenTypeBearer,
		cookie:      h.cookie.build(resp.RefreshToken),
	}, nil
}

// Refresh reads the refresh_token cookie, or a JSON body for clients that
// cannot hold cookies, and returns a new access token. An unreadable body is
// a missing token.
func (h *HTTPEndpoint) Refresh(r *router.Request) (any, error) {
	token := r.GetCookie(refreshCookieName)
	if token == "" && r.HasBody() {
		var req RefreshRequest
		if err := r.DecodeBody(&req); err != nil {
			return nil, entity.ErrUnauthorized
		}
		token = req.RefreshToken
	}

	resp, err := h.uc.Refresh(r.Context(), usecase.RefreshInput{RefreshToken: token})
	if err != nil {
		return nil, err
	}

	return TokenResponse{AccessToken: resp.AccessToken, TokenType: tokenTypeBearer}, nil
}

// Session describes the bearer access token.
func (h *HTTPEndpoint) Session(r *router.Request) (any, error) {
	resp, err := h.uc.Session(r.Context())
	if err != nil {
		return nil, err
	}

	return SessionResponse{
		Subject:   resp.Subject,
		IssuedAt:  resp.IssuedAt,
		ExpiresAt: resp.ExpiresAt,
	}, nil
}
