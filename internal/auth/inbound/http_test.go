package inbound

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shandysiswandi/otpauth/internal/auth/entity"
	"github.com/shandysiswandi/otpauth/internal/auth/usecase"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
)

type fakeUC struct {
	loginErr   error
	confirmErr error
	gotRefresh string
	gotConfirm usecase.ConfirmInput
}

func (f *fakeUC) Login(_ context.Context, in usecase.LoginInput) (*usecase.LoginOutput, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &usecase.LoginOutput{OK: true, Delivered: in.Email == "a@x.com"}, nil
}

func (f *fakeUC) Confirm(_ context.Context, in usecase.ConfirmInput) (*usecase.ConfirmOutput, error) {
	f.gotConfirm = in
	if f.confirmErr != nil {
		return nil, f.confirmErr
	}
	return &usecase.ConfirmOutput{AccessToken: "access", RefreshToken: "refresh"}, nil
}

func (f *fakeUC) Refresh(_ context.Context, in usecase.RefreshInput) (*usecase.RefreshOutput, error) {
	f.gotRefresh = in.RefreshToken
	if in.RefreshToken != "refresh" {
		return nil, entity.ErrUnauthorized
	}
	return &usecase.RefreshOutput{AccessToken: "access-2"}, nil
}

func (f *fakeUC) Session(ctx context.Context) (*usecase.SessionOutput, error) {
	clm := jwt.GetAuth(ctx)
	if clm == nil {
		return nil, entity.ErrUnauthorized
	}
	return &usecase.SessionOutput{Subject: clm.Subject, ExpiresAt: time.Unix(1700000000, 0).UTC()}, nil
}

type fakeJWT struct{}

func (fakeJWT) CreateAccess(string) (string, error)  { return "", nil }
func (fakeJWT) CreateRefresh(string) (string, error) { return "", nil }
func (fakeJWT) VerifyRefresh(string) (string, error) { return "", jwt.ErrInvalidToken }

func (fakeJWT) VerifyAccess(token string) (jwt.Claims, error) {
	if token != "access" {
		return jwt.Claims{}, jwt.ErrInvalidToken
	}
	var c jwt.Claims
	c.Subject = "a@x.com"
	c.Type = jwt.TokenAccess
	return c, nil
}

func newTestServer(t *testing.T, uc *fakeUC) http.Handler {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(`
jwt:
  refresh_token_ttl_seconds: 3600
modules:
  auth:
    refresh_cookie_secure: true
`))
	require.NoError(t, err)

	r := router.NewRouter(router.Config{
		Config:     cfg,
		UUID:       uid.NewUUID(),
		JWT:        fakeJWT{},
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(r, cfg, uc)

	return r
}

type envelope struct {
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   map[string]string `json:"error"`
}

func serve(t *testing.T, h http.Handler, req *http.Request) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))

	return rec, env
}

func post(path, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestLogin(t *testing.T) {
	h := newTestServer(t, &fakeUC{})

	rec, env := serve(t, h, post("/api/v1/auth/login", `{"email":"a@x.com"}`))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"delivered":true}`, string(env.Data))

	rec, _ = serve(t, h, post("/api/v1/auth/login", `{"email":"a@x.com","password":"x"}`))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{entity.ErrRateLimited, http.StatusTooManyRequests},
		{entity.ErrSendFailure, http.StatusBadGateway},
	}

	for _, tt := range tests {
		h := newTestServer(t, &fakeUC{loginErr: tt.err})
		rec, env := serve(t, h, post("/api/v1/auth/login", `{"email":"a@x.com"}`))
		assert.Equal(t, tt.code, rec.Code)
		assert.NotEmpty(t, env.Message)
	}
}

func TestConfirm_SetsRefreshCookie(t *testing.T) {
	uc := &fakeUC{}
	h := newTestServer(t, uc)

	rec, env := serve(t, h, post("/api/v1/auth/confirm", `{"email":"a@x.com","code":"012345"}`))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"access_token":"access","token_type":"bearer"}`, string(env.Data))
	assert.Equal(t, usecase.ConfirmInput{Email: "a@x.com", Code: "012345"}, uc.gotConfirm)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	c := cookies[0]
	assert.Equal(t, "refresh_token", c.Name)
	assert.Equal(t, "refresh", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, 3600, c.MaxAge)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
}

func TestConfirm_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{entity.ErrNotFound, http.StatusNotFound},
		{entity.ErrInvalid, http.StatusBadRequest},
		{entity.ErrRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		h := newTestServer(t, &fakeUC{confirmErr: tt.err})
		rec, _ := serve(t, h, post("/api/v1/auth/confirm", `{"email":"a@x.com","code":"1"}`))
		assert.Equal(t, tt.code, rec.Code)
		assert.Empty(t, rec.Result().Cookies())
	}
}

func TestRefresh(t *testing.T) {
	t.Run("cookie", func(t *testing.T) {
		uc := &fakeUC{}
		h := newTestServer(t, uc)

		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "refresh"})

		rec, env := serve(t, h, req)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"access_token":"access-2","token_type":"bearer"}`, string(env.Data))
	})

	t.Run("body fallback", func(t *testing.T) {
		uc := &fakeUC{}
		h := newTestServer(t, uc)

		rec, _ := serve(t, h, post("/api/v1/auth/refresh", `{"refresh_token":"refresh"}`))
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "refresh", uc.gotRefresh)
	})

	t.Run("missing", func(t *testing.T) {
		h := newTestServer(t, &fakeUC{})

		rec, _ := serve(t, h, httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		for _, body := range []string{`{"refresh_token":`, `not json`, `{"token":"refresh"}`} {
			uc := &fakeUC{}
			h := newTestServer(t, uc)

			rec, _ := serve(t, h, post("/api/v1/auth/refresh", body))
			assert.Equal(t, http.StatusUnauthorized, rec.Code, body)
			assert.Empty(t, uc.gotRefresh)
		}
	})
}

func TestSession(t *testing.T) {
	h := newTestServer(t, &fakeUC{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	rec, _ := serve(t, h, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/auth/session", nil)
	req.Header.Set("Authorization", "Bearer access")
	rec, env := serve(t, h, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var got SessionResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, "a@x.com", got.Subject)
}
