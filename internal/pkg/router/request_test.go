package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRequest_GetCookie(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/refresh", nil)
	req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "tok"})
	r := &Request{Request: req}

	assert.Equal(t, "tok", r.GetCookie("refresh_token"))
	assert.Empty(t, r.GetCookie("missing"))
}

func TestRequest_DecodeBody(t *testing.T) {
	var dst struct {
		Email string `json:"email"`
	}

	for name, body := range map[string]string{
		"unknown field": `{"email":"a@x.com","x":1}`,
		"trailing data": `{"email":"a@x.com"}{}`,
		"not json":      `email=a@x.com`,
	} {
		r := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))}
		assert.Error(t, r.DecodeBody(&dst), name)
	}

	r := &Request{Request: httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"email":"a@x.com"}`))}
	assert.NoError(t, r.DecodeBody(&dst))
	assert.Equal(t, "a@x.com", dst.Email)
	assert.True(t, r.HasBody())

	empty := &Request{Request: httptest.NewRequest(http.MethodPost, "/", nil)}
	assert.False(t, empty.HasBody())
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.7:5555"
	assert.Equal(t, "192.0.2.7", clientIP(req))

	req.Header.Set("X-Forwarded-For", "198.51.100.1, 10.0.0.1")
	assert.Equal(t, "198.51.100.1", clientIP(req))

	req.Header.Set("X-Real-IP", "not-an-ip")
	assert.Equal(t, "198.51.100.1", clientIP(req))
}
