package instrument

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLogger(buf *bytes.Buffer, level string) *slog.Logger {
	return slog.New(newHandler(buf, &Config{
		ServiceName: "otpauth",
		LogLevel:    level,
		MaskFields:  []string{"code", "Access_Token", "refresh_token", " "},
	}, nil))
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()

	var out map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &out))

	return out
}

func TestLogging_MasksSensitiveFields(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "")

	logger.Info("otp issued",
		"code", "123456",
		"subject", "a@x.com",
		"request_body", `{"email":"a@x.com","code":"654321"}`,
		slog.Group("tokens", slog.String("access_token", "aaa")),
		"raw", []byte(`{"refresh_token":"rrr"}`),
		"meta", map[string]string{"code": "111111"},
	)

	line := decodeLine(t, &buf)
	assert.Equal(t, "***", line["code"])
	assert.Equal(t, "a@x.com", line["subject"])
	assert.JSONEq(t, `{"email":"a@x.com","code":"***"}`, line["request_body"].(string))
	assert.Equal(t, map[string]any{"access_token": "***"}, line["tokens"])
	assert.JSONEq(t, `{"refresh_token":"***"}`, line["raw"].(string))
	assert.Equal(t, map[string]any{"code": "***"}, line["meta"])
	assert.Equal(t, "otpauth", line["service"])
	assert.Equal(t, "INFO", line["severity"])
	assert.Contains(t, line, "ts")
}

func TestLogging_WithAttrsIsMasked(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "").With("code", "123456")

	logger.Info("verify")

	assert.Equal(t, "***", decodeLine(t, &buf)["code"])
}

func TestLogging_CorrelationID(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "")

	ctx := SetCorrelationID(context.Background(), "cid-1")
	logger.InfoContext(ctx, "hello")

	assert.Equal(t, "cid-1", decodeLine(t, &buf)["_cID"])
	assert.Equal(t, "cid-1", GetCorrelationID(ctx))
	assert.Empty(t, GetCorrelationID(context.Background()))
}

func TestLogging_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf, "warn")

	logger.Info("dropped")
	assert.Zero(t, buf.Len())

	logger.Warn("kept")
	assert.NotZero(t, buf.Len())

	assert.Equal(t, slog.LevelInfo, parseLevel("loud"))
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
}

func TestNew_Disabled(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	ins, err := New(context.Background(), &Config{Enabled: false, ServiceName: "otpauth"})
	require.NoError(t, err)

	_, span := ins.Tracer("test").Start(context.Background(), "noop")
	span.End()
	assert.NoError(t, ins.Shutdown(context.Background()))

	ins, err = New(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, ins.Meter("test"))
}
