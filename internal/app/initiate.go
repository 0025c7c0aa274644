package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"github.com/shandysiswandi/otpauth/internal/pkg/clock"
	"github.com/shandysiswandi/otpauth/internal/pkg/config"
	"github.com/shandysiswandi/otpauth/internal/pkg/goroutine"
	"github.com/shandysiswandi/otpauth/internal/pkg/hash"
	"github.com/shandysiswandi/otpauth/internal/pkg/idempotency"
	"github.com/shandysiswandi/otpauth/internal/pkg/instrument"
	"github.com/shandysiswandi/otpauth/internal/pkg/jwt"
	"github.com/shandysiswandi/otpauth/internal/pkg/kvstore"
	"github.com/shandysiswandi/otpauth/internal/pkg/mail"
	"github.com/shandysiswandi/otpauth/internal/pkg/messaging"
	"github.com/shandysiswandi/otpauth/internal/pkg/notifier"
	"github.com/shandysiswandi/otpauth/internal/pkg/otp"
	"github.com/shandysiswandi/otpauth/internal/pkg/router"
	"github.com/shandysiswandi/otpauth/internal/pkg/uid"
	"github.com/shandysiswandi/otpauth/internal/pkg/validator"
)

const (
	defaultAccessTTL  = 900 * time.Second
	defaultRefreshTTL = 7 * 24 * time.Hour
	defaultOTPTTL     = 300 * time.Second
	defaultOTPDigits  = 6
)

func (a *App) initConfig() {
	path := os.Getenv("CONFIG_PATH")
	if path == "" {
		path = "/config/config.yaml"
		if os.Getenv("LOCAL") == "true" {
			path = "./config/config.yaml"
		}
	}

	cfg, err := config.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	if tz := cfg.GetString("app.tz"); tz != "" {
		//nolint:errcheck,gosec // ignore error
		os.Setenv("TZ", tz)
	}

	a.config = cfg
}

func (a *App) initInstrument() {
	ins, err := instrument.New(a.ctx, &instrument.Config{
		Enabled:          a.config.GetBool("instrument.enabled"),
		ServiceName:      a.config.GetString("instrument.service_name"),
		ServiceVersion:   a.config.GetString("instrument.service_version"),
		Environment:      a.config.GetString("instrument.env"),
		OTLPEndpoint:     a.config.GetString("instrument.otlp_endpoint"),
		OTLPSecure:       a.config.GetBool("instrument.otlp_secure"),
		TraceSampleRatio: a.config.GetFloat64("instrument.trace_sample_ratio"),
		MetricsInterval:  a.config.GetSecond("instrument.metric_interval_seconds"),
		LogLevel:         a.config.GetString("instrument.log_level"),
		MaskFields:       a.config.GetArray("instrument.log_mask_fields"),
	})
	if err != nil {
		slog.Error("failed to init instrumentation", "error", err)
		os.Exit(1)
	}
	a.ins = ins
}

func (a *App) initLibraries() {
	a.clock = clock.New()
	a.uuid = uid.NewUUID()
	a.goroutine = goroutine.NewManager(a.config.GetInt("app.server.max_goroutine"))

	secret := a.config.GetString("modules.auth.otp_hash_secret")
	if secret == "" {
		slog.Error("failed to init otp hash, modules.auth.otp_hash_secret is empty")
		os.Exit(1)
	}
	a.hmac = hash.NewHMACSHA256(secret)

	validator, err := validator.NewV10Validator()
	if err != nil {
		slog.Error("failed to init validation v10 validator", "error", err)
		os.Exit(1)
	}
	a.validator = validator

	digits := a.config.GetInt("modules.auth.otp_digits")
	if digits == 0 {
		digits = defaultOTPDigits
	}
	code, err := otp.NewNumeric(digits)
	if err != nil {
		slog.Error("failed to init otp code generator", "digits", digits, "error", err)
		os.Exit(1)
	}
	a.code = code
}

func (a *App) initJWT() {
	accessTTL := a.config.GetSecond("jwt.access_token_ttl_seconds")
	if accessTTL <= 0 {
		accessTTL = defaultAccessTTL
	}
	refreshTTL := a.config.GetSecond("jwt.refresh_token_ttl_seconds")
	if refreshTTL <= 0 {
		refreshTTL = defaultRefreshTTL
	}

	issuer, err := jwt.NewSymmetric(jwt.Config{
		Secret:     []byte(a.config.GetString("jwt.secret")),
		Algorithm:  a.config.GetString("jwt.algorithm"),
		Issuer:     a.config.GetString("jwt.issuer"),
		AccessTTL:  accessTTL,
		RefreshTTL: refreshTTL,
		Clock:      a.clock,
		UUID:       a.uuid,
	})
	if err != nil {
		slog.Error("failed to init jwt token", "error", err)
		os.Exit(1)
	}
	a.jwt = issuer
}

func (a *App) initCache() {
	if a.config.GetString("cache.driver") == "memory" {
		slog.Warn("using in-memory cache, state is lost on restart and not shared across instances")
		a.store = kvstore.NewMemory(a.clock)
		a.idemp = idempotency.New(a.store)
		return
	}

	opt, err := redis.ParseURL(a.config.GetString("redis.url"))
	if err != nil {
		slog.Error("failed to parse redis url", "error", err)
		os.Exit(1)
	}

	rdb := redis.NewClient(opt)

	pingCtx, cancel := context.WithTimeout(a.ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		slog.Error("failed to init redis", "error", err)
		os.Exit(1)
	}

	a.cacheConn = rdb
	a.store = kvstore.NewRedis(rdb)
	a.idemp = idempotency.New(a.store)
}

// drivers returns every notifier driver this process uses.
func (a *App) drivers() []string {
	out := []string{a.notifierDriverName()}
	if a.config.GetBool("modules.notification.enabled") {
		out = append(out, a.config.GetString("modules.notification.driver"))
	}
	return out
}

func (a *App) notifierDriverName() string {
	if d := strings.TrimSpace(a.config.GetString("notifier.driver")); d != "" {
		return d
	}
	return notifier.DriverLog
}

func (a *App) initMail() {
	if !slices.Contains(a.drivers(), notifier.DriverSMTP) {
		return
	}

	mail, err := mail.NewSMTP(mail.SMTPConfig{
		Host:     a.config.GetString("mail.host"),
		Port:     a.config.GetInt("mail.port"),
		Username: a.config.GetString("mail.username"),
		Password: a.config.GetString("mail.password"),
		From:     a.config.GetString("mail.from"),
	})
	if err != nil {
		slog.Error("failed to init mail", "error", err)
		os.Exit(1)
	}

	a.mail = mail
}

func (a *App) initMessaging() {
	if a.notifierDriverName() != notifier.DriverNATS && !a.config.GetBool("modules.notification.enabled") {
		return
	}

	client, err := messaging.NewNATS(messaging.NATSConfig{
		URL: a.config.GetString("messaging.nats.url"),
		Options: []nats.Option{
			nats.Name(a.config.GetString("messaging.nats.name")),
			nats.MaxReconnects(a.config.GetInt("messaging.nats.max_reconnects")),
			nats.Timeout(a.config.GetSecond("messaging.nats.timeout_seconds")),
			nats.ReconnectWait(a.config.GetSecond("messaging.nats.reconnect_wait_seconds")),
			nats.PingInterval(a.config.GetSecond("messaging.nats.ping_interval_seconds")),
			nats.MaxPingsOutstanding(a.config.GetInt("messaging.nats.max_pings_outstanding")),
			nats.RetryOnFailedConnect(a.config.GetBool("messaging.nats.retry_on_failed_connect")),
		},
	})
	if err != nil {
		slog.Error("failed to init messaging", "error", err)
		os.Exit(1)
	}

	a.messaging = client
}

func (a *App) otpContent() notifier.Content {
	ttl := a.config.GetSecond("modules.auth.otp_ttl_seconds")
	if ttl <= 0 {
		ttl = defaultOTPTTL
	}
	return notifier.Content{TTL: ttl}
}

// newNotifier builds a driver that delivers directly. The nats driver lives
// in the auth module because it publishes auth events.
func (a *App) newNotifier(driver string) (notifier.Notifier, error) {
	switch driver {
	case notifier.DriverLog:
		return notifier.NewLog(), nil
	case notifier.DriverSMTP:
		return notifier.NewMail(a.mail, a.otpContent()), nil
	case notifier.DriverSNS:
		return notifier.NewSNS(a.ctx, notifier.SNSConfig{
			Region:          a.config.GetString("sns.region"),
			AccessKeyID:     a.config.GetString("sns.access_key"),
			SecretAccessKey: a.config.GetString("sns.secret_key"),
			SessionToken:    a.config.GetString("sns.session_token"),
			Endpoint:        a.config.GetString("sns.endpoint"),
			SenderID:        a.config.GetString("sns.sender_id"),
		}, a.otpContent())
	default:
		return nil, notifier.ErrUnknownDriver
	}
}

func (a *App) initNotifier() {
	a.notifierDriver = a.notifierDriverName()
	if a.notifierDriver == notifier.DriverLog {
		slog.Warn("notifier driver is log, otp codes are written to the log and not delivered")
	}

	if a.notifierDriver != notifier.DriverNATS {
		n, err := a.newNotifier(a.notifierDriver)
		if err != nil {
			slog.Error("failed to init notifier", "driver", a.notifierDriver, "error", err)
			os.Exit(1)
		}
		a.notifier = n
	}

	if a.config.GetBool("modules.notification.enabled") {
		driver := a.config.GetString("modules.notification.driver")
		n, err := a.newNotifier(driver)
		if err != nil {
			slog.Error("failed to init notification delivery", "driver", driver, "error", err)
			os.Exit(1)
		}
		a.delivery = n
	}
}

func (a *App) initHTTPServer() {
	a.router = router.NewRouter(router.Config{
		Config:     a.config,
		UUID:       a.uuid,
		JWT:        a.jwt,
		Instrument: a.ins,
	})

	routerWithCORS := cors.New(cors.Options{
		AllowedOrigins:   a.config.GetArray("app.server.cors"),
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Correlation-ID"},
		ExposedHeaders:   []string{"X-Correlation-ID", "Retry-After"},
		AllowCredentials: true,
	}).Handler(a.router)

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("app.server.http.address"),
		Handler:           routerWithCORS,
		ReadTimeout:       a.config.GetSecond("app.server.http.read_timeout_seconds"),
		ReadHeaderTimeout: a.config.GetSecond("app.server.http.read_header_timeout_seconds"),
		WriteTimeout:      a.config.GetSecond("app.server.http.write_timeout_seconds"),
		IdleTimeout:       a.config.GetSecond("app.server.http.idle_timeout_seconds"),
	}
}

func (a *App) initClosers() {
	a.closers = []struct {
		name string
		fn   func(context.Context) error
	}{
		{
			name: "Messaging",
			fn: func(context.Context) error {
				if a.messaging == nil {
					return nil
				}
				return a.messaging.Close()
			},
		},
		{
			name: "Mail",
			fn: func(context.Context) error {
				if a.mail == nil {
					return nil
				}
				return a.mail.Close()
			},
		},
		{
			name: "Redis",
			fn: func(context.Context) error {
				if a.cacheConn == nil {
					return nil
				}
				return a.cacheConn.Close()
			},
		},
		{
			name: "Config",
			fn: func(context.Context) error {
				return a.config.Close()
			},
		},
		{
			name: "Instrument",
			fn: func(ctx context.Context) error {
				return a.ins.Shutdown(ctx)
			},
		},
	}
}
