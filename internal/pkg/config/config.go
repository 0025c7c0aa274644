package config

import (
	"io"
	"time"
)

// TimeConfig reads integer values and scales them into durations.
type TimeConfig interface {
	// GetSecond reads key as a number of seconds. Missing keys yield zero.
	GetSecond(key string) time.Duration
	// GetMinute reads key as a number of minutes. Missing keys yield zero.
	GetMinute(key string) time.Duration
	// GetHour reads key as a number of hours. Missing keys yield zero.
	GetHour(key string) time.Duration
}

// NumberConfig reads numeric values.
type NumberConfig interface {
	GetInt(key string) int
	GetInt32(key string) int32
	GetInt64(key string) int64
	GetUint(key string) uint
	GetFloat64(key string) float64
}

// Config is the read-only view over the service configuration.
//
// Implementations return zero values for missing or unconvertible keys;
// callers apply their own defaults.
type Config interface {
	io.Closer
	TimeConfig
	NumberConfig

	GetBool(key string) bool
	GetString(key string) string

	// GetBinary reads a base64 encoded value.
	GetBinary(key string) []byte

	// GetArray reads a comma separated value, "a,b,c", or a YAML list.
	// Blank elements are dropped.
	GetArray(key string) []string
}
