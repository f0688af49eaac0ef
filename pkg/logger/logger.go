package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Leveled logger used across the service.
// - package-level functions so any layer can log without plumbing
// - Debug/Info/Warn/Error/Fatal variants and Init(level)
// - zerolog underneath: JSON lines by default, console output via SetFormat

var (
	mu     sync.RWMutex
	logger zerolog.Logger = newLogger(os.Stdout, false)
	level  zerolog.Level  = zerolog.InfoLevel
)

func newLogger(w io.Writer, console bool) zerolog.Logger {
	if console {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).With().Timestamp().Logger()
}

// Init sets the global log level (case-insensitive: debug, info, warn, error, fatal).
// Call early during startup. Default level is Info.
func Init(l string) {
	mu.Lock()
	defer mu.Unlock()
	switch strings.ToLower(strings.TrimSpace(l)) {
	case "debug":
		level = zerolog.DebugLevel
	case "warn", "warning":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	case "fatal":
		level = zerolog.FatalLevel
	default:
		level = zerolog.InfoLevel
	}
}

// SetFormat switches between JSON ("json", default) and human readable
// ("console") output on stdout.
func SetFormat(format string) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(os.Stdout, strings.EqualFold(strings.TrimSpace(format), "console"))
}

func current(l zerolog.Level) (zerolog.Logger, bool) {
	mu.RLock()
	defer mu.RUnlock()
	return logger, l >= level
}

func logf(l zerolog.Level, format string, v ...interface{}) {
	lg, ok := current(l)
	if !ok {
		return
	}
	lg.WithLevel(l).Msg(fmt.Sprintf(format, v...))
}

func Debugf(format string, v ...interface{}) { logf(zerolog.DebugLevel, format, v...) }
func Infof(format string, v ...interface{})  { logf(zerolog.InfoLevel, format, v...) }
func Warnf(format string, v ...interface{})  { logf(zerolog.WarnLevel, format, v...) }
func Errorf(format string, v ...interface{}) { logf(zerolog.ErrorLevel, format, v...) }

// Fatalf logs regardless of level and exits.
func Fatalf(format string, v ...interface{}) {
	mu.RLock()
	lg := logger
	mu.RUnlock()
	lg.WithLevel(zerolog.FatalLevel).Msg(fmt.Sprintf(format, v...))
	os.Exit(1)
}

// Request writes one structured line for a served HTTP request.
func Request(method, path string, status int, latency time.Duration, clientIP string) {
	l := zerolog.InfoLevel
	if status >= 500 {
		l = zerolog.ErrorLevel
	}
	lg, ok := current(l)
	if !ok {
		return
	}
	lg.WithLevel(l).
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("latency", latency).
		Str("client_ip", clientIP).
		Msg("request")
}

// Debug/Info/Warn/Error helpers that accept a single string
func Debug(v string) { Debugf("%s", v) }
func Info(v string)  { Infof("%s", v) }
func Warn(v string)  { Warnf("%s", v) }
func Error(v string) { Errorf("%s", v) }

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	switch level {
	case zerolog.DebugLevel, zerolog.InfoLevel, zerolog.WarnLevel, zerolog.ErrorLevel, zerolog.FatalLevel:
		return level.String()
	}
	return "info"
}
