package logger

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/yungbote/framevault-backend/internal/platform/envutil"
)

type Logger struct {
	SugaredLogger *zap.SugaredLogger
}

// New builds a logger for the given mode ("prod" or anything else for development).
// LOG_LEVEL overrides the default debug level.
func New(mode string) (*Logger, error) {
	cfg := zap.NewDevelopmentConfig()
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "prod", "production":
		cfg = zap.NewProductionConfig()
		cfg.InitialFields = map[string]any{"service": envutil.String("OTEL_SERVICE_NAME", "framevault-backend")}
	}
	lvl := zapcore.DebugLevel
	if raw := envutil.String("LOG_LEVEL", ""); raw != "" {
		if err := lvl.Set(strings.ToLower(raw)); err != nil {
			lvl = zapcore.DebugLevel
		}
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	z, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build zap logger: %w", err)
	}
	return &Logger{SugaredLogger: z.Sugar()}, nil
}

// Nop discards everything. Used by CLIs run with -quiet and by callers that accept a nil logger.
func Nop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

func (l *Logger) Sync() { _ = l.SugaredLogger.Sync() }

func (l *Logger) Debug(msg string, kv ...any) { l.SugaredLogger.Debugw(msg, scrub(kv)...) }
func (l *Logger) Info(msg string, kv ...any) { l.SugaredLogger.Infow(msg, scrub(kv)...) }
func (l *Logger) Warn(msg string, kv ...any) { l.SugaredLogger.Warnw(msg, scrub(kv)...) }
func (l *Logger) Error(msg string, kv ...any) { l.SugaredLogger.Errorw(msg, scrub(kv)...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.SugaredLogger.Fatalw(msg, scrub(kv)...) }

func (l *Logger) With(kv ...any) *Logger {
	return &Logger{SugaredLogger: l.SugaredLogger.With(scrub(kv)...)}
}

const redacted = "[REDACTED]"

// Keys containing any of these are dropped; identity keys are hashed so a
// user's requests still correlate without exposing the uid.
var (
	secretKeyParts = []string{
		"token", "authorization", "password", "secret", "cookie",
		"api_key", "apikey", "email", "refresh", "signed_url",
	}
	identityKeyParts = []string{"user_id", "session_id"}
)

type redactor struct {
	enabled bool
	salt    string
}

// LOG_REDACTION_ENABLED and LOG_HASH_SALT are read on first use.
var loadRedactor = sync.OnceValue(func() redactor {
	return redactor{
		enabled: envutil.Bool("LOG_REDACTION_ENABLED", true),
		salt:    envutil.String("LOG_HASH_SALT", ""),
	}
})

func scrub(kv []any) []any {
	r := loadRedactor()
	if len(kv) == 0 || !r.enabled {
		return kv
	}
	out := make([]any, len(kv))
	copy(out, kv)
	for i := 0; i+1 < len(out); i += 2 {
		key := stringify(out[i])
		out[i] = key
		out[i+1] = r.value(normalizeKey(key), out[i+1])
	}
	return out
}

func normalizeKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

func (r redactor) value(key string, val any) any {
	switch {
	case key == "":
	case containsAny(key, secretKeyParts):
		return redacted
	case key == "uid" || containsAny(key, identityKeyParts):
		return r.hash(val)
	}
	switch v := val.(type) {
	case string:
		if looksLikeJWT(v) {
			return redacted
		}
		return stripSignature(v)
	case map[string]any:
		m := make(map[string]any, len(v))
		for k, inner := range v {
			m[k] = r.value(normalizeKey(k), inner)
		}
		return m
	case []any:
		s := make([]any, len(v))
		for i, inner := range v {
			s[i] = r.value("", inner)
		}
		return s
	}
	return val
}

func (r redactor) hash(val any) string {
	raw := stringify(val)
	if raw == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(r.salt + raw))
	return "hash:" + hex.EncodeToString(sum[:])[:12]
}

func containsAny(s string, parts []string) bool {
	for _, p := range parts {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func looksLikeJWT(s string) bool {
	parts := strings.Split(s, ".")
	return len(parts) == 3 && len(parts[0]) > 10 && len(parts[1]) > 10
}

// stripSignature drops the query of signed object URLs; the query is the credential.
func stripSignature(s string) string {
	i := strings.IndexByte(s, '?')
	if i < 0 || !strings.Contains(strings.ToLower(s[i:]), "signature=") {
		return s
	}
	return s[:i] + "?" + redacted
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case []byte:
		return string(t)
	case fmt.Stringer:
		return t.String()
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
