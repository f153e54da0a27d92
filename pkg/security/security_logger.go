package security

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type EventType string

const (
	EventLoginFailed        EventType = "login_failed"
	EventLoginBlocked       EventType = "login_blocked"
	EventLoginSuccess       EventType = "login_success"
	EventSessionRevoked     EventType = "session_revoked"
	EventRateLimitTriggered EventType = "rate_limit_triggered"
	EventUnauthorizedAccess EventType = "unauthorized_access"
	EventForbiddenAccess    EventType = "forbidden_access"
	EventBlockCreated       EventType = "block_created"
	EventUploadRejected     EventType = "upload_rejected"
)

// SecurityEvent is one entry in the security log. SubjectValue is masked or hashed.
type SecurityEvent struct {
	Event        EventType
	SubjectType  string // "email", "ip", "user_id", "system"
	SubjectValue string
	IP           string
	UserAgent    string
	RequestID    string
	Details      map[string]interface{}
}

// MarshalLogObject writes the event flat into the log entry, skipping empty fields.
func (e SecurityEvent) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("event", string(e.Event))
	enc.AddString("severity", string(GetSeverity(e.Event)))
	for _, f := range [...]struct{ key, val string }{
		{"subject_type", e.SubjectType},
		{"subject_value", e.SubjectValue},
		{"ip", e.IP},
		{"user_agent", e.UserAgent},
		{"request_id", e.RequestID},
	} {
		if f.val != "" {
			enc.AddString(f.key, f.val)
		}
	}
	if len(e.Details) > 0 {
		return enc.AddReflected("details", e.Details)
	}
	return nil
}

// SecurityLogger writes security events as structured zap entries, separate
// from the application log.
type SecurityLogger struct {
	zapLogger *zap.Logger
}

var defaultLogger *SecurityLogger

// InitSecurityLogger builds the production zap logger and installs it as the default.
func InitSecurityLogger(serviceName, environment string) *SecurityLogger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{"stdout"}
	config.ErrorOutputPaths = []string{"stderr"}

	logger, err := config.Build(zap.AddStacktrace(zapcore.ErrorLevel))
	if err != nil {
		logger = zap.NewNop()
	}

	defaultLogger = NewSecurityLogger(logger, serviceName, environment)
	return defaultLogger
}

func NewSecurityLogger(logger *zap.Logger, serviceName, environment string) *SecurityLogger {
	return &SecurityLogger{zapLogger: logger.With(
		zap.String("service", serviceName),
		zap.String("env", environment),
		zap.String("log_type", "security"),
	)}
}

// DefaultLogger returns the installed logger, or a no-op one before InitSecurityLogger runs.
func DefaultLogger() *SecurityLogger {
	if defaultLogger == nil {
		return NewSecurityLogger(zap.NewNop(), "", "")
	}
	return defaultLogger
}

func (sl *SecurityLogger) Log(_ context.Context, event SecurityEvent) {
	sl.zapLogger.Log(levelFor(event.Event), string(event.Event), zap.Inline(event))
}

func (sl *SecurityLogger) Sync() error {
	return sl.zapLogger.Sync()
}

func byEmail(email string) SecurityEvent {
	return SecurityEvent{SubjectType: "email", SubjectValue: MaskEmail(email)}
}

func byUser(userID string) SecurityEvent {
	return SecurityEvent{SubjectType: "user_id", SubjectValue: HashValue(userID)}
}

func byIP(ip, userAgent string) SecurityEvent {
	return SecurityEvent{SubjectType: "ip", SubjectValue: ip, IP: ip, UserAgent: userAgent}
}

func (sl *SecurityLogger) emit(ctx context.Context, e SecurityEvent, event EventType, requestID string, details map[string]interface{}) {
	e.Event = event
	e.RequestID = requestID
	e.Details = details
	sl.Log(ctx, e)
}

func (sl *SecurityLogger) LogLoginFailed(ctx context.Context, email, ip, requestID, reason string) {
	e := byEmail(email)
	e.IP = ip
	sl.emit(ctx, e, EventLoginFailed, requestID, map[string]interface{}{"reason": reason})
}

func (sl *SecurityLogger) LogLoginBlocked(ctx context.Context, email, ip, requestID string) {
	e := byEmail(email)
	e.IP = ip
	sl.emit(ctx, e, EventLoginBlocked, requestID, map[string]interface{}{"reason": "too_many_failed_attempts"})
}

func (sl *SecurityLogger) LogBlockCreated(ctx context.Context, email, ip, requestID string, durationMinutes int) {
	e := byEmail(email)
	e.IP = ip
	sl.emit(ctx, e, EventBlockCreated, requestID, map[string]interface{}{"duration_minutes": durationMinutes})
}

func (sl *SecurityLogger) LogLoginSuccess(ctx context.Context, userID, ip, requestID string) {
	e := byUser(userID)
	e.IP = ip
	sl.emit(ctx, e, EventLoginSuccess, requestID, nil)
}

func (sl *SecurityLogger) LogSessionRevoked(ctx context.Context, userID string) {
	sl.emit(ctx, byUser(userID), EventSessionRevoked, "", nil)
}

// LogForbiddenAccess records an authenticated caller touching a resource they do not own.
func (sl *SecurityLogger) LogForbiddenAccess(ctx context.Context, userID, resource string) {
	sl.emit(ctx, byUser(userID), EventForbiddenAccess, "", map[string]interface{}{"resource": resource})
}

func (sl *SecurityLogger) LogUploadRejected(ctx context.Context, userID, filename, reason string) {
	sl.emit(ctx, byUser(userID), EventUploadRejected, "", map[string]interface{}{"filename": filename, "reason": reason})
}

func (sl *SecurityLogger) LogRateLimitTriggered(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.emit(ctx, byIP(ip, userAgent), EventRateLimitTriggered, requestID, map[string]interface{}{"endpoint": endpoint})
}

func (sl *SecurityLogger) LogUnauthorizedAccess(ctx context.Context, ip, userAgent, requestID, endpoint string) {
	sl.emit(ctx, byIP(ip, userAgent), EventUnauthorizedAccess, requestID, map[string]interface{}{"endpoint": endpoint})
}

// MaskEmail masks an email for logging ("j***@example.com").
func MaskEmail(email string) string {
	at := strings.IndexByte(email, '@')
	switch {
	case len(email) < 3:
		return "***"
	case at <= 1:
		return "***" + email[1:]
	default:
		return email[:1] + "***" + email[at:]
	}
}

// HashValue returns a short SHA-256 prefix so ids can be correlated without being logged.
func HashValue(value string) string {
	sum := sha256.Sum256([]byte(value))
	return hex.EncodeToString(sum[:8])
}
