package security

import "go.uber.org/zap/zapcore"

// Severity is derived from the EventType, never supplied by the caller.
type Severity string

const (
	SeverityINFO Severity = "INFO"
	SeverityWARN Severity = "WARN"
	SeverityHIGH Severity = "HIGH"
)

var EventSeverityMap = map[EventType]Severity{
	EventLoginSuccess:   SeverityINFO,
	EventSessionRevoked: SeverityINFO,

	EventLoginFailed:        SeverityWARN,
	EventRateLimitTriggered: SeverityWARN,
	EventForbiddenAccess:    SeverityWARN,
	EventUploadRejected:     SeverityWARN,

	EventLoginBlocked:       SeverityHIGH,
	EventBlockCreated:       SeverityHIGH,
	EventUnauthorizedAccess: SeverityHIGH,
}

// GetSeverity returns the severity for an event type, WARN when unmapped.
func GetSeverity(eventType EventType) Severity {
	if severity, ok := EventSeverityMap[eventType]; ok {
		return severity
	}
	return SeverityWARN
}

func IsHighOrAbove(eventType EventType) bool {
	return GetSeverity(eventType) == SeverityHIGH
}

func levelFor(event EventType) zapcore.Level {
	switch GetSeverity(event) {
	case SeverityINFO:
		return zapcore.InfoLevel
	case SeverityHIGH:
		return zapcore.ErrorLevel
	default:
		return zapcore.WarnLevel
	}
}
