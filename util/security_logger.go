package util

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/ariebrainware/clinic-appointment/model"
)

// SecurityEventType names an audit event. The values are stored verbatim in
// security_logs.event_type.
type SecurityEventType string

const (
	EventLoginSuccess             SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailure             SecurityEventType = "LOGIN_FAILURE"
	EventSignupSuccess            SecurityEventType = "SIGNUP_SUCCESS"
	EventLogout                   SecurityEventType = "LOGOUT"
	EventUnauthorizedAccess       SecurityEventType = "UNAUTHORIZED_ACCESS"
	EventRateLimitExceeded        SecurityEventType = "RATE_LIMIT_EXCEEDED"
	EventSuspiciousActivity       SecurityEventType = "SUSPICIOUS_ACTIVITY"
	EventEndpointCall             SecurityEventType = "ENDPOINT_CALL"
	EventAppointmentCreated       SecurityEventType = "APPOINTMENT_CREATED"
	EventAppointmentStatusChanged SecurityEventType = "APPOINTMENT_STATUS_CHANGED"
)

// SecurityEvent is one audit record. Details are persisted as JSON and
// never written to the log line.
type SecurityEvent struct {
	EventType SecurityEventType
	AccountID string
	Email     string
	IP        string
	UserAgent string
	Message   string
	Details   map[string]interface{}
}

var (
	securityMu     sync.RWMutex
	securityLogger *zap.Logger
	securityDB     *gorm.DB
)

// SetSecurityLoggerDB enables persistence of audit events into db. A nil db
// turns persistence off.
func SetSecurityLoggerDB(db *gorm.DB) {
	securityMu.Lock()
	defer securityMu.Unlock()
	securityDB = db
}

// SetSecurityLogger overrides the zap logger used for security lines. A nil
// logger restores the default, the global logger named "security".
func SetSecurityLogger(logger *zap.Logger) {
	securityMu.Lock()
	defer securityMu.Unlock()
	securityLogger = logger
}

func securitySinks() (*zap.Logger, *gorm.DB) {
	securityMu.RLock()
	defer securityMu.RUnlock()
	logger := securityLogger
	if logger == nil {
		logger = zap.L().Named("security")
	}
	return logger, securityDB
}

const maxAuditValueRunes = 200

var controlReplacer = strings.NewReplacer("\n", " ", "\r", " ", "\t", " ")

// sanitizeLogValue flattens control whitespace to spaces and caps the value
// at maxAuditValueRunes runes.
func sanitizeLogValue(value string) string {
	value = controlReplacer.Replace(value)
	if r := []rune(value); len(r) > maxAuditValueRunes {
		value = string(r[:maxAuditValueRunes]) + "..."
	}
	return value
}

// row converts the event into its persisted form.
func (e SecurityEvent) row() model.SecurityLog {
	var details datatypes.JSON
	if e.Details != nil {
		if b, err := json.Marshal(e.Details); err == nil {
			details = datatypes.JSON(b)
		}
	}
	return model.SecurityLog{
		EventType: string(e.EventType),
		AccountID: e.AccountID,
		Email:     sanitizeLogValue(e.Email),
		IP:        sanitizeLogValue(e.IP),
		Location:  sanitizeLogValue(GetIPLocation(e.IP).String()),
		UserAgent: sanitizeLogValue(e.UserAgent),
		Message:   sanitizeLogValue(e.Message),
		Details:   details,
	}
}

// LogSecurityEvent writes a sanitized log line and, when a DB is configured,
// persists the event. Persistence is best-effort.
func LogSecurityEvent(event SecurityEvent) {
	logger, db := securitySinks()

	fields := []zap.Field{
		zap.String("event", sanitizeLogValue(string(event.EventType))),
		zap.String("account_id", sanitizeLogValue(event.AccountID)),
		zap.String("email", sanitizeLogValue(event.Email)),
		zap.String("ip", sanitizeLogValue(event.IP)),
		zap.String("user_agent", sanitizeLogValue(event.UserAgent)),
	}
	if len(event.Details) > 0 {
		fields = append(fields, zap.Int("details_count", len(event.Details)))
	}
	logger.Info(sanitizeLogValue(event.Message), fields...)

	if db == nil {
		return
	}
	entry := event.row()
	if err := db.Create(&entry).Error; err != nil {
		logger.Warn("failed to persist security event", zap.Error(err))
	}
}

func LogLoginSuccess(accountID, email, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginSuccess,
		AccountID: accountID,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged in successfully",
	})
}

// LogLoginFailure records a rejected login. reason is free text.
func LogLoginFailure(email, ip, userAgent, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLoginFailure,
		Email:     email,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Login failed: %s", reason),
	})
}

func LogLogout(accountID, ip, userAgent string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventLogout,
		AccountID: accountID,
		IP:        ip,
		UserAgent: userAgent,
		Message:   "User logged out",
	})
}

// LogUnauthorizedAccess records a rejected request against resource.
func LogUnauthorizedAccess(accountID, ip, resource, reason string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventUnauthorizedAccess,
		AccountID: accountID,
		IP:        ip,
		Message:   fmt.Sprintf("Unauthorized access to %s: %s", resource, reason),
	})
}

func LogRateLimitExceeded(ip, endpoint string) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventRateLimitExceeded,
		IP:        ip,
		Message:   fmt.Sprintf("Rate limit exceeded for endpoint: %s", endpoint),
	})
}

// LogAppointmentStatusChanged records a committed transition with the
// previous and new status as details.
func LogAppointmentStatusChanged(accountID, ip, userAgent, appointmentID string, from, to model.AppointmentStatus) {
	LogSecurityEvent(SecurityEvent{
		EventType: EventAppointmentStatusChanged,
		AccountID: accountID,
		IP:        ip,
		UserAgent: userAgent,
		Message:   fmt.Sprintf("Appointment %s moved from %s to %s", appointmentID, from, to),
		Details: map[string]interface{}{
			"appointment_id": appointmentID,
			"from":           string(from),
			"to":             string(to),
		},
	})
}
