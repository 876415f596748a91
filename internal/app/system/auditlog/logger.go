// internal/app/system/auditlog/logger.go
package auditlog

import (
	"context"
	"net"
	"net/http"
	"strconv"

	"github.com/dalemusser/fleetcheckr/internal/app/store/audit"
	"go.uber.org/zap"
)

// Destinations for a category of events.
const (
	ToAll = "all" // MongoDB + zap
	ToDB  = "db"
	ToLog = "log"
	Off   = "off"
)

// Config holds audit logging configuration per category.
type Config struct {
	Admin    string
	Activity string
}

// Logger records audit events to MongoDB and/or zap.
type Logger struct {
	store  *audit.Store
	zapLog *zap.Logger
	config Config
}

// New creates a new audit Logger.
func New(store *audit.Store, zapLog *zap.Logger, config Config) *Logger {
	return &Logger{store: store, zapLog: zapLog, config: config}
}

type ipKey struct{}

// CaptureIP stores the caller's address in the request context so that
// services, which never see the request, can attach it to events.
// Mount after chi's RealIP.
func CaptureIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := r.RemoteAddr
		if host, _, err := net.SplitHostPort(ip); err == nil {
			ip = host
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ipKey{}, ip)))
	})
}

func clientIP(ctx context.Context) string {
	ip, _ := ctx.Value(ipKey{}).(string)
	return ip
}

func (l *Logger) logToZap(event audit.Event) {
	fields := []zap.Field{
		zap.Bool("audit", true),
		zap.String("category", event.Category),
		zap.String("event_type", event.EventType),
		zap.Bool("success", event.Success),
	}
	if event.IP != "" {
		fields = append(fields, zap.String("ip", event.IP))
	}
	if event.OrgID != "" {
		fields = append(fields, zap.String("org_id", event.OrgID))
	}
	if event.UserID != "" {
		fields = append(fields, zap.String("user_id", event.UserID))
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.FailureReason != "" {
		fields = append(fields, zap.String("failure_reason", event.FailureReason))
	}
	for k, v := range event.Details {
		fields = append(fields, zap.String("detail_"+k, v))
	}

	if event.Success {
		l.zapLog.Info("audit event", fields...)
	} else {
		l.zapLog.Warn("audit event", fields...)
	}
}

// Log records an audit event according to the category's setting.
// A nil Logger is a no-op so tests can pass nil.
func (l *Logger) Log(ctx context.Context, event audit.Event) {
	if l == nil {
		return
	}

	setting := ToAll
	switch event.Category {
	case audit.CategoryAdmin:
		setting = l.config.Admin
	case audit.CategoryActivity:
		setting = l.config.Activity
	}
	if setting == "" {
		setting = ToAll
	}
	if setting == Off {
		return
	}
	if event.IP == "" {
		event.IP = clientIP(ctx)
	}

	if setting == ToAll || setting == ToLog {
		l.logToZap(event)
	}
	if setting == ToAll || setting == ToDB {
		if err := l.store.Log(ctx, event); err != nil {
			l.zapLog.Error("failed to store audit event",
				zap.Error(err),
				zap.String("event_type", event.EventType))
		}
	}
}

// --- Admin events ---

// OrgProvisioned logs a completed provisioning run.
func (l *Logger) OrgProvisioned(ctx context.Context, actorID, orgID, name, inviteEmail string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventOrgProvisioned,
		OrgID:     orgID,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"name": name, "invite_email": inviteEmail},
	})
}

// OrgProvisionFailed logs an aborted provisioning run. orgID is empty when
// the provider never created the organization.
func (l *Logger) OrgProvisionFailed(ctx context.Context, actorID, orgID, name, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventOrgProvisionFailed,
		OrgID:         orgID,
		ActorID:       actorID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"name": name},
	})
}

func (l *Logger) ChecklistSaved(ctx context.Context, actorID, orgID string, categories, items int) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventChecklistSaved,
		OrgID:     orgID,
		ActorID:   actorID,
		Success:   true,
		Details: map[string]string{
			"categories": strconv.Itoa(categories),
			"items":      strconv.Itoa(items),
		},
	})
}

// FleetChanged logs a roster add or delete; eventType is one of the
// driver_/vehicle_ event constants.
func (l *Logger) FleetChanged(ctx context.Context, eventType, actorID, orgID, value string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: eventType,
		OrgID:     orgID,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"value": value},
	})
}

func (l *Logger) SubscriptionCreated(ctx context.Context, orgID, subscriptionCode, reference string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryAdmin,
		EventType: audit.EventSubscriptionCreated,
		OrgID:     orgID,
		Success:   true,
		Details:   map[string]string{"subscription_code": subscriptionCode, "reference": reference},
	})
}

func (l *Logger) SubscriptionFailed(ctx context.Context, orgID, reference, reason string) {
	l.Log(ctx, audit.Event{
		Category:      audit.CategoryAdmin,
		EventType:     audit.EventSubscriptionFailed,
		OrgID:         orgID,
		Success:       false,
		FailureReason: reason,
		Details:       map[string]string{"reference": reference},
	})
}

// --- Activity events ---

func (l *Logger) ReportSubmitted(ctx context.Context, actorID, orgID, reportID, verdict string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventReportSubmitted,
		OrgID:     orgID,
		ActorID:   actorID,
		Success:   true,
		Details:   map[string]string{"report_id": reportID, "verdict": verdict},
	})
}

func (l *Logger) OrgSelected(ctx context.Context, userID, orgID string) {
	l.Log(ctx, audit.Event{
		Category:  audit.CategoryActivity,
		EventType: audit.EventOrgSelected,
		OrgID:     orgID,
		UserID:    userID,
		Success:   true,
	})
}
