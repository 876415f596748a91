// internal/app/bootstrap/config.go
package bootstrap

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.uber.org/zap"
)

const devSessionKey = "dev-only-change-me-please-0123456789ABCDEF"

// appConfigKeys defines the configuration keys for fleetcheckr.
// These are loaded via WAFFLE's config system with support for:
//   - Config files: mongo_uri, session_name, etc.
//   - Environment variables: FLEETCHECKR_MONGO_URI, FLEETCHECKR_SESSION_NAME, etc.
//   - Command-line flags: --mongo_uri, --session_name, etc.
var appConfigKeys = []config.AppKey{
	{Name: "mongo_uri", Default: "mongodb://localhost:27017", Desc: "MongoDB connection URI"},
	{Name: "mongo_database", Default: "fleetcheckr", Desc: "MongoDB database name"},
	{Name: "mongo_max_pool_size", Default: 100, Desc: "MongoDB max connection pool size"},
	{Name: "mongo_min_pool_size", Default: 10, Desc: "MongoDB min connection pool size"},
	{Name: "session_key", Default: devSessionKey, Desc: "Session signing key (must be strong in production)"},
	{Name: "session_name", Default: "fleetcheckr-session", Desc: "Session cookie name"},
	{Name: "session_domain", Default: "", Desc: "Session cookie domain (blank means current host)"},
	{Name: "session_max_age", Default: "720h", Desc: "Active-organization cookie lifetime"},

	{Name: "base_url", Default: "http://localhost:3000", Desc: "Public origin used to build payment callback URLs"},
	{Name: "sign_in_url", Default: "/sign-in", Desc: "Where unauthenticated browsers are redirected"},

	// Identity provider
	{Name: "identity_api_url", Default: "https://api.clerk.com/v1", Desc: "Identity provider backend API base URL"},
	{Name: "identity_secret_key", Default: "", Desc: "Identity provider backend secret key"},
	{Name: "identity_jwt_key", Default: "", Desc: "PEM public key (RS256) or shared secret (HS256) for session tokens"},
	{Name: "identity_jwt_issuer", Default: "", Desc: "Expected issuer of session tokens (blank skips the check)"},
	{Name: "invite_redirect_url", Default: "http://localhost:3000/sign-up", Desc: "Where invitation emails send new admins"},

	// Reserved super-admin organization
	{Name: "superadmin_org_id", Default: "org_superadmin", Desc: "Reserved organization id for the super admin"},
	{Name: "superadmin_org_name", Default: "Fleetcheckr Administration", Desc: "Display name of the reserved organization"},

	// Paystack
	{Name: "paystack_base_url", Default: "https://api.paystack.co", Desc: "Paystack API base URL"},
	{Name: "paystack_secret_key", Default: "", Desc: "Paystack secret key"},
	{Name: "paystack_plan_code", Default: "", Desc: "Paystack plan subscribed to after card verification"},
	{Name: "paystack_verify_amount", Default: 5000, Desc: "Card verification charge in kobo"},
	{Name: "trial_days", Default: 30, Desc: "Days before the first subscription charge"},

	{Name: "cors_allowed_origins", Default: "", Desc: "Comma-separated origins allowed for cross-origin requests"},

	// Audit logging settings
	{Name: "audit_log_admin", Default: "all", Desc: "Admin event logging: 'all' (db+log), 'db', 'log', or 'off'"},
	{Name: "audit_log_activity", Default: "db", Desc: "Activity event logging: 'all' (db+log), 'db', 'log', or 'off'"},

	// Timeouts
	{Name: "timeout_ping", Default: "2s", Desc: "Deadline for health-check pings"},
	{Name: "timeout_short", Default: "5s", Desc: "Deadline for single-document reads"},
	{Name: "timeout_medium", Default: "10s", Desc: "Deadline for list queries and single writes"},
	{Name: "timeout_long", Default: "30s", Desc: "Deadline for multi-step writes such as provisioning"},
	{Name: "timeout_batch", Default: "60s", Desc: "Deadline for CSV exports"},
}

// LoadConfig loads WAFFLE core config and app-specific config.
//
// WAFFLE's config.LoadWithAppConfig handles:
//   - Loading from .env files
//   - Loading from config.yaml/json/toml files
//   - Reading environment variables (WAFFLE_* for core, FLEETCHECKR_* for app)
//   - Parsing command-line flags
//   - Merging with precedence: flags > env > files > defaults
func LoadConfig(logger *zap.Logger) (*config.CoreConfig, AppConfig, error) {
	coreCfg, appValues, err := config.LoadWithAppConfig(logger, "FLEETCHECKR", appConfigKeys)
	if err != nil {
		return nil, AppConfig{}, err
	}

	appCfg := AppConfig{
		MongoURI:         appValues.String("mongo_uri"),
		MongoDatabase:    appValues.String("mongo_database"),
		MongoMaxPoolSize: uint64(appValues.Int("mongo_max_pool_size")),
		MongoMinPoolSize: uint64(appValues.Int("mongo_min_pool_size")),
		SessionKey:       appValues.String("session_key"),
		SessionName:      appValues.String("session_name"),
		SessionDomain:    appValues.String("session_domain"),
		SessionMaxAge:    appValues.Duration("session_max_age", 30*24*time.Hour),

		BaseURL:   strings.TrimRight(appValues.String("base_url"), "/"),
		SignInURL: appValues.String("sign_in_url"),

		IdentityAPIURL:    appValues.String("identity_api_url"),
		IdentitySecretKey: appValues.String("identity_secret_key"),
		IdentityJWTKey:    appValues.String("identity_jwt_key"),
		IdentityJWTIssuer: appValues.String("identity_jwt_issuer"),
		InviteRedirectURL: appValues.String("invite_redirect_url"),

		SuperAdminOrgID:   appValues.String("superadmin_org_id"),
		SuperAdminOrgName: appValues.String("superadmin_org_name"),

		PaystackBaseURL:      appValues.String("paystack_base_url"),
		PaystackSecretKey:    appValues.String("paystack_secret_key"),
		PaystackPlanCode:     appValues.String("paystack_plan_code"),
		PaystackVerifyAmount: int64(appValues.Int("paystack_verify_amount")),
		TrialDays:            appValues.Int("trial_days"),

		CORSAllowedOrigins: splitList(appValues.String("cors_allowed_origins")),

		AuditLogAdmin:    appValues.String("audit_log_admin"),
		AuditLogActivity: appValues.String("audit_log_activity"),

		TimeoutPing:   appValues.Duration("timeout_ping", timeouts.DefaultPing),
		TimeoutShort:  appValues.Duration("timeout_short", timeouts.DefaultShort),
		TimeoutMedium: appValues.Duration("timeout_medium", timeouts.DefaultMedium),
		TimeoutLong:   appValues.Duration("timeout_long", timeouts.DefaultLong),
		TimeoutBatch:  appValues.Duration("timeout_batch", timeouts.DefaultBatch),
	}

	return coreCfg, appCfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// ValidateConfig performs app-specific config validation.
//
// Return nil to accept the loaded config, or an error to abort startup.
// Development runs tolerate missing secrets; production does not.
func ValidateConfig(coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) error {
	if err := wafflemongo.ValidateURI(appCfg.MongoURI); err != nil {
		logger.Error("invalid MongoDB URI", zap.Error(err))
		return fmt.Errorf("invalid MongoDB URI: %w", err)
	}
	if strings.TrimSpace(appCfg.SuperAdminOrgID) == "" {
		return errors.New("superadmin_org_id is required")
	}
	if appCfg.TrialDays <= 0 {
		return fmt.Errorf("trial_days must be positive, got %d", appCfg.TrialDays)
	}
	for key, v := range map[string]string{
		"audit_log_admin":    appCfg.AuditLogAdmin,
		"audit_log_activity": appCfg.AuditLogActivity,
	} {
		switch v {
		case auditlog.ToAll, auditlog.ToDB, auditlog.ToLog, auditlog.Off:
		default:
			return fmt.Errorf("%s must be one of all, db, log, off; got %q", key, v)
		}
	}

	if coreCfg.Env != "prod" {
		if appCfg.IdentityJWTKey == "" {
			logger.Warn("identity_jwt_key is empty; every request will be anonymous")
		}
		return nil
	}

	if len(appCfg.SessionKey) < 32 || appCfg.SessionKey == devSessionKey {
		return errors.New("session_key must be a unique value of at least 32 characters in production")
	}
	if appCfg.IdentityJWTKey == "" || appCfg.IdentitySecretKey == "" {
		return errors.New("identity_jwt_key and identity_secret_key are required in production")
	}
	if appCfg.PaystackSecretKey == "" || appCfg.PaystackPlanCode == "" {
		return errors.New("paystack_secret_key and paystack_plan_code are required in production")
	}
	return nil
}
