// internal/app/bootstrap/appconfig.go
package bootstrap

import "time"

// AppConfig holds service-specific configuration for this WAFFLE app.
//
// These values come from environment variables, configuration files, or
// command-line flags (loaded in LoadConfig). WAFFLE's CoreConfig covers the
// framework-level settings (ports, TLS, log level); everything specific to
// fleetcheckr lives here.
type AppConfig struct {
	// MongoDB connection configuration
	MongoURI         string
	MongoDatabase    string
	MongoMaxPoolSize uint64
	MongoMinPoolSize uint64

	// Active-organization session cookie
	SessionKey    string // must be 32+ chars in production
	SessionName   string
	SessionDomain string
	SessionMaxAge time.Duration

	// Public origin, used for payment callbacks
	BaseURL string
	// Where unauthenticated browsers are sent (hosted sign-in page)
	SignInURL string

	// Identity provider
	IdentityAPIURL    string
	IdentitySecretKey string
	IdentityJWTKey    string // PEM public key or shared secret for session tokens
	IdentityJWTIssuer string
	InviteRedirectURL string

	// Reserved super-admin organization
	SuperAdminOrgID   string
	SuperAdminOrgName string

	// Paystack
	PaystackBaseURL      string
	PaystackSecretKey    string
	PaystackPlanCode     string
	PaystackVerifyAmount int64 // kobo
	TrialDays            int

	CORSAllowedOrigins []string

	// Audit logging destinations: all, db, log or off
	AuditLogAdmin    string
	AuditLogActivity string

	// Request-scoped deadlines
	TimeoutPing   time.Duration
	TimeoutShort  time.Duration
	TimeoutMedium time.Duration
	TimeoutLong   time.Duration
	TimeoutBatch  time.Duration
}
