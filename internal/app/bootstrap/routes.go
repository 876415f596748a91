// internal/app/bootstrap/routes.go
package bootstrap

import (
	"errors"
	"net/http"
	"time"

	auditlogfeature "github.com/dalemusser/fleetcheckr/internal/app/features/auditlog"
	billingfeature "github.com/dalemusser/fleetcheckr/internal/app/features/billing"
	checklistfeature "github.com/dalemusser/fleetcheckr/internal/app/features/checklist"
	dashboardfeature "github.com/dalemusser/fleetcheckr/internal/app/features/dashboard"
	errorsfeature "github.com/dalemusser/fleetcheckr/internal/app/features/errors"
	fleetfeature "github.com/dalemusser/fleetcheckr/internal/app/features/fleet"
	healthfeature "github.com/dalemusser/fleetcheckr/internal/app/features/health"
	inspectionsfeature "github.com/dalemusser/fleetcheckr/internal/app/features/inspections"
	organizationsfeature "github.com/dalemusser/fleetcheckr/internal/app/features/organizations"
	setorgfeature "github.com/dalemusser/fleetcheckr/internal/app/features/setorg"
	auditstore "github.com/dalemusser/fleetcheckr/internal/app/store/audit"
	checkliststore "github.com/dalemusser/fleetcheckr/internal/app/store/checklists"
	fleetstore "github.com/dalemusser/fleetcheckr/internal/app/store/fleet"
	inspectionstore "github.com/dalemusser/fleetcheckr/internal/app/store/inspections"
	memberstore "github.com/dalemusser/fleetcheckr/internal/app/store/members"
	orgstore "github.com/dalemusser/fleetcheckr/internal/app/store/organizations"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auditlog"
	"github.com/dalemusser/fleetcheckr/internal/app/system/auth"
	"github.com/dalemusser/fleetcheckr/internal/app/system/gates"
	"github.com/dalemusser/fleetcheckr/internal/app/system/identity"
	"github.com/dalemusser/fleetcheckr/internal/app/system/metrics"
	"github.com/dalemusser/fleetcheckr/internal/app/system/paystack"
	"github.com/dalemusser/fleetcheckr/internal/app/system/ratelimit"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/fleetcheckr/internal/domain/models"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// Version is stamped at build time with -ldflags.
var Version = "dev"

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. Stores, provider clients and services
// are built here once and shared by every request.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	verifier, err := newVerifier(appCfg, logger)
	if err != nil {
		return nil, err
	}

	// Secure cookies are enabled in production mode.
	secure := coreCfg.Env == "prod"
	sessionMgr, err := auth.NewSessionManager(appCfg.SessionKey, appCfg.SessionName, appCfg.SessionDomain,
		appCfg.SessionMaxAge, secure, verifier, logger)
	if err != nil {
		logger.Error("session manager init failed", zap.Error(err))
		return nil, err
	}
	sessionMgr.SetSignInURL(appCfg.SignInURL)

	provider := identity.NewClient(appCfg.IdentityAPIURL, appCfg.IdentitySecretKey, timeouts.Long(), logger)
	gateway := paystack.NewClient(appCfg.PaystackBaseURL, appCfg.PaystackSecretKey, timeouts.Long(), logger)

	paths := gates.DefaultPaths
	paths.SignIn = appCfg.SignInURL
	gate := gates.New(provider, paths, logger)

	m := metrics.New()
	events := auditstore.New(db)
	audit := auditlog.New(events, logger, auditlog.Config{
		Admin:    appCfg.AuditLogAdmin,
		Activity: appCfg.AuditLogActivity,
	})
	errLog := errorsfeature.NewErrorLogger(logger)

	// Stores
	orgs := orgstore.New(db)
	checklists := checkliststore.New(db)
	reports := inspectionstore.New(db)
	drivers := fleetstore.NewDrivers(db)
	vehicles := fleetstore.NewVehicles(db)

	// Services
	checklistSvc := checklistfeature.NewService(checklists, appCfg.SuperAdminOrgID, audit, logger)
	inspectionSvc := inspectionsfeature.NewService(reports, checklistSvc, m, audit, logger)
	driverSvc := fleetfeature.NewService[models.Driver](drivers, fleetfeature.DriverEvents, audit, logger)
	vehicleSvc := fleetfeature.NewService[models.Vehicle](vehicles, fleetfeature.VehicleEvents, audit, logger)
	orgSvc := organizationsfeature.NewService(orgs, memberstore.New(db), provider, organizationsfeature.Config{
		InviteRedirectURL: appCfg.InviteRedirectURL,
		SuperOrgID:        appCfg.SuperAdminOrgID,
		SuperOrgName:      appCfg.SuperAdminOrgName,
	}, m, audit, logger)
	billingSvc := billingfeature.NewService(gateway, orgs, billingfeature.Config{
		BaseURL:      appCfg.BaseURL,
		PlanCode:     appCfg.PaystackPlanCode,
		VerifyAmount: appCfg.PaystackVerifyAmount,
		TrialDays:    appCfg.TrialDays,
	}, audit, logger)

	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(auditlog.CaptureIP)
	if len(appCfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   appCfg.CORSAllowedOrigins,
			AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
			ExposedHeaders:   []string{"Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           300,
		}))
	}
	r.Use(m.Instrument)

	// Global auth middleware: verifies the provider token and loads the
	// active organization into the request context.
	r.Use(sessionMgr.LoadIdentity)

	// Operational endpoints
	healthHandler := healthfeature.NewHandler(deps.MongoClient, Version, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))
	r.Method(http.MethodGet, "/metrics", m.Handler())

	// Error and navigation targets
	errorsHandler := errorsfeature.NewHandler()
	r.Get("/forbidden", errorsHandler.Forbidden)
	r.Get("/wait-list", errorsHandler.WaitList)
	r.NotFound(errorsHandler.NotFound)

	r.With(gate.Require(gates.SurfaceLanding)).Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
	})
	r.With(gate.Require(gates.SurfaceSuperAdmin)).Get(paths.SuperAdmin, func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, paths.SuperAdmin+"/organizations", http.StatusSeeOther)
	})

	setOrgHandler := setorgfeature.NewHandler(provider, sessionMgr, audit, logger)
	r.Mount(paths.SetOrg, setorgfeature.Routes(setOrgHandler, sessionMgr))

	dashboardHandler := dashboardfeature.NewHandler(db, logger)
	r.Mount("/dashboard", dashboardfeature.Routes(dashboardHandler, gate))

	checklistHandler := checklistfeature.NewHandler(checklistSvc, errLog, logger)
	r.Mount("/checklist", checklistfeature.Routes(checklistHandler, gate))

	driverHandler := fleetfeature.NewHandler(driverSvc, errLog, logger)
	r.Mount("/fleet/drivers", fleetfeature.Routes(driverHandler, gate))
	vehicleHandler := fleetfeature.NewHandler(vehicleSvc, errLog, logger)
	r.Mount("/fleet/vehicles", fleetfeature.Routes(vehicleHandler, gate))

	// Report submission, review and export (/inspections, /reports/...)
	inspectionHandler := inspectionsfeature.NewHandler(inspectionSvc, errLog, logger)
	r.Mount("/", inspectionsfeature.Routes(inspectionHandler, gate))

	// Organization provisioning is expensive (three provider calls), so it is
	// throttled per super admin.
	orgHandler := organizationsfeature.NewHandler(orgSvc, errLog, logger)
	r.Mount(paths.SuperAdmin+"/organizations", organizationsfeature.SuperAdminRoutes(orgHandler, gate, ratelimit.New(6*time.Second, 5)))
	r.Mount("/organization", organizationsfeature.OrgRoutes(orgHandler, gate))

	auditHandler := auditlogfeature.NewHandler(events, errLog, logger)
	r.Mount("/audit", auditlogfeature.Routes(auditHandler, gate))
	r.Mount(paths.SuperAdmin+"/audit", auditlogfeature.SuperAdminRoutes(auditHandler, gate))

	billingHandler := billingfeature.NewHandler(billingSvc, errLog, logger)
	r.Mount("/billing", billingfeature.Routes(billingHandler, gate, ratelimit.New(12*time.Second, 3)))
	r.Mount(billingfeature.CallbackMount, billingfeature.CallbackRoutes(billingHandler, sessionMgr))

	return r, nil
}

// newVerifier builds the session-token verifier. Without a key (dev only,
// ValidateConfig enforces it in prod) every token is rejected, so all
// requests are anonymous.
func newVerifier(appCfg AppConfig, logger *zap.Logger) (auth.TokenVerifier, error) {
	if appCfg.IdentityJWTKey == "" {
		return rejectAll{}, nil
	}
	v, err := identity.NewVerifier(appCfg.IdentityJWTKey, appCfg.IdentityJWTIssuer)
	if err != nil {
		logger.Error("identity verifier init failed", zap.Error(err))
		return nil, err
	}
	return v, nil
}

type rejectAll struct{}

func (rejectAll) Verify(string) (identity.Identity, error) {
	return identity.Identity{}, errors.New("no verification key configured")
}
