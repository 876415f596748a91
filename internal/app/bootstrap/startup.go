// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/fleetcheckr/internal/app/features/organizations"
	orgstore "github.com/dalemusser/fleetcheckr/internal/app/store/organizations"
	"github.com/dalemusser/fleetcheckr/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.TimeoutPing,
		Short:  appCfg.TimeoutShort,
		Medium: appCfg.TimeoutMedium,
		Long:   appCfg.TimeoutLong,
		Batch:  appCfg.TimeoutBatch,
	})

	return ensureSuperOrg(ctx, deps, appCfg, logger)
}

// ensureSuperOrg makes sure the reserved super-admin organization has a
// local record so reports and dashboards can resolve it.
func ensureSuperOrg(ctx context.Context, deps DBDeps, appCfg AppConfig, logger *zap.Logger) error {
	ctx, cancel := timeouts.WithTimeout(ctx, timeouts.Medium)
	defer cancel()

	svc := organizations.NewService(orgstore.New(deps.MongoDatabase), nil, nil, organizations.Config{
		SuperOrgID:   appCfg.SuperAdminOrgID,
		SuperOrgName: appCfg.SuperAdminOrgName,
	}, nil, nil, logger)
	if err := svc.EnsureSuperOrg(ctx); err != nil {
		logger.Error("ensure super-admin organization", zap.Error(err))
		return err
	}
	return nil
}
