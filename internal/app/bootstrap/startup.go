// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/garajhub/internal/app/resources"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup registers the shared templates, sets the theme cookie name and
// starts the backup scheduler when one is configured.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	resources.LoadSharedTemplates()
	viewdata.SetThemeCookie(appCfg.ThemeCookie)

	if deps.Backup != nil {
		if err := deps.Backup.Start(); err != nil {
			logger.Error("backup scheduler failed to start", zap.Error(err))
			return err
		}
	}
	return nil
}
