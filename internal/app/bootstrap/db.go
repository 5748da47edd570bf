// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"fmt"

	"github.com/dalemusser/garajhub/internal/app/store/audit"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/timeouts"
	"github.com/dalemusser/garajhub/internal/app/system/validators"
	"github.com/dalemusser/garajhub/internal/app/system/workers"
	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB builds the API client, connects the audit database when one is
// configured and creates the backup worker. Nothing is started here.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	api, err := apiclient.New(appCfg.APIBaseURL, nil, logger.Named("api"))
	if err != nil {
		return DBDeps{}, err
	}
	deps := DBDeps{API: api}

	var store auditlog.EventStore
	if appCfg.AuditEnabled() {
		client, err := connectMongo(ctx, appCfg.MongoURI)
		if err != nil {
			logger.Error("MongoDB connect failed", zap.Error(err))
			return DBDeps{}, err
		}
		deps.MongoClient = client
		deps.MongoDatabase = client.Database(appCfg.MongoDatabase)
		deps.AuditStore = audit.New(deps.MongoDatabase)
		store = deps.AuditStore
		logger.Info("connected to audit database", zap.String("database", appCfg.MongoDatabase))
	} else {
		logger.Info("mongo_uri is blank; audit events go to the log only")
	}

	deps.AuditLog = auditlog.New(store, logger, auditlog.Config{
		Auth:  appCfg.AuditLogAuth,
		Admin: appCfg.AuditLogAdmin,
	})

	if appCfg.BackupEnabled() {
		w, err := workers.NewScheduledBackup(api, deps.AuditLog, logger.Named("backup"), workers.BackupConfig{
			Schedule: appCfg.BackupSchedule,
			Username: appCfg.BackupUsername,
			Password: appCfg.BackupPassword,
		})
		if err != nil {
			return deps, err
		}
		deps.Backup = w
	}

	return deps, nil
}

func connectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// EnsureSchema creates the audit collection with its validator and indexes.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if deps.AuditStore == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, timeouts.Long())
	defer cancel()
	if err := validators.EnsureAll(ctx, deps.MongoDatabase, logger); err != nil {
		logger.Error("audit collection setup failed", zap.Error(err))
		return err
	}
	if err := deps.AuditStore.EnsureIndexes(ctx); err != nil {
		logger.Error("audit index setup failed", zap.Error(err))
		return err
	}
	return nil
}
