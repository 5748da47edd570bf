// internal/app/system/workers/backup.go
package workers

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// BackupAPI is the part of the API client the scheduler uses.
// *apiclient.Client satisfies it.
type BackupAPI interface {
	Login(ctx context.Context, username, password string) (models.LoginResponse, error)
	Backup(ctx context.Context, token string) (models.BackupResult, error)
}

// BackupConfig configures ScheduledBackup. Schedule is a standard five-field
// cron expression or a descriptor such as "@daily".
type BackupConfig struct {
	Schedule string
	Username string
	Password string
}

// ScheduledBackup is a background worker that asks the API for a database
// backup on a cron schedule. It signs in with its own superadmin account
// and keeps the token until it expires or is rejected.
type ScheduledBackup struct {
	api   BackupAPI
	audit *auditlog.Logger
	log   *zap.Logger
	cfg   BackupConfig

	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc

	mu    sync.Mutex
	token string
	now   func() time.Time
}

// NewScheduledBackup validates cfg and creates a worker. It does not start it.
func NewScheduledBackup(api BackupAPI, audit *auditlog.Logger, logger *zap.Logger, cfg BackupConfig) (*ScheduledBackup, error) {
	if cfg.Username == "" || cfg.Password == "" {
		return nil, errors.New("scheduled backup needs a username and password")
	}
	if _, err := cron.ParseStandard(cfg.Schedule); err != nil {
		return nil, fmt.Errorf("parse backup schedule %q: %w", cfg.Schedule, err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	w := &ScheduledBackup{
		api:   api,
		audit: audit,
		log:   logger,
		cfg:   cfg,
		now:   time.Now,
	}
	cl := cronLogger{s: logger.Sugar()}
	w.cron = cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)
	return w, nil
}

// Start schedules the job and starts the cron goroutine.
func (w *ScheduledBackup) Start() error {
	w.ctx, w.cancel = context.WithCancel(context.Background())
	if _, err := w.cron.AddFunc(w.cfg.Schedule, w.run); err != nil {
		return fmt.Errorf("schedule backup: %w", err)
	}
	w.cron.Start()
	w.log.Info("backup scheduler started", zap.String("schedule", w.cfg.Schedule))
	return nil
}

// Stop cancels a running backup and waits for the cron goroutine to finish.
func (w *ScheduledBackup) Stop() {
	if w.cancel != nil {
		w.cancel()
	}
	<-w.cron.Stop().Done()
	w.log.Info("backup scheduler stopped")
}

func (w *ScheduledBackup) run() {
	if _, err := w.RunOnce(w.ctx); err != nil {
		w.log.Error("scheduled backup failed", zap.Error(err))
	}
}

// RunOnce performs a single backup. A rejected token triggers one fresh
// sign-in and retry.
func (w *ScheduledBackup) RunOnce(ctx context.Context) (models.BackupResult, error) {
	res, err := w.backup(ctx, false)
	if apiclient.IsUnauthorized(err) {
		w.log.Info("backup token rejected; signing in again")
		res, err = w.backup(ctx, true)
	}
	w.audit.ScheduledBackup(ctx, w.cfg.Username, res.Filename, err)
	if err != nil {
		return res, err
	}
	w.log.Info("scheduled backup created", zap.String("filename", res.Filename))
	return res, nil
}

func (w *ScheduledBackup) backup(ctx context.Context, fresh bool) (models.BackupResult, error) {
	token, err := w.tokenFor(ctx, fresh)
	if err != nil {
		return models.BackupResult{}, err
	}
	return w.api.Backup(ctx, token)
}

// tokenFor returns the cached token, signing in when there is none, when it
// has expired, or when fresh is set.
func (w *ScheduledBackup) tokenFor(ctx context.Context, fresh bool) (string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !fresh && w.token != "" && !apiclient.TokenExpired(w.token, w.now()) {
		return w.token, nil
	}
	w.token = ""

	resp, err := w.api.Login(ctx, w.cfg.Username, w.cfg.Password)
	if err != nil {
		return "", fmt.Errorf("backup sign-in: %w", err)
	}
	if resp.Admin.Role != models.RoleSuperAdmin {
		w.log.Warn("backup account is not a superadmin; the API will refuse backups",
			zap.String("username", w.cfg.Username), zap.String("role", resp.Admin.Role))
	}
	w.token = resp.AccessToken
	return w.token, nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	s *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.s.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.s.Errorw(msg, append(keysAndValues, "error", err)...)
}
