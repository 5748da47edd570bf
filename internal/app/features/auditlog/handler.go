// internal/app/features/auditlog/handler.go
package auditlog

import (
	"context"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/store/audit"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"go.uber.org/zap"
)

// EventReader is the part of the audit store the list page needs.
// *audit.Store satisfies it.
type EventReader interface {
	Query(ctx context.Context, filter audit.QueryFilter) ([]audit.Event, error)
	Count(ctx context.Context, filter audit.QueryFilter) (int64, error)
}

type Handler struct {
	// Store is nil when no MongoDB is configured; the page then explains
	// that audit events only go to the application log.
	Store      EventReader
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
	ErrLog     *uierrors.ErrorLogger
}

// NewHandler constructs an Audit Log feature handler. store may be nil.
func NewHandler(store EventReader, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Store:      store,
		SessionMgr: sm,
		Log:        logger,
		ErrLog:     errLog,
	}
}
