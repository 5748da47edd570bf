// internal/app/features/statistics/handler.go
package statistics

import (
	"net/http"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/charts"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	Log        *zap.Logger
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{API: api, SessionMgr: sm, ErrLog: errLog, Log: logger}
}

func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeStatistics)
	})
	return r
}

type pageData struct {
	viewdata.BaseVM

	Stats    models.Statistics
	Detailed charts.Detailed
	Activity models.ActivityChart
	Period   string
}

// ServeStatistics renders the detailed statistics page with the activity
// chart. Both requests run concurrently; either failing fails the page.
func (h *Handler) ServeStatistics(w http.ResponseWriter, r *http.Request) {
	period := query.Get(r, "period")
	if !charts.ValidPeriod(period) {
		period = models.PeriodMonth
	}
	token := auth.Token(r)

	var data pageData
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		data.Stats, err = h.API.Statistics(ctx, token)
		return err
	})
	g.Go(func() error {
		var err error
		data.Activity, err = h.API.ActivityChart(ctx, token, period)
		return err
	})
	if err := g.Wait(); err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "load statistics", err, "/dashboard")
		return
	}

	data.Detailed = charts.DetailedStats(data.Stats)
	data.Period = period
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Statistics", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "statistics_page", data)
}
