// internal/app/features/dashboard/handler.go
package dashboard

import (
	"context"
	"encoding/json"
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
	return &Handler{
		API:        api,
		SessionMgr: sm,
		ErrLog:     errLog,
		Log:        logger,
	}
}

// DefaultPeriod is used when the request names no chart period.
const DefaultPeriod = models.PeriodMonth

// periodParam returns the requested chart period, or DefaultPeriod when the
// parameter is absent. ok is false for an unknown period.
func periodParam(r *http.Request) (string, bool) {
	p := query.Get(r, "period")
	if p == "" {
		return DefaultPeriod, true
	}
	return p, charts.ValidPeriod(p)
}

// load fetches the statistics and the three charts concurrently.
//
// Statistics are required: their failure fails the page. A chart that
// fails to load is left empty and reported in ChartErrors, except for a
// rejected credential, which fails the page so the caller can send the
// browser to login.
func (h *Handler) load(ctx context.Context, token, period string) (dashboardData, error) {
	var (
		data        dashboardData
		stats       models.Statistics
		growth      models.ChartSeries
		dist        models.ChartSeries
		activity    models.ActivityChart
		growthErr   error
		distErr     error
		activityErr error
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stats, err = h.API.Statistics(gctx, token)
		return err
	})
	g.Go(func() error {
		growth, growthErr = h.API.Chart(gctx, token, models.ChartUserGrowth, period)
		return authFailure(growthErr)
	})
	g.Go(func() error {
		dist, distErr = h.API.Chart(gctx, token, models.ChartStartupDistribution, period)
		return authFailure(distErr)
	})
	g.Go(func() error {
		activity, activityErr = h.API.ActivityChart(gctx, token, period)
		return authFailure(activityErr)
	})
	if err := g.Wait(); err != nil {
		return data, err
	}

	data.Stats = stats
	data.Widgets = charts.SummaryWidgets(stats)
	data.Period = period
	data.Periods = periods
	data.Charts = chartSet{
		UserGrowth:   growth,
		Distribution: charts.NewDistribution(dist),
		Activity:     activity,
	}
	for _, ce := range []struct {
		name string
		err  error
	}{
		{"User growth", growthErr},
		{"Startup distribution", distErr},
		{"Activity", activityErr},
	} {
		if ce.err != nil {
			h.Log.Warn("chart load failed", zap.String("chart", ce.name), zap.Error(ce.err))
			data.ChartErrors = append(data.ChartErrors, ce.name+": "+apiclient.Message(ce.err, apiclient.GenericMessage))
		}
	}
	return data, nil
}

// authFailure passes through only errors that must abort the whole page.
func authFailure(err error) error {
	if apiclient.IsUnauthorized(err) {
		return err
	}
	return nil
}

// ServeDashboard renders GET /dashboard.
func (h *Handler) ServeDashboard(w http.ResponseWriter, r *http.Request) {
	period, ok := periodParam(r)
	if !ok {
		period = DefaultPeriod
	}

	data, err := h.load(r.Context(), auth.Token(r), period)
	if err != nil {
		h.ErrLog.APIError(w, r, h.SessionMgr, "load dashboard", err, "/dashboard")
		return
	}

	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Dashboard", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "dashboard_page", data)
}

// ServeChart returns one chart as JSON for the period switcher.
// startup_distribution carries its legend.
func (h *Handler) ServeChart(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "kind")
	if !charts.ValidKind(kind) {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "Unknown chart"})
		return
	}
	period, ok := periodParam(r)
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "Invalid period"})
		return
	}

	token := auth.Token(r)
	var (
		out any
		err error
	)
	switch kind {
	case models.ChartActivity:
		out, err = h.API.ActivityChart(r.Context(), token, period)
	case models.ChartStartupDistribution:
		var s models.ChartSeries
		s, err = h.API.Chart(r.Context(), token, kind, period)
		out = charts.NewDistribution(s)
	default:
		out, err = h.API.Chart(r.Context(), token, kind, period)
	}
	if err != nil {
		h.Log.Warn("chart request failed", zap.String("kind", kind), zap.String("period", period), zap.Error(err))
		writeJSON(w, jsonStatus(err), map[string]string{"detail": apiclient.Message(err, apiclient.GenericMessage)})
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// jsonStatus maps an API failure onto the status returned to the browser
// script. Upstream 401/403/404 pass through; anything else is a bad gateway.
func jsonStatus(err error) int {
	switch s := apiclient.StatusOf(err); s {
	case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return s
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
