// internal/app/features/broadcast/handler.go
package broadcast

import (
	"net/http"
	"strings"
	"time"

	uierrors "github.com/dalemusser/garajhub/internal/app/features/errors"
	"github.com/dalemusser/garajhub/internal/app/system/apiclient"
	"github.com/dalemusser/garajhub/internal/app/system/auditlog"
	"github.com/dalemusser/garajhub/internal/app/system/auth"
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/garajhub/internal/app/system/inputval"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/garajhub/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PreviewLength is how much of a sent message the history keeps.
const PreviewLength = 100

type Handler struct {
	API        *apiclient.Client
	SessionMgr *auth.SessionManager
	ErrLog     *uierrors.ErrorLogger
	AuditLog   *auditlog.Logger
	Log        *zap.Logger

	now func() time.Time
}

func NewHandler(api *apiclient.Client, sm *auth.SessionManager, errLog *uierrors.ErrorLogger, audit *auditlog.Logger, logger *zap.Logger) *Handler {
	return &Handler{
		API:        api,
		SessionMgr: sm,
		ErrLog:     errLog,
		AuditLog:   audit,
		Log:        logger,
		now:        time.Now,
	}
}

// Routes mounts the broadcast page (typically at "/broadcast").
func Routes(h *Handler, sm *auth.SessionManager) chi.Router {
	r := chi.NewRouter()
	r.Group(func(pr chi.Router) {
		pr.Use(sm.RequireSignedIn)
		pr.Get("/", h.ServeForm)
		pr.Post("/", h.HandleSend)
	})
	return r
}

type audienceOption struct {
	Value    string
	Label    string
	Selected bool
}

type historyRow struct {
	Preview  string
	Audience string
	SentAt   string
}

type pageData struct {
	viewdata.BaseVM

	Message   string
	Audience  string
	Audiences []audienceOption
	Error     string
	History   []historyRow
}

func audienceOptions(selected string) []audienceOption {
	out := make([]audienceOption, 0, len(models.Audiences))
	for _, a := range models.Audiences {
		out = append(out, audienceOption{Value: a, Label: format.AudienceName(a), Selected: a == selected})
	}
	return out
}

func historyRows(entries []auth.HistoryEntry) []historyRow {
	out := make([]historyRow, 0, len(entries))
	for _, e := range entries {
		out = append(out, historyRow{
			Preview:  e.Preview,
			Audience: format.AudienceName(e.Audience),
			SentAt:   e.SentAt.Local().Format("02.01.2006 15:04"),
		})
	}
	return out
}

// ServeForm handles GET /broadcast.
func (h *Handler) ServeForm(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, pageData{Audience: models.AudienceAll})
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, data pageData) {
	data.Audiences = audienceOptions(data.Audience)
	data.History = historyRows(h.SessionMgr.History(r))
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Broadcast", "/dashboard"), h.SessionMgr, w, r)
	templates.Render(w, r, "broadcast_page", data)
}

// HandleSend handles POST /broadcast. The API queues the message and
// answers at once; delivery happens in the background on its side.
func (h *Handler) HandleSend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.ErrLog.LogBadRequest(w, r, "parse broadcast form", err, "Invalid form submission.", "/broadcast")
		return
	}

	raw := strings.TrimSpace(r.PostFormValue("message"))
	msg := models.BroadcastMessage{
		Message:  htmlsanitize.Sanitize(raw),
		UserType: normalize.Choice(r.PostFormValue("user_type")),
	}
	form := pageData{Message: raw, Audience: msg.UserType}

	if err := inputval.Struct(msg); err != nil {
		form.Error = "Enter a message and choose who receives it."
		if fe := inputval.FieldErrors(err); fe != nil {
			if m, ok := fe["message"]; ok {
				form.Error = m
			}
		}
		w.WriteHeader(http.StatusBadRequest)
		h.render(w, r, form)
		return
	}

	preview := htmlsanitize.Preview(raw, PreviewLength)
	res, err := h.API.Broadcast(r.Context(), auth.Token(r), msg)
	h.AuditLog.BroadcastSent(r.Context(), r, msg.UserType, preview, err)
	if err != nil {
		h.ErrLog.APIActionError(w, r, h.SessionMgr, "send broadcast", err, "/broadcast")
		return
	}

	entry := auth.HistoryEntry{
		ID:       uuid.NewString(),
		Preview:  preview,
		Audience: msg.UserType,
		SentAt:   h.now(),
	}
	if err := h.SessionMgr.AddHistory(w, r, entry); err != nil {
		h.Log.Warn("record broadcast history", zap.Error(err))
	}

	h.Log.Info("broadcast queued", zap.String("audience", msg.UserType), zap.Int("length", len([]rune(msg.Message))))
	text := res.Message
	if text == "" {
		text = "Broadcast queued."
	}
	h.SessionMgr.SetFlash(w, r, auth.FlashSuccess, text)
	http.Redirect(w, r, "/broadcast", http.StatusSeeOther)
}
