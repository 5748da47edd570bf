// internal/app/features/auditlog/list.go
package auditlog

import (
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dalemusser/garajhub/internal/app/store/audit"
	"github.com/dalemusser/garajhub/internal/app/system/format"
	"github.com/dalemusser/garajhub/internal/app/system/normalize"
	"github.com/dalemusser/garajhub/internal/app/system/paging"
	"github.com/dalemusser/garajhub/internal/app/system/timeouts"
	"github.com/dalemusser/garajhub/internal/app/system/viewdata"
	"github.com/dalemusser/waffle/pantry/query"
	"github.com/dalemusser/waffle/pantry/templates"
)

const pageSize = 50

const dateLayout = "2006-01-02"

// filterFromRequest reads the list filters. Unknown categories and event
// types are dropped; dates that do not parse are ignored.
func filterFromRequest(r *http.Request) (audit.QueryFilter, listData) {
	var data listData
	var f audit.QueryFilter

	if c := normalize.Filter(query.Get(r, "category")); len(eventTypesForCategory(c)) > 0 {
		f.Category, data.Category = c, c
	}
	if et := normalize.Filter(query.Get(r, "event_type")); et != "" {
		for _, known := range eventTypesForCategory(f.Category) {
			if et == known {
				f.EventType, data.EventType = et, et
				break
			}
		}
	}
	if a := normalize.QueryParam(query.Get(r, "actor")); a != "" {
		if id, err := strconv.ParseInt(a, 10, 64); err == nil && id > 0 {
			f.ActorID = id
			data.Actor = a
		}
	}
	if s := normalize.QueryParam(query.Get(r, "start_date")); s != "" {
		if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
			f.StartTime = &t
			data.StartDate = s
		}
	}
	if s := normalize.QueryParam(query.Get(r, "end_date")); s != "" {
		if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
			// End of day
			end := t.Add(24*time.Hour - time.Nanosecond)
			f.EndTime = &end
			data.EndDate = s
		}
	}

	f.Limit = pageSize
	return f, data
}

// ServeList handles GET /audit - displays the audit log list with filtering.
func (h *Handler) ServeList(w http.ResponseWriter, r *http.Request) {
	filter, data := filterFromRequest(r)
	data.Categories = allCategories(data.Category)
	data.EventTypes = eventTypeOptions(data.Category, data.EventType)
	data.BaseVM = viewdata.WithFlash(viewdata.NewBaseVM(r, "Audit Log", "/dashboard"), h.SessionMgr, w, r)

	if h.Store == nil {
		templates.Render(w, r, "audit_list", data)
		return
	}
	data.Enabled = true

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Long(), h.Log, "audit log list")
	defer cancel()

	total, err := h.Store.Count(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "count audit events", err, "A database error occurred.", "/dashboard")
		return
	}

	desc := paging.NewDescriptor(paging.ParsePage(r), paging.TotalPages(int(total), pageSize), pageSize)
	filter.Offset = int64(desc.Offset())

	events, err := h.Store.Query(ctx, filter)
	if err != nil {
		h.ErrLog.LogServerError(w, r, "query audit events", err, "A database error occurred.", "/dashboard")
		return
	}

	data.Items = make([]listItem, 0, len(events))
	for _, e := range events {
		data.Items = append(data.Items, toItem(e))
	}
	data.Total = total
	data.Shown = len(data.Items)
	data.Pagination = paging.WithLinks(r.URL, desc.Controls())

	templates.Render(w, r, "audit_list", data)
}

func toItem(e audit.Event) listItem {
	item := listItem{
		Timestamp: e.Timestamp.Local().Format("02.01.2006 15:04:05"),
		Category:  format.Title(e.Category),
		EventType: eventLabel(e.EventType),
		Actor:     actorLabel(e),
		IP:        format.OrDash(e.IP),
		Success:   e.Success,
		Reason:    e.FailureReason,
		Details:   detailsText(e.Details),
	}
	if e.TargetType != "" {
		item.Target = e.TargetType
		if e.TargetID != "" {
			item.Target += " #" + e.TargetID
		}
	} else {
		item.Target = format.Dash
	}
	return item
}

func actorLabel(e audit.Event) string {
	switch {
	case e.ActorName != "" && e.ActorID != 0:
		return e.ActorName + " (#" + strconv.FormatInt(e.ActorID, 10) + ")"
	case e.ActorName != "":
		return e.ActorName
	case e.ActorID != 0:
		return "#" + strconv.FormatInt(e.ActorID, 10)
	default:
		return format.Dash
	}
}

// eventLabel turns "startup_status_changed" into "Startup status changed".
func eventLabel(eventType string) string {
	s := strings.ReplaceAll(eventType, "_", " ")
	if s == "" {
		return format.Dash
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// detailsText renders details as "key=value" pairs in key order.
func detailsText(d map[string]string) string {
	if len(d) == 0 {
		return ""
	}
	keys := make([]string, 0, len(d))
	for k := range d {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+d[k])
	}
	return strings.Join(parts, ", ")
}
