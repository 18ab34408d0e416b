package httpapi

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/tv-programm/internal/app"
	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/httpjson"
)

type ProgramHandler struct {
	programs *app.ProgramService
	details  *app.DetailLoader
}

func NewProgramHandler(programs *app.ProgramService, details *app.DetailLoader) *ProgramHandler {
	return &ProgramHandler{programs: programs, details: details}
}

func (h *ProgramHandler) Routes(r chi.Router) {
	r.Get("/schedule", h.schedule)
	r.Get("/details", h.detail)
	r.Delete("/details", h.cancelDetail)
	r.Get("/icons/{name}", h.icon)
}

type scheduleEntryView struct {
	Channel  string          `json:"channel"`
	Title    string          `json:"title"`
	Start    string          `json:"start"`
	Ref      string          `json:"ref"`
	Genre    string          `json:"genre,omitempty"`
	Division string          `json:"division,omitempty"`
	Year     *int            `json:"year,omitempty"`
	Icon     *domain.IconRef `json:"icon,omitempty"`
}

type scheduleView struct {
	Source       string               `json:"source"`
	Day          string               `json:"day"`
	Entries      []scheduleEntryView  `json:"entries"`
	Skipped      int                  `json:"skipped"`
	SkippedItems []domain.SkippedItem `json:"skippedItems"`
}

func (h *ProgramHandler) schedule(w http.ResponseWriter, r *http.Request) {
	var day time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation("2006-01-02", raw, time.Local)
		if err != nil {
			httpjson.WriteCodedError(w, http.StatusBadRequest, app.CodeInvalidParams, "invalid date (want YYYY-MM-DD)")
			return
		}
		day = parsed
	}

	sched, err := h.programs.GetScheduleFor(r.Context(), day)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	view := scheduleView{
		Source:       sched.Source,
		Day:          sched.Day.Format("2006-01-02"),
		Entries:      make([]scheduleEntryView, 0, len(sched.Entries)),
		Skipped:      sched.SkippedCount(),
		SkippedItems: sched.Skipped,
	}
	if view.SkippedItems == nil {
		view.SkippedItems = []domain.SkippedItem{}
	}
	for _, e := range sched.Entries {
		ev := scheduleEntryView{
			Channel:  e.ChannelName(),
			Title:    e.Title(),
			Start:    e.StartTime().String(),
			Ref:      e.DetailRef(),
			Genre:    e.Genre(),
			Division: e.Division(),
		}
		if y, ok := e.Year(); ok {
			ev.Year = &y
		}
		if icon, ok := h.programs.ResolveIcon(e.ChannelName()); ok {
			ev.Icon = &icon
		}
		view.Entries = append(view.Entries, ev)
	}
	httpjson.Write(w, http.StatusOK, view)
}

func (h *ProgramHandler) detail(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if ref == "" {
		httpjson.WriteCodedError(w, http.StatusBadRequest, app.CodeInvalidParams, "missing ref")
		return
	}

	var (
		detail domain.ListingDetail
		err    error
	)
	if h.details != nil {
		detail, err = h.details.Get(r.Context(), ref)
	} else {
		detail, err = h.programs.GetDetail(r.Context(), ref)
	}
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, withEntryFallbacks(detail, r))
}

// withEntryFallbacks complète le détail avec la chaîne et l'année de l'entrée
// de la grille (?channel=, ?year=) quand la page de détail ne les porte pas.
func withEntryFallbacks(detail domain.ListingDetail, r *http.Request) domain.ListingDetail {
	q := r.URL.Query()
	if detail.ChannelName == "" {
		detail.ChannelName = strings.TrimSpace(q.Get("channel"))
	}
	if detail.Year == nil {
		if y, err := strconv.Atoi(strings.TrimSpace(q.Get("year"))); err == nil && y > 0 {
			detail.Year = &y
		}
	}
	return detail
}

// cancelDetail interrompt le chargement en cours (ex: l'utilisateur quitte la page).
func (h *ProgramHandler) cancelDetail(w http.ResponseWriter, r *http.Request) {
	ref := strings.TrimSpace(r.URL.Query().Get("ref"))
	if ref == "" {
		httpjson.WriteCodedError(w, http.StatusBadRequest, app.CodeInvalidParams, "missing ref")
		return
	}
	if h.details == nil || !h.details.Cancel(ref) {
		httpjson.WriteError(w, http.StatusNotFound, "no pending detail")
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"ref": ref, "canceled": true})
}

func (h *ProgramHandler) icon(w http.ResponseWriter, r *http.Request) {
	icon, ok := h.programs.ResolveIcon(chi.URLParam(r, "name"))
	if !ok {
		httpjson.WriteError(w, http.StatusNotFound, "no icon")
		return
	}
	httpjson.Write(w, http.StatusOK, icon)
}
