package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Guilhem-Bonnet/tv-programm/internal/app"
	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/httpjson"
)

type ReportsHandler struct {
	programs *app.ProgramService
}

func NewReportsHandler(programs *app.ProgramService) *ReportsHandler {
	return &ReportsHandler{programs: programs}
}

func (h *ReportsHandler) Routes(r chi.Router) {
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.list)
		r.Get("/{id}", h.get)
	})
}

type reportView struct {
	ID           string `json:"id"`
	Kind         string `json:"kind"`
	Source       string `json:"source"`
	Target       string `json:"target,omitempty"`
	Entries      int    `json:"entries"`
	Skipped      int    `json:"skipped"`
	ErrorCode    string `json:"errorCode,omitempty"`
	ErrorMessage string `json:"errorMessage,omitempty"`
	DurationMs   int64  `json:"durationMs"`
	CreatedAt    string `json:"createdAt"`
}

func toReportView(r domain.ExtractionReport) reportView {
	return reportView{
		ID:           r.ID,
		Kind:         string(r.Kind),
		Source:       r.Source,
		Target:       r.Target,
		Entries:      r.Entries,
		Skipped:      r.Skipped,
		ErrorCode:    r.ErrorCode,
		ErrorMessage: r.ErrorMessage,
		DurationMs:   r.Duration.Milliseconds(),
		CreatedAt:    r.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func (h *ReportsHandler) list(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	kind := domain.ReportKind(r.URL.Query().Get("kind"))
	switch kind {
	case "", domain.ReportSchedule, domain.ReportDetail:
	default:
		httpjson.WriteCodedError(w, http.StatusBadRequest, app.CodeInvalidParams, "invalid kind")
		return
	}

	reports, err := h.programs.ListReports(r.Context(), kind, limit)
	if err != nil {
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	out := make([]reportView, 0, len(reports))
	for _, rep := range reports {
		out = append(out, toReportView(rep))
	}
	httpjson.Write(w, http.StatusOK, out)
}

func (h *ReportsHandler) get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.programs.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, app.ErrNotFound) {
			httpjson.WriteError(w, http.StatusNotFound, "not found")
			return
		}
		httpjson.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	httpjson.Write(w, http.StatusOK, toReportView(rep))
}
