package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/httpfetch"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/tvspielfilm"
	"github.com/Guilhem-Bonnet/tv-programm/internal/app"
	"github.com/Guilhem-Bonnet/tv-programm/internal/icons"
)

const testSchedule = `<html><body><table class="info-table"><tbody>
<tr class="hover"><td class="programm-col1"><a title="Das Erste Programm">ARD</a></td><td class="col-2"><strong>20:15</strong></td><td class="col-3"><span><a href="/tv-programm/sendung/tatort.html" title="Tatort D 2019"><strong>Tatort</strong></a></span></td><td class="col-4"><span>Krimi</span></td></tr>
<tr class="hover"><td class="programm-col1"><a title="Sender Ohne Logo Programm">X</a></td><td class="col-2"><strong>19:30</strong></td><td class="col-3"><span><a href="/tv-programm/sendung/x.html"><strong>Magazin</strong></a></span></td></tr>
</tbody></table></body></html>`

const testDetail = `<html><body><article class="broadcast-detail"><h1 class="broadcast-detail__title">Tatort</h1>
<section class="broadcast-detail__description"><p>Ein Fall.</p></section>
<dl class="broadcast-detail__infos"><dt>Land/Jahr</dt><dd>D 2019</dd></dl></article></body></html>`

func newTestRouter(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()
	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	db, err := sqlite.Open(context.Background(), ":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	bus := memorybus.New()
	source := tvspielfilm.New(httpfetch.New(2*time.Second, "")).WithBaseURL(ts.URL)
	programs := app.NewProgramService(zerolog.Nop(), source, icons.NewResolver(tvspielfilm.IconEntries()), app.ProgramOptions{
		Reports: sqlite.NewReportsRepository(db.SQL),
		Bus:     bus,
	})
	return NewServer(zerolog.Nop(), programs, app.NewDetailLoader(programs.GetDetail), bus).Router()
}

func upstreamPages() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch {
		case strings.HasSuffix(r.URL.Path, "/sendungen/abends.html"):
			_, _ = w.Write([]byte(testSchedule))
		case r.URL.Path == "/tv-programm/sendung/tatort.html":
			_, _ = w.Write([]byte(testDetail))
		default:
			http.NotFound(w, r)
		}
	})
}

func doRequest(t *testing.T, h http.Handler, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return v
}

func TestSchedule_ReturnsSortedEntriesWithIcons(t *testing.T) {
	h := newTestRouter(t, upstreamPages())

	rr := doRequest(t, h, http.MethodGet, "/api/v1/schedule")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d (%s)", http.StatusOK, rr.Code, rr.Body.String())
	}
	got := decode[scheduleView](t, rr)
	if got.Source != tvspielfilm.Name || len(got.Entries) != 2 || got.Skipped != 0 {
		t.Fatalf("unexpected schedule: %+v", got)
	}
	first, second := got.Entries[0], got.Entries[1]
	if first.Start != "19:30" || first.Icon != nil {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if second.Year == nil || *second.Year != 2019 || first.Year != nil {
		t.Fatalf("unexpected years: %v / %v", first.Year, second.Year)
	}
	if second.Channel != "Das Erste" || second.Genre != "Krimi" || second.Icon == nil {
		t.Fatalf("unexpected second entry: %+v", second)
	}
	if !strings.HasPrefix(second.Ref, "http://") {
		t.Fatalf("ref should be absolute, got %q", second.Ref)
	}

	reports := decode[[]reportView](t, doRequest(t, h, http.MethodGet, "/api/v1/reports?kind=schedule"))
	if len(reports) != 1 || reports[0].Entries != 2 {
		t.Fatalf("unexpected reports: %+v", reports)
	}
}

func TestSchedule_InvalidDate(t *testing.T) {
	h := newTestRouter(t, upstreamPages())
	rr := doRequest(t, h, http.MethodGet, "/api/v1/schedule?date=14.10.2026")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status: want %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestSchedule_LayoutChangeIsBadGateway(t *testing.T) {
	h := newTestRouter(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body><main>neu</main></body></html>`))
	}))
	rr := doRequest(t, h, http.MethodGet, "/api/v1/schedule")
	if rr.Code != http.StatusBadGateway {
		t.Fatalf("status: want %d, got %d", http.StatusBadGateway, rr.Code)
	}
	body := decode[map[string]string](t, rr)
	if body["code"] != app.CodeScheduleStructure {
		t.Fatalf("code: want %q, got %q", app.CodeScheduleStructure, body["code"])
	}
}

func TestDetails(t *testing.T) {
	h := newTestRouter(t, upstreamPages())

	if rr := doRequest(t, h, http.MethodGet, "/api/v1/details"); rr.Code != http.StatusBadRequest {
		t.Fatalf("missing ref: want %d, got %d", http.StatusBadRequest, rr.Code)
	}

	rr := doRequest(t, h, http.MethodGet, "/api/v1/details?ref=/tv-programm/sendung/tatort.html")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d (%s)", http.StatusOK, rr.Code, rr.Body.String())
	}
	d := decode[map[string]any](t, rr)
	if d["title"] != "Tatort" || d["year"] != float64(2019) || d["country"] != "D" || d["description"] != "Ein Fall." {
		t.Fatalf("unexpected detail: %+v", d)
	}

	if d["channel"] != "" {
		t.Fatalf("detail page carries no channel, got %v", d["channel"])
	}
	rr = doRequest(t, h, http.MethodGet, "/api/v1/details?ref=/tv-programm/sendung/tatort.html&channel=Das+Erste&year=1970")
	d = decode[map[string]any](t, rr)
	if d["channel"] != "Das Erste" || d["year"] != float64(2019) {
		t.Fatalf("entry channel should fill the gap, page year wins: %+v", d)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/v1/details?ref=/tv-programm/sendung/gone.html")
	if rr.Code != http.StatusNotFound {
		t.Fatalf("stale ref: want %d, got %d", http.StatusNotFound, rr.Code)
	}

	if rr := doRequest(t, h, http.MethodDelete, "/api/v1/details?ref=/nothing.html"); rr.Code != http.StatusNotFound {
		t.Fatalf("cancel without task: want %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestIcons(t *testing.T) {
	h := newTestRouter(t, upstreamPages())

	rr := doRequest(t, h, http.MethodGet, "/api/v1/icons/das%20erste")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: want %d, got %d", http.StatusOK, rr.Code)
	}
	icon := decode[map[string]any](t, rr)
	if icon["size"] != float64(tvspielfilm.IconSize) {
		t.Fatalf("unexpected icon: %+v", icon)
	}

	rr = doRequest(t, h, http.MethodGet, "/api/v1/icons/Unbekannt")
	if rr.Code != http.StatusNotFound || !strings.Contains(rr.Body.String(), "no icon") {
		t.Fatalf("unknown icon: got %d %s", rr.Code, rr.Body.String())
	}
}

func TestHealthVersionOpenAPI(t *testing.T) {
	h := newTestRouter(t, upstreamPages())
	for _, path := range []string{"/api/v1/health", "/api/v1/version", "/api/v1/openapi.json"} {
		if rr := doRequest(t, h, http.MethodGet, path); rr.Code != http.StatusOK {
			t.Fatalf("%s: want %d, got %d", path, http.StatusOK, rr.Code)
		}
	}
	health := decode[map[string]any](t, doRequest(t, h, http.MethodGet, "/api/v1/health"))
	if health["status"] != "ok" || health["source"] != tvspielfilm.Name || health["pendingDetails"] != float64(0) {
		t.Fatalf("unexpected health: %+v", health)
	}
	spec := decode[map[string]any](t, doRequest(t, h, http.MethodGet, "/api/v1/openapi.json"))
	paths, _ := spec["paths"].(map[string]any)
	if _, ok := paths["/api/v1/schedule"]; !ok {
		t.Fatalf("openapi misses /api/v1/schedule")
	}
}

func TestStatusFor(t *testing.T) {
	cases := map[string]int{
		app.CodeNotFound:        http.StatusNotFound,
		app.CodeInvalidParams:   http.StatusBadRequest,
		app.CodeNetwork:         http.StatusBadGateway,
		app.CodeDetailStructure: http.StatusBadGateway,
		app.CodeCanceled:        statusClientClosedRequest,
		app.CodeInternal:        http.StatusInternalServerError,
	}
	for code, want := range cases {
		if got := statusFor(code); got != want {
			t.Fatalf("statusFor(%q): want %d, got %d", code, want, got)
		}
	}
}

func TestWriteServiceError_LeavesExpiredRequestToTimeoutMiddleware(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil).WithContext(ctx)
	rr := httptest.NewRecorder()
	writeServiceError(rr, req, ctx.Err())
	if rr.Body.Len() != 0 || len(rr.Header()) != 0 {
		t.Fatalf("nothing should be written for an expired request, got %d %q", rr.Code, rr.Body.String())
	}

	// Délai propre à l'opération, requête toujours vivante: 504 explicite.
	req = httptest.NewRequest(http.MethodGet, "/api/v1/schedule", nil)
	rr = httptest.NewRecorder()
	writeServiceError(rr, req, context.DeadlineExceeded)
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("status: want %d, got %d", http.StatusGatewayTimeout, rr.Code)
	}
}

func TestTimeoutGroup_SingleGatewayTimeout(t *testing.T) {
	r := chi.NewRouter()
	r.Use(middleware.Timeout(20 * time.Millisecond))
	r.Get("/slow", func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
		writeServiceError(w, r, r.Context().Err())
	})

	rr := doRequest(t, r, http.MethodGet, "/slow")
	if rr.Code != http.StatusGatewayTimeout {
		t.Fatalf("status: want %d, got %d", http.StatusGatewayTimeout, rr.Code)
	}
	if rr.Body.Len() != 0 {
		t.Fatalf("handler should not write a body after the deadline, got %q", rr.Body.String())
	}
}
