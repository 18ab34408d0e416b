package tvspielfilm

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/httpfetch"
	"github.com/Guilhem-Bonnet/tv-programm/internal/markup"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

func fixedNow() time.Time {
	return time.Date(2026, 10, 14, 18, 0, 0, 0, time.Local)
}

func TestSource_ScheduleURL(t *testing.T) {
	s := New(nil)
	s.Now = fixedNow

	if got := s.ScheduleURL(time.Time{}); got != DefaultBaseURL+schedulePath {
		t.Fatalf("zero day: %q", got)
	}
	if got := s.ScheduleURL(fixedNow().Add(3 * time.Hour)); got != DefaultBaseURL+schedulePath {
		t.Fatalf("today: %q", got)
	}
	if got := s.ScheduleURL(fixedNow().AddDate(0, 0, 1)); got != DefaultBaseURL+schedulePath+"?date=2026-10-15" {
		t.Fatalf("tomorrow: %q", got)
	}
}

func TestSource_DetailURL(t *testing.T) {
	s := New(nil).WithBaseURL("https://tv.example/ ")

	got, err := s.DetailURL("/tv-programm/sendung/x,1.html")
	if err != nil || got != "https://tv.example/tv-programm/sendung/x,1.html" {
		t.Fatalf("relative: %q, %v", got, err)
	}
	got, err = s.DetailURL("https://other.example/a")
	if err != nil || got != "https://other.example/a" {
		t.Fatalf("absolute: %q, %v", got, err)
	}
	for _, ref := range []string{"", "   ", "ftp://tv.example/x", "https://", "%zz"} {
		if _, err := s.DetailURL(ref); !errors.Is(err, ports.ErrNotFound) {
			t.Fatalf("DetailURL(%q): expected ErrNotFound, got %v", ref, err)
		}
	}
}

// Chaque référence extraite de la grille doit suffire à charger son détail.
func TestSource_EveryDetailRefIsResolvable(t *testing.T) {
	var page string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		switch {
		case r.URL.Path == schedulePath:
			_, _ = w.Write([]byte(page))
		case strings.HasPrefix(r.URL.Path, "/tv-programm/sendung/"):
			_, _ = w.Write([]byte(detailPage(`<h1 class="broadcast-detail__title">` + r.URL.Path + `</h1>`)))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	groups := threeChannelGroups()
	groups[2][0].href = "/tv-programm/sendung/metropolis,5.html"
	page = schedulePage(groups...)

	s := New(httpfetch.New(time.Second, "")).WithBaseURL(ts.URL)
	ctx := context.Background()

	raw, err := s.FetchSchedule(ctx, time.Time{})
	if err != nil {
		t.Fatalf("FetchSchedule: %v", err)
	}
	doc, err := markup.Normalize(raw)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	sched, err := s.ExtractSchedule(doc)
	if err != nil {
		t.Fatalf("ExtractSchedule: %v", err)
	}
	if len(sched.Entries) != 6 {
		t.Fatalf("expected 6 entries, got %d", len(sched.Entries))
	}

	for _, e := range sched.Entries {
		if !strings.HasPrefix(e.DetailRef(), ts.URL) {
			t.Fatalf("ref not absolute: %q", e.DetailRef())
		}
		raw, err := s.FetchDetail(ctx, e.DetailRef())
		if err != nil {
			t.Fatalf("FetchDetail(%q): %v", e.DetailRef(), err)
		}
		doc, err := markup.Normalize(raw)
		if err != nil {
			t.Fatalf("Normalize: %v", err)
		}
		d, err := s.ExtractDetail(doc)
		if err != nil {
			t.Fatalf("ExtractDetail(%q): %v", e.DetailRef(), err)
		}
		if d.Ref != e.DetailRef() {
			t.Fatalf("unexpected detail ref: %q", d.Ref)
		}
	}
}

func TestSource_FetchDetailNotFound(t *testing.T) {
	ts := httptest.NewServer(http.NotFoundHandler())
	defer ts.Close()

	s := New(httpfetch.New(time.Second, "")).WithBaseURL(ts.URL)
	if _, err := s.FetchDetail(context.Background(), "/tv-programm/sendung/gone.html"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestIconEntries_MatchSpriteOrder(t *testing.T) {
	entries := IconEntries()
	if len(entries) != len(iconOrder) {
		t.Fatalf("unexpected table size: %d", len(entries))
	}
	if entries[2].Name != "RTL" || entries[2].Icon.Y != 2*IconSize {
		t.Fatalf("unexpected entry: %+v", entries[2])
	}
}
