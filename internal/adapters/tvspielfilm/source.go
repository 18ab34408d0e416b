// Package tvspielfilm implémente la source tvspielfilm.de: construction des URLs,
// extraction de la grille du soir et des pages de détail.
package tvspielfilm

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/httpfetch"
	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

const (
	Name = "tvspielfilm"

	DefaultBaseURL = "https://www.tvspielfilm.de"
	schedulePath   = "/tv-programm/sendungen/abends.html"
)

type Source struct {
	BaseURL string
	Client  *httpfetch.Client
	// Now permet de fixer "aujourd'hui" dans les tests.
	Now func() time.Time
}

var _ ports.Source = (*Source)(nil)

func New(client *httpfetch.Client) *Source {
	if client == nil {
		client = httpfetch.New(0, "")
	}
	return &Source{BaseURL: DefaultBaseURL, Client: client, Now: time.Now}
}

func (s *Source) WithBaseURL(base string) *Source {
	if strings.TrimSpace(base) != "" {
		s.BaseURL = strings.TrimRight(strings.TrimSpace(base), "/")
	}
	return s
}

func (s *Source) Name() string { return Name }

// ScheduleURL renvoie l'URL de la grille du jour; les autres jours passent par ?date=.
func (s *Source) ScheduleURL(day time.Time) string {
	u := strings.TrimRight(s.base(), "/") + schedulePath
	if day.IsZero() {
		return u
	}
	today := s.now()
	if sameDay(day, today) {
		return u
	}
	return u + "?date=" + day.Format("2006-01-02")
}

func (s *Source) FetchSchedule(ctx context.Context, day time.Time) (domain.RawDocument, error) {
	return s.Client.Get(ctx, s.ScheduleURL(day))
}

// FetchDetail accepte une URL absolue http(s) ou un chemin relatif à BaseURL.
func (s *Source) FetchDetail(ctx context.Context, ref string) (domain.RawDocument, error) {
	target, err := s.DetailURL(ref)
	if err != nil {
		return domain.RawDocument{}, err
	}
	return s.Client.Get(ctx, target)
}

func (s *Source) DetailURL(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", fmt.Errorf("%w: empty detail reference", ports.ErrNotFound)
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("%w: invalid detail reference %q", ports.ErrNotFound, ref)
	}
	if u.IsAbs() {
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return "", fmt.Errorf("%w: unsupported detail reference %q", ports.ErrNotFound, ref)
		}
		return u.String(), nil
	}
	base, err := url.Parse(s.base() + "/")
	if err != nil {
		return "", fmt.Errorf("invalid base url %q: %w", s.base(), err)
	}
	return base.ResolveReference(u).String(), nil
}

func (s *Source) base() string {
	if strings.TrimSpace(s.BaseURL) == "" {
		return DefaultBaseURL
	}
	return strings.TrimRight(s.BaseURL, "/")
}

func (s *Source) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func sameDay(a, b time.Time) bool {
	b = b.In(a.Location())
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
