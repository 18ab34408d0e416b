package ports

import (
	"context"
	"time"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/markup"
)

// Fetcher récupère le balisage brut d'une source. Un seul essai par appel.
type Fetcher interface {
	FetchSchedule(ctx context.Context, day time.Time) (domain.RawDocument, error)
	FetchDetail(ctx context.Context, ref string) (domain.RawDocument, error)
}

type ScheduleExtractor interface {
	ExtractSchedule(doc *markup.Document) (domain.Schedule, error)
}

type DetailExtractor interface {
	ExtractDetail(doc *markup.Document) (domain.ListingDetail, error)
}

// Source regroupe les capacités d'un site de programmes TV.
// Ajouter un site = fournir une autre implémentation de ces trois contrats.
type Source interface {
	Name() string
	Fetcher
	ScheduleExtractor
	DetailExtractor
}

type IconResolver interface {
	ResolveIcon(channelName string) (domain.IconRef, bool)
}
