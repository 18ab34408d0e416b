package ports

import (
	"context"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
)

type ReportRepository interface {
	Create(ctx context.Context, report domain.ExtractionReport) (domain.ExtractionReport, error)
	Get(ctx context.Context, id string) (domain.ExtractionReport, error)
	// List renvoie les rapports les plus récents d'abord.
	List(ctx context.Context, kind domain.ReportKind, limit int) ([]domain.ExtractionReport, error)
}
