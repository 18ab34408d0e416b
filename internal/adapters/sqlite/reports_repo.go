package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

const (
	defaultReportsLimit = 50
	maxReportsLimit     = 500

	// Largeur fixe: l'ordre lexical des chaînes suit l'ordre chronologique.
	timeLayout = "2006-01-02T15:04:05.000000000Z"

	reportColumns = `id, kind, source, target, entries, skipped, error_code, error_message, duration_ms, created_at`
)

// ReportsRepository persiste les rapports d'extraction (diagnostic uniquement).
type ReportsRepository struct {
	db *sql.DB
}

func NewReportsRepository(db *sql.DB) *ReportsRepository {
	return &ReportsRepository{db: db}
}

func (r *ReportsRepository) Create(ctx context.Context, report domain.ExtractionReport) (domain.ExtractionReport, error) {
	if report.CreatedAt.IsZero() {
		report.CreatedAt = time.Now().UTC()
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO extraction_reports(`+reportColumns+`)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, report.ID, string(report.Kind), report.Source, report.Target, report.Entries, report.Skipped,
		report.ErrorCode, report.ErrorMessage, report.Duration.Milliseconds(), report.CreatedAt.UTC().Format(timeLayout))
	if err != nil {
		return domain.ExtractionReport{}, err
	}
	return r.Get(ctx, report.ID)
}

func (r *ReportsRepository) Get(ctx context.Context, id string) (domain.ExtractionReport, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM extraction_reports WHERE id = ?`, id)
	report, err := scanReport(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ExtractionReport{}, ports.ErrNotFound
		}
		return domain.ExtractionReport{}, err
	}
	return report, nil
}

// List filtre par type quand kind est non vide.
func (r *ReportsRepository) List(ctx context.Context, kind domain.ReportKind, limit int) ([]domain.ExtractionReport, error) {
	if limit <= 0 {
		limit = defaultReportsLimit
	}
	if limit > maxReportsLimit {
		limit = maxReportsLimit
	}

	var (
		rows *sql.Rows
		err  error
	)
	if kind == "" {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+reportColumns+` FROM extraction_reports
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		`, limit)
	} else {
		rows, err = r.db.QueryContext(ctx, `
			SELECT `+reportColumns+` FROM extraction_reports
			WHERE kind = ?
			ORDER BY created_at DESC, rowid DESC LIMIT ?
		`, string(kind), limit)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.ExtractionReport{}
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, report)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (domain.ExtractionReport, error) {
	var (
		rep        domain.ExtractionReport
		kind       string
		durationMs int64
		createdAt  string
	)
	err := row.Scan(&rep.ID, &kind, &rep.Source, &rep.Target, &rep.Entries, &rep.Skipped,
		&rep.ErrorCode, &rep.ErrorMessage, &durationMs, &createdAt)
	if err != nil {
		return domain.ExtractionReport{}, err
	}
	rep.Kind = domain.ReportKind(kind)
	rep.Duration = time.Duration(durationMs) * time.Millisecond
	rep.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	return rep, nil
}

// DeleteOlderThan purge les rapports créés avant cutoff et renvoie le nombre supprimé.
func (r *ReportsRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM extraction_reports WHERE created_at < ?`, cutoff.UTC().Format(timeLayout))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
