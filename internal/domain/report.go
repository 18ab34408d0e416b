package domain

import "time"

type ReportKind string

const (
	ReportSchedule ReportKind = "schedule"
	ReportDetail   ReportKind = "detail"
)

// ExtractionReport trace une exécution du pipeline fetch/normalize/extract.
// Ne contient jamais le contenu extrait, seulement des compteurs et l'erreur éventuelle.
type ExtractionReport struct {
	ID           string
	Kind         ReportKind
	Source       string
	Target       string
	Entries      int
	Skipped      int
	ErrorCode    string
	ErrorMessage string
	Duration     time.Duration
	CreatedAt    time.Time
}

func (r ExtractionReport) Failed() bool { return r.ErrorCode != "" }
