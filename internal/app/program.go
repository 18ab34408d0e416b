package app

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/rs/xid"
	"github.com/rs/zerolog"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/markup"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

const (
	TopicScheduleExtracted = "schedule.extracted"
	TopicScheduleFailed    = "schedule.failed"
	TopicDetailExtracted   = "detail.extracted"
	TopicDetailFailed      = "detail.failed"

	DefaultMaxConcurrentDetails = 4

	reportTimeout = 5 * time.Second
)

type ProgramOptions struct {
	// Reports et Bus sont optionnels.
	Reports              ports.ReportRepository
	Bus                  ports.EventBus
	MaxConcurrentDetails int
	Now                  func() time.Time
}

// ProgramService est la surface consommée par la présentation:
// GetSchedule, GetDetail (à la demande) et ResolveIcon.
// Chaque appel est un pipeline indépendant fetch -> normalize -> extract.
type ProgramService struct {
	logger  zerolog.Logger
	source  ports.Source
	icons   ports.IconResolver
	reports ports.ReportRepository
	bus     ports.EventBus
	limiter *FetchLimiter
	now     func() time.Time
}

func NewProgramService(logger zerolog.Logger, source ports.Source, icons ports.IconResolver, opts ProgramOptions) *ProgramService {
	if opts.MaxConcurrentDetails <= 0 {
		opts.MaxConcurrentDetails = DefaultMaxConcurrentDetails
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &ProgramService{
		logger:  logger,
		source:  source,
		icons:   icons,
		reports: opts.Reports,
		bus:     opts.Bus,
		limiter: NewFetchLimiter(opts.MaxConcurrentDetails),
		now:     opts.Now,
	}
}

func (s *ProgramService) SourceName() string { return s.source.Name() }

func (s *ProgramService) Limiter() *FetchLimiter { return s.limiter }

// GetSchedule renvoie la grille du jour (heure locale).
func (s *ProgramService) GetSchedule(ctx context.Context) (domain.Schedule, error) {
	return s.GetScheduleFor(ctx, time.Time{})
}

func (s *ProgramService) GetScheduleFor(ctx context.Context, day time.Time) (domain.Schedule, error) {
	if day.IsZero() {
		day = s.now()
	}
	started := time.Now()
	logger := s.logger.With().Str("source", s.source.Name()).Str("day", day.Format("2006-01-02")).Logger()

	raw, err := s.source.FetchSchedule(ctx, day)
	if err != nil {
		return domain.Schedule{}, s.scheduleFailed(ctx, logger, raw.URL, started, coded("fetch schedule", err))
	}
	doc, err := markup.Normalize(raw)
	if err != nil {
		return domain.Schedule{}, s.scheduleFailed(ctx, logger, raw.URL, started, coded("normalize schedule", err))
	}
	sched, err := s.source.ExtractSchedule(doc)
	if err != nil {
		return domain.Schedule{}, s.scheduleFailed(ctx, logger, raw.URL, started, coded("extract schedule", err))
	}
	if sched.Source == "" {
		sched.Source = s.source.Name()
	}
	y, m, d := day.Date()
	sched.Day = time.Date(y, m, d, 0, 0, 0, 0, day.Location())

	for _, item := range sched.Skipped {
		logger.Warn().Int("index", item.Index).Str("reason", item.Reason).Msg("schedule item skipped")
	}
	logger.Info().Int("entries", len(sched.Entries)).Int("skipped", sched.SkippedCount()).Dur("duration", time.Since(started)).Msg("schedule extracted")

	s.record(ctx, logger, domain.ExtractionReport{
		Kind:     domain.ReportSchedule,
		Target:   raw.URL,
		Entries:  len(sched.Entries),
		Skipped:  sched.SkippedCount(),
		Duration: time.Since(started),
	})
	s.publish(TopicScheduleExtracted, scheduleEvent{
		Source:  sched.Source,
		Day:     sched.Day.Format("2006-01-02"),
		Entries: len(sched.Entries),
		Skipped: sched.SkippedCount(),
	})
	return sched, nil
}

func (s *ProgramService) scheduleFailed(ctx context.Context, logger zerolog.Logger, target string, started time.Time, err error) error {
	code := ErrorCode(err)
	if code == CodeCanceled {
		return err
	}
	logger.Error().Err(err).Str("code", code).Msg("schedule extraction failed")
	s.record(ctx, logger, domain.ExtractionReport{
		Kind:         domain.ReportSchedule,
		Target:       target,
		ErrorCode:    code,
		ErrorMessage: err.Error(),
		Duration:     time.Since(started),
	})
	s.publish(TopicScheduleFailed, failureEvent{Source: s.source.Name(), Target: target, Code: code, Error: err.Error()})
	return err
}

// GetDetail charge le détail d'une diffusion. Si ctx est annulé avant la fin,
// l'erreur du contexte est renvoyée et aucun détail partiel n'est exposé.
func (s *ProgramService) GetDetail(ctx context.Context, ref string) (domain.ListingDetail, error) {
	started := time.Now()
	logger := s.logger.With().Str("source", s.source.Name()).Str("ref", ref).Logger()

	release, err := s.limiter.Acquire(ctx)
	if err != nil {
		return domain.ListingDetail{}, err
	}
	defer release()

	raw, err := s.source.FetchDetail(ctx, ref)
	if err != nil {
		return domain.ListingDetail{}, s.detailFailed(ctx, logger, ref, started, coded("fetch detail", err))
	}
	doc, err := markup.Normalize(raw)
	if err != nil {
		return domain.ListingDetail{}, s.detailFailed(ctx, logger, ref, started, coded("normalize detail", err))
	}
	detail, err := s.source.ExtractDetail(doc)
	if err != nil {
		return domain.ListingDetail{}, s.detailFailed(ctx, logger, ref, started, coded("extract detail", err))
	}
	if err := ctx.Err(); err != nil {
		return domain.ListingDetail{}, err
	}
	detail.Ref = ref

	logger.Debug().Bool("year", detail.HasYear()).Int("description_len", len(detail.Description)).Msg("detail extracted")
	s.record(ctx, logger, domain.ExtractionReport{
		Kind:     domain.ReportDetail,
		Target:   ref,
		Entries:  1,
		Duration: time.Since(started),
	})
	s.publish(TopicDetailExtracted, detailEvent{Source: s.source.Name(), Ref: ref, Title: detail.Title})
	return detail, nil
}

func (s *ProgramService) detailFailed(ctx context.Context, logger zerolog.Logger, ref string, started time.Time, err error) error {
	code := ErrorCode(err)
	if code == CodeCanceled {
		return err
	}
	logger.Warn().Err(err).Str("code", code).Msg("detail extraction failed")
	s.record(ctx, logger, domain.ExtractionReport{
		Kind:         domain.ReportDetail,
		Target:       ref,
		ErrorCode:    code,
		ErrorMessage: err.Error(),
		Duration:     time.Since(started),
	})
	s.publish(TopicDetailFailed, failureEvent{Source: s.source.Name(), Target: ref, Code: code, Error: err.Error()})
	return err
}

// ResolveIcon ne peut pas échouer: false => afficher le nom de la chaîne.
func (s *ProgramService) ResolveIcon(channelName string) (domain.IconRef, bool) {
	if s.icons == nil {
		return domain.IconRef{}, false
	}
	return s.icons.ResolveIcon(channelName)
}

func (s *ProgramService) ListReports(ctx context.Context, kind domain.ReportKind, limit int) ([]domain.ExtractionReport, error) {
	if s.reports == nil {
		return []domain.ExtractionReport{}, nil
	}
	return s.reports.List(ctx, kind, limit)
}

func (s *ProgramService) GetReport(ctx context.Context, id string) (domain.ExtractionReport, error) {
	if s.reports == nil {
		return domain.ExtractionReport{}, ErrNotFound
	}
	return s.reports.Get(ctx, id)
}

// record est best-effort: un échec de persistance ne remonte pas à l'appelant.
func (s *ProgramService) record(ctx context.Context, logger zerolog.Logger, report domain.ExtractionReport) {
	if s.reports == nil {
		return
	}
	report.ID = xid.New().String()
	report.Source = s.source.Name()
	report.CreatedAt = time.Now().UTC()

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), reportTimeout)
	defer cancel()
	if _, err := s.reports.Create(ctx, report); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error().Err(err).Str("kind", string(report.Kind)).Msg("store extraction report failed")
	}
}

func (s *ProgramService) publish(topic string, payload any) {
	if s.bus == nil {
		return
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return
	}
	s.bus.Publish(topic, b)
}

type scheduleEvent struct {
	Source  string `json:"source"`
	Day     string `json:"day"`
	Entries int    `json:"entries"`
	Skipped int    `json:"skipped"`
}

type detailEvent struct {
	Source string `json:"source"`
	Ref    string `json:"ref"`
	Title  string `json:"title"`
}

type failureEvent struct {
	Source string `json:"source"`
	Target string `json:"target,omitempty"`
	Code   string `json:"code"`
	Error  string `json:"error"`
}
