package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultReportRetention = 7 * 24 * time.Hour
	defaultRetentionTick   = time.Hour
)

// ReportPruner est implémenté par le stockage des rapports (sqlite).
type ReportPruner interface {
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// ReportRetention purge périodiquement les rapports d'extraction trop anciens.
type ReportRetention struct {
	logger zerolog.Logger
	pruner ReportPruner

	TickInterval time.Duration
	MaxAge       time.Duration
	Now          func() time.Time
}

func NewReportRetention(logger zerolog.Logger, pruner ReportPruner, maxAge time.Duration) *ReportRetention {
	return &ReportRetention{
		logger:       logger,
		pruner:       pruner,
		TickInterval: defaultRetentionTick,
		MaxAge:       maxAge,
		Now:          time.Now,
	}
}

// Run purge une première fois au démarrage puis à chaque tick, jusqu'à l'annulation de ctx.
func (rr *ReportRetention) Run(ctx context.Context) {
	interval := rr.TickInterval
	if interval <= 0 {
		interval = defaultRetentionTick
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	rr.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			rr.logger.Info().Msg("report retention stopped")
			return
		case <-ticker.C:
			rr.tick(ctx)
		}
	}
}

func (rr *ReportRetention) tick(ctx context.Context) {
	if rr.pruner == nil {
		return
	}
	maxAge := rr.MaxAge
	if maxAge <= 0 {
		maxAge = DefaultReportRetention
	}
	now := time.Now
	if rr.Now != nil {
		now = rr.Now
	}

	n, err := rr.pruner.DeleteOlderThan(ctx, now().Add(-maxAge))
	if err != nil {
		if ctx.Err() == nil {
			rr.logger.Error().Err(err).Msg("report retention failed")
		}
		return
	}
	if n > 0 {
		rr.logger.Info().Int64("deleted", n).Dur("max_age", maxAge).Msg("old extraction reports deleted")
	}
}
