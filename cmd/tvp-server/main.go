package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/httpapi"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/httpfetch"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/memorybus"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/sqlite"
	"github.com/Guilhem-Bonnet/tv-programm/internal/adapters/tvspielfilm"
	"github.com/Guilhem-Bonnet/tv-programm/internal/app"
	"github.com/Guilhem-Bonnet/tv-programm/internal/buildinfo"
	"github.com/Guilhem-Bonnet/tv-programm/internal/config"
	"github.com/Guilhem-Bonnet/tv-programm/internal/icons"
)

func main() {
	def := config.Default()
	addr := flag.String("addr", def.Addr, "Adresse d'écoute (ex: 127.0.0.1:8080)")
	dbPath := flag.String("db", def.DBPath, "Chemin SQLite des rapports (ex: tvp.db)")
	sourceURL := flag.String("source", def.SourceURL, "URL de base de la source")
	httpTimeout := flag.Duration("http-timeout", def.HTTPTimeout, "Timeout des requêtes vers la source")
	maxDetails := flag.Int("max-details", def.MaxDetailFetches, "Chargements de détail simultanés")
	retention := flag.Duration("report-retention", def.ReportRetention, "Durée de conservation des rapports")
	logLevel := flag.String("log-level", def.LogLevel, "Niveau de log (debug, info, warn, error)")
	flag.Parse()

	level, err := zerolog.ParseLevel(*logLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("app", "tvp-server").Logger()
	log.Logger = logger

	logger.Info().Interface("build", buildinfo.Current()).Str("db", *dbPath).Str("source", *sourceURL).Msg("starting")

	ctx := context.Background()
	db, err := sqlite.Open(ctx, *dbPath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open db")
	}
	defer func() { _ = db.Close() }()

	bus := memorybus.New()
	defer bus.Close()
	reportsRepo := sqlite.NewReportsRepository(db.SQL)

	source := tvspielfilm.New(httpfetch.New(*httpTimeout, def.UserAgent)).WithBaseURL(*sourceURL)
	programs := app.NewProgramService(
		logger.With().Str("component", "programs").Logger(),
		source,
		icons.NewResolver(tvspielfilm.IconEntries()),
		app.ProgramOptions{
			Reports:              reportsRepo,
			Bus:                  bus,
			MaxConcurrentDetails: *maxDetails,
		},
	)
	details := app.NewDetailLoader(programs.GetDetail)

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Rétention: les rapports ne servent qu'au diagnostic.
	retentionLoop := app.NewReportRetention(logger.With().Str("component", "report-retention").Logger(), reportsRepo, *retention)
	go retentionLoop.Run(shutdownCtx)

	srv := httpapi.NewServer(logger, programs, details, bus)
	httpServer := &http.Server{
		Addr:              *addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", *addr).Int("max_details", programs.Limiter().Limit()).Msg("listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error().Err(err).Msg("http server crashed")
			stop()
		}
	}()

	<-shutdownCtx.Done()
	logger.Info().Msg("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = httpServer.Shutdown(ctx)
	logger.Info().Msg("bye")
}
