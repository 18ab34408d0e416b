package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/tv-programm/internal/app"
	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

type Server struct {
	logger   zerolog.Logger
	programs *app.ProgramService
	// details est optionnel: sans lui, GET /details appelle directement le service.
	details *app.DetailLoader
	bus     ports.EventBus
}

func NewServer(logger zerolog.Logger, programs *app.ProgramService, details *app.DetailLoader, bus ports.EventBus) *Server {
	return &Server{logger: logger, programs: programs, details: details, bus: bus}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hlog.NewHandler(s.logger))
	r.Use(hlog.RequestIDHandler("request_id", "Request-Id"))
	r.Use(hlog.RemoteAddrHandler("remote_ip"))
	r.Use(hlog.UserAgentHandler("user_agent"))
	r.Use(hlog.AccessHandler(accessLogFn))

	r.Route("/api/v1", func(r chi.Router) {
		// Le flux SSE reste ouvert: pas de timeout de requête.
		r.Get("/events", s.handleEvents)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Timeout(defaultRequestTimeout))
			r.Get("/health", s.handleHealth)
			r.Get("/version", s.handleVersion)
			r.Get("/openapi.json", s.handleOpenAPI)

			if s.programs != nil {
				NewProgramHandler(s.programs, s.details).Routes(r)
				NewReportsHandler(s.programs).Routes(r)
			}
		})
	})

	return r
}
