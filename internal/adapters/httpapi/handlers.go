package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog/hlog"

	"github.com/Guilhem-Bonnet/tv-programm/internal/app"
	"github.com/Guilhem-Bonnet/tv-programm/internal/buildinfo"
	"github.com/Guilhem-Bonnet/tv-programm/internal/httpjson"
)

const (
	defaultRequestTimeout = 30 * time.Second

	// Convention nginx: requête abandonnée avant la réponse.
	statusClientClosedRequest = 499
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if s.programs != nil {
		body["source"] = s.programs.SourceName()
		body["detailFetches"] = s.programs.Limiter().InFlight()
		body["detailFetchLimit"] = s.programs.Limiter().Limit()
	}
	if s.details != nil {
		body["pendingDetails"] = s.details.Pending()
	}
	httpjson.Write(w, http.StatusOK, body)
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	httpjson.Write(w, http.StatusOK, buildinfo.Current())
}

func accessLogFn(r *http.Request, status, size int, duration time.Duration) {
	logger := hlog.FromRequest(r)
	logger.Info().
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg("http")
}

// statusFor traduit un code d'erreur du pipeline en statut HTTP.
func statusFor(code string) int {
	switch code {
	case app.CodeNotFound:
		return http.StatusNotFound
	case app.CodeInvalidParams:
		return http.StatusBadRequest
	case app.CodeNetwork, app.CodeServer, app.CodeUnparsableDocument, app.CodeScheduleStructure, app.CodeDetailStructure:
		return http.StatusBadGateway
	case app.CodeCanceled:
		return statusClientClosedRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	// Client parti, ou délai de la requête dépassé: middleware.Timeout écrit le 504.
	if r.Context().Err() != nil {
		return
	}
	code := app.ErrorCode(err)
	if errors.Is(err, context.DeadlineExceeded) {
		httpjson.WriteCodedError(w, http.StatusGatewayTimeout, code, err.Error())
		return
	}
	httpjson.WriteCodedError(w, statusFor(code), code, err.Error())
}
