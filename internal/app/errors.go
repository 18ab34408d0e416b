package app

import (
	"context"
	"errors"

	"github.com/Guilhem-Bonnet/tv-programm/internal/ports"
)

// Codes d'erreur stables, persistés dans les rapports et renvoyés par l'API.
const (
	CodeNetwork            = "network_error"
	CodeNotFound           = "not_found"
	CodeServer             = "server_error"
	CodeUnparsableDocument = "unparsable_document"
	CodeScheduleStructure  = "schedule_structure"
	CodeDetailStructure    = "detail_structure"
	CodeCanceled           = "canceled"
	CodeInvalidParams      = "invalid_params"
	CodeInternal           = "internal"
)

// CodedError associe un code stable à une erreur du pipeline.
type CodedError struct {
	Code    string
	Message string
	Err     error
}

func (e *CodedError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *CodedError) Unwrap() error { return e.Err }

func coded(message string, err error) error {
	if err == nil {
		return nil
	}
	return &CodedError{Code: ErrorCode(err), Message: message, Err: err}
}

// ErrorCode classe une erreur dans la taxonomie fetch/parse.
func ErrorCode(err error) string {
	var ce *CodedError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &ce) && ce.Code != "":
		return ce.Code
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled
	case errors.Is(err, ports.ErrNetwork):
		return CodeNetwork
	case errors.Is(err, ports.ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ports.ErrServer):
		return CodeServer
	case errors.Is(err, ports.ErrUnparsableDocument):
		return CodeUnparsableDocument
	case errors.Is(err, ports.ErrScheduleStructure):
		return CodeScheduleStructure
	case errors.Is(err, ports.ErrDetailStructure):
		return CodeDetailStructure
	default:
		return CodeInternal
	}
}

var ErrNotFound = ports.ErrNotFound
