package ports

import "github.com/Guilhem-Bonnet/tv-programm/internal/domain"

// Taxonomie d'erreurs exposée aux adapters. Les sentinelles vivent dans domain
// pour que markup puisse les utiliser sans dépendre de ports.
var (
	ErrNetwork  = domain.ErrNetwork
	ErrNotFound = domain.ErrNotFound
	ErrServer   = domain.ErrServer

	ErrUnparsableDocument = domain.ErrUnparsableDocument
	ErrScheduleStructure  = domain.ErrScheduleStructure
	ErrDetailStructure    = domain.ErrDetailStructure
)
