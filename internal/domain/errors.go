package domain

import "errors"

// Erreurs de l'étape fetch.
var (
	// ErrNetwork couvre connectivité et timeouts.
	ErrNetwork = errors.New("network error")
	// ErrNotFound couvre les réponses de classe 404 (et les références invalides).
	ErrNotFound = errors.New("not found")
	ErrServer   = errors.New("server error")
)

// Erreurs de l'étape parse: le balisage de la source n'est plus compatible.
var (
	ErrUnparsableDocument = errors.New("unparsable document")
	ErrScheduleStructure  = errors.New("schedule structure not recognized")
	ErrDetailStructure    = errors.New("detail structure not recognized")
)
