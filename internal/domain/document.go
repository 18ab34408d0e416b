package domain

// RawDocument est le contenu brut renvoyé par la source, avant normalisation.
type RawDocument struct {
	URL         string
	StatusCode  int
	ContentType string
	// Charset est l'encodage déclaré (Content-Type), vide si non déclaré.
	Charset string
	Body    []byte
}
