// Package markup transforme le balisage brut d'une source en arbre exploitable,
// en absorbant les variations d'encodage et le HTML malformé.
package markup

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
)

const sniffLen = 512

var reElementTag = regexp.MustCompile(`<[a-zA-Z][a-zA-Z0-9-]*[\s/>]`)

// Document est l'arbre normalisé d'une page, avec l'URL qui sert de base aux liens.
type Document struct {
	doc *goquery.Document
	url *url.URL
}

// Normalize construit l'arbre de façon best-effort (balises non fermées, octets parasites).
// Échoue avec domain.ErrUnparsableDocument seulement si le contenu n'est pas du balisage.
func Normalize(raw domain.RawDocument) (*Document, error) {
	body := raw.Body
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrUnparsableDocument)
	}
	if kind, ok := binarySignature(body); ok {
		return nil, fmt.Errorf("%w: binary content (%s)", domain.ErrUnparsableDocument, kind)
	}

	// Les contrôles suivants portent sur le texte décodé: une page UTF-16
	// ou un octet de contrôle isolé ne suffit pas à rejeter la page.
	text := transcode(raw)
	if len(bytes.TrimSpace(text)) == 0 {
		return nil, fmt.Errorf("%w: empty body", domain.ErrUnparsableDocument)
	}
	if mostlyNUL(text) {
		return nil, fmt.Errorf("%w: binary content", domain.ErrUnparsableDocument)
	}
	if !reElementTag.Match(text) {
		return nil, fmt.Errorf("%w: no markup element", domain.ErrUnparsableDocument)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(text))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnparsableDocument, err)
	}

	out := &Document{doc: doc}
	if raw.URL != "" {
		if u, err := url.Parse(raw.URL); err == nil && u.IsAbs() {
			out.url = u
			doc.Url = u
		}
	}
	return out, nil
}

// transcode passe en UTF-8: BOM, encodage déclaré puis prescan <meta charset>.
// Encodage inconnu ou erreur de lecture: on garde les octets tels quels.
func transcode(raw domain.RawDocument) []byte {
	r, err := charset.NewReader(bytes.NewReader(raw.Body), contentTypeOf(raw))
	if err != nil {
		return raw.Body
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return raw.Body
	}
	return text
}

// FromString est un raccourci pour les documents déjà en UTF-8 (tests, fixtures).
func FromString(pageURL, html string) (*Document, error) {
	return Normalize(domain.RawDocument{URL: pageURL, Body: []byte(html), ContentType: "text/html; charset=utf-8"})
}

func contentTypeOf(raw domain.RawDocument) string {
	ct := strings.TrimSpace(raw.ContentType)
	if raw.Charset != "" && !strings.Contains(strings.ToLower(ct), "charset=") {
		if ct == "" {
			ct = "text/html"
		}
		ct += "; charset=" + raw.Charset
	}
	return ct
}

// Familles reconnues par signature (http.DetectContentType) qui ne sont jamais du balisage.
var binaryPrefixes = []string{
	"image/", "audio/", "video/", "font/",
	"application/pdf", "application/zip", "application/x-gzip", "application/x-rar-compressed",
	"application/wasm", "application/ogg", "application/vnd.ms-fontobject", "application/x-7z-compressed",
}

func binarySignature(body []byte) (string, bool) {
	head := body
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	ct := http.DetectContentType(head)
	for _, p := range binaryPrefixes {
		if strings.HasPrefix(ct, p) {
			return ct, true
		}
	}
	return "", false
}

// mostlyNUL: plus d'un octet nul sur huit dans l'en-tête décodé.
func mostlyNUL(text []byte) bool {
	head := text
	if len(head) > sniffLen {
		head = head[:sniffLen]
	}
	return bytes.Count(head, []byte{0})*8 > len(head)
}

// Find applique un sélecteur CSS sur tout le document.
func (d *Document) Find(selector string) *goquery.Selection {
	return d.doc.Find(selector)
}

// URL renvoie l'URL de la page, nil si inconnue.
func (d *Document) URL() *url.URL {
	return d.url
}

// Resolve transforme un href (relatif, absolu ou "//host/...") en URL absolue.
func (d *Document) Resolve(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") || strings.HasPrefix(strings.ToLower(href), "javascript:") {
		return "", false
	}
	ref, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if d.url == nil {
		if ref.IsAbs() {
			return ref.String(), true
		}
		return "", false
	}
	return d.url.ResolveReference(ref).String(), true
}

// CleanText renvoie le texte de la sélection, espaces (et insécables) compactés.
func CleanText(s *goquery.Selection) string {
	if s == nil || s.Length() == 0 {
		return ""
	}
	return Squash(s.Text())
}

// Squash compacte les blancs; strings.Fields traite aussi l'espace insécable.
func Squash(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
