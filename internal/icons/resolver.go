// Package icons associe un nom de chaîne à son icône.
// La table est construite une fois au démarrage puis seulement lue: pas de verrou.
package icons

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
)

type Entry struct {
	Name string
	Icon domain.IconRef
}

type Resolver struct {
	byName map[string]domain.IconRef
}

func NewResolver(entries []Entry) *Resolver {
	byName := make(map[string]domain.IconRef, len(entries))
	for _, e := range entries {
		key := Canonical(e.Name)
		if key == "" {
			continue
		}
		// Premier arrivé, premier servi: l'ordre de la table fait foi.
		if _, ok := byName[key]; ok {
			continue
		}
		icon := e.Icon
		if icon.ID == "" {
			icon.ID = key
		}
		byName[key] = icon
	}
	return &Resolver{byName: byName}
}

// ResolveIcon ne renvoie jamais d'erreur: false signifie "afficher le nom à la place".
func (r *Resolver) ResolveIcon(channelName string) (domain.IconRef, bool) {
	if r == nil {
		return domain.IconRef{}, false
	}
	icon, ok := r.byName[Canonical(channelName)]
	return icon, ok
}

func (r *Resolver) Len() int {
	if r == nil {
		return 0
	}
	return len(r.byName)
}

// Canonical normalise un nom de chaîne: NFC, casse repliée, blancs compactés.
func Canonical(name string) string {
	s := norm.NFC.String(name)
	s = strings.Join(strings.Fields(s), " ")
	// Un Caser n'est pas partageable entre goroutines.
	return cases.Fold().String(s)
}

// SpriteEntries construit une table d'icônes empilées verticalement dans un sprite:
// la i-ème chaîne occupe la tuile (0, i*size).
func SpriteEntries(spriteURL string, size int, names []string) []Entry {
	out := make([]Entry, 0, len(names))
	for i, name := range names {
		out = append(out, Entry{
			Name: name,
			Icon: domain.IconRef{
				ID:        Canonical(name),
				SpriteURL: spriteURL,
				X:         0,
				Y:         i * size,
				Size:      size,
			},
		})
	}
	return out
}
