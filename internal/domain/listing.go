package domain

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

var ErrInvalidListing = errors.New("invalid listing")

// ListingEntry est une diffusion de la grille du jour (chaîne + heure + titre).
// Immutable: les champs ne sont accessibles qu'en lecture.
type ListingEntry struct {
	channelName string
	title       string
	startTime   ClockTime
	detailRef   string
	genre       string
	division    string
	// 0 = année inconnue
	year int
}

// ListingOption complète une entrée avec des métadonnées facultatives.
type ListingOption func(*ListingEntry)

func WithGenre(genre string) ListingOption {
	return func(e *ListingEntry) { e.genre = strings.TrimSpace(genre) }
}

func WithDivision(division string) ListingOption {
	return func(e *ListingEntry) { e.division = strings.TrimSpace(division) }
}

// WithYear ignore les valeurs hors plage plausible (1800..2099).
func WithYear(year int) ListingOption {
	return func(e *ListingEntry) {
		if year >= 1800 && year <= 2099 {
			e.year = year
		}
	}
}

func NewListingEntry(channelName, title string, start ClockTime, detailRef string, opts ...ListingOption) (ListingEntry, error) {
	e := ListingEntry{
		channelName: strings.TrimSpace(channelName),
		title:       strings.TrimSpace(title),
		startTime:   start,
		detailRef:   strings.TrimSpace(detailRef),
	}
	switch {
	case e.channelName == "":
		return ListingEntry{}, fmt.Errorf("%w: missing channel name", ErrInvalidListing)
	case e.title == "":
		return ListingEntry{}, fmt.Errorf("%w: missing title", ErrInvalidListing)
	case e.detailRef == "":
		return ListingEntry{}, fmt.Errorf("%w: missing detail reference", ErrInvalidListing)
	case !start.Valid():
		return ListingEntry{}, fmt.Errorf("%w: %w", ErrInvalidListing, ErrInvalidClock)
	}
	for _, opt := range opts {
		opt(&e)
	}
	return e, nil
}

func (e ListingEntry) ChannelName() string  { return e.channelName }
func (e ListingEntry) Title() string        { return e.title }
func (e ListingEntry) StartTime() ClockTime { return e.startTime }
func (e ListingEntry) DetailRef() string    { return e.detailRef }
func (e ListingEntry) Genre() string        { return e.genre }
func (e ListingEntry) Division() string     { return e.division }

// Year renvoie l'année de production lue dans la grille, si elle y figure.
func (e ListingEntry) Year() (int, bool) { return e.year, e.year != 0 }

type listingEntryJSON struct {
	Channel  string    `json:"channel"`
	Title    string    `json:"title"`
	Start    ClockTime `json:"start"`
	Ref      string    `json:"ref"`
	Genre    string    `json:"genre,omitempty"`
	Division string    `json:"division,omitempty"`
	Year     int       `json:"year,omitempty"`
}

func (e ListingEntry) MarshalJSON() ([]byte, error) {
	return json.Marshal(listingEntryJSON{
		Channel:  e.channelName,
		Title:    e.title,
		Start:    e.startTime,
		Ref:      e.detailRef,
		Genre:    e.genre,
		Division: e.division,
		Year:     e.year,
	})
}

// SkippedItem décrit un élément de la grille ignoré (extraction partielle).
type SkippedItem struct {
	// Index est la position de l'élément dans le document source (0-based).
	Index  int    `json:"index"`
	Reason string `json:"reason"`
}

// Schedule est la grille extraite d'une source pour un jour.
type Schedule struct {
	Source  string
	Day     time.Time
	Entries []ListingEntry
	Skipped []SkippedItem
}

func (s Schedule) SkippedCount() int { return len(s.Skipped) }

// SortEntries trie par heure de début; les ex aequo gardent l'ordre source.
func SortEntries(entries []ListingEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].startTime < entries[j].startTime
	})
}
