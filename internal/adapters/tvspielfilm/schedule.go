package tvspielfilm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/markup"
)

// Ancres structurelles de la grille. Si selScheduleAnchor disparaît,
// la mise en page du site a changé et l'extracteur doit être mis à jour.
const (
	selScheduleAnchor = ".info-table"
	selScheduleRows   = "tr.hover"
	selChannelCell    = ".programm-col1"
	selChannelLink    = ".programm-col1 a"
	selStartTime      = ".col-2 strong"
	selStartTimeCell  = ".col-2"
	selTitle          = ".col-3 span a strong"
	selTitleFallback  = ".col-3 a strong"
	selDetailLink     = ".col-3 span a"
	selDetailFallback = ".col-3 a"
	selGenre          = ".col-4 span"
	selDivision       = ".col-5 span"

	channelSuffix = " Programm"
)

var (
	errMissingChannel = errors.New("missing channel")
	errMissingTitle   = errors.New("missing title")
	errMissingLink    = errors.New("missing detail link")
)

func (s *Source) ExtractSchedule(doc *markup.Document) (domain.Schedule, error) {
	return ExtractSchedule(doc)
}

// ExtractSchedule parcourt les groupes de chaînes (un tbody par chaîne) et leurs lignes
// dans l'ordre du document. Une ligne invalide est ignorée et comptée dans Skipped.
func ExtractSchedule(doc *markup.Document) (domain.Schedule, error) {
	anchor := doc.Find(selScheduleAnchor).First()
	if anchor.Length() == 0 {
		return domain.Schedule{}, fmt.Errorf("%w: %s not found", domain.ErrScheduleStructure, selScheduleAnchor)
	}

	out := domain.Schedule{Source: Name}
	groups := anchor.Find("tbody")
	if groups.Length() == 0 {
		groups = anchor
	}

	index := 0
	groups.Each(func(_ int, group *goquery.Selection) {
		// Une ligne sans cellule chaîne continue le groupe courant (rowspan).
		channel := ""
		group.Find(selScheduleRows).Each(func(_ int, row *goquery.Selection) {
			i := index
			index++

			if row.Find(selChannelCell).Length() > 0 {
				channel = channelName(row)
			}
			entry, err := extractEntry(doc, row, channel)
			if err != nil {
				out.Skipped = append(out.Skipped, domain.SkippedItem{Index: i, Reason: err.Error()})
				return
			}
			out.Entries = append(out.Entries, entry)
		})
	})

	domain.SortEntries(out.Entries)
	return out, nil
}

func extractEntry(doc *markup.Document, row *goquery.Selection, channel string) (domain.ListingEntry, error) {
	if channel == "" {
		return domain.ListingEntry{}, errMissingChannel
	}

	title := markup.CleanText(row.Find(selTitle).First())
	if title == "" {
		title = markup.CleanText(row.Find(selTitleFallback).First())
	}
	if title == "" {
		return domain.ListingEntry{}, errMissingTitle
	}

	timeText := markup.CleanText(row.Find(selStartTime).First())
	if timeText == "" {
		timeText = markup.CleanText(row.Find(selStartTimeCell).First())
	}
	start, err := domain.ParseClock(timeText)
	if err != nil {
		return domain.ListingEntry{}, fmt.Errorf("start time: %w", err)
	}

	link := row.Find(selDetailLink).First()
	if link.Length() == 0 {
		link = row.Find(selDetailFallback).First()
	}
	href, _ := link.Attr("href")
	ref, ok := doc.Resolve(href)
	if !ok {
		return domain.ListingEntry{}, errMissingLink
	}

	opts := []domain.ListingOption{}
	if linkTitle, ok := link.Attr("title"); ok {
		if y, ok := yearFromLinkTitle(linkTitle); ok {
			opts = append(opts, domain.WithYear(y))
		}
	}
	if genre := markup.CleanText(row.Find(selGenre).First()); genre != "" {
		opts = append(opts, domain.WithGenre(genre))
	}
	if division := firstWord(markup.CleanText(row.Find(selDivision).First())); division != "" {
		opts = append(opts, domain.WithDivision(division))
	}

	return domain.NewListingEntry(channel, title, start, ref, opts...)
}

func channelName(row *goquery.Selection) string {
	link := row.Find(selChannelLink).First()
	name, _ := link.Attr("title")
	name = markup.Squash(name)
	if name == "" {
		name = markup.CleanText(link)
	}
	if name == "" {
		name = markup.CleanText(row.Find(selChannelCell).First())
	}
	return trimChannelSuffix(name)
}

// yearFromLinkTitle lit l'année en dernier mot du title du lien ("Film USA 2019").
func yearFromLinkTitle(title string) (int, bool) {
	words := strings.Fields(title)
	if len(words) == 0 {
		return 0, false
	}
	last := words[len(words)-1]
	if reYear.FindString(last) != last {
		return 0, false
	}
	return parseYear(last)
}

func trimChannelSuffix(name string) string {
	return strings.TrimSpace(strings.TrimSuffix(name, channelSuffix))
}

func firstWord(s string) string {
	if fields := strings.Fields(s); len(fields) > 0 {
		return fields[0]
	}
	return ""
}
