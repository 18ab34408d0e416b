package tvspielfilm

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/Guilhem-Bonnet/tv-programm/internal/domain"
	"github.com/Guilhem-Bonnet/tv-programm/internal/markup"
)

// Ancres acceptées pour une page de détail, de la plus précise à la plus large.
// La section de description est la seule structure garantie par les pages connues.
var detailAnchors = []string{
	".broadcast-detail",
	"article:has(section.broadcast-detail__description)",
	"section.broadcast-detail__description",
}

const (
	selDetailTitle       = ".broadcast-detail__title"
	selDetailChannel     = ".broadcast-detail__channel"
	selDetailDescription = "section.broadcast-detail__description p"
	selDetailInfoTerms   = "dl.broadcast-detail__infos dt"
)

var reYear = regexp.MustCompile(`\b(1[89]\d{2}|20\d{2})\b`)

func (s *Source) ExtractDetail(doc *markup.Document) (domain.ListingDetail, error) {
	return ExtractDetail(doc)
}

// ExtractDetail lit chaque champ indépendamment: un champ absent reste vide,
// seule l'absence de toute ancre de détail est une erreur.
func ExtractDetail(doc *markup.Document) (domain.ListingDetail, error) {
	root := detailRoot(doc)
	if root == nil {
		return domain.ListingDetail{}, fmt.Errorf("%w: none of %s found", domain.ErrDetailStructure, strings.Join(detailAnchors, ", "))
	}
	// Titre et chaîne: d'abord sous l'ancre, sinon dans tout le document
	// (l'ancre trouvée n'englobe pas forcément l'en-tête).
	find := func(sel string) *goquery.Selection {
		if found := root.Find(sel).First(); found.Length() > 0 {
			return found
		}
		return doc.Find(sel).First()
	}

	var d domain.ListingDetail
	if u := doc.URL(); u != nil {
		d.Ref = u.String()
	}

	d.Title = markup.CleanText(find(selDetailTitle))
	if d.Title == "" {
		d.Title = markup.CleanText(find("h1"))
	}
	if d.Title == "" {
		if og, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
			d.Title = markup.Squash(og)
		}
	}
	d.ChannelName = trimChannelSuffix(markup.CleanText(find(selDetailChannel)))

	paragraphs := []string{}
	doc.Find(selDetailDescription).Each(func(_ int, p *goquery.Selection) {
		if text := markup.CleanText(p); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})
	d.Description = strings.Join(paragraphs, "\n\n")

	doc.Find(selDetailInfoTerms).Each(func(_ int, dt *goquery.Selection) {
		key := strings.ToLower(strings.TrimSuffix(markup.CleanText(dt), ":"))
		value := markup.CleanText(dt.NextFiltered("dd"))
		if value == "" {
			return
		}
		switch key {
		case "jahr", "produktionsjahr":
			if y, ok := parseYear(value); ok && d.Year == nil {
				d.Year = &y
			}
		case "land/jahr", "land":
			if y, ok := parseYear(value); ok && d.Year == nil {
				d.Year = &y
			}
			if country := countryOf(value); country != "" && d.Country == "" {
				d.Country = country
			}
		case "genre":
			if d.Genre == "" {
				d.Genre = value
			}
		}
	})

	return d, nil
}

func detailRoot(doc *markup.Document) *goquery.Selection {
	for _, sel := range detailAnchors {
		if found := doc.Find(sel).First(); found.Length() > 0 {
			return found
		}
	}
	return nil
}

// parseYear prend la dernière année plausible du texte ("USA 2019" -> 2019).
func parseYear(s string) (int, bool) {
	matches := reYear.FindAllString(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(matches[len(matches)-1])
	if err != nil {
		return 0, false
	}
	return y, true
}

func countryOf(s string) string {
	s = reYear.ReplaceAllString(s, " ")
	return strings.Trim(markup.Squash(s), " ,/")
}
