package tvspielfilm

import (
	"fmt"
	"strings"
)

const testPageURL = "https://www.tvspielfilm.de/tv-programm/sendungen/abends.html"

type fixtureRow struct {
	channel  string
	start    string
	title    string
	href     string
	genre    string
	division string
}

func (r fixtureRow) html() string {
	var b strings.Builder
	b.WriteString(`<tr class="hover">`)
	if r.channel != "" {
		fmt.Fprintf(&b, `<td class="programm-col1"><a href="/sender/x.html" title="%s Programm"><span class="logotype"></span></a></td>`, r.channel)
	}
	if r.start != "" {
		fmt.Fprintf(&b, `<td class="col-2"><strong>%s</strong> - 22:00</td>`, r.start)
	}
	fmt.Fprintf(&b, `<td class="col-3"><span><a href="%s" title="%s USA 2019"><strong>%s</strong></a></span></td>`, r.href, r.title, r.title)
	if r.genre != "" {
		fmt.Fprintf(&b, `<td class="col-4"><span>%s</span></td>`, r.genre)
	}
	if r.division != "" {
		fmt.Fprintf(&b, `<td class="col-5"><span>%s</span></td>`, r.division)
	}
	b.WriteString(`</tr>`)
	return b.String()
}

func schedulePage(groups ...[]fixtureRow) string {
	var b strings.Builder
	b.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>TV Programm</title></head><body>`)
	b.WriteString(`<div id="wrapper"><div id="main"><div class="content-area"><div id="content"><div class="tvlistings"><div class="content-holder"><div class="tab-content">`)
	b.WriteString(`<table class="info-table">`)
	for _, g := range groups {
		b.WriteString("<tbody>")
		for _, r := range g {
			b.WriteString(r.html())
		}
		b.WriteString("</tbody>")
	}
	b.WriteString(`</table></div></div></div></div></div></div></div></body></html>`)
	return b.String()
}

// threeChannelGroups: trois chaînes, deux diffusions chacune.
func threeChannelGroups() [][]fixtureRow {
	return [][]fixtureRow{
		{
			{channel: "Das Erste", start: "20:15", title: "Tatort", href: "/tv-programm/sendung/tatort,1.html", genre: "Krimi", division: "Krimi Reihe"},
			{channel: "Das Erste", start: "21:45", title: "Tagesthemen", href: "/tv-programm/sendung/tagesthemen,2.html", genre: "Nachrichten", division: "Info"},
		},
		{
			{channel: "ZDF", start: "20:15", title: "Der Bergdoktor", href: "/tv-programm/sendung/bergdoktor,3.html"},
			{channel: "ZDF", start: "22:15", title: "heute journal", href: "/tv-programm/sendung/heute-journal,4.html"},
		},
		{
			{channel: "ARTE", start: "20:10", title: "Metropolis", href: "https://www.tvspielfilm.de/tv-programm/sendung/metropolis,5.html", genre: "Science-Fiction", division: "Spielfilm"},
			{channel: "ARTE", start: "21:55", title: "Arte Journal", href: "/tv-programm/sendung/journal,6.html"},
		},
	}
}

func detailPage(inner string) string {
	return `<!DOCTYPE html><html><head><meta property="og:title" content="Og Title"></head><body><div id="content"><div><div><article class="broadcast-detail">` +
		inner + `</article></div></div></div></body></html>`
}
