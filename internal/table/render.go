// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package table

import (
	"fmt"
	"html/template"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// GameColumns are the columns of the standard game table.
var GameColumns = []Column{
	{Name: "Title", Type: Text},
	{Name: "Year", Type: Numeric},
	{Name: "Publishers", Type: Text},
	{Name: "Designers", Type: Text},
	{Name: "Players", Type: Numeric},
	{Name: "BGG ID", Type: Numeric},
}

// FromGames builds the standard game table, one row per game.
func FromGames(games []types.Game) *Table {
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		year := ""
		if g.Year != 0 {
			year = strconv.Itoa(g.Year)
		}
		rows = append(rows, []string{
			g.Name,
			year,
			strings.Join(g.Publishers, "; "),
			strings.Join(g.Designers, "; "),
			playerRange(g.Players),
			g.ID,
		})
	}
	return New(GameColumns, rows)
}

func playerRange(players []int) string {
	switch len(players) {
	case 0:
		return ""
	case 1:
		return strconv.Itoa(players[0])
	}
	return fmt.Sprintf("%d-%d", players[0], players[len(players)-1])
}

// View carries the request state a rendered page links back to.
type View struct {
	Title      string
	Path       string // page path the header links point at
	Query      string
	SortColumn int // -1 when unsorted
	Desc       bool
	SearchText string
}

type header struct {
	Name   string
	Href   string
	Marker string
}

type page struct {
	View
	Headers []header
	Rows    []Row
	Visible int
}

var pageTmpl = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
tr.entry0 { background: #ffffff; }
tr.entry1 { background: #eeeeee; }
tr.hidden { display: none; }
th a { text-decoration: none; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<form method="get" action="{{.Path}}">
<input type="hidden" name="q" value="{{.Query}}">
<input type="text" name="searchText" value="{{.SearchText}}" placeholder="Filter">
<input type="submit" value="Filter">
</form>
<p>{{.Visible}} of {{len .Rows}} shown</p>
<table>
<thead><tr>{{range .Headers}}<th><a href="{{.Href}}">{{.Name}}</a>{{.Marker}}</th>{{end}}</tr></thead>
<tbody>
{{range .Rows}}<tr class="{{.Class}}">{{range .Cells}}<td>{{.}}</td>{{end}}</tr>
{{end}}</tbody>
</table>
</body>
</html>
`))

// Render writes t as an HTML page. Each header links to the page sorted by
// that column; clicking the active column flips the direction.
func (t *Table) Render(w io.Writer, v View) error {
	p := page{View: v, Rows: t.Rows}
	for _, r := range t.Rows {
		if !r.Hidden {
			p.Visible++
		}
	}
	for i, c := range t.Columns {
		desc := false
		marker := ""
		if i == v.SortColumn {
			desc = !v.Desc
			marker = " ▲"
			if v.Desc {
				marker = " ▼"
			}
		}
		p.Headers = append(p.Headers, header{
			Name:   c.Name,
			Href:   sortLink(v, i, desc),
			Marker: marker,
		})
	}
	if err := pageTmpl.Execute(w, p); err != nil {
		return fmt.Errorf("rendering table: %w", err)
	}
	return nil
}

func sortLink(v View, col int, desc bool) string {
	q := url.Values{}
	if v.Query != "" {
		q.Set("q", v.Query)
	}
	q.Set("sort", strconv.Itoa(col))
	if desc {
		q.Set("dir", "desc")
	} else {
		q.Set("dir", "asc")
	}
	if v.SearchText != "" {
		q.Set("searchText", v.SearchText)
	}
	return v.Path + "?" + q.Encode()
}
