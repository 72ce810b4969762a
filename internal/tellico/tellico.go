// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package tellico writes game records as a Tellico board-game collection
// document: fixed doctype, fixed field header, one entry per game, and an
// images block carrying base64 JPEG covers.
package tellico

import (
	"encoding/base64"
	"encoding/xml"
	"fmt"
	"io"
	"slices"
	"strconv"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

const (
	Namespace     = "http://periapsis.org/tellico/"
	SyntaxVersion = "10"
	Doctype       = `DOCTYPE tellico PUBLIC "-//Robby Stephenson/DTD Tellico V10.0//EN" "http://periapsis.org/tellico/dtd/v10/tellico.dtd"`

	// CollectionBoardGames is Tellico's collection type code for board games.
	CollectionBoardGames = "13"
	CollectionTitle      = "My Collection"

	// LinkBase prefixes the object id to form the boardgamegeek-link field.
	LinkBase = "http://www.boardgamegeek.com/boardgame/"
)

type document struct {
	XMLName       xml.Name   `xml:"tellico"`
	Xmlns         string     `xml:"xmlns,attr"`
	SyntaxVersion string     `xml:"syntaxVersion,attr"`
	Collection    collection `xml:"collection"`
}

type collection struct {
	Title   string      `xml:"title,attr"`
	Type    string      `xml:"type,attr"`
	Fields  []field     `xml:"fields>field"`
	Entries []entry     `xml:"entry"`
	Images  imagesBlock `xml:"images"`
}

type field struct {
	Name     string `xml:"name,attr"`
	Title    string `xml:"title,attr,omitempty"`
	Category string `xml:"category,attr,omitempty"`
	Flags    string `xml:"flags,attr,omitempty"`
	Format   string `xml:"format,attr,omitempty"`
	Type     string `xml:"type,attr,omitempty"`
	I18N     string `xml:"i18n,attr,omitempty"`
}

// headerFields is the fixed schema header: the default field set plus the
// BoardGameGeek id field.
var headerFields = []field{
	{Name: "_default"},
	{
		Name:     "bggid",
		Title:    "BoardGameGeek ID",
		Category: "General",
		Flags:    "0",
		Format:   "4",
		Type:     "6",
		I18N:     "true",
	},
}

// artistField is the optional illustrator field, written only when
// Options.Artists is set.
var artistField = field{
	Name:     "artist",
	Title:    "Artist",
	Category: "General",
	Flags:    "7",
	Format:   "2",
	Type:     "1",
	I18N:     "true",
}

// Options selects optional fields.
type Options struct {
	Artists bool
}

type entry struct {
	ID          int      `xml:"id,attr"`
	Title       string   `xml:"title"`
	Description string   `xml:"description,omitempty"`
	Year        string   `xml:"year,omitempty"`
	Link        string   `xml:"boardgamegeek-link,omitempty"`
	BGGID       string   `xml:"bggid,omitempty"`
	Cover       string   `xml:"cover,omitempty"`
	Publishers  []string `xml:"publishers>publisher,omitempty"`
	Designers   []string `xml:"designers>designer,omitempty"`
	Artists     []string `xml:"artists>artist,omitempty"`
	Genres      []string `xml:"genres>genre,omitempty"`
	Mechanisms  []string `xml:"mechanisms>mechanism,omitempty"`
	NumPlayers  []string `xml:"num-players>num-player,omitempty"`
}

type imagesBlock struct {
	Images []image `xml:"image"`
}

type image struct {
	Format string `xml:"format,attr"`
	ID     string `xml:"id,attr"`
	Data   string `xml:",chardata"`
}

// Write encodes games as a Tellico document on w. The header block is
// written even when games is empty.
func Write(w io.Writer, games []types.Game, opts Options) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	if _, err := io.WriteString(w, "<!"+Doctype+">\n"); err != nil {
		return fmt.Errorf("writing doctype: %w", err)
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", " ")
	if err := enc.Encode(build(games, opts)); err != nil {
		return fmt.Errorf("encoding tellico document: %w", err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

func build(games []types.Game, opts Options) document {
	fields := headerFields
	if opts.Artists {
		fields = append(slices.Clone(headerFields), artistField)
	}
	doc := document{
		Xmlns:         Namespace,
		SyntaxVersion: SyntaxVersion,
		Collection: collection{
			Title:  CollectionTitle,
			Type:   CollectionBoardGames,
			Fields: fields,
		},
	}

	for i, g := range games {
		e := toEntry(i, g)
		if opts.Artists {
			e.Artists = g.Artists
		}
		doc.Collection.Entries = append(doc.Collection.Entries, e)
		if g.Image != nil {
			doc.Collection.Images.Images = append(doc.Collection.Images.Images, image{
				Format: g.Image.Format,
				ID:     g.Image.ID,
				Data:   base64.StdEncoding.EncodeToString(g.Image.Data),
			})
		}
	}
	return doc
}

func toEntry(i int, g types.Game) entry {
	e := entry{
		ID:          i,
		Title:       g.Name,
		Description: g.Description,
		Cover:       g.Cover(),
		Publishers:  g.Publishers,
		Designers:   g.Designers,
		Genres:      g.Categories,
		Mechanisms:  g.Mechanisms,
	}
	if g.Year > 0 {
		e.Year = strconv.Itoa(g.Year)
	}
	if g.ID != "" {
		e.Link = LinkBase + g.ID
		e.BGGID = g.ID
	}
	for _, n := range g.Players {
		e.NumPlayers = append(e.NumPlayers, strconv.Itoa(n))
	}
	return e
}
