// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bgg

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// xmlapi search response: <boardgames><boardgame objectid="13">...
type searchDoc struct {
	XMLName xml.Name
	errorAttrs
	Games []searchHit `xml:"boardgame"`
}

type searchHit struct {
	ObjectID string `xml:"objectid,attr"`
}

// xmlapi detail response.
type detailDoc struct {
	XMLName xml.Name
	errorAttrs
	Games []detailGame `xml:"boardgame"`
}

// errorAttrs captures the two error shapes the upstream uses in place of a
// normal document: <error message="..."/> and <div class="error">...</div>.
type errorAttrs struct {
	Message string `xml:"message,attr"`
	Class   string `xml:"class,attr"`
	Text    string `xml:",chardata"`
}

func (d searchDoc) upstreamError() (string, bool) { return d.errorAttrs.check(d.XMLName) }
func (d detailDoc) upstreamError() (string, bool) { return d.errorAttrs.check(d.XMLName) }

func (e errorAttrs) check(root xml.Name) (string, bool) {
	switch root.Local {
	case "error":
		return strings.TrimSpace(e.Message + " " + e.Text), true
	case "div":
		if strings.Contains(e.Class, "error") {
			return strings.TrimSpace(e.Text), true
		}
	}
	return "", false
}

type detailGame struct {
	ObjectID      string     `xml:"objectid,attr"`
	Names         []nameElem `xml:"name"`
	YearPublished string     `xml:"yearpublished"`
	MinPlayers    string     `xml:"minplayers"`
	MaxPlayers    string     `xml:"maxplayers"`
	Description   string     `xml:"description"`
	Thumbnail     string     `xml:"thumbnail"`
	Image         string     `xml:"image"`
	Publishers    []string   `xml:"boardgamepublisher"`
	Designers     []string   `xml:"boardgamedesigner"`
	Artists       []string   `xml:"boardgameartist"`
	Categories    []string   `xml:"boardgamecategory"`
	Mechanics     []string   `xml:"boardgamemechanic"`
}

type nameElem struct {
	Primary string `xml:"primary,attr"`
	Value   string `xml:",chardata"`
}

// primaryName returns the name flagged primary, else the first non-empty
// name. It is empty only when every name is blank.
func (dg detailGame) primaryName() string {
	for _, n := range dg.Names {
		if v := strings.TrimSpace(n.Value); n.Primary == "true" && v != "" {
			return v
		}
	}
	for _, n := range dg.Names {
		if v := strings.TrimSpace(n.Value); v != "" {
			return v
		}
	}
	return ""
}

// toGame converts the upstream element. ok is false when the element has
// no name. Malformed integer fields are errors.
func (dg detailGame) toGame(keepHTML bool) (g types.Game, ok bool, err error) {
	if len(dg.Names) == 0 {
		return types.Game{}, false, nil
	}

	g = types.Game{
		ID:           strings.TrimSpace(dg.ObjectID),
		Name:         dg.primaryName(),
		ThumbnailURL: strings.TrimSpace(dg.Thumbnail),
		ImageURL:     strings.TrimSpace(dg.Image),
		Publishers:   trimAll(dg.Publishers),
		Designers:    trimAll(dg.Designers),
		Artists:      trimAll(dg.Artists),
		Categories:   trimAll(dg.Categories),
		Mechanisms:   trimAll(dg.Mechanics),
	}
	if g.Name == "" {
		return types.Game{}, false, nil
	}

	if g.Year, err = optionalInt("yearpublished", dg.YearPublished); err != nil {
		return types.Game{}, false, err
	}
	minP, err := optionalInt("minplayers", dg.MinPlayers)
	if err != nil {
		return types.Game{}, false, err
	}
	maxP, err := optionalInt("maxplayers", dg.MaxPlayers)
	if err != nil {
		return types.Game{}, false, err
	}
	g.Players = PlayerCounts(minP, maxP)

	desc := strings.TrimSpace(dg.Description)
	if !keepHTML {
		if desc, err = PlainText(desc); err != nil {
			return types.Game{}, false, fmt.Errorf("description: %w", err)
		}
	}
	g.Description = desc

	return g, true, nil
}

// PlayerCounts expands an inclusive player range. A non-positive minimum
// means the upstream does not know the range and yields nil; a maximum
// below the minimum collapses to the minimum.
func PlayerCounts(minP, maxP int) []int {
	if minP <= 0 {
		return nil
	}
	if maxP < minP {
		maxP = minP
	}
	counts := make([]int, 0, maxP-minP+1)
	for n := minP; n <= maxP; n++ {
		counts = append(counts, n)
	}
	return counts
}

// optionalInt parses an optional integer element; empty text is 0.
func optionalInt(field, s string) (int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("malformed %s %q", field, s)
	}
	return n, nil
}

func trimAll(in []string) []string {
	var out []string
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
