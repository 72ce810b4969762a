// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package bgg

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/bgg-tellico/pkg/types"
)

// DefaultImageHosts are the image hosts cover links must point at.
var DefaultImageHosts = []string{"images.boardgamegeek.com", "cf.geekdo-images.com"}

// CoverURL picks the cover link for size and returns it only when it
// points at one of hosts (or a subdomain of one). Protocol-relative links
// are resolved to https.
func CoverURL(g types.Game, size types.ImageSize, hosts []string) (string, bool) {
	var raw string
	switch size {
	case types.ImageNone:
		return "", false
	case types.ImageLarge:
		raw = g.ImageURL
	default:
		raw = g.ThumbnailURL
	}
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	if strings.HasPrefix(raw, "//") {
		raw = "https:" + raw
	}

	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return "", false
	}
	if len(hosts) == 0 {
		hosts = DefaultImageHosts
	}
	for _, h := range hosts {
		h = strings.ToLower(strings.TrimSpace(h))
		if h == "" {
			continue
		}
		host := strings.ToLower(u.Host)
		name := strings.ToLower(u.Hostname())
		if host == h || name == h || strings.HasSuffix(name, "."+h) {
			return u.String(), true
		}
	}
	return "", false
}

// PlainText flattens an HTML description fragment to text. Line breaks
// and paragraph ends become newlines; entities are decoded.
func PlainText(s string) (string, error) {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s), nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return "", err
	}
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p").Each(func(_ int, p *goquery.Selection) {
		p.AppendHtml("\n")
	})
	return strings.TrimSpace(doc.Text()), nil
}
