// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared by the fetch pipeline,
// the cache, and the output encoders.
package types

// Game is one board game record assembled from the upstream detail
// response. Scalar fields use their zero value when the upstream
// document omits them.
type Game struct {
	// ID is the BoardGameGeek object id as a decimal string (e.g. "13").
	ID string `json:"id" yaml:"id"`

	// Name is the primary title of the game.
	Name string `json:"name" yaml:"name"`

	// Year is the publication year; 0 means unknown.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// Description is the free-text description.
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Publishers []string `json:"publishers,omitempty" yaml:"publishers,omitempty"`
	Designers  []string `json:"designers,omitempty" yaml:"designers,omitempty"`
	Artists    []string `json:"artists,omitempty" yaml:"artists,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Mechanisms []string `json:"mechanisms,omitempty" yaml:"mechanisms,omitempty"`

	// Players lists every permissible player count, ascending.
	Players []int `json:"players,omitempty" yaml:"players,omitempty"`

	// ThumbnailURL and ImageURL are the cover links reported upstream.
	ThumbnailURL string `json:"thumbnail_url,omitempty" yaml:"thumbnail_url,omitempty"`
	ImageURL     string `json:"image_url,omitempty" yaml:"image_url,omitempty"`

	// Image is the fetched cover, nil when no cover was attached.
	Image *Image `json:"-" yaml:"-"`
}

// Image is an embedded cover image.
type Image struct {
	// ID is the filename the Tellico document refers to ("13.jpg").
	ID string

	// Format is the image format label written to the document.
	Format string

	Data []byte
}

// Cover returns the cover filename, or "" when no image is attached.
func (g Game) Cover() string {
	if g.Image == nil {
		return ""
	}
	return g.Image.ID
}

// CoverFilename returns the image filename derived from a game id.
func CoverFilename(id string) string {
	return id + ".jpg"
}
