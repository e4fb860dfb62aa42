package model

import "time"

// Content publication statuses.
const (
	StatusUnpublished = "unpublished"
	StatusPublished   = "published"
	StatusArchived    = "archived"
)

// Discriminator tags stored on content rows. The base ContentItem carries no
// tag; subtype rows are tagged so a subtype model only ever sees its own rows.
const (
	KindPost      = "Post"
	KindRecording = "Recording"
	KindRelease   = "Release"
)

// Entity is implemented by every storable model. ApplyDefaults fills
// server-assigned fields (creation-time dates) before the first persist.
type Entity interface {
	ApplyDefaults(now time.Time)
}

// ContentItem is the base record shared by all content subtypes.
// These are pure domain models with no database-specific dependencies; the
// repository layer owns identifier assignment, so no ID field appears here.
type ContentItem struct {
	Kind        string   `json:"kind,omitempty"`
	Title       string   `json:"title,omitempty"`
	Body        string   `json:"body,omitempty"`
	Image       string   `json:"image,omitempty"`
	Language    string   `json:"language,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    string   `json:"keywords,omitempty"`
	Status      string   `json:"status,omitempty"`
	Deleted     bool     `json:"deleted"`
	Authors     []string `json:"authors,omitempty"`
}

func (c *ContentItem) ApplyDefaults(now time.Time) {}

// SetKind overwrites the discriminator tag. The gateway calls it after
// decoding a client payload so the tag always comes from the resolved model,
// never from the client.
func (c *ContentItem) SetKind(kind string) { c.Kind = kind }

// Post extends ContentItem with a publication date.
type Post struct {
	ContentItem
	PostDate time.Time `json:"postDate,omitempty"`
}

func (p *Post) ApplyDefaults(now time.Time) {
	if p.PostDate.IsZero() {
		p.PostDate = now
	}
}

// Recording extends ContentItem with song-level metadata.
type Recording struct {
	ContentItem
	Lyrics               string         `json:"lyrics,omitempty"`
	Composers            []string       `json:"composers,omitempty"`
	WatsonToneStatistics map[string]any `json:"watsonToneStatistics,omitempty"`
	SoundcloudID         string         `json:"soundcloudId,omitempty"`
}

// Release extends ContentItem with release metadata and external identifiers.
type Release struct {
	ContentItem
	ReleaseDate  time.Time `json:"releaseDate,omitempty"`
	SoundcloudID string    `json:"soundcloudId,omitempty"`
	ItunesID     string    `json:"itunesId,omitempty"`
	SpotifyID    string    `json:"spotifyId,omitempty"`
	LabelLink    string    `json:"labelLink,omitempty"`
	LinerNotes   string    `json:"linerNotes,omitempty"`
}

func (r *Release) ApplyDefaults(now time.Time) {
	if r.ReleaseDate.IsZero() {
		r.ReleaseDate = now
	}
}
