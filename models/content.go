package models

import "time"

// ContentType discriminates the variants of a ContentItem.
type ContentType string

const (
	ContentTypeMovie     ContentType = "Movie"
	ContentTypeWebSeries ContentType = "Web Series"
	ContentTypeShow      ContentType = "Show"
)

// HomeHeroTag marks content eligible for the home page hero banner.
const HomeHeroTag = "Home Hero"

// ContentItem is a catalog record. Exactly one of Movie or WebSeries is set,
// matching ContentType; Show records carry neither.
type ContentItem struct {
	ID          string      `json:"id"`
	ContentID   string      `json:"content_id,omitempty"`
	Title       string      `json:"title"`
	Description string      `json:"description,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	ContentType ContentType `json:"content_type"`
	Movie       *Movie      `json:"movie,omitempty"`
	WebSeries   *WebSeries  `json:"web_series,omitempty"`
}

type Movie struct {
	Description  string   `json:"description,omitempty"`
	ThumbnailURL string   `json:"thumbnail_url,omitempty"`
	VideoURL     string   `json:"video_url,omitempty"`
	RatingType   string   `json:"rating_type,omitempty"`
	Rating       *float64 `json:"rating,omitempty"`
	ReleaseYear  *int     `json:"release_year,omitempty"`
	FeatureIn    []string `json:"feature_in,omitempty"`
}

// WebSeries holds seasons; catalog entries are flattened so that each
// entry carries a single season at index 0.
type WebSeries struct {
	Seasons []WebSeriesSeason `json:"seasons"`
}

type WebSeriesSeason struct {
	Description       string    `json:"description,omitempty"`
	SeasonDescription string    `json:"season_description,omitempty"`
	SeasonNumber      *int      `json:"season_number,omitempty"`
	ThumbnailURL      string    `json:"thumbnail_url,omitempty"`
	RatingType        string    `json:"rating_type,omitempty"`
	Rating            *float64  `json:"rating,omitempty"`
	ReleaseYear       *int      `json:"release_year,omitempty"`
	Episodes          []Episode `json:"episodes,omitempty"`
	FeatureIn         []string  `json:"feature_in,omitempty"`
}

type Episode struct {
	Title    string `json:"title,omitempty"`
	VideoURL string `json:"video_url,omitempty"`
	Duration string `json:"duration,omitempty"`
}

// FirstSeason returns the displayed season of a web series entry.
func (c ContentItem) FirstSeason() *WebSeriesSeason {
	if c.WebSeries == nil || len(c.WebSeries.Seasons) == 0 {
		return nil
	}
	return &c.WebSeries.Seasons[0]
}

// Catalog mirrors the grouped content listing consumed by the home page.
type Catalog struct {
	Movies    []ContentItem `json:"movies"`
	WebSeries []ContentItem `json:"webSeries"`
}

// Items flattens the catalog, movies first.
func (c Catalog) Items() []ContentItem {
	items := make([]ContentItem, 0, len(c.Movies)+len(c.WebSeries))
	items = append(items, c.Movies...)
	items = append(items, c.WebSeries...)
	return items
}

// HeroDisplay is the display-ready projection of the hero banner item.
type HeroDisplay struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Rating       string `json:"rating"`
	Year         string `json:"year"`
	Score        string `json:"score"`
	Image        string `json:"image"`
	Type         string `json:"type"`
	SeasonNumber int    `json:"seasonNumber,omitempty"`
	VideoURL     string `json:"videoUrl"`
	NavigationID string `json:"navigationId,omitempty"`
}
