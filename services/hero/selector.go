// Package hero picks the home page hero banner item from the content catalog.
package hero

import (
	"slices"
	"strconv"

	"github.com/samber/lo"

	"streamvault/models"
)

const (
	defaultDescription = "No description available"
	defaultRating      = "TV-PG"
	defaultYear        = "2024"
	defaultScore       = "8.0"
	defaultImage       = "/placeholder.svg"
	defaultSeason      = 1
)

// Placeholder is shown when nothing in the catalog is tagged for the hero slot.
func Placeholder() models.HeroDisplay {
	return models.HeroDisplay{
		ID:          "1",
		Title:       "Welcome to StreamVault",
		Description: "Discover amazing movies, web series, and shows. Upload your content to get started.",
		Rating:      "TV-PG",
		Year:        "2024",
		Score:       "9.0",
		Image:       defaultImage,
		Type:        "Platform",
		VideoURL:    "",
	}
}

// IsFeatured reports whether item is tagged for the home hero. Movies carry the
// tag on the movie record, web series on their first season.
func IsFeatured(item models.ContentItem) bool {
	switch item.ContentType {
	case models.ContentTypeMovie:
		return item.Movie != nil && slices.Contains(item.Movie.FeatureIn, models.HomeHeroTag)
	case models.ContentTypeWebSeries:
		season := item.FirstSeason()
		return season != nil && slices.Contains(season.FeatureIn, models.HomeHeroTag)
	default:
		return false
	}
}

// Candidates returns the featured items, newest first. Items sharing a
// created_at keep their input order.
func Candidates(items []models.ContentItem) []models.ContentItem {
	featured := lo.Filter(items, func(item models.ContentItem, _ int) bool {
		return IsFeatured(item)
	})
	slices.SortStableFunc(featured, func(a, b models.ContentItem) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return featured
}

// Original returns the catalog record backing the hero banner.
func Original(items []models.ContentItem) (models.ContentItem, bool) {
	candidates := Candidates(items)
	if len(candidates) == 0 {
		return models.ContentItem{}, false
	}
	return candidates[0], true
}

// NavigationID is the identifier the details page is keyed on.
func NavigationID(item models.ContentItem) string {
	if item.ContentID != "" {
		return item.ContentID
	}
	return item.ID
}

// Select projects the newest featured item into a HeroDisplay, or returns the
// placeholder when nothing qualifies.
func Select(items []models.ContentItem) models.HeroDisplay {
	item, ok := Original(items)
	if !ok {
		return Placeholder()
	}
	return Project(item)
}

// SelectFromCatalog runs Select over movies followed by web series.
func SelectFromCatalog(catalog models.Catalog) models.HeroDisplay {
	return Select(catalog.Items())
}

// Project derives the display fields for a single item. Missing optional
// fields fall back to literal defaults; it never fails.
func Project(item models.ContentItem) models.HeroDisplay {
	src := newSource(item)

	display := models.HeroDisplay{
		ID:           item.ID,
		Title:        item.Title,
		Description:  extract(src, descriptionStrategies),
		Rating:       extract(src, ratingStrategies),
		Year:         extract(src, yearStrategies),
		Score:        extract(src, scoreStrategies),
		Image:        extract(src, imageStrategies),
		Type:         string(item.ContentType),
		SeasonNumber: defaultSeason,
		VideoURL:     extract(src, videoStrategies),
		NavigationID: NavigationID(item),
	}
	if item.ContentType == models.ContentTypeWebSeries {
		display.Type = "series"
	}
	if src.season != nil && src.season.SeasonNumber != nil && *src.season.SeasonNumber > 0 {
		display.SeasonNumber = *src.season.SeasonNumber
	}
	return display
}

// source flattens the variant-specific records of an item so field
// strategies can read them uniformly.
type source struct {
	item   models.ContentItem
	movie  *models.Movie
	season *models.WebSeriesSeason
}

func newSource(item models.ContentItem) source {
	src := source{item: item}
	switch item.ContentType {
	case models.ContentTypeMovie:
		src.movie = item.Movie
	case models.ContentTypeWebSeries:
		src.season = item.FirstSeason()
	}
	return src
}

// fieldStrategy yields a candidate value or "" when it has nothing to offer.
type fieldStrategy func(src source) string

// extract returns the first non-empty value produced by strategies.
func extract(src source, strategies []fieldStrategy) string {
	for _, strategy := range strategies {
		if v := strategy(src); v != "" {
			return v
		}
	}
	return ""
}

func literal(v string) fieldStrategy {
	return func(source) string { return v }
}

var (
	descriptionStrategies = []fieldStrategy{recordDescription, seasonDescription, itemDescription, literal(defaultDescription)}
	ratingStrategies      = []fieldStrategy{recordRatingType, literal(defaultRating)}
	yearStrategies        = []fieldStrategy{recordReleaseYear, createdYear, literal(defaultYear)}
	scoreStrategies       = []fieldStrategy{recordScore, literal(defaultScore)}
	imageStrategies       = []fieldStrategy{recordThumbnail, literal(defaultImage)}
	videoStrategies       = []fieldStrategy{movieVideo, firstEpisodeVideo}
)

func recordDescription(src source) string {
	switch {
	case src.movie != nil:
		return src.movie.Description
	case src.season != nil:
		return src.season.Description
	}
	return ""
}

func seasonDescription(src source) string {
	if src.season == nil {
		return ""
	}
	return src.season.SeasonDescription
}

func itemDescription(src source) string {
	return src.item.Description
}

func recordRatingType(src source) string {
	switch {
	case src.movie != nil:
		return src.movie.RatingType
	case src.season != nil:
		return src.season.RatingType
	}
	return ""
}

func recordReleaseYear(src source) string {
	var year *int
	switch {
	case src.movie != nil:
		year = src.movie.ReleaseYear
	case src.season != nil:
		year = src.season.ReleaseYear
	}
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}

func createdYear(src source) string {
	if src.item.CreatedAt.IsZero() {
		return ""
	}
	return strconv.Itoa(src.item.CreatedAt.Year())
}

func recordScore(src source) string {
	var rating *float64
	switch {
	case src.movie != nil:
		rating = src.movie.Rating
	case src.season != nil:
		rating = src.season.Rating
	}
	if rating == nil {
		return ""
	}
	return strconv.FormatFloat(*rating, 'f', -1, 64)
}

func recordThumbnail(src source) string {
	switch {
	case src.movie != nil:
		return src.movie.ThumbnailURL
	case src.season != nil:
		return src.season.ThumbnailURL
	}
	return ""
}

func movieVideo(src source) string {
	if src.movie == nil {
		return ""
	}
	return src.movie.VideoURL
}

func firstEpisodeVideo(src source) string {
	if src.season == nil || len(src.season.Episodes) == 0 {
		return ""
	}
	return src.season.Episodes[0].VideoURL
}
