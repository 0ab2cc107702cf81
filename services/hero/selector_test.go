package hero_test

import (
	"testing"
	"time"

	"streamvault/models"
	"streamvault/services/hero"
)

func intPtr(v int) *int { return &v }
func floatPtr(v float64) *float64 { return &v }

func movie(id string, created time.Time, tags ...string) models.ContentItem {
	return models.ContentItem{
		ID:          id,
		Title:       "Movie " + id,
		CreatedAt:   created,
		ContentType: models.ContentTypeMovie,
		Movie: &models.Movie{
			Description:  "movie description " + id,
			ThumbnailURL: "https://img.example.com/" + id + ".jpg",
			VideoURL:     "https://youtu.be/" + id,
			RatingType:   "PG-13",
			Rating:       floatPtr(7.5),
			ReleaseYear:  intPtr(2021),
			FeatureIn:    tags,
		},
	}
}

func series(id string, created time.Time, tags ...string) models.ContentItem {
	return models.ContentItem{
		ID:          id,
		Title:       "Series " + id,
		Description: "series description " + id,
		CreatedAt:   created,
		ContentType: models.ContentTypeWebSeries,
		WebSeries: &models.WebSeries{
			Seasons: []models.WebSeriesSeason{{
				SeasonDescription: "season description " + id,
				SeasonNumber:      intPtr(2),
				ThumbnailURL:      "https://img.example.com/s" + id + ".jpg",
				Episodes: []models.Episode{
					{Title: "Pilot", VideoURL: "https://cdn.example.com/" + id + "-1.mp4"},
					{Title: "Second", VideoURL: "https://cdn.example.com/" + id + "-2.mp4"},
				},
				FeatureIn: tags,
			}},
		},
	}
}

var base = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestSelectReturnsPlaceholderWhenNothingFeatured(t *testing.T) {
	cases := map[string][]models.ContentItem{
		"nil":      nil,
		"empty":    {},
		"untagged": {movie("1", base), series("2", base, "Trending")},
		"show":     {{ID: "3", ContentType: models.ContentTypeShow, CreatedAt: base}},
		"no season": {{
			ID: "4", ContentType: models.ContentTypeWebSeries, CreatedAt: base,
			WebSeries: &models.WebSeries{},
		}},
	}

	want := hero.Placeholder()
	for name, items := range cases {
		t.Run(name, func(t *testing.T) {
			got := hero.Select(items)
			if got != want {
				t.Fatalf("expected placeholder, got %+v", got)
			}
		})
	}

	if want.Title != "Welcome to StreamVault" || want.Rating != "TV-PG" || want.Year != "2024" || want.Score != "9.0" || want.ID != "1" {
		t.Fatalf("unexpected placeholder %+v", want)
	}
}

func TestSelectPicksNewestFeatured(t *testing.T) {
	items := []models.ContentItem{
		movie("old", base.Add(-48*time.Hour), models.HomeHeroTag),
		movie("untagged-newest", base.Add(72*time.Hour)),
		series("new", base.Add(24*time.Hour), models.HomeHeroTag),
		movie("mid", base, models.HomeHeroTag),
	}

	got := hero.Select(items)
	if got.ID != "new" {
		t.Fatalf("expected newest featured item, got %q", got.ID)
	}
}

func TestSelectTiesKeepInputOrder(t *testing.T) {
	items := []models.ContentItem{
		movie("first", base, models.HomeHeroTag),
		movie("second", base, models.HomeHeroTag),
		series("third", base, models.HomeHeroTag),
	}

	if got := hero.Select(items); got.ID != "first" {
		t.Fatalf("expected first of tied items, got %q", got.ID)
	}
}

func TestProjectMovie(t *testing.T) {
	got := hero.Select([]models.ContentItem{movie("m1", base, models.HomeHeroTag)})

	want := models.HeroDisplay{
		ID:           "m1",
		Title:        "Movie m1",
		Description:  "movie description m1",
		Rating:       "PG-13",
		Year:         "2021",
		Score:        "7.5",
		Image:        "https://img.example.com/m1.jpg",
		Type:         "Movie",
		SeasonNumber: 1,
		VideoURL:     "https://youtu.be/m1",
		NavigationID: "m1",
	}
	if got != want {
		t.Fatalf("got %+v\nwant %+v", got, want)
	}
}

func TestProjectWebSeries(t *testing.T) {
	got := hero.Select([]models.ContentItem{series("s1", base, models.HomeHeroTag)})

	if got.Type != "series" {
		t.Errorf("expected type series, got %q", got.Type)
	}
	if got.Description != "season description s1" {
		t.Errorf("expected season description fallback, got %q", got.Description)
	}
	if got.VideoURL != "https://cdn.example.com/s1-1.mp4" {
		t.Errorf("expected first episode video, got %q", got.VideoURL)
	}
	if got.SeasonNumber != 2 {
		t.Errorf("expected season 2, got %d", got.SeasonNumber)
	}
	if got.Year != "2024" {
		t.Errorf("expected created_at year, got %q", got.Year)
	}
	if got.Rating != "TV-PG" || got.Score != "8.0" {
		t.Errorf("expected rating defaults, got %q / %q", got.Rating, got.Score)
	}
}

func TestProjectDefaults(t *testing.T) {
	item := models.ContentItem{
		ID:          "bare",
		Title:       "Bare",
		ContentType: models.ContentTypeWebSeries,
		WebSeries: &models.WebSeries{Seasons: []models.WebSeriesSeason{{
			FeatureIn: []string{models.HomeHeroTag},
		}}},
	}

	got := hero.Project(item)
	if got.Description != "No description available" {
		t.Errorf("description = %q", got.Description)
	}
	if got.Image != "/placeholder.svg" {
		t.Errorf("image = %q", got.Image)
	}
	if got.Year != "2024" {
		t.Errorf("year = %q", got.Year)
	}
	if got.SeasonNumber != 1 {
		t.Errorf("season = %d", got.SeasonNumber)
	}
	if got.VideoURL != "" {
		t.Errorf("video = %q", got.VideoURL)
	}
}

func TestProjectDescriptionPrecedence(t *testing.T) {
	item := series("p", base, models.HomeHeroTag)
	item.WebSeries.Seasons[0].Description = "own season description"
	if got := hero.Project(item).Description; got != "own season description" {
		t.Fatalf("season description should win, got %q", got)
	}

	item.WebSeries.Seasons[0].Description = ""
	item.WebSeries.Seasons[0].SeasonDescription = ""
	if got := hero.Project(item).Description; got != "series description p" {
		t.Fatalf("content description should be used last, got %q", got)
	}
}

func TestSelectFromCatalog(t *testing.T) {
	catalog := models.Catalog{
		Movies:    []models.ContentItem{movie("m", base, models.HomeHeroTag)},
		WebSeries: []models.ContentItem{series("s", base, models.HomeHeroTag)},
	}
	// Movies precede web series, so the tie goes to the movie.
	if got := hero.SelectFromCatalog(catalog); got.ID != "m" {
		t.Fatalf("expected movie to win tie, got %q", got.ID)
	}
}

func TestNavigationID(t *testing.T) {
	item := movie("row-id", base)
	if got := hero.NavigationID(item); got != "row-id" {
		t.Fatalf("expected id fallback, got %q", got)
	}
	item.ContentID = "content-id"
	if got := hero.NavigationID(item); got != "content-id" {
		t.Fatalf("expected content id, got %q", got)
	}

	item.Movie.FeatureIn = []string{models.HomeHeroTag}
	if got := hero.Select([]models.ContentItem{item}); got.NavigationID != "content-id" || got.ID != "row-id" {
		t.Fatalf("expected hero to carry navigation id, got %+v", got)
	}
	if got := hero.Placeholder(); got.NavigationID != "" {
		t.Fatalf("placeholder should not link anywhere, got %q", got.NavigationID)
	}
}
