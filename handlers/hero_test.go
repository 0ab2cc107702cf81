package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"streamvault/handlers"
	"streamvault/models"
)

type fakeCatalog struct {
	catalog models.Catalog
	err     error
}

func (f *fakeCatalog) Load() (models.Catalog, error) {
	return f.catalog, f.err
}

func TestHeroHandler_GetPlaceholderWhenEmpty(t *testing.T) {
	handler := handlers.NewHeroHandler(&fakeCatalog{})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/hero", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.HeroDisplay
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "1" || got.Title != "Welcome to StreamVault" {
		t.Fatalf("expected placeholder, got %+v", got)
	}
}

func TestHeroHandler_GetFeaturedMovie(t *testing.T) {
	catalog := models.Catalog{Movies: []models.ContentItem{{
		ID:          "m1",
		ContentID:   "monsoon-2024",
		Title:       "Monsoon",
		CreatedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		ContentType: models.ContentTypeMovie,
		Movie:       &models.Movie{ThumbnailURL: "/m.jpg", FeatureIn: []string{models.HomeHeroTag}},
	}}}
	handler := handlers.NewHeroHandler(&fakeCatalog{catalog: catalog})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/hero", nil))

	var got models.HeroDisplay
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "m1" || got.Image != "/m.jpg" || got.Type != "Movie" {
		t.Fatalf("unexpected hero %+v", got)
	}
	if got.NavigationID != "monsoon-2024" {
		t.Fatalf("expected navigation id monsoon-2024, got %q", got.NavigationID)
	}
}

func TestHeroHandler_GetCatalogError(t *testing.T) {
	handler := handlers.NewHeroHandler(&fakeCatalog{err: errors.New("decode catalog: bad json")})

	rec := httptest.NewRecorder()
	handler.Get(rec, httptest.NewRequest(http.MethodGet, "/api/hero", nil))

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
}

func TestHeroHandler_SelectFromBody(t *testing.T) {
	handler := handlers.NewHeroHandler(nil)

	body := `{"movies":[],"webSeries":[{"id":"w1","title":"Tides","created_at":"2024-05-01T00:00:00Z","content_type":"Web Series","web_series":{"seasons":[{"season_number":2,"feature_in":["Home Hero"],"episodes":[{"video_url":"https://youtu.be/xyz"}]}]}}]}`
	rec := httptest.NewRecorder()
	handler.Select(rec, httptest.NewRequest(http.MethodPost, "/api/hero", bytes.NewBufferString(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var got models.HeroDisplay
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.ID != "w1" || got.Type != "series" || got.SeasonNumber != 2 || got.VideoURL != "https://youtu.be/xyz" || got.NavigationID != "w1" {
		t.Fatalf("unexpected hero %+v", got)
	}
}

func TestHeroHandler_SelectInvalidBody(t *testing.T) {
	handler := handlers.NewHeroHandler(nil)

	rec := httptest.NewRecorder()
	handler.Select(rec, httptest.NewRequest(http.MethodPost, "/api/hero", bytes.NewBufferString("{")))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}
