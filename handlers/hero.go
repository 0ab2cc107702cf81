package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"streamvault/models"
	"streamvault/services/catalog"
	"streamvault/services/hero"
)

type catalogSource interface {
	Load() (models.Catalog, error)
}

var _ catalogSource = (*catalog.Service)(nil)

// HeroHandler serves the home page hero banner.
type HeroHandler struct {
	Catalog catalogSource
}

func NewHeroHandler(source catalogSource) *HeroHandler {
	return &HeroHandler{Catalog: source}
}

// Get selects the hero from the configured catalog.
func (h *HeroHandler) Get(w http.ResponseWriter, r *http.Request) {
	var display models.HeroDisplay
	if h.Catalog == nil {
		display = hero.Placeholder()
	} else {
		items, err := h.Catalog.Load()
		if err != nil {
			log.Printf("[hero] catalog load failed: %v", err)
			writeJSONError(w, "Failed to load content catalog", http.StatusInternalServerError)
			return
		}
		display = hero.SelectFromCatalog(items)
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(display)
}

// Select selects the hero from a catalog posted by the caller.
func (h *HeroHandler) Select(w http.ResponseWriter, r *http.Request) {
	var body models.Catalog
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, "invalid catalog", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(hero.SelectFromCatalog(body))
}
