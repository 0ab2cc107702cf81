package handlers

import (
	"encoding/json"
	"net/http"

	"streamvault/internal/mediaresolve"
)

type EmbedHandler struct{}

func NewEmbedHandler() *EmbedHandler {
	return &EmbedHandler{}
}

// Resolve classifies the source query parameter into an embeddable URL.
func (h *EmbedHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	source := r.URL.Query().Get("source")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(mediaresolve.ResolveEmbed(source))
}
