package api

import (
	"net/http"

	"streamvault/handlers"

	"github.com/gorilla/mux"
)

// corsMiddleware handles CORS for API routes
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")

		// Handle preflight requests
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts API endpoints onto the provided router. Write endpoints are
// wrapped by limiter when it is non-nil.
func Register(
	r *mux.Router,
	advertisementsHandler *handlers.AdvertisementsHandler,
	heroHandler *handlers.HeroHandler,
	embedHandler *handlers.EmbedHandler,
	limiter *IPRateLimiter,
) {
	api := r.PathPrefix("/api").Subrouter()
	api.Use(corsMiddleware)

	guard := func(h http.HandlerFunc) http.HandlerFunc {
		if limiter == nil {
			return h
		}
		return RateLimitHandlerFunc(limiter, h)
	}

	// Advertisement requests
	api.HandleFunc("/advertisement-requests", advertisementsHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/advertisement-requests", guard(advertisementsHandler.Create)).Methods(http.MethodPost)
	api.HandleFunc("/advertisement-requests", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/advertisement-requests/{id}", guard(advertisementsHandler.Delete)).Methods(http.MethodDelete)
	api.HandleFunc("/advertisement-requests/{id}", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/check-recent-ad-request", guard(advertisementsHandler.CheckRecent)).Methods(http.MethodPost)
	api.HandleFunc("/check-recent-ad-request", handleOptions).Methods(http.MethodOptions)

	// Home page
	api.HandleFunc("/hero", heroHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/hero", guard(heroHandler.Select)).Methods(http.MethodPost)
	api.HandleFunc("/hero", handleOptions).Methods(http.MethodOptions)

	// Player
	api.HandleFunc("/embed", embedHandler.Resolve).Methods(http.MethodGet)
	api.HandleFunc("/embed", handleOptions).Methods(http.MethodOptions)
}
