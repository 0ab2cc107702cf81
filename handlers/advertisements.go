package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"streamvault/models"
	"streamvault/services/adrequests"

	"github.com/gorilla/mux"
)

type advertisementsService interface {
	List(ctx context.Context) []models.AdvertisementRequest
	Create(ctx context.Context, req models.NewAdvertisementRequest) (models.AdvertisementRequest, error)
	HasRecent(ctx context.Context, userIP string, since time.Time) bool
	Delete(ctx context.Context, id string) error
}

var _ advertisementsService = (*adrequests.Service)(nil)

type AdvertisementsHandler struct {
	Service advertisementsService
}

func NewAdvertisementsHandler(service advertisementsService) *AdvertisementsHandler {
	return &AdvertisementsHandler{Service: service}
}

// budgetValue accepts a JSON number or a numeric string. Strings that do not
// parse become NaN, which validation reports as a missing field.
type budgetValue float64

func (b *budgetValue) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*b = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*b = 0
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			*b = budgetValue(math.NaN())
			return nil
		}
		*b = budgetValue(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("budget must be a number: %w", err)
	}
	*b = budgetValue(v)
	return nil
}

func (h *AdvertisementsHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.Service.List(r.Context()))
}

func (h *AdvertisementsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Email       string      `json:"email"`
		Description string      `json:"description"`
		Budget      budgetValue `json:"budget"`
		UserIP      string      `json:"userIP"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	created, err := h.Service.Create(r.Context(), models.NewAdvertisementRequest{
		Email:       body.Email,
		Description: body.Description,
		Budget:      float64(body.Budget),
		UserIP:      body.UserIP,
	})
	if err != nil {
		switch {
		case errors.Is(err, adrequests.ErrValidation):
			writeJSONError(w, err.Error(), http.StatusBadRequest)
		case errors.Is(err, adrequests.ErrRateLimited):
			writeJSONError(w, adrequests.RateLimitMessage, http.StatusTooManyRequests)
		default:
			log.Printf("[advertisements] create failed: %v", err)
			writeJSONError(w, "Failed to create advertisement request", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(created)
}

func (h *AdvertisementsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(mux.Vars(r)["id"])
	if err := h.Service.Delete(r.Context(), id); err != nil {
		if errors.Is(err, adrequests.ErrIDRequired) {
			writeJSONError(w, "advertisement request id is required", http.StatusBadRequest)
			return
		}
		log.Printf("[advertisements] delete %s failed: %v", id, err)
		writeJSONError(w, "Failed to delete advertisement request", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{"success": true})
}

// CheckRecent reports whether userIP has a request at or after since.
func (h *AdvertisementsHandler) CheckRecent(w http.ResponseWriter, r *http.Request) {
	var body struct {
		UserIP string `json:"userIP"`
		Since  string `json:"since"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSONError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	since, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(body.Since))
	if err != nil {
		writeJSONError(w, "since must be an RFC 3339 timestamp", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]bool{
		"hasRecentRequest": h.Service.HasRecent(r.Context(), body.UserIP, since),
	})
}

func writeJSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
