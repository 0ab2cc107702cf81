// Package adrequests validates and records advertisement enquiries.
package adrequests

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"streamvault/models"
)

const (
	DefaultMinBudget = 5000
	DefaultMaxBudget = 100000000
	DefaultWindow    = time.Hour

	// RateLimitMessage is shown to clients rejected by the per-address window.
	RateLimitMessage = "You can only make one advertisement request every hour. Please try again later."
)

var (
	ErrValidation  = errors.New("invalid advertisement request")
	ErrRateLimited = errors.New("advertisement request rate limited")
	ErrStore       = errors.New("advertisement store failure")
	ErrIDRequired  = errors.New("advertisement request id is required")
)

// ValidationError describes why a create was rejected. It matches ErrValidation.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Store is the persistence backend. InsertIfNoRecent must perform the recency
// check and the insert atomically.
type Store interface {
	List(ctx context.Context) ([]models.AdvertisementRequest, error)
	InsertIfNoRecent(ctx context.Context, req models.NewAdvertisementRequest, since time.Time) (models.AdvertisementRequest, bool, error)
	ExistsSince(ctx context.Context, userIP string, since time.Time) (bool, error)
	Delete(ctx context.Context, id string) error
}

// Options tunes budget bounds and the per-address window.
type Options struct {
	MinBudget float64
	MaxBudget float64
	Window    time.Duration
}

// DefaultOptions returns the production limits.
func DefaultOptions() Options {
	return Options{MinBudget: DefaultMinBudget, MaxBudget: DefaultMaxBudget, Window: DefaultWindow}
}

// Service applies validation and the per-address limit in front of a Store.
type Service struct {
	store   Store
	opts    Options
	now     func() time.Time
	printer *message.Printer
	logger  *log.Logger
}

// NewService wraps store. Zero-valued options fall back to the defaults.
func NewService(store Store, opts Options) *Service {
	defaults := DefaultOptions()
	if opts.MinBudget <= 0 {
		opts.MinBudget = defaults.MinBudget
	}
	if opts.MaxBudget <= 0 {
		opts.MaxBudget = defaults.MaxBudget
	}
	if opts.Window <= 0 {
		opts.Window = defaults.Window
	}
	return &Service{
		store:   store,
		opts:    opts,
		now:     time.Now,
		printer: message.NewPrinter(language.MustParse("en-IN")),
		logger:  log.Default(),
	}
}

// SetClock replaces the time source.
func (s *Service) SetClock(now func() time.Time) {
	if now != nil {
		s.now = now
	}
}

// SetLogger replaces the logger used for swallowed store failures.
func (s *Service) SetLogger(l *log.Logger) {
	if l != nil {
		s.logger = l
	}
}

// Options returns the effective limits.
func (s *Service) Options() Options {
	return s.opts
}

// List returns all requests, newest first. Store failures are logged and
// reported as an empty list.
func (s *Service) List(ctx context.Context) []models.AdvertisementRequest {
	requests, err := s.store.List(ctx)
	if err != nil {
		s.logger.Printf("[adrequests] error fetching advertisement requests: %v", err)
		return []models.AdvertisementRequest{}
	}
	if requests == nil {
		return []models.AdvertisementRequest{}
	}
	return requests
}

// Create validates req and stores it unless the same address already made a
// request within the window.
func (s *Service) Create(ctx context.Context, req models.NewAdvertisementRequest) (models.AdvertisementRequest, error) {
	req.Email = strings.TrimSpace(req.Email)
	req.Description = strings.TrimSpace(req.Description)
	req.UserIP = strings.TrimSpace(req.UserIP)

	if err := s.Validate(req); err != nil {
		return models.AdvertisementRequest{}, err
	}

	since := s.now().Add(-s.opts.Window)
	created, inserted, err := s.store.InsertIfNoRecent(ctx, req, since)
	if err != nil {
		s.logger.Printf("[adrequests] error creating advertisement request for %s: %v", req.UserIP, err)
		return models.AdvertisementRequest{}, fmt.Errorf("%w: %w", ErrStore, err)
	}
	if !inserted {
		return models.AdvertisementRequest{}, ErrRateLimited
	}
	return created, nil
}

// Validate checks required fields and budget bounds (inclusive).
func (s *Service) Validate(req models.NewAdvertisementRequest) error {
	if strings.TrimSpace(req.Email) == "" ||
		strings.TrimSpace(req.Description) == "" ||
		strings.TrimSpace(req.UserIP) == "" ||
		req.Budget == 0 || math.IsNaN(req.Budget) {
		return &ValidationError{Message: "Missing required fields"}
	}
	if req.Budget < s.opts.MinBudget {
		return &ValidationError{Message: s.printer.Sprintf("Minimum budget is ₹%d", int64(s.opts.MinBudget))}
	}
	if req.Budget > s.opts.MaxBudget {
		return &ValidationError{Message: s.printer.Sprintf("Maximum budget is ₹%d", int64(s.opts.MaxBudget))}
	}
	return nil
}

// HasRecent reports whether userIP created a request at or after since.
// Store failures are logged and reported as false.
func (s *Service) HasRecent(ctx context.Context, userIP string, since time.Time) bool {
	exists, err := s.store.ExistsSince(ctx, strings.TrimSpace(userIP), since)
	if err != nil {
		s.logger.Printf("[adrequests] error checking recent advertisement request: %v", err)
		return false
	}
	return exists
}

// Delete removes the request with the given id.
func (s *Service) Delete(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return ErrIDRequired
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.logger.Printf("[adrequests] error deleting advertisement request %s: %v", id, err)
		return fmt.Errorf("%w: %w", ErrStore, err)
	}
	return nil
}
