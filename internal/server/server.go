package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	errx "github.com/yatrika/server/internal/core/error"
	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/trip"
	logx "github.com/yatrika/server/pkg/logger"
)

// Config holds the HTTP listener settings.
type Config struct {
	Addr         string `default:":8080"`
	ShareBaseURL string `split_words:"true" default:"http://localhost:8080"`
}

// PlannerService is the itinerary-generation surface the handlers depend on.
// Tests substitute a scripted implementation.
type PlannerService interface {
	PlanTrip(ctx context.Context, req model.TripRequest) (*model.Itinerary, error)
	Regenerate(ctx context.Context, prior *model.Itinerary, req model.TripRequest, changeRequest string) (*model.Itinerary, error)
	AdjustForWeather(ctx context.Context, destination string, activities []model.Activity) ([]model.Activity, error)
}

// Server exposes the planning and trip-management API.
type Server struct {
	cfg      Config
	planner  PlannerService
	trips    trip.Repository
	identity TokenVerifier
	sessions *JWTVerifier
	verifier TokenVerifier
}

// New wires the API surface. identity verifies upstream id tokens at the
// session endpoint; sessions mints and verifies the tokens used everywhere
// else.
func New(cfg Config, planner PlannerService, trips trip.Repository, identity TokenVerifier, sessions *JWTVerifier) *Server {
	return &Server{
		cfg:      cfg,
		planner:  planner,
		trips:    trips,
		identity: identity,
		sessions: sessions,
		verifier: sessions,
	}
}

// Handler builds the route table.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("POST /api/session", s.handleSession)
	mux.HandleFunc("GET /shared/{id}", s.handleViewShared)

	mux.HandleFunc("POST /api/plan", s.requireAuth(s.handlePlan))
	mux.HandleFunc("POST /api/regenerate", s.requireAuth(s.handleRegenerate))
	mux.HandleFunc("POST /api/adjust-for-weather", s.requireAuth(s.handleAdjustForWeather))

	mux.HandleFunc("POST /api/trips", s.requireAuth(s.handleSaveTrip))
	mux.HandleFunc("GET /api/trips", s.requireAuth(s.handleListTrips))
	mux.HandleFunc("GET /api/trips/{id}", s.requireAuth(s.handleGetTrip))
	mux.HandleFunc("POST /api/trips/{id}/book", s.requireAuth(s.handleBookTrip))
	mux.HandleFunc("POST /api/trips/{id}/share", s.requireAuth(s.handleCreateShare))
	mux.HandleFunc("GET /api/trips/{id}/export/pdf", s.requireAuth(s.handleExportPDF))
	mux.HandleFunc("GET /api/trips/{id}/export/ics", s.requireAuth(s.handleExportICS))

	mux.HandleFunc("GET /api/shares", s.requireAuth(s.handleListShares))
	mux.HandleFunc("DELETE /api/shares/{id}", s.requireAuth(s.handleDeleteShare))

	return mux
}

// ListenAndServe runs the server until ctx is cancelled, then drains in-flight
// requests.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logx.Info().Str("addr", s.cfg.Addr).Msg("HTTP server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logx.Error().Err(err).Msg("Failed to encode response body")
	}
}

// writeError renders only the sanitized message; internals stay in the logs.
func writeError(w http.ResponseWriter, err error) {
	var appErr *errx.AppError
	if errors.As(err, &appErr) {
		writeJSON(w, appErr.Status, map[string]string{"error": appErr.Message})
		return
	}
	logx.Error().Err(err).Msg("Unclassified handler error")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": errx.SystemErrorMessage})
}

func decodeBody(r *http.Request, v any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errx.New(err, http.StatusBadRequest, "invalid request body")
	}
	return nil
}
