package server

import (
	"fmt"
	"net/http"
	"strings"

	errx "github.com/yatrika/server/internal/core/error"
	"github.com/yatrika/server/internal/planner/model"
	"github.com/yatrika/server/internal/render"
	"github.com/yatrika/server/internal/trip"
	logx "github.com/yatrika/server/pkg/logger"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleSession exchanges an upstream id token for a session token.
func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	header := r.Header.Get("Authorization")
	idToken, found := strings.CutPrefix(header, "Bearer ")
	if !found || idToken == "" {
		writeError(w, errx.Unauthorized(fmt.Errorf("missing id token")))
		return
	}

	identity, err := s.identity.Verify(r.Context(), idToken)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := s.sessions.Mint(identity.UID)
	if err != nil {
		writeError(w, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage))
		return
	}

	logx.Debug().Str("uid", identity.UID).Msg("Session issued")
	writeJSON(w, http.StatusOK, map[string]string{
		"token": session,
		"uid":   identity.UID,
	})
}

func (s *Server) handlePlan(w http.ResponseWriter, r *http.Request) {
	var req model.TripRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Destination == "" || req.StartDate == "" || req.ReturnDate == "" {
		writeError(w, errx.New(fmt.Errorf("incomplete trip request"), http.StatusBadRequest, "destination, start_date and return_date are required"))
		return
	}

	itinerary, err := s.planner.PlanTrip(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itinerary)
}

type regenerateRequest struct {
	Request       model.TripRequest `json:"request"`
	Itinerary     model.Itinerary   `json:"itinerary"`
	ChangeRequest string            `json:"change_request"`
}

func (s *Server) handleRegenerate(w http.ResponseWriter, r *http.Request) {
	var req regenerateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.ChangeRequest == "" {
		writeError(w, errx.New(fmt.Errorf("missing change request"), http.StatusBadRequest, "change_request is required"))
		return
	}

	itinerary, err := s.planner.Regenerate(r.Context(), &req.Itinerary, req.Request, req.ChangeRequest)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, itinerary)
}

type weatherAdjustRequest struct {
	Destination string           `json:"destination"`
	Activities  []model.Activity `json:"activities"`
}

func (s *Server) handleAdjustForWeather(w http.ResponseWriter, r *http.Request) {
	var req weatherAdjustRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, err)
		return
	}
	if req.Destination == "" || len(req.Activities) == 0 {
		writeError(w, errx.New(fmt.Errorf("incomplete adjustment request"), http.StatusBadRequest, "destination and activities are required"))
		return
	}

	adjusted, err := s.planner.AdjustForWeather(r.Context(), req.Destination, req.Activities)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"activities": adjusted})
}

func (s *Server) handleSaveTrip(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	var doc trip.PlanDocument
	if err := decodeBody(r, &doc); err != nil {
		writeError(w, err)
		return
	}
	if len(doc.Itinerary.Plan) == 0 {
		writeError(w, errx.New(fmt.Errorf("empty itinerary"), http.StatusBadRequest, "itinerary is required"))
		return
	}

	record, err := s.trips.Save(r.Context(), identity.UID, doc)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleListTrips(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	records, err := s.trips.ListByUser(r.Context(), identity.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"trips": records})
}

// ownedTrip loads a trip and enforces that the caller owns it. Foreign trips
// read as not found so ids cannot be probed.
func (s *Server) ownedTrip(r *http.Request) (*trip.Record, error) {
	identity, ok := identityFrom(r.Context())
	if !ok {
		return nil, errx.Unauthorized(fmt.Errorf("no identity on request"))
	}

	record, err := s.trips.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		return nil, err
	}
	if record.UserID != identity.UID {
		return nil, errx.NotFound(fmt.Errorf("trip %s not owned by caller", record.ID), trip.TripNotFoundMessage)
	}
	return record, nil
}

func (s *Server) handleGetTrip(w http.ResponseWriter, r *http.Request) {
	record, err := s.ownedTrip(r)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleBookTrip(w http.ResponseWriter, r *http.Request) {
	record, err := s.ownedTrip(r)
	if err != nil {
		writeError(w, err)
		return
	}

	booking, err := s.trips.Book(r.Context(), record.ID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

func (s *Server) handleCreateShare(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	record, err := s.ownedTrip(r)
	if err != nil {
		writeError(w, err)
		return
	}

	share, err := s.trips.CreateShare(r.Context(), record.ID, identity.UID)
	if err != nil {
		writeError(w, err)
		return
	}

	shareURL := fmt.Sprintf("%s/shared/%s", strings.TrimSuffix(s.cfg.ShareBaseURL, "/"), share.ID)
	qr, err := render.QRDataURL(shareURL)
	if err != nil {
		logx.Error().Err(err).Str("share_id", share.ID).Msg("Failed to render share QR code")
		writeError(w, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage))
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{
		"share_id":  share.ID,
		"share_url": shareURL,
		"qr_code":   qr,
	})
}

func (s *Server) handleListShares(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())

	shares, err := s.trips.ListShares(r.Context(), identity.UID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"shares": shares})
}

func (s *Server) handleDeleteShare(w http.ResponseWriter, r *http.Request) {
	identity, _ := identityFrom(r.Context())
	shareID := r.PathValue("id")

	share, err := s.trips.GetShare(r.Context(), shareID)
	if err != nil {
		writeError(w, err)
		return
	}
	if share.CreatedBy != identity.UID {
		writeError(w, errx.NotFound(fmt.Errorf("share %s not owned by caller", shareID), trip.ShareNotFoundMessage))
		return
	}

	if err := s.trips.DeleteShare(r.Context(), shareID); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

// handleViewShared serves a shared trip without authentication and counts the
// view.
func (s *Server) handleViewShared(w http.ResponseWriter, r *http.Request) {
	share, err := s.trips.ViewShare(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err)
		return
	}
	if !share.IsPublic {
		writeError(w, errx.NotFound(fmt.Errorf("share %s is not public", share.ID), trip.ShareNotFoundMessage))
		return
	}

	record, err := s.trips.Get(r.Context(), share.TripID)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"itinerary_content": record.Content,
		"view_count":        share.ViewCount,
		"shared_at":         share.CreatedAt,
	})
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	record, err := s.ownedTrip(r)
	if err != nil {
		writeError(w, err)
		return
	}

	pdf, err := render.PDF(record.Content)
	if err != nil {
		logx.Error().Err(err).Str("trip_id", record.ID).Msg("Failed to render trip PDF")
		writeError(w, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage))
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "trip-"+record.ID+".pdf"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(pdf); err != nil {
		logx.Error().Err(err).Str("trip_id", record.ID).Msg("Failed to write PDF response")
	}
}

func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	record, err := s.ownedTrip(r)
	if err != nil {
		writeError(w, err)
		return
	}

	feed, err := render.ICS(record)
	if err != nil {
		logx.Error().Err(err).Str("trip_id", record.ID).Msg("Failed to render trip calendar")
		writeError(w, errx.New(err, http.StatusInternalServerError, errx.SystemErrorMessage))
		return
	}

	w.Header().Set("Content-Type", "text/calendar")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "trip-"+record.ID+".ics"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(feed)); err != nil {
		logx.Error().Err(err).Str("trip_id", record.ID).Msg("Failed to write calendar response")
	}
}
