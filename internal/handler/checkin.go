package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/hampi-heritage/quest/backend/internal/domain"
	"github.com/hampi-heritage/quest/backend/internal/geo"
	"github.com/hampi-heritage/quest/backend/internal/middleware"
)

// ProximityCheckinRequest is the body of POST /checkin/proximity.
type ProximityCheckinRequest struct {
	SiteID    uuid.UUID `json:"site_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// QRCheckinRequest is the body of POST /checkin/qr.
type QRCheckinRequest struct {
	Code string `json:"code"`
}

// CheckinResponse is the body of a successful check-in. Proximity is nil for
// QR check-ins, which carry no position.
type CheckinResponse struct {
	Stamp     domain.PassportStamp `json:"stamp"`
	Proximity *geo.ProximityResult `json:"proximity,omitempty"`
}

// EvaluateProximity handles GET /checkin/proximity/{siteID}.
// It is a read-only distance check driving the client's closeness bar;
// ?lat= and ?lon= carry the traveller's position in decimal degrees.
func (s *Server) EvaluateProximity(w http.ResponseWriter, r *http.Request) {
	siteID, ok := pathUUID(r, "siteID")
	if !ok {
		requestError(w, "site ID must be a UUID")
		return
	}
	current, ok := queryCoordinate(r)
	if !ok {
		requestError(w, "lat and lon query parameters are required")
		return
	}

	result, err := s.checkins.Evaluate(r.Context(), siteID, current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CollectByProximity handles POST /checkin/proximity.
// The proximity result is returned alongside errors where it exists, so the
// client can show "120m away" next to an out-of-range rejection.
func (s *Server) CollectByProximity(w http.ResponseWriter, r *http.Request) {
	var req ProximityCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body must be valid JSON")
		return
	}
	if req.SiteID == uuid.Nil {
		requestError(w, "site_id is required")
		return
	}

	actorID, _ := middleware.UserID(r.Context())
	current := geo.Coordinate{Latitude: req.Latitude, Longitude: req.Longitude}

	stamp, result, err := s.checkins.CollectByProximity(r.Context(), actorID, req.SiteID, current)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CheckinResponse{Stamp: stamp, Proximity: &result})
}

// CollectByQR handles POST /checkin/qr.
func (s *Server) CollectByQR(w http.ResponseWriter, r *http.Request) {
	var req QRCheckinRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		requestError(w, "request body must be valid JSON")
		return
	}
	if req.Code == "" {
		requestError(w, "code is required")
		return
	}

	actorID, _ := middleware.UserID(r.Context())
	stamp, err := s.checkins.CollectByQR(r.Context(), actorID, req.Code)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, CheckinResponse{Stamp: stamp})
}

// ListStamps handles GET /stamps.
func (s *Server) ListStamps(w http.ResponseWriter, r *http.Request) {
	actorID, _ := middleware.UserID(r.Context())
	stamps, err := s.checkins.ListStamps(r.Context(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, stamps)
}

// queryCoordinate parses the ?lat= and ?lon= query parameters.
func queryCoordinate(r *http.Request) (geo.Coordinate, bool) {
	lat, errLat := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lon, errLon := strconv.ParseFloat(r.URL.Query().Get("lon"), 64)
	if errLat != nil || errLon != nil {
		return geo.Coordinate{}, false
	}
	return geo.Coordinate{Latitude: lat, Longitude: lon}, true
}
