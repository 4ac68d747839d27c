package handler

import (
	"net/http"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// TripResponse is the API representation of a domain.Trip.
type TripResponse struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"start_date"`
	EndDate   openapi_types.Date `json:"end_date"`
	ImageURL  *string            `json:"image_url,omitempty"`
	IsActive  bool               `json:"is_active"`
}

type tripRequest struct {
	ID        string              `json:"id"`
	Name      string              `json:"name" validate:"required"`
	StartDate *openapi_types.Date `json:"start_date" validate:"required"`
	EndDate   *openapi_types.Date `json:"end_date" validate:"required"`
	ImageURL  *string             `json:"image_url" validate:"omitempty,url"`
	IsActive  bool                `json:"is_active"`
}

type replaceTripsRequest struct {
	Data []tripRequest `json:"data" validate:"dive"`
}

type currentTripRequest struct {
	TripID string `json:"trip_id" validate:"required"`
}

// ListTrips handles GET /trips.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	params, err := paginationParams(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	page, total := domain.Paginate(s.trips.Trips(), params)
	writeJSON(w, http.StatusOK, listResponse[TripResponse]{
		Data:       tripsToResponse(page),
		Pagination: &Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// CreateTrip handles POST /trips. An omitted id is generated.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var body tripRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	if body.EndDate.Time.Before(body.StartDate.Time) {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("end_date must not be before start_date"))
		return
	}

	created, err := s.trips.AddTrip(requestToTrip(body))
	if err != nil {
		s.writeStoreError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusCreated, tripToResponse(created))
}

// ReplaceTrips handles PUT /trips, replacing the whole trip list. Omitted ids
// are generated; duplicate ids are rejected with 422.
func (s *Server) ReplaceTrips(w http.ResponseWriter, r *http.Request) {
	var body replaceTripsRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}

	trips := make([]domain.Trip, 0, len(body.Data))
	for _, t := range body.Data {
		if t.EndDate.Time.Before(t.StartDate.Time) {
			writeJSON(w, http.StatusUnprocessableEntity,
				requestBody("trip "+t.Name+": end_date must not be before start_date"))
			return
		}
		trips = append(trips, requestToTrip(t))
	}

	if err := s.trips.SetTrips(trips); err != nil {
		s.writeStoreError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, listResponse[TripResponse]{Data: tripsToResponse(s.trips.Trips())})
}

// GetTodayTrip handles GET /trips/today: the first trip whose date range
// covers today.
func (s *Server) GetTodayTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.TodayTrip()
	if err != nil {
		s.writeStoreError(w, r, err, "no trip today")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// ListUpcomingTrips handles GET /trips/upcoming: trips starting after
// today, earliest first.
func (s *Server) ListUpcomingTrips(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse[TripResponse]{Data: tripsToResponse(s.trips.FutureTrips())})
}

// GetCurrentTrip handles GET /trips/current.
func (s *Server) GetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	trip, err := s.trips.CurrentTrip()
	if err != nil {
		s.writeStoreError(w, r, err, "no current trip")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// SetCurrentTrip handles PUT /trips/current.
func (s *Server) SetCurrentTrip(w http.ResponseWriter, r *http.Request) {
	var body currentTripRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}

	if err := s.trips.SetCurrentTrip(body.TripID); err != nil {
		s.writeStoreError(w, r, err, "trip not found")
		return
	}
	trip, err := s.trips.CurrentTrip()
	if err != nil {
		s.writeStoreError(w, r, err, "trip not found")
		return
	}
	writeJSON(w, http.StatusOK, tripToResponse(trip))
}

// ClearCurrentTrip handles DELETE /trips/current.
func (s *Server) ClearCurrentTrip(w http.ResponseWriter, r *http.Request) {
	if err := s.trips.SetCurrentTrip(""); err != nil {
		s.writeStoreError(w, r, err, "trip not found")
		return
	}
	writeNoContent(w)
}

// --- mapping helpers --------------------------------------------------------

func requestToTrip(body tripRequest) domain.Trip {
	return domain.Trip{
		ID:        body.ID,
		Name:      body.Name,
		StartDate: *body.StartDate,
		EndDate:   *body.EndDate,
		ImageURL:  body.ImageURL,
		IsActive:  body.IsActive,
	}
}

func tripToResponse(t domain.Trip) TripResponse {
	return TripResponse{
		ID:        t.ID,
		Name:      t.Name,
		StartDate: t.StartDate,
		EndDate:   t.EndDate,
		ImageURL:  t.ImageURL,
		IsActive:  t.IsActive,
	}
}

func tripsToResponse(trips []domain.Trip) []TripResponse {
	out := make([]TripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	return out
}
