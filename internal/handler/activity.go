package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// ActivityResponse is the API representation of a domain.PlanActivity.
type ActivityResponse struct {
	ID          string              `json:"id"`
	Name        string              `json:"name"`
	Type        domain.ActivityType `json:"type"`
	Location    string              `json:"location"`
	Time        string              `json:"time"`
	Description *string             `json:"description,omitempty"`
	Budget      *float64            `json:"budget,omitempty"`
}

type createActivityRequest struct {
	Name        string              `json:"name" validate:"required"`
	Type        domain.ActivityType `json:"type" validate:"required,activity_type"`
	Location    string              `json:"location"`
	Time        string              `json:"time"`
	Description *string             `json:"description"`
	Budget      *float64            `json:"budget" validate:"omitempty,gte=0"`
}

type updateActivityRequest struct {
	Name        *string              `json:"name" validate:"omitempty,min=1"`
	Type        *domain.ActivityType `json:"type" validate:"omitempty,activity_type"`
	Location    *string              `json:"location"`
	Time        *string              `json:"time"`
	Description *string              `json:"description"`
	Budget      *float64             `json:"budget" validate:"omitempty,gte=0"`
}

// AddActivity handles POST /plans/{planID}/activities.
func (s *Server) AddActivity(w http.ResponseWriter, r *http.Request) {
	var body createActivityRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}

	created, err := s.plans.AddActivity(r.Context(), chi.URLParam(r, "planID"), requestToActivityInput(body))
	if err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusCreated, activityToResponse(created))
}

// UpdateActivity handles PATCH /plans/{planID}/activities/{activityID}.
func (s *Server) UpdateActivity(w http.ResponseWriter, r *http.Request) {
	var body updateActivityRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}

	patch := domain.ActivityPatch{
		Name:        body.Name,
		Type:        body.Type,
		Location:    body.Location,
		Time:        body.Time,
		Description: body.Description,
		Budget:      body.Budget,
	}
	updated, err := s.plans.UpdateActivity(r.Context(),
		chi.URLParam(r, "planID"), chi.URLParam(r, "activityID"), patch)
	if err != nil {
		s.writeStoreError(w, r, err, "plan or activity not found")
		return
	}
	writeJSON(w, http.StatusOK, activityToResponse(updated))
}

// RemoveActivity handles DELETE /plans/{planID}/activities/{activityID}.
func (s *Server) RemoveActivity(w http.ResponseWriter, r *http.Request) {
	err := s.plans.RemoveActivity(r.Context(), chi.URLParam(r, "planID"), chi.URLParam(r, "activityID"))
	if err != nil {
		s.writeStoreError(w, r, err, "plan or activity not found")
		return
	}
	writeNoContent(w)
}

func requestToActivityInput(body createActivityRequest) domain.ActivityInput {
	return domain.ActivityInput{
		Name:        body.Name,
		Type:        body.Type,
		Location:    body.Location,
		Time:        body.Time,
		Description: body.Description,
		Budget:      body.Budget,
	}
}

func activityToResponse(a domain.PlanActivity) ActivityResponse {
	return ActivityResponse{
		ID:          a.ID,
		Name:        a.Name,
		Type:        a.Type,
		Location:    a.Location,
		Time:        a.Time,
		Description: a.Description,
		Budget:      a.Budget,
	}
}
