package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// PlanResponse is the API representation of a domain.TravelPlan.
type PlanResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"start_date"`
	EndDate     openapi_types.Date `json:"end_date"`
	PeopleCount int                `json:"people_count"`
	Theme       *string            `json:"theme,omitempty"`
	Activities  []ActivityResponse `json:"activities"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	IsCurrent   bool               `json:"is_current"`
}

type createPlanRequest struct {
	Name        string                  `json:"name" validate:"required"`
	Destination string                  `json:"destination" validate:"required"`
	StartDate   *openapi_types.Date     `json:"start_date" validate:"required"`
	EndDate     *openapi_types.Date     `json:"end_date" validate:"required"`
	PeopleCount int                     `json:"people_count" validate:"gt=0"`
	Theme       *string                 `json:"theme"`
	Activities  []createActivityRequest `json:"activities" validate:"dive"`
}

type updatePlanRequest struct {
	Name        *string             `json:"name" validate:"omitempty,min=1"`
	Destination *string             `json:"destination" validate:"omitempty,min=1"`
	StartDate   *openapi_types.Date `json:"start_date"`
	EndDate     *openapi_types.Date `json:"end_date"`
	PeopleCount *int                `json:"people_count" validate:"omitempty,gt=0"`
	Theme       *string             `json:"theme"`
}

// ListPlans handles GET /plans.
// Supports ?page= and ?limit= (defaults: page=1, limit=20, max=100).
func (s *Server) ListPlans(w http.ResponseWriter, r *http.Request) {
	params, err := paginationParams(r)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody(err.Error()))
		return
	}

	page, total := domain.Paginate(s.plans.Plans(), params)
	data := make([]PlanResponse, len(page))
	for i, p := range page {
		data[i] = planToResponse(p)
	}
	writeJSON(w, http.StatusOK, listResponse[PlanResponse]{
		Data:       data,
		Pagination: &Pagination{Page: params.Page, Limit: params.Limit, Total: total},
	})
}

// CreatePlan handles POST /plans.
func (s *Server) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var body createPlanRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	if body.EndDate.Time.Before(body.StartDate.Time) {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("end_date must not be before start_date"))
		return
	}

	created, err := s.plans.CreatePlan(r.Context(), requestToPlanInput(body))
	if err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusCreated, planToResponse(created))
}

// GetCurrentPlan handles GET /plans/current.
func (s *Server) GetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.CurrentPlan()
	if err != nil {
		s.writeStoreError(w, r, err, "no current plan")
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(plan))
}

// GetPlan handles GET /plans/{planID}.
func (s *Server) GetPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.Plan(chi.URLParam(r, "planID"))
	if err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(plan))
}

// UpdatePlan handles PATCH /plans/{planID}.
// Omitted fields are left unchanged. The resulting date range is checked
// against the stored plan, so a patch may move either bound on its own.
func (s *Server) UpdatePlan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "planID")

	var body updatePlanRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}

	existing, err := s.plans.Plan(id)
	if err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	patch := requestToPlanPatch(body)
	merged := existing
	patch.Apply(&merged)
	if merged.EndDate.Time.Before(merged.StartDate.Time) {
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("end_date must not be before start_date"))
		return
	}

	updated, err := s.plans.UpdatePlan(r.Context(), id, patch)
	if err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(updated))
}

// DeletePlan handles DELETE /plans/{planID}.
func (s *Server) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.DeletePlan(r.Context(), chi.URLParam(r, "planID")); err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	writeNoContent(w)
}

// SetCurrentPlan handles PUT /plans/{planID}/current.
func (s *Server) SetCurrentPlan(w http.ResponseWriter, r *http.Request) {
	plan, err := s.plans.SetCurrentPlan(r.Context(), chi.URLParam(r, "planID"))
	if err != nil {
		s.writeStoreError(w, r, err, "plan not found")
		return
	}
	writeJSON(w, http.StatusOK, planToResponse(plan))
}

// --- mapping helpers --------------------------------------------------------

func requestToPlanInput(body createPlanRequest) domain.PlanInput {
	in := domain.PlanInput{
		Name:        body.Name,
		Destination: body.Destination,
		StartDate:   *body.StartDate,
		EndDate:     *body.EndDate,
		PeopleCount: body.PeopleCount,
		Theme:       body.Theme,
	}
	for _, a := range body.Activities {
		in.Activities = append(in.Activities, requestToActivityInput(a))
	}
	return in
}

func requestToPlanPatch(body updatePlanRequest) domain.PlanPatch {
	return domain.PlanPatch{
		Name:        body.Name,
		Destination: body.Destination,
		StartDate:   body.StartDate,
		EndDate:     body.EndDate,
		PeopleCount: body.PeopleCount,
		Theme:       body.Theme,
	}
}

func planToResponse(p domain.TravelPlan) PlanResponse {
	resp := PlanResponse{
		ID:          p.ID,
		Name:        p.Name,
		Destination: p.Destination,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		PeopleCount: p.PeopleCount,
		Theme:       p.Theme,
		Activities:  make([]ActivityResponse, len(p.Activities)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
		IsCurrent:   p.IsCurrent,
	}
	for i, a := range p.Activities {
		resp.Activities[i] = activityToResponse(a)
	}
	return resp
}
