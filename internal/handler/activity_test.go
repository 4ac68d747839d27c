package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pumpkinkking/whereeat/internal/domain"
	"github.com/pumpkinkking/whereeat/internal/handler"
)

func TestAddActivity_201(t *testing.T) {
	var gotPlan string
	var got domain.ActivityInput
	plans := &mockPlanStorer{
		addActivity: func(_ context.Context, planID string, in domain.ActivityInput) (domain.PlanActivity, error) {
			gotPlan, got = planID, in
			return domain.PlanActivity{ID: "act-9", Name: in.Name, Type: in.Type, Budget: in.Budget}, nil
		},
	}

	rec := do(newHTTPHandler(plans, nil, nil), http.MethodPost, "/plans/plan-1/activities",
		jsonBody(t, map[string]any{"name": "Dumplings", "type": "food", "location": "Hefang St", "time": "12:00", "budget": 80}))

	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decode[handler.ActivityResponse](t, rec)
	assert.Equal(t, "act-9", resp.ID)
	assert.Equal(t, "plan-1", gotPlan)
	assert.Equal(t, domain.ActivityFood, got.Type)
	require.NotNil(t, got.Budget)
	assert.InDelta(t, 80.0, *got.Budget, 0.001)
}

func TestAddActivity_422(t *testing.T) {
	tests := map[string]map[string]any{
		"missing type":    {"name": "Dumplings"},
		"unknown type":    {"name": "Dumplings", "type": "nightlife"},
		"missing name":    {"type": "food"},
		"negative budget": {"name": "Dumplings", "type": "food", "budget": -1},
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			rec := do(newHTTPHandler(&mockPlanStorer{}, nil, nil), http.MethodPost, "/plans/plan-1/activities",
				jsonBody(t, body))

			require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		})
	}
}

func TestAddActivity_AcceptsEveryActivityType(t *testing.T) {
	plans := &mockPlanStorer{
		addActivity: func(_ context.Context, _ string, in domain.ActivityInput) (domain.PlanActivity, error) {
			return domain.PlanActivity{ID: "act-1", Name: in.Name, Type: in.Type}, nil
		},
	}
	h := newHTTPHandler(plans, nil, nil)

	for _, typ := range domain.ActivityTypes {
		t.Run(string(typ), func(t *testing.T) {
			rec := do(h, http.MethodPost, "/plans/plan-1/activities",
				jsonBody(t, map[string]any{"name": "Stop", "type": typ}))

			require.Equal(t, http.StatusCreated, rec.Code)
			assert.Equal(t, typ, decode[handler.ActivityResponse](t, rec).Type)
		})
	}
}

func TestAddActivity_404_UnknownPlan(t *testing.T) {
	plans := &mockPlanStorer{
		addActivity: func(_ context.Context, _ string, _ domain.ActivityInput) (domain.PlanActivity, error) {
			return domain.PlanActivity{}, domain.ErrNotFound
		},
	}

	rec := do(newHTTPHandler(plans, nil, nil), http.MethodPost, "/plans/missing/activities",
		jsonBody(t, map[string]any{"name": "Dumplings", "type": "food"}))

	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestUpdateActivity_200(t *testing.T) {
	var got domain.ActivityPatch
	plans := &mockPlanStorer{
		updateActivity: func(_ context.Context, planID, activityID string, patch domain.ActivityPatch) (domain.PlanActivity, error) {
			require.Equal(t, "plan-1", planID)
			require.Equal(t, "act-1", activityID)
			got = patch
			a := domain.PlanActivity{ID: activityID, Name: "West Lake", Type: domain.ActivitySightseeing}
			patch.Apply(&a)
			return a, nil
		},
	}

	rec := do(newHTTPHandler(plans, nil, nil), http.MethodPatch, "/plans/plan-1/activities/act-1",
		jsonBody(t, map[string]any{"time": "15:30"}))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "15:30", decode[handler.ActivityResponse](t, rec).Time)
	assert.Nil(t, got.Name)
	assert.Nil(t, got.Type)
}

func TestUpdateActivity_422_UnknownType(t *testing.T) {
	rec := do(newHTTPHandler(&mockPlanStorer{}, nil, nil), http.MethodPatch, "/plans/plan-1/activities/act-1",
		jsonBody(t, map[string]any{"type": "nightlife"}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "type must be one of: sightseeing, food, shopping, other",
		decode[handler.ErrorResponse](t, rec).Error.Message)
}

func TestRemoveActivity(t *testing.T) {
	plans := &mockPlanStorer{
		removeActivity: func(_ context.Context, _, activityID string) error {
			if activityID == "act-1" {
				return nil
			}
			return domain.ErrNotFound
		},
	}
	h := newHTTPHandler(plans, nil, nil)

	assert.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/plans/plan-1/activities/act-1", nil).Code)

	rec := do(h, http.MethodDelete, "/plans/plan-1/activities/act-2", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "plan or activity not found", decode[handler.ErrorResponse](t, rec).Error.Message)
}
