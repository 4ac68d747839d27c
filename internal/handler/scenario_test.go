package handler_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pumpkinkking/whereeat/internal/handler"
	"github.com/pumpkinkking/whereeat/internal/repo"
	"github.com/pumpkinkking/whereeat/internal/store"
)

// TestPlanLifecycle_againstRealStore drives the plan endpoints end to end
// over an in-memory key-value store and reloads the persisted snapshot.
func TestPlanLifecycle_againstRealStore(t *testing.T) {
	ctx := t.Context()
	kv := repo.NewMemoryKVRepo()
	plans := store.NewPlanStore(kv, store.WithLogger(discardLogger()))
	require.NoError(t, plans.Load(ctx))
	h := newHTTPHandler(plans, nil, nil)

	rec := do(h, http.MethodPost, "/plans", jsonBody(t, validPlanBody()))
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[handler.PlanResponse](t, rec)
	assert.True(t, first.IsCurrent, "first plan becomes current")
	require.Len(t, first.Activities, 1)

	second := validPlanBody()
	second["name"] = "Suzhou"
	second["destination"] = "Suzhou"
	delete(second, "activities")
	rec = do(h, http.MethodPost, "/plans", jsonBody(t, second))
	require.Equal(t, http.StatusCreated, rec.Code)
	secondPlan := decode[handler.PlanResponse](t, rec)
	assert.False(t, secondPlan.IsCurrent)
	assert.NotEqual(t, first.ID, secondPlan.ID)

	rec = do(h, http.MethodPost, "/plans/"+secondPlan.ID+"/activities",
		jsonBody(t, map[string]any{"name": "Gardens", "type": "sightseeing"}))
	require.Equal(t, http.StatusCreated, rec.Code)
	activity := decode[handler.ActivityResponse](t, rec)

	rec = do(h, http.MethodPut, "/plans/"+secondPlan.ID+"/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(h, http.MethodGet, "/plans", nil)
	list := decode[planListResponse](t, rec)
	require.Len(t, list.Data, 2)
	current := 0
	for _, p := range list.Data {
		if p.IsCurrent {
			current++
			assert.Equal(t, secondPlan.ID, p.ID)
		}
	}
	assert.Equal(t, 1, current)

	require.Equal(t, http.StatusNoContent,
		do(h, http.MethodDelete, "/plans/"+secondPlan.ID+"/activities/"+activity.ID, nil).Code)
	require.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/plans/"+secondPlan.ID, nil).Code)

	rec = do(h, http.MethodGet, "/plans/current", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, first.ID, decode[handler.PlanResponse](t, rec).ID, "current falls back to the first remaining plan")

	reloaded := store.NewPlanStore(kv, store.WithLogger(discardLogger()))
	require.NoError(t, reloaded.Load(ctx))
	cur, err := reloaded.CurrentPlan()
	require.NoError(t, err)
	assert.Equal(t, first.ID, cur.ID)
	assert.Len(t, reloaded.Plans(), 1)
}
