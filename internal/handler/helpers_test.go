package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/stretchr/testify/require"

	"github.com/pumpkinkking/whereeat/internal/domain"
	"github.com/pumpkinkking/whereeat/internal/handler"
)

// ---- mock PlanStorer -------------------------------------------------------

// mockPlanStorer is a test double for handler.PlanStorer.
// Set only the method fields your test needs.
type mockPlanStorer struct {
	plans          func() []domain.TravelPlan
	plan           func(id string) (domain.TravelPlan, error)
	currentPlan    func() (domain.TravelPlan, error)
	createPlan     func(ctx context.Context, in domain.PlanInput) (domain.TravelPlan, error)
	updatePlan     func(ctx context.Context, id string, patch domain.PlanPatch) (domain.TravelPlan, error)
	deletePlan     func(ctx context.Context, id string) error
	setCurrentPlan func(ctx context.Context, id string) (domain.TravelPlan, error)
	addActivity    func(ctx context.Context, planID string, in domain.ActivityInput) (domain.PlanActivity, error)
	updateActivity func(ctx context.Context, planID, activityID string, patch domain.ActivityPatch) (domain.PlanActivity, error)
	removeActivity func(ctx context.Context, planID, activityID string) error
	export         func() []domain.ExportRow
}

func (m *mockPlanStorer) Plans() []domain.TravelPlan { return m.plans() }
func (m *mockPlanStorer) Plan(id string) (domain.TravelPlan, error) {
	return m.plan(id)
}
func (m *mockPlanStorer) CurrentPlan() (domain.TravelPlan, error) { return m.currentPlan() }
func (m *mockPlanStorer) CreatePlan(ctx context.Context, in domain.PlanInput) (domain.TravelPlan, error) {
	return m.createPlan(ctx, in)
}
func (m *mockPlanStorer) UpdatePlan(ctx context.Context, id string, patch domain.PlanPatch) (domain.TravelPlan, error) {
	return m.updatePlan(ctx, id, patch)
}
func (m *mockPlanStorer) DeletePlan(ctx context.Context, id string) error {
	return m.deletePlan(ctx, id)
}
func (m *mockPlanStorer) SetCurrentPlan(ctx context.Context, id string) (domain.TravelPlan, error) {
	return m.setCurrentPlan(ctx, id)
}
func (m *mockPlanStorer) AddActivity(ctx context.Context, planID string, in domain.ActivityInput) (domain.PlanActivity, error) {
	return m.addActivity(ctx, planID, in)
}
func (m *mockPlanStorer) UpdateActivity(ctx context.Context, planID, activityID string, patch domain.ActivityPatch) (domain.PlanActivity, error) {
	return m.updateActivity(ctx, planID, activityID, patch)
}
func (m *mockPlanStorer) RemoveActivity(ctx context.Context, planID, activityID string) error {
	return m.removeActivity(ctx, planID, activityID)
}
func (m *mockPlanStorer) Export() []domain.ExportRow { return m.export() }

// compile-time check: mockPlanStorer must satisfy handler.PlanStorer.
var _ handler.PlanStorer = (*mockPlanStorer)(nil)

// ---- mock TripStorer -------------------------------------------------------

type mockTripStorer struct {
	trips          func() []domain.Trip
	setTrips       func(trips []domain.Trip) error
	addTrip        func(trip domain.Trip) (domain.Trip, error)
	setCurrentTrip func(id string) error
	currentTrip    func() (domain.Trip, error)
	todayTrip      func() (domain.Trip, error)
	futureTrips    func() []domain.Trip
}

func (m *mockTripStorer) Trips() []domain.Trip { return m.trips() }
func (m *mockTripStorer) SetTrips(trips []domain.Trip) error { return m.setTrips(trips) }
func (m *mockTripStorer) AddTrip(trip domain.Trip) (domain.Trip, error) { return m.addTrip(trip) }
func (m *mockTripStorer) SetCurrentTrip(id string) error { return m.setCurrentTrip(id) }
func (m *mockTripStorer) CurrentTrip() (domain.Trip, error) { return m.currentTrip() }
func (m *mockTripStorer) TodayTrip() (domain.Trip, error) { return m.todayTrip() }
func (m *mockTripStorer) FutureTrips() []domain.Trip { return m.futureTrips() }

var _ handler.TripStorer = (*mockTripStorer)(nil)

// ---- helpers ---------------------------------------------------------------

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newHTTPHandler wires a Server with the given doubles into its chi router,
// the same way main.go does in production.
func newHTTPHandler(plans handler.PlanStorer, trips handler.TripStorer, foods handler.FoodStorer) http.Handler {
	return handler.NewServer(plans, trips, foods, discardLogger()).Routes()
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

// do sends one request through h and returns the recorder.
func do(h http.Handler, method, target string, body io.Reader) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func date(t *testing.T, s string) openapi_types.Date {
	t.Helper()
	d, err := time.Parse(openapi_types.DateFormat, s)
	require.NoError(t, err)
	return openapi_types.Date{Time: d}
}

func planFixture(t *testing.T) domain.TravelPlan {
	theme := "food tour"
	budget := 120.0
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.TravelPlan{
		ID:          "plan-1",
		Name:        "Hangzhou",
		Destination: "Hangzhou",
		StartDate:   date(t, "2024-04-01"),
		EndDate:     date(t, "2024-04-03"),
		PeopleCount: 2,
		Theme:       &theme,
		Activities: []domain.PlanActivity{{
			ID: "act-1", Name: "West Lake", Type: domain.ActivitySightseeing,
			Location: "West Lake", Time: "09:00", Budget: &budget,
		}},
		CreatedAt: now,
		UpdatedAt: now,
		IsCurrent: true,
	}
}
