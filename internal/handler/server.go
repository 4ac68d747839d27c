// Package handler implements the HTTP API for the WhereEat planner.
// All handlers are methods on Server. Methods are split into resource files
// (plan.go, activity.go, trip.go, food.go, etc.) but share the same Server
// struct so they can reach its stores.
package handler

import (
	"context"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// PlanStorer defines the plan operations the handlers depend on.
// It is declared here, in the consumer package, so tests can inject a mock
// without a key-value backend.
type PlanStorer interface {
	Plans() []domain.TravelPlan
	Plan(id string) (domain.TravelPlan, error)
	CurrentPlan() (domain.TravelPlan, error)
	CreatePlan(ctx context.Context, in domain.PlanInput) (domain.TravelPlan, error)
	UpdatePlan(ctx context.Context, id string, patch domain.PlanPatch) (domain.TravelPlan, error)
	DeletePlan(ctx context.Context, id string) error
	SetCurrentPlan(ctx context.Context, id string) (domain.TravelPlan, error)
	AddActivity(ctx context.Context, planID string, in domain.ActivityInput) (domain.PlanActivity, error)
	UpdateActivity(ctx context.Context, planID, activityID string, patch domain.ActivityPatch) (domain.PlanActivity, error)
	RemoveActivity(ctx context.Context, planID, activityID string) error
	Export() []domain.ExportRow
}

// TripStorer defines the trip operations the handlers depend on.
type TripStorer interface {
	Trips() []domain.Trip
	SetTrips(trips []domain.Trip) error
	AddTrip(trip domain.Trip) (domain.Trip, error)
	SetCurrentTrip(id string) error
	CurrentTrip() (domain.Trip, error)
	TodayTrip() (domain.Trip, error)
	FutureTrips() []domain.Trip
}

// FoodStorer defines the food operations the handlers depend on.
type FoodStorer interface {
	SearchHistory() []domain.SearchHistory
	AddSearchHistory(ctx context.Context, keyword string, resultCount *int) ([]domain.SearchHistory, error)
	ClearSearchHistory(ctx context.Context) error
	Favorites() []string
	IsFavorite(foodID string) bool
	AddFavorite(ctx context.Context, foodID string) error
	RemoveFavorite(ctx context.Context, foodID string) error
	SetRecommended(foods []domain.FoodVendor)
	Recommended() []domain.FoodVendor
	SetNearby(foods []domain.FoodVendor)
	Nearby() []domain.FoodVendor
	SetSearchKeyword(keyword string)
	SearchKeyword() string
	SetSearchResults(results []domain.FoodVendor)
	SearchResults() []domain.FoodVendor
}

// Server serves every API endpoint. Wire it in main.go via Routes.
type Server struct {
	plans    PlanStorer
	trips    TripStorer
	foods    FoodStorer
	validate *validator.Validate
	log      *slog.Logger
}

// NewServer constructs the Server with all its dependencies.
// A nil logger falls back to slog.Default().
func NewServer(plans PlanStorer, trips TripStorer, foods FoodStorer, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{
		plans:    plans,
		trips:    trips,
		foods:    foods,
		validate: newValidator(),
		log:      log,
	}
}

// NewHealthHandler returns a Server for health-check-only use.
func NewHealthHandler() *Server {
	return NewServer(nil, nil, nil, nil)
}

// Routes returns a chi router with every endpoint registered.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", s.GetOpenAPI)

	r.Route("/plans", func(r chi.Router) {
		r.Get("/", s.ListPlans)
		r.Post("/", s.CreatePlan)
		r.Get("/current", s.GetCurrentPlan)
		r.Get("/export", s.ExportPlans)

		r.Route("/{planID}", func(r chi.Router) {
			r.Get("/", s.GetPlan)
			r.Patch("/", s.UpdatePlan)
			r.Delete("/", s.DeletePlan)
			r.Put("/current", s.SetCurrentPlan)
			r.Post("/activities", s.AddActivity)
			r.Patch("/activities/{activityID}", s.UpdateActivity)
			r.Delete("/activities/{activityID}", s.RemoveActivity)
		})
	})

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Put("/", s.ReplaceTrips)
		r.Get("/today", s.GetTodayTrip)
		r.Get("/upcoming", s.ListUpcomingTrips)
		r.Get("/current", s.GetCurrentTrip)
		r.Put("/current", s.SetCurrentTrip)
		r.Delete("/current", s.ClearCurrentTrip)
	})

	r.Route("/food", func(r chi.Router) {
		r.Get("/favorites", s.ListFavorites)
		r.Get("/favorites/{foodID}", s.GetFavorite)
		r.Put("/favorites/{foodID}", s.AddFavorite)
		r.Delete("/favorites/{foodID}", s.RemoveFavorite)

		r.Get("/history", s.ListSearchHistory)
		r.Post("/history", s.AddSearchHistory)
		r.Delete("/history", s.ClearSearchHistory)

		r.Get("/recommended", s.GetRecommended)
		r.Put("/recommended", s.PutRecommended)
		r.Get("/nearby", s.GetNearby)
		r.Put("/nearby", s.PutNearby)
		r.Get("/search", s.GetSearch)
		r.Put("/search", s.PutSearch)
	})

	return r
}

// newValidator returns a validator that reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// activity_type accepts exactly the categories domain.ActivityType.Valid
	// knows about.
	if err := v.RegisterValidation("activity_type", func(fl validator.FieldLevel) bool {
		return domain.ActivityType(fl.Field().String()).Valid()
	}); err != nil {
		panic(err)
	}
	return v
}
