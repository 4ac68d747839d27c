// Package domain contains the core data types for the WhereEat planner.
// It is imported by every other internal package (repo, store, handler).
//
// JSON tags describe the persisted layout, which shares its key names with
// the mobile client's local storage so older snapshots decode unchanged.
package domain

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ActivityType categorises a PlanActivity.
type ActivityType string

const (
	ActivitySightseeing ActivityType = "sightseeing"
	ActivityFood        ActivityType = "food"
	ActivityShopping    ActivityType = "shopping"
	ActivityOther       ActivityType = "other"
)

// ActivityTypes lists every valid ActivityType in display order.
var ActivityTypes = []ActivityType{ActivitySightseeing, ActivityFood, ActivityShopping, ActivityOther}

// Valid reports whether t is one of the fixed activity categories.
func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if t == v {
			return true
		}
	}
	return false
}

// PlanActivity is a single scheduled item within a TravelPlan.
// Its ID is unique within the owning plan only.
type PlanActivity struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Type        ActivityType `json:"type"`
	Location    string       `json:"location"`
	Time        string       `json:"time"`
	Description *string      `json:"description,omitempty"`
	Budget      *float64     `json:"budget,omitempty"`
}

// TravelPlan is a travel itinerary with a date range and an ordered list of
// activities. A plan exclusively owns its activities.
//
// IsCurrent is maintained by the plan store: at most one plan in a
// collection has it set, and it always agrees with the store's current id.
type TravelPlan struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Destination string             `json:"destination"`
	StartDate   openapi_types.Date `json:"startDate"`
	EndDate     openapi_types.Date `json:"endDate"`
	PeopleCount int                `json:"peopleCount"`
	Theme       *string            `json:"theme,omitempty"`
	Activities  []PlanActivity     `json:"activities"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	IsCurrent   bool               `json:"isCurrent"`
}

// Clone returns a deep copy of p. Optional pointer fields are copied so the
// clone shares no memory with p.
func (p TravelPlan) Clone() TravelPlan {
	out := p
	out.Theme = cloneString(p.Theme)
	out.Activities = make([]PlanActivity, len(p.Activities))
	for i, a := range p.Activities {
		out.Activities[i] = a.Clone()
	}
	return out
}

// Clone returns a deep copy of a.
func (a PlanActivity) Clone() PlanActivity {
	out := a
	out.Description = cloneString(a.Description)
	if a.Budget != nil {
		b := *a.Budget
		out.Budget = &b
	}
	return out
}

// PlanInput carries the caller-supplied fields of a new plan. ID, timestamps
// and the current flag are managed by the store.
type PlanInput struct {
	Name        string
	Destination string
	StartDate   openapi_types.Date
	EndDate     openapi_types.Date
	PeopleCount int
	Theme       *string
	Activities  []ActivityInput
}

// PlanPatch is a partial update of a plan. Nil fields are left unchanged.
type PlanPatch struct {
	Name        *string
	Destination *string
	StartDate   *openapi_types.Date
	EndDate     *openapi_types.Date
	PeopleCount *int
	Theme       *string
}

// Apply merges the non-nil fields of patch into p.
func (patch PlanPatch) Apply(p *TravelPlan) {
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Destination != nil {
		p.Destination = *patch.Destination
	}
	if patch.StartDate != nil {
		p.StartDate = *patch.StartDate
	}
	if patch.EndDate != nil {
		p.EndDate = *patch.EndDate
	}
	if patch.PeopleCount != nil {
		p.PeopleCount = *patch.PeopleCount
	}
	if patch.Theme != nil {
		p.Theme = cloneString(patch.Theme)
	}
}

// ActivityInput carries the caller-supplied fields of a new activity.
type ActivityInput struct {
	Name        string
	Type        ActivityType
	Location    string
	Time        string
	Description *string
	Budget      *float64
}

// ActivityPatch is a partial update of an activity. Nil fields are left unchanged.
type ActivityPatch struct {
	Name        *string
	Type        *ActivityType
	Location    *string
	Time        *string
	Description *string
	Budget      *float64
}

// Apply merges the non-nil fields of patch into a.
func (patch ActivityPatch) Apply(a *PlanActivity) {
	if patch.Name != nil {
		a.Name = *patch.Name
	}
	if patch.Type != nil {
		a.Type = *patch.Type
	}
	if patch.Location != nil {
		a.Location = *patch.Location
	}
	if patch.Time != nil {
		a.Time = *patch.Time
	}
	if patch.Description != nil {
		a.Description = cloneString(patch.Description)
	}
	if patch.Budget != nil {
		b := *patch.Budget
		a.Budget = &b
	}
}

func cloneString(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
