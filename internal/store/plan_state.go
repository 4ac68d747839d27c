package store

import (
	"encoding/json"
	"fmt"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// PlanState is an immutable snapshot of the plan collection.
// The current plan is identified by id only; CurrentPlan derives it by lookup.
type PlanState struct {
	Plans         []domain.TravelPlan `json:"plans"`
	CurrentPlanID string              `json:"currentPlanId,omitempty"`
}

// CurrentPlan returns the plan referenced by CurrentPlanID.
func (s PlanState) CurrentPlan() (domain.TravelPlan, bool) {
	i := s.indexOf(s.CurrentPlanID)
	if i < 0 {
		return domain.TravelPlan{}, false
	}
	return s.Plans[i].Clone(), true
}

func (s PlanState) indexOf(id string) int {
	if id == "" {
		return -1
	}
	for i := range s.Plans {
		if s.Plans[i].ID == id {
			return i
		}
	}
	return -1
}

func (s PlanState) clone() PlanState {
	out := PlanState{
		Plans:         make([]domain.TravelPlan, len(s.Plans)),
		CurrentPlanID: s.CurrentPlanID,
	}
	for i, p := range s.Plans {
		out.Plans[i] = p.Clone()
	}
	return out
}

// normalize drops a dangling current id and recomputes every IsCurrent flag
// from CurrentPlanID, so at most one plan is flagged.
func (s *PlanState) normalize() {
	if s.indexOf(s.CurrentPlanID) < 0 {
		s.CurrentPlanID = ""
	}
	for i := range s.Plans {
		s.Plans[i].IsCurrent = s.Plans[i].ID == s.CurrentPlanID
		if s.Plans[i].Activities == nil {
			s.Plans[i].Activities = []domain.PlanActivity{}
		}
	}
}

// legacyPlanState is the version 0 layout, which kept a full copy of the
// current plan next to the collection.
type legacyPlanState struct {
	Plans       []domain.TravelPlan `json:"plans"`
	CurrentPlan *struct {
		ID string `json:"id"`
	} `json:"currentPlan"`
}

// decodePlanState parses a persisted plan snapshot of any supported version.
func decodePlanState(raw []byte) (PlanState, error) {
	env, err := decodeEnvelope(raw)
	if err != nil {
		return PlanState{}, err
	}

	var state PlanState
	switch env.Version {
	case 0:
		var legacy legacyPlanState
		if err := json.Unmarshal(env.State, &legacy); err != nil {
			return PlanState{}, fmt.Errorf("decode version 0: %w", err)
		}
		state.Plans = legacy.Plans
		if legacy.CurrentPlan != nil {
			state.CurrentPlanID = legacy.CurrentPlan.ID
		} else {
			for _, p := range legacy.Plans {
				if p.IsCurrent {
					state.CurrentPlanID = p.ID
					break
				}
			}
		}
	default:
		if err := json.Unmarshal(env.State, &state); err != nil {
			return PlanState{}, fmt.Errorf("decode version %d: %w", env.Version, err)
		}
	}

	if state.Plans == nil {
		state.Plans = []domain.TravelPlan{}
	}
	state.normalize()
	return state, nil
}
