package store

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/pumpkinkking/whereeat/internal/domain"
	"github.com/pumpkinkking/whereeat/internal/repo"
)

// PlanListener receives each new plan snapshot after a successful mutation.
// Listeners run while the store is locked and must not call back into it.
type PlanListener func(PlanState)

// PlanStore is the authoritative collection of travel plans and the
// current-plan reference, persisted wholesale under PlanStorageKey.
//
// Unknown plan or activity ids yield domain.ErrNotFound rather than a silent
// no-op.
type PlanStore struct {
	kv  repo.KVRepo
	log *slog.Logger
	now func() time.Time
	ids func() string

	mu        sync.Mutex
	state     PlanState
	listeners []planSubscription
	nextSub   int
}

type planSubscription struct {
	id int
	fn PlanListener
}

// NewPlanStore constructs an empty PlanStore persisting through kv.
// Call Load to restore a previously saved collection.
func NewPlanStore(kv repo.KVRepo, opts ...Option) *PlanStore {
	o := newOptions(opts)
	return &PlanStore{
		kv:    kv,
		log:   o.logger,
		now:   o.now,
		ids:   o.newID,
		state: PlanState{Plans: []domain.TravelPlan{}},
	}
}

// Load replaces the in-memory collection with the persisted snapshot.
// A missing snapshot leaves the store empty.
func (s *PlanStore) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, PlanStorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.log.InfoContext(ctx, "no persisted plans", "key", PlanStorageKey)
			return nil
		}
		return fmt.Errorf("store.PlanStore.Load: %w", err)
	}

	state, err := decodePlanState(raw)
	if err != nil {
		return fmt.Errorf("store.PlanStore.Load: %w", err)
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.log.InfoContext(ctx, "plans loaded", "count", len(state.Plans), "current_plan_id", state.CurrentPlanID)
	return nil
}

// Subscribe registers fn to receive every new snapshot. The returned func
// removes the subscription; calling it more than once is harmless.
func (s *PlanStore) Subscribe(fn PlanListener) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextSub++
	id := s.nextSub
	s.listeners = append(s.listeners, planSubscription{id: id, fn: fn})

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// State returns a deep copy of the current snapshot.
func (s *PlanStore) State() PlanState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// Plans returns a deep copy of every plan in collection order.
func (s *PlanStore) Plans() []domain.TravelPlan {
	return s.State().Plans
}

// Plan returns the plan with the given id.
func (s *PlanStore) Plan(id string) (domain.TravelPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.state.indexOf(id)
	if i < 0 {
		return domain.TravelPlan{}, fmt.Errorf("store.PlanStore.Plan: %w", domain.ErrNotFound)
	}
	return s.state.Plans[i].Clone(), nil
}

// CurrentPlan returns the current plan, or domain.ErrNotFound when there is none.
func (s *PlanStore) CurrentPlan() (domain.TravelPlan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.state.CurrentPlan()
	if !ok {
		return domain.TravelPlan{}, fmt.Errorf("store.PlanStore.CurrentPlan: %w", domain.ErrNotFound)
	}
	return p, nil
}

// CreatePlan appends a new plan with a generated id and fresh timestamps.
// If there is no current plan yet, the new plan becomes current.
func (s *PlanStore) CreatePlan(ctx context.Context, in domain.PlanInput) (domain.TravelPlan, error) {
	id := s.ids()
	state, err := s.mutate(ctx, "CreatePlan", func(next *PlanState) error {
		now := s.now()
		p := domain.TravelPlan{
			ID:          id,
			Name:        in.Name,
			Destination: in.Destination,
			StartDate:   in.StartDate,
			EndDate:     in.EndDate,
			PeopleCount: in.PeopleCount,
			Theme:       in.Theme,
			Activities:  make([]domain.PlanActivity, 0, len(in.Activities)),
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		for _, a := range in.Activities {
			p.Activities = append(p.Activities, s.newActivity(a))
		}

		next.Plans = append(next.Plans, p.Clone())
		if next.CurrentPlanID == "" {
			next.CurrentPlanID = id
		}
		return nil
	})
	if err != nil {
		return domain.TravelPlan{}, err
	}
	return state.Plans[state.indexOf(id)], nil
}

// UpdatePlan merges patch into the plan and refreshes its UpdatedAt.
func (s *PlanStore) UpdatePlan(ctx context.Context, id string, patch domain.PlanPatch) (domain.TravelPlan, error) {
	state, err := s.mutate(ctx, "UpdatePlan", func(next *PlanState) error {
		i := next.indexOf(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		patch.Apply(&next.Plans[i])
		next.Plans[i].UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.TravelPlan{}, err
	}
	return state.Plans[state.indexOf(id)], nil
}

// DeletePlan removes the plan and its activities. If it was current, the
// first remaining plan becomes current, or none when the collection is empty.
func (s *PlanStore) DeletePlan(ctx context.Context, id string) error {
	_, err := s.mutate(ctx, "DeletePlan", func(next *PlanState) error {
		i := next.indexOf(id)
		if i < 0 {
			return domain.ErrNotFound
		}
		next.Plans = append(next.Plans[:i], next.Plans[i+1:]...)
		if next.CurrentPlanID == id {
			next.CurrentPlanID = ""
			if len(next.Plans) > 0 {
				next.CurrentPlanID = next.Plans[0].ID
			}
		}
		return nil
	})
	return err
}

// SetCurrentPlan makes the plan current and clears the flag on all others.
func (s *PlanStore) SetCurrentPlan(ctx context.Context, id string) (domain.TravelPlan, error) {
	state, err := s.mutate(ctx, "SetCurrentPlan", func(next *PlanState) error {
		if next.indexOf(id) < 0 {
			return domain.ErrNotFound
		}
		next.CurrentPlanID = id
		return nil
	})
	if err != nil {
		return domain.TravelPlan{}, err
	}
	current, _ := state.CurrentPlan()
	return current, nil
}

// AddActivity appends a new activity with a generated id to the plan.
func (s *PlanStore) AddActivity(ctx context.Context, planID string, in domain.ActivityInput) (domain.PlanActivity, error) {
	added := s.newActivity(in)
	_, err := s.mutate(ctx, "AddActivity", func(next *PlanState) error {
		i := next.indexOf(planID)
		if i < 0 {
			return domain.ErrNotFound
		}
		p := &next.Plans[i]
		p.Activities = append(p.Activities, added.Clone())
		p.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return domain.PlanActivity{}, err
	}
	return added, nil
}

// UpdateActivity merges patch into the activity and refreshes the plan's UpdatedAt.
func (s *PlanStore) UpdateActivity(ctx context.Context, planID, activityID string, patch domain.ActivityPatch) (domain.PlanActivity, error) {
	var updated domain.PlanActivity
	_, err := s.mutate(ctx, "UpdateActivity", func(next *PlanState) error {
		p, j, err := findActivity(next, planID, activityID)
		if err != nil {
			return err
		}
		patch.Apply(&p.Activities[j])
		p.UpdatedAt = s.now()
		updated = p.Activities[j].Clone()
		return nil
	})
	if err != nil {
		return domain.PlanActivity{}, err
	}
	return updated, nil
}

// RemoveActivity deletes the activity from the plan.
func (s *PlanStore) RemoveActivity(ctx context.Context, planID, activityID string) error {
	_, err := s.mutate(ctx, "RemoveActivity", func(next *PlanState) error {
		p, j, err := findActivity(next, planID, activityID)
		if err != nil {
			return err
		}
		p.Activities = append(p.Activities[:j], p.Activities[j+1:]...)
		p.UpdatedAt = s.now()
		return nil
	})
	return err
}

// mutate applies fn to a copy of the state, persists the result and swaps it
// in. Listeners are notified in mutation order.
// The returned state is a private copy of what was committed.
func (s *PlanStore) mutate(ctx context.Context, op string, fn func(next *PlanState) error) (PlanState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	if err := fn(&next); err != nil {
		return PlanState{}, fmt.Errorf("store.PlanStore.%s: %w", op, err)
	}
	next.normalize()

	raw, err := encodeSnapshot(next)
	if err != nil {
		return PlanState{}, fmt.Errorf("store.PlanStore.%s: encode: %w", op, err)
	}
	if err := s.kv.Put(ctx, PlanStorageKey, raw); err != nil {
		s.log.ErrorContext(ctx, "persist plans failed", "op", op, "error", err)
		return PlanState{}, fmt.Errorf("store.PlanStore.%s: %w", op, err)
	}

	s.state = next
	s.log.DebugContext(ctx, "plans updated", "op", op, "count", len(next.Plans))

	for _, sub := range s.listeners {
		sub.fn(next.clone())
	}
	return next.clone(), nil
}

func (s *PlanStore) newActivity(in domain.ActivityInput) domain.PlanActivity {
	a := domain.PlanActivity{
		ID:       s.ids(),
		Name:     in.Name,
		Type:     in.Type,
		Location: in.Location,
		Time:     in.Time,
	}
	domain.ActivityPatch{Description: in.Description, Budget: in.Budget}.Apply(&a)
	return a
}

func findActivity(state *PlanState, planID, activityID string) (*domain.TravelPlan, int, error) {
	i := state.indexOf(planID)
	if i < 0 {
		return nil, -1, domain.ErrNotFound
	}
	p := &state.Plans[i]
	for j := range p.Activities {
		if p.Activities[j].ID == activityID {
			return p, j, nil
		}
	}
	return nil, -1, domain.ErrNotFound
}
