package store

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// TripStore holds the scheduled trips shown on the trip overview and answers
// date-range questions about them. It is not persisted.
type TripStore struct {
	now func() time.Time
	ids func() string

	mu        sync.RWMutex
	trips     []domain.Trip
	currentID string
}

// NewTripStore constructs a TripStore holding trips.
func NewTripStore(trips []domain.Trip, opts ...Option) *TripStore {
	o := newOptions(opts)
	return &TripStore{
		now:   o.now,
		ids:   o.newID,
		trips: cloneTrips(trips),
	}
}

// Trips returns every trip in insertion order.
func (s *TripStore) Trips() []domain.Trip {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneTrips(s.trips)
}

// SetTrips replaces all trips, generating ids for trips that have none.
// Duplicate ids are rejected with domain.ErrValidation and leave the store
// unchanged. A current trip that is no longer present is cleared.
func (s *TripStore) SetTrips(trips []domain.Trip) error {
	next := cloneTrips(trips)
	seen := make(map[string]struct{}, len(next))
	for i := range next {
		if next[i].ID == "" {
			next[i].ID = s.ids()
		}
		if _, dup := seen[next[i].ID]; dup {
			return fmt.Errorf("store.TripStore.SetTrips: %w: duplicate trip id %q", domain.ErrValidation, next[i].ID)
		}
		seen[next[i].ID] = struct{}{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.trips = next
	if s.indexOf(s.currentID) < 0 {
		s.currentID = ""
	}
	return nil
}

// AddTrip appends trip, generating an id when it has none. An id already in
// use is rejected with domain.ErrValidation.
func (s *TripStore) AddTrip(trip domain.Trip) (domain.Trip, error) {
	if trip.ID == "" {
		trip.ID = s.ids()
	}
	trip = cloneTrip(trip)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(trip.ID) >= 0 {
		return domain.Trip{}, fmt.Errorf("store.TripStore.AddTrip: %w: duplicate trip id %q", domain.ErrValidation, trip.ID)
	}
	s.trips = append(s.trips, trip)
	return cloneTrip(trip), nil
}

// SetCurrentTrip selects the trip with the given id; "" clears the selection.
func (s *TripStore) SetCurrentTrip(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if id != "" && s.indexOf(id) < 0 {
		return fmt.Errorf("store.TripStore.SetCurrentTrip: %w", domain.ErrNotFound)
	}
	s.currentID = id
	return nil
}

// CurrentTrip returns the selected trip, or domain.ErrNotFound when none is selected.
func (s *TripStore) CurrentTrip() (domain.Trip, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.indexOf(s.currentID)
	if i < 0 {
		return domain.Trip{}, fmt.Errorf("store.TripStore.CurrentTrip: %w", domain.ErrNotFound)
	}
	return cloneTrip(s.trips[i]), nil
}

// TodayTrip returns the first trip whose date range covers today, start and
// end days inclusive. Returns domain.ErrNotFound when no trip is in progress.
func (s *TripStore) TodayTrip() (domain.Trip, error) {
	today := calendarDay(s.now())

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, t := range s.trips {
		start := calendarDay(t.StartDate.Time)
		end := calendarDay(t.EndDate.Time)
		if !today.Before(start) && !today.After(end) {
			return cloneTrip(t), nil
		}
	}
	return domain.Trip{}, fmt.Errorf("store.TripStore.TodayTrip: %w", domain.ErrNotFound)
}

// FutureTrips returns trips starting after today, earliest first.
// Always returns a non-nil slice.
func (s *TripStore) FutureTrips() []domain.Trip {
	today := calendarDay(s.now())

	s.mu.RLock()
	future := []domain.Trip{}
	for _, t := range s.trips {
		if calendarDay(t.StartDate.Time).After(today) {
			future = append(future, cloneTrip(t))
		}
	}
	s.mu.RUnlock()

	slices.SortStableFunc(future, func(a, b domain.Trip) int {
		return a.StartDate.Time.Compare(b.StartDate.Time)
	})
	return future
}

func (s *TripStore) indexOf(id string) int {
	if id == "" {
		return -1
	}
	return slices.IndexFunc(s.trips, func(t domain.Trip) bool { return t.ID == id })
}

// calendarDay maps t to midnight UTC of its calendar date in t's own
// location, so dates and local clock readings compare by day.
func calendarDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cloneTrip(t domain.Trip) domain.Trip {
	if t.ImageURL != nil {
		url := *t.ImageURL
		t.ImageURL = &url
	}
	return t
}

func cloneTrips(in []domain.Trip) []domain.Trip {
	out := make([]domain.Trip, len(in))
	for i, t := range in {
		out[i] = cloneTrip(t)
	}
	return out
}
