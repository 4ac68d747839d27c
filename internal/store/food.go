package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/pumpkinkking/whereeat/internal/domain"
	"github.com/pumpkinkking/whereeat/internal/repo"
)

// FoodState is the persisted part of the food store.
type FoodState struct {
	SearchHistory []domain.SearchHistory `json:"searchHistory"`
	FavoriteFoods []string               `json:"favoriteFoods"`
}

func (s FoodState) clone() FoodState {
	return FoodState{
		SearchHistory: slices.Clone(s.SearchHistory),
		FavoriteFoods: slices.Clone(s.FavoriteFoods),
	}
}

// FoodStore keeps the user's favorite vendors and recent searches, plus the
// vendor lists currently on screen. Only history and favorites are
// persisted, under FoodStorageKey.
type FoodStore struct {
	kv  repo.KVRepo
	log *slog.Logger
	now func() time.Time

	mu          sync.RWMutex
	state       FoodState
	recommended []domain.FoodVendor
	nearby      []domain.FoodVendor
	results     []domain.FoodVendor
	keyword     string
}

// NewFoodStore constructs an empty FoodStore persisting through kv.
func NewFoodStore(kv repo.KVRepo, opts ...Option) *FoodStore {
	o := newOptions(opts)
	return &FoodStore{
		kv:  kv,
		log: o.logger,
		now: o.now,
		state: FoodState{
			SearchHistory: []domain.SearchHistory{},
			FavoriteFoods: []string{},
		},
	}
}

// Load restores history and favorites from storage.
// Versions 0 and 1 share the same state layout.
func (s *FoodStore) Load(ctx context.Context) error {
	raw, err := s.kv.Get(ctx, FoodStorageKey)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("store.FoodStore.Load: %w", err)
	}

	env, err := decodeEnvelope(raw)
	if err != nil {
		return fmt.Errorf("store.FoodStore.Load: %w", err)
	}
	var state FoodState
	if err := json.Unmarshal(env.State, &state); err != nil {
		return fmt.Errorf("store.FoodStore.Load: decode: %w", err)
	}
	if state.SearchHistory == nil {
		state.SearchHistory = []domain.SearchHistory{}
	}
	if state.FavoriteFoods == nil {
		state.FavoriteFoods = []string{}
	}
	if len(state.SearchHistory) > domain.MaxSearchHistory {
		state.SearchHistory = state.SearchHistory[:domain.MaxSearchHistory]
	}

	s.mu.Lock()
	s.state = state
	s.mu.Unlock()

	s.log.InfoContext(ctx, "food state loaded",
		"favorites", len(state.FavoriteFoods),
		"history", len(state.SearchHistory),
	)
	return nil
}

// SearchHistory returns recent searches, newest first.
func (s *FoodStore) SearchHistory() []domain.SearchHistory {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.SearchHistory)
}

// AddSearchHistory records a search at the front of the history. An older
// entry with the same keyword is dropped and at most MaxSearchHistory
// entries are kept.
func (s *FoodStore) AddSearchHistory(ctx context.Context, keyword string, resultCount *int) ([]domain.SearchHistory, error) {
	state, err := s.mutate(ctx, "AddSearchHistory", func(next *FoodState) {
		entry := domain.SearchHistory{Keyword: keyword, Timestamp: s.now()}
		if resultCount != nil {
			n := *resultCount
			entry.ResultCount = &n
		}

		history := make([]domain.SearchHistory, 0, len(next.SearchHistory)+1)
		history = append(history, entry)
		for _, h := range next.SearchHistory {
			if h.Keyword != keyword {
				history = append(history, h)
			}
		}
		if len(history) > domain.MaxSearchHistory {
			history = history[:domain.MaxSearchHistory]
		}
		next.SearchHistory = history
	})
	if err != nil {
		return nil, err
	}
	return state.SearchHistory, nil
}

// ClearSearchHistory forgets every recorded search.
func (s *FoodStore) ClearSearchHistory(ctx context.Context) error {
	_, err := s.mutate(ctx, "ClearSearchHistory", func(next *FoodState) {
		next.SearchHistory = []domain.SearchHistory{}
	})
	return err
}

// Favorites returns favorite vendor ids in the order they were added.
func (s *FoodStore) Favorites() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.state.FavoriteFoods)
}

// IsFavorite reports whether foodID is a favorite.
func (s *FoodStore) IsFavorite(foodID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.state.FavoriteFoods, foodID)
}

// AddFavorite marks foodID as a favorite. Adding an existing favorite is a no-op.
func (s *FoodStore) AddFavorite(ctx context.Context, foodID string) error {
	if s.IsFavorite(foodID) {
		return nil
	}
	_, err := s.mutate(ctx, "AddFavorite", func(next *FoodState) {
		if !slices.Contains(next.FavoriteFoods, foodID) {
			next.FavoriteFoods = append(next.FavoriteFoods, foodID)
		}
	})
	return err
}

// RemoveFavorite unmarks foodID. Removing a non-favorite is a no-op.
func (s *FoodStore) RemoveFavorite(ctx context.Context, foodID string) error {
	if !s.IsFavorite(foodID) {
		return nil
	}
	_, err := s.mutate(ctx, "RemoveFavorite", func(next *FoodState) {
		next.FavoriteFoods = slices.DeleteFunc(next.FavoriteFoods, func(id string) bool { return id == foodID })
	})
	return err
}

// SetRecommended replaces the recommended vendor list.
func (s *FoodStore) SetRecommended(foods []domain.FoodVendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recommended = cloneVendors(foods)
}

// Recommended returns the recommended vendor list.
func (s *FoodStore) Recommended() []domain.FoodVendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVendors(s.recommended)
}

// SetNearby replaces the nearby vendor list.
func (s *FoodStore) SetNearby(foods []domain.FoodVendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nearby = cloneVendors(foods)
}

// Nearby returns the nearby vendor list.
func (s *FoodStore) Nearby() []domain.FoodVendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVendors(s.nearby)
}

// SetSearchKeyword records the keyword currently being searched.
func (s *FoodStore) SetSearchKeyword(keyword string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.keyword = keyword
}

// SearchKeyword returns the keyword currently being searched.
func (s *FoodStore) SearchKeyword() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keyword
}

// SetSearchResults replaces the results of the current search.
func (s *FoodStore) SetSearchResults(results []domain.FoodVendor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = cloneVendors(results)
}

// SearchResults returns the results of the current search.
func (s *FoodStore) SearchResults() []domain.FoodVendor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneVendors(s.results)
}

func (s *FoodStore) mutate(ctx context.Context, op string, fn func(next *FoodState)) (FoodState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.state.clone()
	fn(&next)

	if err := s.persist(ctx, next); err != nil {
		s.log.ErrorContext(ctx, "persist food state failed", "op", op, "error", err)
		return FoodState{}, fmt.Errorf("store.FoodStore.%s: %w", op, err)
	}

	s.state = next
	return next.clone(), nil
}

// persist writes state under FoodStorageKey. An empty state removes the key
// instead, which Load reads back as the same empty state.
func (s *FoodStore) persist(ctx context.Context, state FoodState) error {
	if len(state.SearchHistory) == 0 && len(state.FavoriteFoods) == 0 {
		if err := s.kv.Delete(ctx, FoodStorageKey); err != nil && !errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return nil
	}
	raw, err := encodeSnapshot(state)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return s.kv.Put(ctx, FoodStorageKey, raw)
}

// cloneVendors copies the slice and the slices nested in each vendor.
// Always returns a non-nil slice.
func cloneVendors(in []domain.FoodVendor) []domain.FoodVendor {
	out := make([]domain.FoodVendor, len(in))
	for i, v := range in {
		v.Images = slices.Clone(v.Images)
		v.Categories = slices.Clone(v.Categories)
		v.OpeningHours = slices.Clone(v.OpeningHours)
		out[i] = v
	}
	return out
}
