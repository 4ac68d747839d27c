package handler_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pumpkinkking/whereeat/internal/handler"
	"github.com/pumpkinkking/whereeat/internal/repo"
	"github.com/pumpkinkking/whereeat/internal/store"
)

type historyListResponse struct {
	Data []handler.SearchHistoryEntry `json:"data"`
}

type vendorListResponse struct {
	Data []handler.FoodVendor `json:"data"`
}

// failingKV is a repo.KVRepo whose writes always fail.
type failingKV struct{ repo.KVRepo }

func (failingKV) Put(context.Context, string, []byte) error { return errors.New("disk full") }

func newFoodHandler(t *testing.T, kv repo.KVRepo) (http.Handler, *store.FoodStore) {
	t.Helper()
	tick := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	foods := store.NewFoodStore(kv,
		store.WithClock(func() time.Time {
			tick = tick.Add(time.Second)
			return tick
		}),
		store.WithLogger(discardLogger()),
	)
	return newHTTPHandler(nil, nil, foods), foods
}

func TestFavorites_lifecycle(t *testing.T) {
	h, foods := newFoodHandler(t, repo.NewMemoryKVRepo())

	require.Equal(t, http.StatusNoContent, do(h, http.MethodPut, "/food/favorites/f1", nil).Code)
	require.Equal(t, http.StatusNoContent, do(h, http.MethodPut, "/food/favorites/f1", nil).Code)
	require.Equal(t, http.StatusNoContent, do(h, http.MethodPut, "/food/favorites/f2", nil).Code)

	rec := do(h, http.MethodGet, "/food/favorites", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"data":["f1","f2"]}`, rec.Body.String())

	rec = do(h, http.MethodGet, "/food/favorites/f1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, handler.FavoriteResponse{FoodID: "f1", IsFavorite: true}, decode[handler.FavoriteResponse](t, rec))

	require.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/food/favorites/f1", nil).Code)
	assert.False(t, foods.IsFavorite("f1"))
	assert.Equal(t, []string{"f2"}, foods.Favorites())
}

func TestFavorites_500_PersistFailure(t *testing.T) {
	h, foods := newFoodHandler(t, failingKV{repo.NewMemoryKVRepo()})

	rec := do(h, http.MethodPut, "/food/favorites/f1", nil)

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, foods.IsFavorite("f1"))
}

func TestSearchHistory_lifecycle(t *testing.T) {
	h, _ := newFoodHandler(t, repo.NewMemoryKVRepo())

	for _, kw := range []string{"noodles", "dumplings", "noodles"} {
		rec := do(h, http.MethodPost, "/food/history", jsonBody(t, map[string]any{"keyword": kw, "result_count": 3}))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := do(h, http.MethodGet, "/food/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[historyListResponse](t, rec)
	require.Len(t, resp.Data, 2)
	assert.Equal(t, "noodles", resp.Data[0].Keyword)
	assert.Equal(t, "dumplings", resp.Data[1].Keyword)
	require.NotNil(t, resp.Data[0].ResultCount)
	assert.Equal(t, 3, *resp.Data[0].ResultCount)

	require.Equal(t, http.StatusNoContent, do(h, http.MethodDelete, "/food/history", nil).Code)
	rec = do(h, http.MethodGet, "/food/history", nil)
	assert.JSONEq(t, `{"data":[]}`, rec.Body.String())
}

func TestSearchHistory_capped(t *testing.T) {
	h, foods := newFoodHandler(t, repo.NewMemoryKVRepo())

	for i := 0; i < 25; i++ {
		rec := do(h, http.MethodPost, "/food/history", jsonBody(t, map[string]any{"keyword": fmt.Sprintf("kw-%d", i)}))
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	history := foods.SearchHistory()
	require.Len(t, history, 20)
	assert.Equal(t, "kw-24", history[0].Keyword)
}

func TestSearchHistory_422_EmptyKeyword(t *testing.T) {
	h, _ := newFoodHandler(t, repo.NewMemoryKVRepo())

	rec := do(h, http.MethodPost, "/food/history", jsonBody(t, map[string]any{"keyword": ""}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[handler.ErrorResponse](t, rec).Error.Message, "keyword is required")
}

func TestVendorLists(t *testing.T) {
	h, foods := newFoodHandler(t, repo.NewMemoryKVRepo())
	vendors := map[string]any{
		"data": []map[string]any{{
			"id": "v1", "name": "Lou Wai Lou", "rating": 4.6, "address": "Gushan Rd",
			"categories": []string{"hangbang"}, "average_price": 150, "distance": 420,
			"coordinates": map[string]any{"latitude": 30.25, "longitude": 120.14},
		}},
	}

	for _, path := range []string{"/food/recommended", "/food/nearby"} {
		t.Run(path, func(t *testing.T) {
			rec := do(h, http.MethodPut, path, jsonBody(t, vendors))
			require.Equal(t, http.StatusOK, rec.Code)

			rec = do(h, http.MethodGet, path, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			resp := decode[vendorListResponse](t, rec)
			require.Len(t, resp.Data, 1)
			assert.Equal(t, "Lou Wai Lou", resp.Data[0].Name)
			require.NotNil(t, resp.Data[0].Coordinates)
			assert.InDelta(t, 30.25, resp.Data[0].Coordinates.Latitude, 0.0001)
		})
	}
	assert.Len(t, foods.Recommended(), 1)
	assert.Len(t, foods.Nearby(), 1)
}

func TestVendorLists_422_BadRating(t *testing.T) {
	h, foods := newFoodHandler(t, repo.NewMemoryKVRepo())

	rec := do(h, http.MethodPut, "/food/recommended", jsonBody(t, map[string]any{
		"data": []map[string]any{{"id": "v1", "name": "x", "rating": 7}},
	}))

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, decode[handler.ErrorResponse](t, rec).Error.Message, "rating must be at most 5")
	assert.Empty(t, foods.Recommended())
}

func TestSearch(t *testing.T) {
	h, _ := newFoodHandler(t, repo.NewMemoryKVRepo())

	rec := do(h, http.MethodGet, "/food/search", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"keyword":"","results":[]}`, rec.Body.String())

	rec = do(h, http.MethodPut, "/food/search", jsonBody(t, map[string]any{
		"keyword": "tea",
		"results": []map[string]any{{"id": "v2", "name": "Longjing House", "rating": 4.2}},
	}))
	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[handler.SearchResponse](t, rec)
	assert.Equal(t, "tea", resp.Keyword)
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "v2", resp.Results[0].ID)
}
