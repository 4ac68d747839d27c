package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// FoodVendor is the API representation of a domain.FoodVendor. It is used
// for both requests and responses.
type FoodVendor struct {
	ID                   string              `json:"id" validate:"required"`
	Name                 string              `json:"name" validate:"required"`
	Rating               float64             `json:"rating" validate:"gte=0,lte=5"`
	Address              string              `json:"address"`
	Phone                *string             `json:"phone,omitempty"`
	Images               []string            `json:"images,omitempty"`
	Categories           []string            `json:"categories"`
	AveragePrice         float64             `json:"average_price" validate:"gte=0"`
	Distance             *float64            `json:"distance,omitempty" validate:"omitempty,gte=0"`
	OpeningHours         []string            `json:"opening_hours,omitempty"`
	IsOpen               *bool               `json:"is_open,omitempty"`
	RecommendationReason *string             `json:"recommendation_reason,omitempty"`
	Coordinates          *domain.Coordinates `json:"coordinates,omitempty"`
}

// SearchHistoryEntry is the API representation of a domain.SearchHistory.
type SearchHistoryEntry struct {
	Keyword     string    `json:"keyword"`
	Timestamp   time.Time `json:"timestamp"`
	ResultCount *int      `json:"result_count,omitempty"`
}

// FavoriteResponse reports whether one food is a favorite.
type FavoriteResponse struct {
	FoodID     string `json:"food_id"`
	IsFavorite bool   `json:"is_favorite"`
}

// SearchResponse is the body of GET /food/search.
type SearchResponse struct {
	Keyword string       `json:"keyword"`
	Results []FoodVendor `json:"results"`
}

type vendorListRequest struct {
	Data []FoodVendor `json:"data" validate:"dive"`
}

type searchRequest struct {
	Keyword string       `json:"keyword"`
	Results []FoodVendor `json:"results" validate:"dive"`
}

type searchHistoryRequest struct {
	Keyword     string `json:"keyword" validate:"required"`
	ResultCount *int   `json:"result_count" validate:"omitempty,gte=0"`
}

// ListFavorites handles GET /food/favorites.
func (s *Server) ListFavorites(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse[string]{Data: s.foods.Favorites()})
}

// GetFavorite handles GET /food/favorites/{foodID}.
func (s *Server) GetFavorite(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "foodID")
	writeJSON(w, http.StatusOK, FavoriteResponse{FoodID: id, IsFavorite: s.foods.IsFavorite(id)})
}

// AddFavorite handles PUT /food/favorites/{foodID}. Repeating it is a no-op.
func (s *Server) AddFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.foods.AddFavorite(r.Context(), chi.URLParam(r, "foodID")); err != nil {
		s.writeStoreError(w, r, err, "food not found")
		return
	}
	writeNoContent(w)
}

// RemoveFavorite handles DELETE /food/favorites/{foodID}.
func (s *Server) RemoveFavorite(w http.ResponseWriter, r *http.Request) {
	if err := s.foods.RemoveFavorite(r.Context(), chi.URLParam(r, "foodID")); err != nil {
		s.writeStoreError(w, r, err, "food not found")
		return
	}
	writeNoContent(w)
}

// ListSearchHistory handles GET /food/history, newest first.
func (s *Server) ListSearchHistory(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse[SearchHistoryEntry]{Data: historyToResponse(s.foods.SearchHistory())})
}

// AddSearchHistory handles POST /food/history and returns the updated history.
func (s *Server) AddSearchHistory(w http.ResponseWriter, r *http.Request) {
	var body searchHistoryRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}

	history, err := s.foods.AddSearchHistory(r.Context(), body.Keyword, body.ResultCount)
	if err != nil {
		s.writeStoreError(w, r, err, "history not found")
		return
	}
	writeJSON(w, http.StatusCreated, listResponse[SearchHistoryEntry]{Data: historyToResponse(history)})
}

// ClearSearchHistory handles DELETE /food/history.
func (s *Server) ClearSearchHistory(w http.ResponseWriter, r *http.Request) {
	if err := s.foods.ClearSearchHistory(r.Context()); err != nil {
		s.writeStoreError(w, r, err, "history not found")
		return
	}
	writeNoContent(w)
}

// GetRecommended handles GET /food/recommended.
func (s *Server) GetRecommended(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse[FoodVendor]{Data: vendorsToResponse(s.foods.Recommended())})
}

// PutRecommended handles PUT /food/recommended.
func (s *Server) PutRecommended(w http.ResponseWriter, r *http.Request) {
	var body vendorListRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	s.foods.SetRecommended(requestToVendors(body.Data))
	writeJSON(w, http.StatusOK, listResponse[FoodVendor]{Data: vendorsToResponse(s.foods.Recommended())})
}

// GetNearby handles GET /food/nearby.
func (s *Server) GetNearby(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, listResponse[FoodVendor]{Data: vendorsToResponse(s.foods.Nearby())})
}

// PutNearby handles PUT /food/nearby.
func (s *Server) PutNearby(w http.ResponseWriter, r *http.Request) {
	var body vendorListRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	s.foods.SetNearby(requestToVendors(body.Data))
	writeJSON(w, http.StatusOK, listResponse[FoodVendor]{Data: vendorsToResponse(s.foods.Nearby())})
}

// GetSearch handles GET /food/search: the last keyword and its results.
func (s *Server) GetSearch(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, SearchResponse{
		Keyword: s.foods.SearchKeyword(),
		Results: vendorsToResponse(s.foods.SearchResults()),
	})
}

// PutSearch handles PUT /food/search, replacing the keyword and results together.
func (s *Server) PutSearch(w http.ResponseWriter, r *http.Request) {
	var body searchRequest
	if !s.decodeAndValidate(w, r, &body) {
		return
	}
	s.foods.SetSearchKeyword(body.Keyword)
	s.foods.SetSearchResults(requestToVendors(body.Results))
	writeJSON(w, http.StatusOK, SearchResponse{
		Keyword: s.foods.SearchKeyword(),
		Results: vendorsToResponse(s.foods.SearchResults()),
	})
}

// --- mapping helpers --------------------------------------------------------

func requestToVendors(in []FoodVendor) []domain.FoodVendor {
	out := make([]domain.FoodVendor, len(in))
	for i, v := range in {
		out[i] = domain.FoodVendor{
			ID:                   v.ID,
			Name:                 v.Name,
			Rating:               v.Rating,
			Address:              v.Address,
			Phone:                v.Phone,
			Images:               v.Images,
			Categories:           v.Categories,
			AveragePrice:         v.AveragePrice,
			Distance:             v.Distance,
			OpeningHours:         v.OpeningHours,
			IsOpen:               v.IsOpen,
			RecommendationReason: v.RecommendationReason,
			Coordinates:          v.Coordinates,
		}
	}
	return out
}

func vendorsToResponse(in []domain.FoodVendor) []FoodVendor {
	out := make([]FoodVendor, len(in))
	for i, v := range in {
		out[i] = FoodVendor{
			ID:                   v.ID,
			Name:                 v.Name,
			Rating:               v.Rating,
			Address:              v.Address,
			Phone:                v.Phone,
			Images:               v.Images,
			Categories:           v.Categories,
			AveragePrice:         v.AveragePrice,
			Distance:             v.Distance,
			OpeningHours:         v.OpeningHours,
			IsOpen:               v.IsOpen,
			RecommendationReason: v.RecommendationReason,
			Coordinates:          v.Coordinates,
		}
	}
	return out
}

func historyToResponse(in []domain.SearchHistory) []SearchHistoryEntry {
	out := make([]SearchHistoryEntry, len(in))
	for i, h := range in {
		out[i] = SearchHistoryEntry{Keyword: h.Keyword, Timestamp: h.Timestamp, ResultCount: h.ResultCount}
	}
	return out
}
