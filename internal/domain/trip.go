package domain

import openapi_types "github.com/oapi-codegen/runtime/types"

// Trip is a scheduled outing shown on the trip overview.
// Both dates are inclusive calendar days.
type Trip struct {
	ID        string             `json:"id"`
	Name      string             `json:"name"`
	StartDate openapi_types.Date `json:"startDate"`
	EndDate   openapi_types.Date `json:"endDate"`
	ImageURL  *string            `json:"imageUrl,omitempty"`
	IsActive  bool               `json:"isActive"`
}
