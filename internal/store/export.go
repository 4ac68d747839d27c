package store

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/pumpkinkking/whereeat/internal/domain"
)

// Export returns one ExportRow per activity across all plans, in collection
// and display order. Plans with no activities contribute one row with empty
// activity fields.
func (s *PlanStore) Export() []domain.ExportRow {
	plans := s.Plans()

	rows := make([]domain.ExportRow, 0, len(plans))
	for _, p := range plans {
		base := domain.ExportRow{
			PlanID:      p.ID,
			PlanName:    p.Name,
			Destination: p.Destination,
			StartDate:   p.StartDate.Format(openapi_types.DateFormat),
			EndDate:     p.EndDate.Format(openapi_types.DateFormat),
			PeopleCount: p.PeopleCount,
			IsCurrent:   p.IsCurrent,
		}
		if p.Theme != nil {
			base.Theme = *p.Theme
		}

		if len(p.Activities) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, a := range p.Activities {
			row := base
			row.ActivityName = a.Name
			row.ActivityType = string(a.Type)
			row.ActivityLocation = a.Location
			row.ActivityTime = a.Time
			row.Budget = a.Budget
			rows = append(rows, row)
		}
	}
	return rows
}
