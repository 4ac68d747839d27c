package domain

// ExportRow is a single row in the plan export.
// It is a flat, denormalized view: one row per activity, with plan fields
// repeated for every activity of that plan. Plans with no activities yield
// one row with zero values for all activity fields.
type ExportRow struct {
	// Plan fields, repeated for every activity on the plan.
	PlanID      string
	PlanName    string
	Destination string
	StartDate   string // "2006-01-02"
	EndDate     string // "2006-01-02"
	PeopleCount int
	Theme       string
	IsCurrent   bool

	// Activity fields, zero values when the plan has no activities.
	ActivityName     string
	ActivityType     string
	ActivityLocation string
	ActivityTime     string
	Budget           *float64
}
