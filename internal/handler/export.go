package handler

import (
	"bytes"
	"encoding/csv"
	"net/http"
	"strconv"
)

// csvHeaders defines the column names written as the first row of any CSV export.
var csvHeaders = []string{
	"plan_id", "plan_name", "destination", "start_date", "end_date",
	"people_count", "theme", "is_current",
	"activity_name", "activity_type", "activity_location", "activity_time", "budget",
}

// ExportRow is the JSON representation of a domain.ExportRow.
type ExportRow struct {
	PlanID           string   `json:"plan_id"`
	PlanName         string   `json:"plan_name"`
	Destination      string   `json:"destination"`
	StartDate        string   `json:"start_date"`
	EndDate          string   `json:"end_date"`
	PeopleCount      int      `json:"people_count"`
	Theme            *string  `json:"theme,omitempty"`
	IsCurrent        bool     `json:"is_current"`
	ActivityName     *string  `json:"activity_name,omitempty"`
	ActivityType     *string  `json:"activity_type,omitempty"`
	ActivityLocation *string  `json:"activity_location,omitempty"`
	ActivityTime     *string  `json:"activity_time,omitempty"`
	Budget           *float64 `json:"budget,omitempty"`
}

// ExportPlans handles GET /plans/export.
// It returns one row per activity across all plans.
// Use ?format=csv to receive CSV; default is JSON.
func (s *Server) ExportPlans(w http.ResponseWriter, r *http.Request) {
	rows := s.plans.Export()

	switch r.URL.Query().Get("format") {
	case "", "json":
		out := make([]ExportRow, 0, len(rows))
		for _, row := range rows {
			out = append(out, ExportRow{
				PlanID:           row.PlanID,
				PlanName:         row.PlanName,
				Destination:      row.Destination,
				StartDate:        row.StartDate,
				EndDate:          row.EndDate,
				PeopleCount:      row.PeopleCount,
				Theme:            optionalString(row.Theme),
				IsCurrent:        row.IsCurrent,
				ActivityName:     optionalString(row.ActivityName),
				ActivityType:     optionalString(row.ActivityType),
				ActivityLocation: optionalString(row.ActivityLocation),
				ActivityTime:     optionalString(row.ActivityTime),
				Budget:           row.Budget,
			})
		}
		writeJSON(w, http.StatusOK, out)
	case "csv":
		var buf bytes.Buffer
		cw := csv.NewWriter(&buf)

		//nolint:errcheck // bytes.Buffer.Write never returns an error.
		cw.Write(csvHeaders)
		for _, row := range rows {
			//nolint:errcheck
			cw.Write([]string{
				row.PlanID,
				row.PlanName,
				row.Destination,
				row.StartDate,
				row.EndDate,
				strconv.Itoa(row.PeopleCount),
				row.Theme,
				strconv.FormatBool(row.IsCurrent),
				row.ActivityName,
				row.ActivityType,
				row.ActivityLocation,
				row.ActivityTime,
				formatOptionalFloat(row.Budget),
			})
		}
		cw.Flush()

		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="plans.csv"`)
		w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
		w.WriteHeader(http.StatusOK)
		//nolint:errcheck
		buf.WriteTo(w)
	default:
		writeJSON(w, http.StatusUnprocessableEntity, requestBody("format must be json or csv"))
	}
}

// optionalString returns nil for "" so empty columns are omitted from JSON.
func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// formatOptionalFloat returns the shortest decimal form of f, or "" if f is nil.
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}
