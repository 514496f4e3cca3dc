package dashboard

import "github.com/ishuesiah/time-tracker-sevalla/internal/ledger"

type PeriodResponse struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

type SummaryData struct {
	Summary       []ledger.SummaryEntry `json:"summary"`
	TotalHours    float64               `json:"total_hours"`
	TotalSessions int                   `json:"total_sessions"`
	AllEmployees  []string              `json:"all_employees"`
	Period        PeriodResponse        `json:"period"`
}

// ActivityRow is one employee's live state for the "today" view.
type ActivityRow struct {
	EmployeeName     string  `json:"employee_name"`
	ClockedIn        bool    `json:"clocked_in"`
	Since            *string `json:"since,omitempty"`
	CompletedMinutes int     `json:"completed_minutes"`
	OpenMinutes      int     `json:"open_minutes"`
	TotalMinutes     int     `json:"total_minutes"`
	TotalDisplay     string  `json:"total_display"`
}

// DayEvent is one ledger row rendered for the per-day detail table.
type DayEvent struct {
	ID                  int64  `json:"id"`
	EmployeeName        string `json:"employee_name"`
	EventType           string `json:"event_type"`
	Time                string `json:"time"`
	WorkDurationMinutes *int   `json:"work_duration_minutes"`
	Source              string `json:"source"`
}

// DayEntry is the single employee/day lookup used to prefill the
// adjustment form.
type DayEntry struct {
	Employee string  `json:"employee"`
	Date     string  `json:"date"`
	ClockIn  *string `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
}

type AdjustRequest struct {
	Employee string  `json:"employee" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	ClockIn  *string `json:"clock_in"`
	ClockOut *string `json:"clock_out"`
	Note     string  `json:"note"`
}

type AdjustResult struct {
	Employee string  `json:"employee"`
	Date     string  `json:"date"`
	ClockIn  *string `json:"clock_in,omitempty"`
	ClockOut *string `json:"clock_out,omitempty"`
	Minutes  *int    `json:"work_duration_minutes,omitempty"`
}
