package ledger

import "time"

// PushEventRequest is the payload the laptop's WiFi tracker posts.
type PushEventRequest struct {
	DeviceKey           string `json:"mac_address" binding:"required"`
	EmployeeName        string `json:"employee_name" binding:"required"`
	EventType           string `json:"event_type" binding:"required,oneof=clock_in clock_out"`
	Timestamp           string `json:"timestamp" binding:"required"`
	WorkDurationMinutes *int   `json:"work_duration_minutes"`
}

type EventResponse struct {
	EmployeeName        string `json:"employee_name"`
	EventType           string `json:"event_type"`
	Timestamp           string `json:"timestamp"`
	WorkDurationMinutes *int   `json:"work_duration_minutes"`
	Source              string `json:"source"`
}

// SummaryEntry is one employee's aggregate over a range, hours rounded to
// two decimals for JSON consumers.
type SummaryEntry struct {
	EmployeeName string  `json:"employee_name"`
	TotalMinutes int64   `json:"total_minutes"`
	TotalHours   float64 `json:"total_hours"`
	DaysWorked   int     `json:"days_worked"`
	Sessions     int     `json:"sessions"`
}

type ClockInResult struct {
	AlreadyClockedIn bool
	// When AlreadyClockedIn, the original clock-in time; otherwise the time
	// that was recorded.
	Timestamp time.Time
}

type ClockOutResult struct {
	NotClockedIn bool
	Timestamp    time.Time
	Minutes      int
}

type StatusResult struct {
	ClockedIn    bool
	Since        time.Time
	OpenMinutes  int
	TodayMinutes int
	WeekMinutes  int
}
