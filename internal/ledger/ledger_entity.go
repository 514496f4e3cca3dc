package ledger

import "time"

const (
	EventClockIn  = "clock_in"
	EventClockOut = "clock_out"

	SourceWiFi      = "wifi"
	SourceSlack     = "slack"
	SourceDashboard = "dashboard"
)

// ClockEvent is one row of the append-only clock ledger. The store never
// enforces clock_in/clock_out alternation: a second consecutive clock_in is
// accepted and simply becomes the latest event, and a clock_out with no
// preceding clock_in carries a null duration. The dashboard's manual
// adjustment flow depends on being able to insert such one-sided rows.
type ClockEvent struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	DeviceKey    string    `gorm:"column:mac_address;type:text;not null;index"`
	EmployeeName string    `gorm:"column:employee_name;type:text;not null"`
	EventType    string    `gorm:"column:event_type;type:text;not null"`
	Timestamp    time.Time `gorm:"column:timestamp;type:timestamptz;not null;index"`
	// Minutes worked, present only on clock_out rows with a matching clock_in.
	WorkDurationMinutes *int   `gorm:"column:work_duration_minutes"`
	Source              string `gorm:"column:source;type:text;not null;default:wifi"`
}

func (ClockEvent) TableName() string {
	return "clock_events"
}

// RemoteEmployee maps a Slack user id to a registered display name.
type RemoteEmployee struct {
	SlackUserID  string    `gorm:"column:slack_user_id;type:text;primaryKey"`
	EmployeeName string    `gorm:"column:employee_name;type:text;not null"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (RemoteEmployee) TableName() string {
	return "remote_employees"
}
