package audit

import "time"

// Entry is an immutable record of a manual time adjustment. Entries are
// only ever created by the dashboard's adjustment flow and only ever
// removed by an explicit admin delete.
type Entry struct {
	ID           int64     `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp    time.Time `gorm:"column:timestamp;type:timestamptz;not null"`
	EmployeeName string    `gorm:"column:employee_name;type:text;not null"`
	Action       string    `gorm:"column:action;type:text;not null"`
	Details      string    `gorm:"column:details;type:text"`
	OldValue     *string   `gorm:"column:old_value;type:text"`
	NewValue     *string   `gorm:"column:new_value;type:text"`
	ActorEmail   string    `gorm:"column:actor_email;type:text;not null"`
}

func (Entry) TableName() string {
	return "audit_log"
}

type EntryResponse struct {
	ID           int64   `json:"id"`
	Timestamp    string  `json:"timestamp"`
	EmployeeName string  `json:"employee_name"`
	Action       string  `json:"action"`
	Details      string  `json:"details"`
	OldValue     *string `json:"old_value"`
	NewValue     *string `json:"new_value"`
	ActorEmail   string  `json:"actor_email"`
}
