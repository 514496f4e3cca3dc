package ledger

import (
	"context"
	"database/sql"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter narrows aggregate queries by employee. Employee matches exactly;
// EmployeeContains is a case-insensitive substring match, used for the
// dashboard's self-service scoping.
type Filter struct {
	Employee         string
	EmployeeContains string
}

type SummaryRow struct {
	EmployeeName string
	TotalMinutes int64
	DaysWorked   int
	Sessions     int
}

type DailyRow struct {
	EmployeeName string
	WorkDate     time.Time
	TotalMinutes int64
}

//go:generate mockgen -source=ledger_repo.go -destination=mock/ledger_repo_mock.go -package=mock
type Repository interface {
	WithTx(tx *sql.Tx) Repository

	Record(ctx context.Context, e *ClockEvent) error
	LastEvent(ctx context.Context, deviceKey string) (*ClockEvent, error)
	UpdateEvent(ctx context.Context, e *ClockEvent) error

	EventsBetween(ctx context.Context, start, end time.Time) ([]ClockEvent, error)
	EventsForEmployee(ctx context.Context, f Filter, start, end time.Time) ([]ClockEvent, error)
	LastEventOfType(ctx context.Context, employeeName, eventType string, start, end time.Time) (*ClockEvent, error)
	LatestEventPerDevice(ctx context.Context) ([]ClockEvent, error)

	SumCompletedMinutes(ctx context.Context, deviceKey string, start, end time.Time) (int64, error)
	SummaryBetween(ctx context.Context, f Filter, start, end time.Time) ([]SummaryRow, error)
	DailyTotals(ctx context.Context, f Filter, start, end time.Time) ([]DailyRow, error)
	DistinctEmployees(ctx context.Context) ([]string, error)

	RemoteEmployeeName(ctx context.Context, slackUserID string) (string, error)
	UpsertRemoteEmployee(ctx context.Context, slackUserID, employeeName string) error
}

type repository struct {
	db *gorm.DB
	tz string
	tx *sql.Tx
}

// NewRepository builds the gorm-backed ledger store. tz is the IANA zone
// name used for calendar-date grouping (DATE(timestamp AT TIME ZONE tz)).
func NewRepository(db *gorm.DB, tz string) Repository {
	return &repository{db: db, tz: tz}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tz: r.tz, tx: tx}
}

func (r *repository) Record(ctx context.Context, e *ClockEvent) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *repository) LastEvent(ctx context.Context, deviceKey string) (*ClockEvent, error) {
	var e ClockEvent
	err := r.db.WithContext(ctx).
		Where("mac_address = ?", deviceKey).
		Order("timestamp DESC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *repository) UpdateEvent(ctx context.Context, e *ClockEvent) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *repository) EventsBetween(ctx context.Context, start, end time.Time) ([]ClockEvent, error) {
	var rows []ClockEvent
	err := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp").
		Find(&rows).Error
	return rows, err
}

func (r *repository) EventsForEmployee(ctx context.Context, f Filter, start, end time.Time) ([]ClockEvent, error) {
	q := r.db.WithContext(ctx).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp")
	q = applyFilter(q, f)

	var rows []ClockEvent
	err := q.Find(&rows).Error
	return rows, err
}

func (r *repository) LastEventOfType(ctx context.Context, employeeName, eventType string, start, end time.Time) (*ClockEvent, error) {
	var e ClockEvent
	err := r.db.WithContext(ctx).
		Where("employee_name = ?", employeeName).
		Where("event_type = ?", eventType).
		Where("timestamp >= ? AND timestamp < ?", start, end).
		Order("timestamp DESC").
		First(&e).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// LatestEventPerDevice returns each device key's most recent event,
// which is what the live "today" view needs to spot open sessions.
func (r *repository) LatestEventPerDevice(ctx context.Context) ([]ClockEvent, error) {
	var rows []ClockEvent
	err := r.db.WithContext(ctx).
		Raw(`SELECT DISTINCT ON (mac_address) *
		     FROM clock_events
		     ORDER BY mac_address, timestamp DESC`).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) SumCompletedMinutes(ctx context.Context, deviceKey string, start, end time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Raw(`SELECT COALESCE(SUM(work_duration_minutes), 0)
		     FROM clock_events
		     WHERE mac_address = ? AND event_type = ?
		     AND timestamp >= ? AND timestamp < ?`,
			deviceKey, EventClockOut, start, end).
		Scan(&total).Error
	return total, err
}

func (r *repository) SummaryBetween(ctx context.Context, f Filter, start, end time.Time) ([]SummaryRow, error) {
	q := r.db.WithContext(ctx).
		Table("clock_events").
		Select(`employee_name,
			COALESCE(SUM(work_duration_minutes), 0) AS total_minutes,
			COUNT(DISTINCT DATE(timestamp AT TIME ZONE ?)) AS days_worked,
			COUNT(*) AS sessions`, r.tz).
		Where("event_type = ?", EventClockOut).
		Where("timestamp >= ? AND timestamp < ?", start, end)
	q = applyFilter(q, f)

	var rows []SummaryRow
	err := q.Group("employee_name").Order("employee_name").Scan(&rows).Error
	return rows, err
}

func (r *repository) DailyTotals(ctx context.Context, f Filter, start, end time.Time) ([]DailyRow, error) {
	q := r.db.WithContext(ctx).
		Table("clock_events").
		Select(`employee_name,
			DATE(timestamp AT TIME ZONE ?) AS work_date,
			COALESCE(SUM(work_duration_minutes), 0) AS total_minutes`, r.tz).
		Where("event_type = ?", EventClockOut).
		Where("timestamp >= ? AND timestamp < ?", start, end)
	q = applyFilter(q, f)

	var rows []DailyRow
	err := q.Group("employee_name, work_date").
		Order("employee_name, work_date").
		Scan(&rows).Error
	return rows, err
}

func (r *repository) DistinctEmployees(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).
		Table("clock_events").
		Distinct("employee_name").
		Order("employee_name").
		Pluck("employee_name", &names).Error
	return names, err
}

func (r *repository) RemoteEmployeeName(ctx context.Context, slackUserID string) (string, error) {
	var re RemoteEmployee
	err := r.db.WithContext(ctx).
		Where("slack_user_id = ?", slackUserID).
		First(&re).Error
	if err != nil {
		return "", err
	}
	return re.EmployeeName, nil
}

func (r *repository) UpsertRemoteEmployee(ctx context.Context, slackUserID, employeeName string) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slack_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"employee_name"}),
		}).
		Create(&RemoteEmployee{SlackUserID: slackUserID, EmployeeName: employeeName}).Error
}

func applyFilter(q *gorm.DB, f Filter) *gorm.DB {
	if f.Employee != "" {
		q = q.Where("employee_name = ?", f.Employee)
	}
	if f.EmployeeContains != "" {
		q = q.Where("employee_name ILIKE ?", "%"+f.EmployeeContains+"%")
	}
	return q
}
