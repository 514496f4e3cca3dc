package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/apperror"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/timeutil"

	"gorm.io/gorm"
)

//go:generate mockgen -source=ledger_service.go -destination=mock/ledger_service_mock.go -package=mock
type Service interface {
	// Push records an event exactly as supplied by the machine tracker.
	// The ledger is permissive: no alternation or uniqueness checks.
	Push(ctx context.Context, req PushEventRequest) error

	// ClockIn appends a clock_in unless the device's last event is already a
	// clock_in, in which case it is an idempotent no-op carrying the
	// original clock-in time.
	ClockIn(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ClockInResult, error)

	// ClockOut appends a clock_out with the elapsed whole minutes since the
	// last clock_in, or refuses when the device is not clocked in.
	ClockOut(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ClockOutResult, error)

	// Status reports today's and this week's minutes (Monday-anchored live
	// window), topped up with the open session when one is running.
	Status(ctx context.Context, deviceKey string, now time.Time) (StatusResult, error)

	Timesheet(ctx context.Context, start, end time.Time) ([]EventResponse, error)
	Summary(ctx context.Context, start, end time.Time) ([]SummaryEntry, error)

	RemoteEmployee(ctx context.Context, slackUserID string) (string, bool, error)
	RegisterRemoteEmployee(ctx context.Context, slackUserID, employeeName string) error
}

type service struct {
	db   *sql.DB
	repo Repository
	loc  *time.Location
}

func NewService(db *sql.DB, repo Repository, loc *time.Location) Service {
	return &service{db: db, repo: repo, loc: loc}
}

func (s *service) Push(ctx context.Context, req PushEventRequest) error {
	ts, err := parseEventTimestamp(req.Timestamp, s.loc)
	if err != nil {
		return apperror.New(apperror.CodeInvalidInput, "Invalid timestamp format", http.StatusBadRequest)
	}

	return s.repo.Record(ctx, &ClockEvent{
		DeviceKey:           req.DeviceKey,
		EmployeeName:        req.EmployeeName,
		EventType:           req.EventType,
		Timestamp:           ts.UTC(),
		WorkDurationMinutes: req.WorkDurationMinutes,
		Source:              SourceWiFi,
	})
}

func (s *service) ClockIn(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ClockInResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClockInResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	last, err := qtx.LastEvent(ctx, deviceKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ClockInResult{}, err
	}
	if last != nil && last.EventType == EventClockIn {
		// Already clocked in: no new row, surface the original time.
		return ClockInResult{AlreadyClockedIn: true, Timestamp: last.Timestamp}, nil
	}

	if err := qtx.Record(ctx, &ClockEvent{
		DeviceKey:    deviceKey,
		EmployeeName: employeeName,
		EventType:    EventClockIn,
		Timestamp:    now.UTC(),
		Source:       source,
	}); err != nil {
		return ClockInResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ClockInResult{}, err
	}
	return ClockInResult{Timestamp: now}, nil
}

func (s *service) ClockOut(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ClockOutResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ClockOutResult{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	last, err := qtx.LastEvent(ctx, deviceKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return ClockOutResult{}, err
	}
	if last == nil || last.EventType != EventClockIn {
		return ClockOutResult{NotClockedIn: true}, nil
	}

	minutes := elapsedMinutes(last.Timestamp, now)
	if err := qtx.Record(ctx, &ClockEvent{
		DeviceKey:           deviceKey,
		EmployeeName:        employeeName,
		EventType:           EventClockOut,
		Timestamp:           now.UTC(),
		WorkDurationMinutes: &minutes,
		Source:              source,
	}); err != nil {
		return ClockOutResult{}, err
	}
	if err := tx.Commit(); err != nil {
		return ClockOutResult{}, err
	}
	return ClockOutResult{Timestamp: now, Minutes: minutes}, nil
}

func (s *service) Status(ctx context.Context, deviceKey string, now time.Time) (StatusResult, error) {
	dayStart, dayEnd := timeutil.DayRange(now, s.loc)
	weekStart, weekEnd := timeutil.WeekRange(now, s.loc)

	today, err := s.repo.SumCompletedMinutes(ctx, deviceKey, dayStart, dayEnd)
	if err != nil {
		return StatusResult{}, err
	}
	week, err := s.repo.SumCompletedMinutes(ctx, deviceKey, weekStart, weekEnd)
	if err != nil {
		return StatusResult{}, err
	}

	res := StatusResult{
		TodayMinutes: int(today),
		WeekMinutes:  int(week),
	}

	last, err := s.repo.LastEvent(ctx, deviceKey)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return StatusResult{}, err
	}
	if last != nil && last.EventType == EventClockIn {
		open := elapsedMinutes(last.Timestamp, now)
		res.ClockedIn = true
		res.Since = last.Timestamp
		res.OpenMinutes = open
		// Completed sums alone undercount someone currently working.
		res.TodayMinutes += open
		res.WeekMinutes += open
	}
	return res, nil
}

func (s *service) Timesheet(ctx context.Context, start, end time.Time) ([]EventResponse, error) {
	rows, err := s.repo.EventsBetween(ctx, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]EventResponse, len(rows))
	for i, e := range rows {
		out[i] = EventResponse{
			EmployeeName:        e.EmployeeName,
			EventType:           e.EventType,
			Timestamp:           e.Timestamp.In(s.loc).Format(time.RFC3339),
			WorkDurationMinutes: e.WorkDurationMinutes,
			Source:              e.Source,
		}
	}
	return out, nil
}

func (s *service) Summary(ctx context.Context, start, end time.Time) ([]SummaryEntry, error) {
	rows, err := s.repo.SummaryBetween(ctx, Filter{}, start, end)
	if err != nil {
		return nil, err
	}
	out := make([]SummaryEntry, len(rows))
	for i, r := range rows {
		out[i] = SummaryEntry{
			EmployeeName: r.EmployeeName,
			TotalMinutes: r.TotalMinutes,
			TotalHours:   RoundHours(r.TotalMinutes),
			DaysWorked:   r.DaysWorked,
			Sessions:     r.Sessions,
		}
	}
	return out, nil
}

func (s *service) RemoteEmployee(ctx context.Context, slackUserID string) (string, bool, error) {
	name, err := s.repo.RemoteEmployeeName(ctx, slackUserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return name, true, nil
}

func (s *service) RegisterRemoteEmployee(ctx context.Context, slackUserID, employeeName string) error {
	return s.repo.UpsertRemoteEmployee(ctx, slackUserID, employeeName)
}

// elapsedMinutes floors the span to whole minutes and never goes negative.
func elapsedMinutes(from, to time.Time) int {
	if to.Before(from) {
		return 0
	}
	return int(to.Sub(from) / time.Minute)
}

// FormatDuration renders minutes as "8h 30m", or "45m" under an hour.
// Negative input is clamped to zero.
func FormatDuration(minutes int) string {
	if minutes < 0 {
		minutes = 0
	}
	h := minutes / 60
	m := minutes % 60
	if h > 0 {
		return fmt.Sprintf("%dh %dm", h, m)
	}
	return fmt.Sprintf("%dm", m)
}

// RoundHours converts minutes to hours rounded to two decimals.
func RoundHours(minutes int64) float64 {
	return math.Round(float64(minutes)/60*100) / 100
}

func parseEventTimestamp(s string, loc *time.Location) (time.Time, error) {
	// time.RFC3339 already accepts fractional seconds.
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	// Bare local timestamps from the tracker carry no zone; interpret them
	// in the configured display zone.
	for _, layout := range []string{"2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
