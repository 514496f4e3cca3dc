package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	lastEventFn           func(ctx context.Context, deviceKey string) (*ClockEvent, error)
	recordFn              func(ctx context.Context, e *ClockEvent) error
	updateEventFn         func(ctx context.Context, e *ClockEvent) error
	eventsBetweenFn       func(ctx context.Context, start, end time.Time) ([]ClockEvent, error)
	eventsForEmployeeFn   func(ctx context.Context, f Filter, start, end time.Time) ([]ClockEvent, error)
	lastEventOfTypeFn     func(ctx context.Context, employeeName, eventType string, start, end time.Time) (*ClockEvent, error)
	latestEventPerDevFn   func(ctx context.Context) ([]ClockEvent, error)
	sumCompletedFn        func(ctx context.Context, deviceKey string, start, end time.Time) (int64, error)
	summaryBetweenFn      func(ctx context.Context, f Filter, start, end time.Time) ([]SummaryRow, error)
	dailyTotalsFn         func(ctx context.Context, f Filter, start, end time.Time) ([]DailyRow, error)
	distinctEmployeesFn   func(ctx context.Context) ([]string, error)
	remoteEmployeeNameFn  func(ctx context.Context, slackUserID string) (string, error)
	upsertRemoteEmpFn     func(ctx context.Context, slackUserID, employeeName string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) Repository { return f }
func (f *fakeRepo) Record(ctx context.Context, e *ClockEvent) error { return f.recordFn(ctx, e) }
func (f *fakeRepo) LastEvent(ctx context.Context, deviceKey string) (*ClockEvent, error) {
	return f.lastEventFn(ctx, deviceKey)
}
func (f *fakeRepo) UpdateEvent(ctx context.Context, e *ClockEvent) error {
	return f.updateEventFn(ctx, e)
}
func (f *fakeRepo) EventsBetween(ctx context.Context, start, end time.Time) ([]ClockEvent, error) {
	return f.eventsBetweenFn(ctx, start, end)
}
func (f *fakeRepo) EventsForEmployee(ctx context.Context, fl Filter, start, end time.Time) ([]ClockEvent, error) {
	return f.eventsForEmployeeFn(ctx, fl, start, end)
}
func (f *fakeRepo) LastEventOfType(ctx context.Context, employeeName, eventType string, start, end time.Time) (*ClockEvent, error) {
	return f.lastEventOfTypeFn(ctx, employeeName, eventType, start, end)
}
func (f *fakeRepo) LatestEventPerDevice(ctx context.Context) ([]ClockEvent, error) {
	return f.latestEventPerDevFn(ctx)
}
func (f *fakeRepo) SumCompletedMinutes(ctx context.Context, deviceKey string, start, end time.Time) (int64, error) {
	return f.sumCompletedFn(ctx, deviceKey, start, end)
}
func (f *fakeRepo) SummaryBetween(ctx context.Context, fl Filter, start, end time.Time) ([]SummaryRow, error) {
	return f.summaryBetweenFn(ctx, fl, start, end)
}
func (f *fakeRepo) DailyTotals(ctx context.Context, fl Filter, start, end time.Time) ([]DailyRow, error) {
	return f.dailyTotalsFn(ctx, fl, start, end)
}
func (f *fakeRepo) DistinctEmployees(ctx context.Context) ([]string, error) {
	return f.distinctEmployeesFn(ctx)
}
func (f *fakeRepo) RemoteEmployeeName(ctx context.Context, slackUserID string) (string, error) {
	return f.remoteEmployeeNameFn(ctx, slackUserID)
}
func (f *fakeRepo) UpsertRemoteEmployee(ctx context.Context, slackUserID, employeeName string) error {
	return f.upsertRemoteEmpFn(ctx, slackUserID, employeeName)
}

func TestService_ClockIn_AppendsEvent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	var recorded *ClockEvent
	repo := &fakeRepo{
		lastEventFn: func(ctx context.Context, deviceKey string) (*ClockEvent, error) {
			return nil, gorm.ErrRecordNotFound
		},
		recordFn: func(ctx context.Context, e *ClockEvent) error {
			recorded = e
			return nil
		},
	}
	svc := NewService(db, repo, time.UTC)

	now := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	mock.ExpectBegin()
	mock.ExpectCommit()
	res, err := svc.ClockIn(context.Background(), "REMOTE-U123", "Jane Doe", SourceSlack, now)

	assert.NoError(t, err)
	assert.False(t, res.AlreadyClockedIn)
	assert.Equal(t, now, res.Timestamp)
	if assert.NotNil(t, recorded) {
		assert.Equal(t, "REMOTE-U123", recorded.DeviceKey)
		assert.Equal(t, EventClockIn, recorded.EventType)
		assert.Nil(t, recorded.WorkDurationMinutes)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockIn_IdempotentWhenAlreadyIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	original := time.Date(2026, 8, 31, 8, 15, 0, 0, time.UTC)
	repo := &fakeRepo{
		lastEventFn: func(ctx context.Context, deviceKey string) (*ClockEvent, error) {
			return &ClockEvent{EventType: EventClockIn, Timestamp: original}, nil
		},
		recordFn: func(ctx context.Context, e *ClockEvent) error {
			t.Fatal("no event should be recorded")
			return nil
		},
	}
	svc := NewService(db, repo, time.UTC)

	mock.ExpectBegin()
	mock.ExpectRollback()
	res, err := svc.ClockIn(context.Background(), "REMOTE-U123", "Jane Doe", SourceSlack, original.Add(time.Hour))

	assert.NoError(t, err)
	assert.True(t, res.AlreadyClockedIn)
	assert.Equal(t, original, res.Timestamp)
}

func TestService_ClockOut_ComputesFlooredMinutes(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	in := time.Date(2026, 8, 31, 8, 0, 0, 0, time.UTC)
	var recorded *ClockEvent
	repo := &fakeRepo{
		lastEventFn: func(ctx context.Context, deviceKey string) (*ClockEvent, error) {
			return &ClockEvent{EventType: EventClockIn, Timestamp: in}, nil
		},
		recordFn: func(ctx context.Context, e *ClockEvent) error {
			recorded = e
			return nil
		},
	}
	svc := NewService(db, repo, time.UTC)

	// 8h30m45s elapsed floors to 510 minutes.
	now := in.Add(8*time.Hour + 30*time.Minute + 45*time.Second)
	mock.ExpectBegin()
	mock.ExpectCommit()
	res, err := svc.ClockOut(context.Background(), "REMOTE-U123", "Jane Doe", SourceSlack, now)

	assert.NoError(t, err)
	assert.False(t, res.NotClockedIn)
	assert.Equal(t, 510, res.Minutes)
	if assert.NotNil(t, recorded) && assert.NotNil(t, recorded.WorkDurationMinutes) {
		assert.Equal(t, 510, *recorded.WorkDurationMinutes)
	}
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestService_ClockOut_RefusedWhenNotClockedIn(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer db.Close()

	repo := &fakeRepo{
		lastEventFn: func(ctx context.Context, deviceKey string) (*ClockEvent, error) {
			return &ClockEvent{EventType: EventClockOut}, nil
		},
		recordFn: func(ctx context.Context, e *ClockEvent) error {
			t.Fatal("no event should be recorded")
			return nil
		},
	}
	svc := NewService(db, repo, time.UTC)

	mock.ExpectBegin()
	mock.ExpectRollback()
	res, err := svc.ClockOut(context.Background(), "REMOTE-U123", "Jane Doe", SourceSlack, time.Now())

	assert.NoError(t, err)
	assert.True(t, res.NotClockedIn)
}

func TestService_Status_TopsUpOpenSession(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	now := time.Date(2026, 9, 2, 12, 0, 0, 0, time.UTC) // Wednesday
	since := now.Add(-90 * time.Minute)
	repo := &fakeRepo{
		sumCompletedFn: func(ctx context.Context, deviceKey string, start, end time.Time) (int64, error) {
			if start.Equal(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)) {
				return 120, nil // today
			}
			return 600, nil // week
		},
		lastEventFn: func(ctx context.Context, deviceKey string) (*ClockEvent, error) {
			return &ClockEvent{EventType: EventClockIn, Timestamp: since}, nil
		},
	}
	svc := NewService(db, repo, time.UTC)

	res, err := svc.Status(context.Background(), "REMOTE-U123", now)

	assert.NoError(t, err)
	assert.True(t, res.ClockedIn)
	assert.Equal(t, 90, res.OpenMinutes)
	assert.Equal(t, 120+90, res.TodayMinutes)
	assert.Equal(t, 600+90, res.WeekMinutes)
}

func TestService_Push_RejectsBadTimestamp(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	svc := NewService(db, &fakeRepo{}, time.UTC)
	err := svc.Push(context.Background(), PushEventRequest{
		DeviceKey:    "aa:bb:cc:dd:ee:ff",
		EmployeeName: "Jane Doe",
		EventType:    EventClockIn,
		Timestamp:    "31/08/2026 9am",
	})
	assert.Error(t, err)
}

func TestService_Push_StoresUTC(t *testing.T) {
	db, _, _ := sqlmock.New()
	defer db.Close()

	loc, _ := time.LoadLocation("America/Vancouver")
	var recorded *ClockEvent
	repo := &fakeRepo{
		recordFn: func(ctx context.Context, e *ClockEvent) error {
			recorded = e
			return nil
		},
	}
	svc := NewService(db, repo, loc)

	err := svc.Push(context.Background(), PushEventRequest{
		DeviceKey:    "aa:bb:cc:dd:ee:ff",
		EmployeeName: "Jane Doe",
		EventType:    EventClockIn,
		Timestamp:    "2026-08-31T09:00:00", // bare local time from the tracker
	})

	assert.NoError(t, err)
	if assert.NotNil(t, recorded) {
		assert.Equal(t, time.UTC, recorded.Timestamp.Location())
		// 09:00 PDT is 16:00 UTC.
		assert.Equal(t, 16, recorded.Timestamp.Hour())
		assert.Equal(t, SourceWiFi, recorded.Source)
	}
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "8h 30m", FormatDuration(510))
	assert.Equal(t, "45m", FormatDuration(45))
	assert.Equal(t, "0m", FormatDuration(0))
	assert.Equal(t, "0m", FormatDuration(-10))
	assert.Equal(t, "1h 0m", FormatDuration(60))
}

func TestRoundHours(t *testing.T) {
	assert.Equal(t, 8.5, RoundHours(510))
	assert.Equal(t, 0.75, RoundHours(45))
	assert.Equal(t, 0.0, RoundHours(0))
}

func TestParseEventTimestamp(t *testing.T) {
	loc, err := time.LoadLocation("America/Vancouver")
	assert.NoError(t, err)

	t.Run("rfc3339 with offset", func(t *testing.T) {
		got, err := parseEventTimestamp("2026-08-31T09:00:00-07:00", loc)
		assert.NoError(t, err)
		assert.Equal(t, 16, got.UTC().Hour())
	})

	t.Run("rfc3339 with fractional seconds", func(t *testing.T) {
		got, err := parseEventTimestamp("2026-08-31T09:00:00.123456-07:00", loc)
		assert.NoError(t, err)
		assert.Equal(t, 123456000, got.Nanosecond())
	})

	t.Run("bare local timestamps use the display zone", func(t *testing.T) {
		for _, s := range []string{"2026-08-31T09:00:00", "2026-08-31 09:00:00"} {
			got, err := parseEventTimestamp(s, loc)
			assert.NoError(t, err)
			assert.Equal(t, loc, got.Location())
			assert.Equal(t, 9, got.Hour())
		}
	})

	t.Run("garbage is rejected", func(t *testing.T) {
		_, err := parseEventTimestamp("yesterday at nine", loc)
		assert.Error(t, err)
	})
}
