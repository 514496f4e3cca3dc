package slackcmd

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
)

type fakeLedger struct {
	ledger.Service

	remoteEmployeeFn func(ctx context.Context, slackUserID string) (string, bool, error)
	registerFn       func(ctx context.Context, slackUserID, employeeName string) error
	clockInFn        func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockInResult, error)
	clockOutFn       func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockOutResult, error)
	statusFn         func(ctx context.Context, deviceKey string, now time.Time) (ledger.StatusResult, error)
}

func (f *fakeLedger) RemoteEmployee(ctx context.Context, slackUserID string) (string, bool, error) {
	return f.remoteEmployeeFn(ctx, slackUserID)
}
func (f *fakeLedger) RegisterRemoteEmployee(ctx context.Context, slackUserID, employeeName string) error {
	return f.registerFn(ctx, slackUserID, employeeName)
}
func (f *fakeLedger) ClockIn(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockInResult, error) {
	return f.clockInFn(ctx, deviceKey, employeeName, source, now)
}
func (f *fakeLedger) ClockOut(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockOutResult, error) {
	return f.clockOutFn(ctx, deviceKey, employeeName, source, now)
}
func (f *fakeLedger) Status(ctx context.Context, deviceKey string, now time.Time) (ledger.StatusResult, error) {
	return f.statusFn(ctx, deviceKey, now)
}

type fakeNotifier struct {
	sent []string
}

func (f *fakeNotifier) Send(ctx context.Context, text string) bool {
	f.sent = append(f.sent, text)
	return true
}

func TestClockIn_RegistersFirstTimeUser(t *testing.T) {
	var registeredName string
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "", false, nil
		},
		registerFn: func(ctx context.Context, id, name string) error {
			registeredName = name
			return nil
		},
		clockInFn: func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockInResult, error) {
			assert.Equal(t, "REMOTE-U123", deviceKey)
			assert.Equal(t, ledger.SourceSlack, source)
			return ledger.ClockInResult{Timestamp: now}, nil
		},
	}
	n := &fakeNotifier{}
	svc := NewService(fl, n, time.UTC)

	now := time.Date(2026, 8, 31, 9, 5, 0, 0, time.UTC)
	reply, err := svc.ClockIn(context.Background(), "U123", "jdoe", "Jane Doe", now)

	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", registeredName)
	assert.Equal(t, "Clocked in at 9:05 AM. Have a productive day!", reply)
	if assert.Len(t, n.sent, 1) {
		assert.Contains(t, n.sent[0], "Jane Doe clocked in at 9:05 AM (remote)")
	}
}

func TestClockIn_FallsBackToSlackUsername(t *testing.T) {
	var registeredName string
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "", false, nil
		},
		registerFn: func(ctx context.Context, id, name string) error {
			registeredName = name
			return nil
		},
		clockInFn: func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockInResult, error) {
			return ledger.ClockInResult{Timestamp: now}, nil
		},
	}
	svc := NewService(fl, &fakeNotifier{}, time.UTC)

	_, err := svc.ClockIn(context.Background(), "U123", "jdoe", "", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "jdoe", registeredName)
}

func TestClockIn_AlreadyClockedIn(t *testing.T) {
	since := time.Date(2026, 8, 31, 8, 15, 0, 0, time.UTC)
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "Jane Doe", true, nil
		},
		clockInFn: func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockInResult, error) {
			return ledger.ClockInResult{AlreadyClockedIn: true, Timestamp: since}, nil
		},
	}
	n := &fakeNotifier{}
	svc := NewService(fl, n, time.UTC)

	reply, err := svc.ClockIn(context.Background(), "U123", "jdoe", "", since.Add(time.Hour))

	assert.NoError(t, err)
	assert.Equal(t, "You're already clocked in since 8:15 AM.\nUse `/clockout` when you're done.", reply)
	assert.Empty(t, n.sent)
}

func TestClockOut_HappyPath(t *testing.T) {
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "Jane Doe", true, nil
		},
		clockOutFn: func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockOutResult, error) {
			return ledger.ClockOutResult{Timestamp: now, Minutes: 510}, nil
		},
	}
	n := &fakeNotifier{}
	svc := NewService(fl, n, time.UTC)

	now := time.Date(2026, 8, 31, 17, 30, 0, 0, time.UTC)
	reply, err := svc.ClockOut(context.Background(), "U123", now)

	assert.NoError(t, err)
	assert.Equal(t, "Clocked out at 5:30 PM.\nSession: 8h 30m", reply)
	if assert.Len(t, n.sent, 1) {
		assert.Contains(t, n.sent[0], "worked 8h 30m")
	}
}

func TestClockOut_NotRegistered(t *testing.T) {
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "", false, nil
		},
	}
	svc := NewService(fl, &fakeNotifier{}, time.UTC)

	reply, err := svc.ClockOut(context.Background(), "U123", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "You're not registered. Use `/clockin YourName` to register first.", reply)
}

func TestClockOut_NotClockedIn(t *testing.T) {
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "Jane Doe", true, nil
		},
		clockOutFn: func(ctx context.Context, deviceKey, employeeName, source string, now time.Time) (ledger.ClockOutResult, error) {
			return ledger.ClockOutResult{NotClockedIn: true}, nil
		},
	}
	n := &fakeNotifier{}
	svc := NewService(fl, n, time.UTC)

	reply, err := svc.ClockOut(context.Background(), "U123", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "You're not clocked in. Use `/clockin` first.", reply)
	assert.Empty(t, n.sent)
}

func TestHours(t *testing.T) {
	fl := &fakeLedger{
		remoteEmployeeFn: func(ctx context.Context, id string) (string, bool, error) {
			return "Jane Doe", true, nil
		},
		statusFn: func(ctx context.Context, deviceKey string, now time.Time) (ledger.StatusResult, error) {
			return ledger.StatusResult{
				ClockedIn:    true,
				TodayMinutes: 135,
				WeekMinutes:  510,
			}, nil
		},
	}
	svc := NewService(fl, &fakeNotifier{}, time.UTC)

	reply, err := svc.Hours(context.Background(), "U123", time.Now())

	assert.NoError(t, err)
	assert.Equal(t, "*Jane Doe*\nStatus: Currently clocked in\nToday: 2h 15m\nThis week: 8h 30m", reply)
}
