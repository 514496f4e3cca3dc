package slackcmd

import (
	"context"
	"fmt"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
	"github.com/ishuesiah/time-tracker-sevalla/internal/notify"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/timeutil"
)

// deviceKeyFor gives remote sessions a synthetic ledger key so they share
// the device-key machinery with physical trackers.
func deviceKeyFor(slackUserID string) string {
	return "REMOTE-" + slackUserID
}

//go:generate mockgen -source=slackcmd_service.go -destination=mock/slackcmd_service_mock.go -package=mock
type Service interface {
	// ClockIn handles /clockin. A first-time user is registered under the
	// supplied text, falling back to their Slack username.
	ClockIn(ctx context.Context, userID, userName, text string, now time.Time) (string, error)
	// ClockOut handles /clockout.
	ClockOut(ctx context.Context, userID string, now time.Time) (string, error)
	// Hours handles /hours: today plus the Monday-anchored live week.
	Hours(ctx context.Context, userID string, now time.Time) (string, error)
}

type service struct {
	ledger   ledger.Service
	notifier notify.Notifier
	loc      *time.Location
}

func NewService(ledgerSvc ledger.Service, notifier notify.Notifier, loc *time.Location) Service {
	return &service{ledger: ledgerSvc, notifier: notifier, loc: loc}
}

func (s *service) ClockIn(ctx context.Context, userID, userName, text string, now time.Time) (string, error) {
	deviceKey := deviceKeyFor(userID)

	name, found, err := s.ledger.RemoteEmployee(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		name = text
		if name == "" {
			name = userName
		}
		if err := s.ledger.RegisterRemoteEmployee(ctx, userID, name); err != nil {
			return "", err
		}
	}

	res, err := s.ledger.ClockIn(ctx, deviceKey, name, ledger.SourceSlack, now)
	if err != nil {
		return "", err
	}
	if res.AlreadyClockedIn {
		return fmt.Sprintf("You're already clocked in since %s.\nUse `/clockout` when you're done.",
			timeutil.FormatClock(res.Timestamp, s.loc)), nil
	}

	s.notifier.Send(ctx, fmt.Sprintf("\U0001F7E2 %s clocked in at %s (remote)",
		name, timeutil.FormatClock(now, s.loc)))

	return fmt.Sprintf("Clocked in at %s. Have a productive day!",
		timeutil.FormatClock(now, s.loc)), nil
}

func (s *service) ClockOut(ctx context.Context, userID string, now time.Time) (string, error) {
	name, found, err := s.ledger.RemoteEmployee(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "You're not registered. Use `/clockin YourName` to register first.", nil
	}

	res, err := s.ledger.ClockOut(ctx, deviceKeyFor(userID), name, ledger.SourceSlack, now)
	if err != nil {
		return "", err
	}
	if res.NotClockedIn {
		return "You're not clocked in. Use `/clockin` first.", nil
	}

	worked := ledger.FormatDuration(res.Minutes)
	s.notifier.Send(ctx, fmt.Sprintf("\U0001F534 %s clocked out at %s (worked %s) (remote)",
		name, timeutil.FormatClock(now, s.loc), worked))

	return fmt.Sprintf("Clocked out at %s.\nSession: %s",
		timeutil.FormatClock(now, s.loc), worked), nil
}

func (s *service) Hours(ctx context.Context, userID string, now time.Time) (string, error) {
	name, found, err := s.ledger.RemoteEmployee(ctx, userID)
	if err != nil {
		return "", err
	}
	if !found {
		return "You're not registered. Use `/clockin YourName` to register first.", nil
	}

	status, err := s.ledger.Status(ctx, deviceKeyFor(userID), now)
	if err != nil {
		return "", err
	}

	state := "Not clocked in"
	if status.ClockedIn {
		state = "Currently clocked in"
	}

	return fmt.Sprintf("*%s*\nStatus: %s\nToday: %s\nThis week: %s",
		name, state,
		ledger.FormatDuration(status.TodayMinutes),
		ledger.FormatDuration(status.WeekMinutes)), nil
}
