package report

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
)

type fakeEventRepo struct {
	ledger.Repository

	summary []ledger.SummaryRow
	daily   []ledger.DailyRow

	gotStart, gotEnd time.Time
}

func (f *fakeEventRepo) WithTx(tx *sql.Tx) ledger.Repository { return f }
func (f *fakeEventRepo) SummaryBetween(ctx context.Context, fl ledger.Filter, start, end time.Time) ([]ledger.SummaryRow, error) {
	f.gotStart, f.gotEnd = start, end
	return f.summary, nil
}
func (f *fakeEventRepo) DailyTotals(ctx context.Context, fl ledger.Filter, start, end time.Time) ([]ledger.DailyRow, error) {
	return f.daily, nil
}

type fakeMailer struct {
	sent []Message
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg Message) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

func sampleRepo() *fakeEventRepo {
	return &fakeEventRepo{
		summary: []ledger.SummaryRow{
			{EmployeeName: "Jane Doe", TotalMinutes: 2400, DaysWorked: 5, Sessions: 5},
			{EmployeeName: "John Smith", TotalMinutes: 510, DaysWorked: 2, Sessions: 3},
		},
		daily: []ledger.DailyRow{
			{EmployeeName: "Jane Doe", WorkDate: time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), TotalMinutes: 480},
			{EmployeeName: "Jane Doe", WorkDate: time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC), TotalMinutes: 480},
		},
	}
}

func TestBuild_RendersAllFormats(t *testing.T) {
	repo := sampleRepo()
	svc := NewService(repo, &fakeMailer{}, time.UTC, "reports@example.com", nil)

	rep, err := svc.Build(context.Background(), 1)

	assert.NoError(t, err)
	// Sunday-end anchor: the window always closes on a Sunday.
	assert.Equal(t, time.Sunday, rep.End.Weekday())
	assert.Equal(t, 7*24*time.Hour-time.Nanosecond, rep.End.Sub(rep.Start))
	assert.Equal(t, repo.gotStart, rep.Start)

	assert.Contains(t, rep.Subject, "Weekly Timesheet Report")
	assert.Contains(t, rep.Text, "Jane Doe")
	assert.Contains(t, rep.Text, "40h 0m")
	assert.Contains(t, rep.Text, "Total: 48h 30m across 2 employees")
	assert.Contains(t, rep.HTML, "<td>Jane Doe</td>")

	csv := string(rep.CSV)
	assert.True(t, strings.HasPrefix(csv, "Employee,Date,Minutes,Hours\n"))
	assert.Contains(t, csv, "Jane Doe,2026-08-24,480,8.00\n")
	assert.Contains(t, csv, "TOTALS")
	assert.Contains(t, csv, "ALL EMPLOYEES,,2910,48.50\n")
}

func TestBuild_MultiWeekSubject(t *testing.T) {
	svc := NewService(sampleRepo(), &fakeMailer{}, time.UTC, "reports@example.com", nil)

	rep, err := svc.Build(context.Background(), 2)

	assert.NoError(t, err)
	assert.Contains(t, rep.Subject, "2-Week Timesheet Report")
	assert.Equal(t, 14*24*time.Hour-time.Nanosecond, rep.End.Sub(rep.Start))
}

func TestSend_AttachesCSV(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(sampleRepo(), mailer, time.UTC, "reports@example.com", []string{"boss@example.com"})

	res, err := svc.Send(context.Background(), 1, nil)

	assert.NoError(t, err)
	assert.True(t, res.Sent)
	assert.Equal(t, 1, res.Recipients)
	if assert.Len(t, mailer.sent, 1) {
		msg := mailer.sent[0]
		assert.Equal(t, []string{"boss@example.com"}, msg.To)
		if assert.Len(t, msg.Attachments, 1) {
			assert.Equal(t, "text/csv", msg.Attachments[0].ContentType)
			assert.Contains(t, msg.Attachments[0].Filename, "timesheet_")
		}
	}
}

func TestSend_DeliveryFailureIsBoolean(t *testing.T) {
	mailer := &fakeMailer{err: errors.New("ses: MessageRejected")}
	svc := NewService(sampleRepo(), mailer, time.UTC, "reports@example.com", []string{"boss@example.com"})

	res, err := svc.Send(context.Background(), 1, nil)

	assert.NoError(t, err)
	assert.False(t, res.Sent)
}

func TestSend_RecipientOverride(t *testing.T) {
	mailer := &fakeMailer{}
	svc := NewService(sampleRepo(), mailer, time.UTC, "reports@example.com", []string{"boss@example.com"})

	res, err := svc.Send(context.Background(), 1, []string{"a@example.com", "b@example.com"})

	assert.NoError(t, err)
	assert.Equal(t, 2, res.Recipients)
	assert.Equal(t, []string{"a@example.com", "b@example.com"}, mailer.sent[0].To)
}

func TestSend_NoRecipients(t *testing.T) {
	svc := NewService(sampleRepo(), &fakeMailer{}, time.UTC, "reports@example.com", nil)

	_, err := svc.Send(context.Background(), 1, nil)
	assert.Error(t, err)
}

func TestBuildRawMessage(t *testing.T) {
	raw, err := buildRawMessage(Message{
		From:    "reports@example.com",
		To:      []string{"boss@example.com"},
		Subject: "Weekly Timesheet Report",
		Text:    "plain body",
		HTML:    "<p>html body</p>",
		Attachments: []Attachment{{
			Filename:    "timesheet.csv",
			ContentType: "text/csv",
			Content:     []byte("Employee,Date\n"),
		}},
	})

	assert.NoError(t, err)
	s := raw.String()
	assert.Contains(t, s, "From: reports@example.com\r\n")
	assert.Contains(t, s, "Subject: Weekly Timesheet Report\r\n")
	assert.Contains(t, s, "multipart/mixed")
	assert.Contains(t, s, "multipart/alternative")
	assert.Contains(t, s, `attachment; filename="timesheet.csv"`)
}
