package dashboard

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/ishuesiah/time-tracker-sevalla/internal/audit"
	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/apperror"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/contextutil"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/timeutil"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

//go:generate mockgen -source=dashboard_service.go -destination=mock/dashboard_service_mock.go -package=mock
type Service interface {
	Data(ctx context.Context, sess Session, employee string, start, end time.Time) (SummaryData, error)
	Today(ctx context.Context, sess Session, now time.Time) ([]ActivityRow, error)
	Day(ctx context.Context, sess Session, date time.Time) ([]DayEvent, error)
	Entry(ctx context.Context, sess Session, employee string, date time.Time) (DayEntry, error)
	Adjust(ctx context.Context, sess Session, req AdjustRequest) (AdjustResult, error)
	ExportCSV(ctx context.Context, sess Session, employee string, start, end time.Time) ([]byte, error)
	ExportXLSX(ctx context.Context, sess Session, employee string, start, end time.Time) ([]byte, error)
	AuditLog(ctx context.Context, limit int) ([]audit.EntryResponse, error)
	DeleteAuditEntry(ctx context.Context, id int64) error
}

type service struct {
	db     *sql.DB
	events ledger.Repository
	audits audit.Repository
	loc    *time.Location
	logger *zap.Logger
}

func NewService(db *sql.DB, events ledger.Repository, audits audit.Repository, loc *time.Location) Service {
	return &service{
		db:     db,
		events: events,
		audits: audits,
		loc:    loc,
		logger: zap.L().Named("dashboard.service"),
	}
}

func (s *service) Data(ctx context.Context, sess Session, employee string, start, end time.Time) (SummaryData, error) {
	exact, contains := sess.scopeFor(employee)
	filter := ledger.Filter{Employee: exact, EmployeeContains: contains}

	rows, err := s.events.SummaryBetween(ctx, filter, start, end)
	if err != nil {
		return SummaryData{}, err
	}

	data := SummaryData{
		Summary: make([]ledger.SummaryEntry, len(rows)),
		Period: PeriodResponse{
			Start: start.In(s.loc).Format("2006-01-02"),
			End:   end.In(s.loc).AddDate(0, 0, -1).Format("2006-01-02"),
		},
	}
	var totalMinutes int64
	for i, r := range rows {
		data.Summary[i] = ledger.SummaryEntry{
			EmployeeName: r.EmployeeName,
			TotalMinutes: r.TotalMinutes,
			TotalHours:   ledger.RoundHours(r.TotalMinutes),
			DaysWorked:   r.DaysWorked,
			Sessions:     r.Sessions,
		}
		totalMinutes += r.TotalMinutes
		data.TotalSessions += r.Sessions
	}
	data.TotalHours = ledger.RoundHours(totalMinutes)

	names, err := s.events.DistinctEmployees(ctx)
	if err != nil {
		return SummaryData{}, err
	}
	if sess.IsAdmin {
		data.AllEmployees = names
	} else {
		identity := DerivedIdentity(sess.Email)
		for _, n := range names {
			if NameInScope(n, identity) {
				data.AllEmployees = append(data.AllEmployees, n)
			}
		}
	}
	if data.AllEmployees == nil {
		data.AllEmployees = []string{}
	}
	return data, nil
}

func (s *service) Today(ctx context.Context, sess Session, now time.Time) ([]ActivityRow, error) {
	exact, contains := sess.scopeFor("")
	filter := ledger.Filter{Employee: exact, EmployeeContains: contains}
	dayStart, dayEnd := timeutil.DayRange(now, s.loc)

	completed, err := s.events.SummaryBetween(ctx, filter, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}

	rowsByName := make(map[string]*ActivityRow)
	for _, c := range completed {
		rowsByName[c.EmployeeName] = &ActivityRow{
			EmployeeName:     c.EmployeeName,
			CompletedMinutes: int(c.TotalMinutes),
		}
	}

	latest, err := s.events.LatestEventPerDevice(ctx)
	if err != nil {
		return nil, err
	}
	identity := DerivedIdentity(sess.Email)
	for _, e := range latest {
		if e.EventType != ledger.EventClockIn {
			continue
		}
		if !sess.IsAdmin && !NameInScope(e.EmployeeName, identity) {
			continue
		}
		row, ok := rowsByName[e.EmployeeName]
		if !ok {
			row = &ActivityRow{EmployeeName: e.EmployeeName}
			rowsByName[e.EmployeeName] = row
		}
		open := int(now.Sub(e.Timestamp) / time.Minute)
		if open < 0 {
			open = 0
		}
		since := timeutil.FormatClock(e.Timestamp, s.loc)
		row.ClockedIn = true
		row.Since = &since
		row.OpenMinutes += open
	}

	out := make([]ActivityRow, 0, len(rowsByName))
	for _, row := range rowsByName {
		row.TotalMinutes = row.CompletedMinutes + row.OpenMinutes
		row.TotalDisplay = ledger.FormatDuration(row.TotalMinutes)
		out = append(out, *row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EmployeeName < out[j].EmployeeName })
	return out, nil
}

func (s *service) Day(ctx context.Context, sess Session, date time.Time) ([]DayEvent, error) {
	exact, contains := sess.scopeFor("")
	filter := ledger.Filter{Employee: exact, EmployeeContains: contains}
	dayStart, dayEnd := timeutil.DayRange(date, s.loc)

	events, err := s.events.EventsForEmployee(ctx, filter, dayStart, dayEnd)
	if err != nil {
		return nil, err
	}
	out := make([]DayEvent, len(events))
	for i, e := range events {
		out[i] = DayEvent{
			ID:                  e.ID,
			EmployeeName:        e.EmployeeName,
			EventType:           e.EventType,
			Time:                timeutil.FormatClock(e.Timestamp, s.loc),
			WorkDurationMinutes: e.WorkDurationMinutes,
			Source:              e.Source,
		}
	}
	return out, nil
}

func (s *service) Entry(ctx context.Context, sess Session, employee string, date time.Time) (DayEntry, error) {
	if !sess.IsAdmin && !NameInScope(employee, DerivedIdentity(sess.Email)) {
		return DayEntry{}, apperror.ErrForbidden
	}
	dayStart, dayEnd := timeutil.DayRange(date, s.loc)

	entry := DayEntry{
		Employee: employee,
		Date:     dayStart.Format("2006-01-02"),
	}
	if in, err := s.lastEventOfType(ctx, s.events, employee, ledger.EventClockIn, dayStart, dayEnd); err != nil {
		return DayEntry{}, err
	} else if in != nil {
		v := in.Timestamp.In(s.loc).Format("15:04")
		entry.ClockIn = &v
	}
	if out, err := s.lastEventOfType(ctx, s.events, employee, ledger.EventClockOut, dayStart, dayEnd); err != nil {
		return DayEntry{}, err
	} else if out != nil {
		v := out.Timestamp.In(s.loc).Format("15:04")
		entry.ClockOut = &v
	}
	return entry, nil
}

// Adjust applies a manual correction for one employee/day. Each provided
// side updates that day's most recent event of the matching type in place,
// or inserts a one-sided event when none exists. Validation happens before
// any write: a rejected adjustment leaves no ledger row and no audit entry.
func (s *service) Adjust(ctx context.Context, sess Session, req AdjustRequest) (AdjustResult, error) {
	if req.ClockIn == nil && req.ClockOut == nil {
		return AdjustResult{}, apperror.New(apperror.CodeInvalidInput, "Provide a clock-in or clock-out time", http.StatusBadRequest)
	}
	if !sess.IsAdmin && !NameInScope(req.Employee, DerivedIdentity(sess.Email)) {
		return AdjustResult{}, apperror.ErrForbidden
	}

	day, err := time.ParseInLocation("2006-01-02", req.Date, s.loc)
	if err != nil {
		return AdjustResult{}, apperror.New(apperror.CodeInvalidInput, "Invalid date format", http.StatusBadRequest)
	}
	dayStart, dayEnd := timeutil.DayRange(day, s.loc)

	var newIn, newOut *time.Time
	if req.ClockIn != nil {
		t, err := parseDayTime(dayStart, *req.ClockIn, s.loc)
		if err != nil {
			return AdjustResult{}, apperror.New(apperror.CodeInvalidInput, "Invalid clock-in time", http.StatusBadRequest)
		}
		newIn = &t
	}
	if req.ClockOut != nil {
		t, err := parseDayTime(dayStart, *req.ClockOut, s.loc)
		if err != nil {
			return AdjustResult{}, apperror.New(apperror.CodeInvalidInput, "Invalid clock-out time", http.StatusBadRequest)
		}
		newOut = &t
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AdjustResult{}, err
	}
	defer tx.Rollback()

	events := s.events.WithTx(tx)
	audits := s.audits.WithTx(tx)

	existIn, err := s.lastEventOfType(ctx, events, req.Employee, ledger.EventClockIn, dayStart, dayEnd)
	if err != nil {
		return AdjustResult{}, err
	}
	existOut, err := s.lastEventOfType(ctx, events, req.Employee, ledger.EventClockOut, dayStart, dayEnd)
	if err != nil {
		return AdjustResult{}, err
	}

	// Duration for the clock-out side is computed against the day's
	// effective clock-in: the new one when supplied, else the recorded one.
	var effIn *time.Time
	if newIn != nil {
		effIn = newIn
	} else if existIn != nil {
		t := existIn.Timestamp
		effIn = &t
	}

	var minutes *int
	if newOut != nil && effIn != nil {
		m := int(newOut.Sub(*effIn) / time.Minute)
		if m < 0 {
			return AdjustResult{}, apperror.New(apperror.CodeInvalidInput,
				"Clock-out cannot be earlier than clock-in", http.StatusBadRequest)
		}
		minutes = &m
	}

	res := AdjustResult{Employee: req.Employee, Date: req.Date}
	now := time.Now().UTC()

	if newIn != nil {
		if err := s.applySide(ctx, events, audits, sess, req, existIn, *newIn, ledger.EventClockIn, nil, now); err != nil {
			return AdjustResult{}, err
		}
		v := newIn.In(s.loc).Format("15:04")
		res.ClockIn = &v
	}
	if newOut != nil {
		if err := s.applySide(ctx, events, audits, sess, req, existOut, *newOut, ledger.EventClockOut, minutes, now); err != nil {
			return AdjustResult{}, err
		}
		v := newOut.In(s.loc).Format("15:04")
		res.ClockOut = &v
		res.Minutes = minutes
	}

	if err := tx.Commit(); err != nil {
		return AdjustResult{}, err
	}

	s.logger.Info("manual adjustment applied",
		zap.String("request_id", contextutil.GetRequestID(ctx)),
		zap.String("employee", req.Employee),
		zap.String("date", req.Date),
		zap.String("actor", sess.Email),
	)
	return res, nil
}

// applySide updates the existing event or inserts a one-sided one, and
// records exactly one audit entry for the change.
func (s *service) applySide(
	ctx context.Context,
	events ledger.Repository,
	audits audit.Repository,
	sess Session,
	req AdjustRequest,
	existing *ledger.ClockEvent,
	newTime time.Time,
	eventType string,
	minutes *int,
	now time.Time,
) error {
	var oldValue *string
	newValue := newTime.In(s.loc).Format(time.RFC3339)

	if existing != nil {
		old := existing.Timestamp.In(s.loc).Format(time.RFC3339)
		oldValue = &old

		existing.Timestamp = newTime.UTC()
		if eventType == ledger.EventClockOut {
			existing.WorkDurationMinutes = minutes
		}
		if err := events.UpdateEvent(ctx, existing); err != nil {
			return err
		}
	} else {
		if err := events.Record(ctx, &ledger.ClockEvent{
			DeviceKey:           "DASHBOARD-" + req.Employee,
			EmployeeName:        req.Employee,
			EventType:           eventType,
			Timestamp:           newTime.UTC(),
			WorkDurationMinutes: minutes,
			Source:              ledger.SourceDashboard,
		}); err != nil {
			return err
		}
	}

	details := fmt.Sprintf("%s adjusted for %s", eventType, req.Date)
	if req.Note != "" {
		details += ": " + req.Note
	}
	return audits.Create(ctx, &audit.Entry{
		Timestamp:    now,
		EmployeeName: req.Employee,
		Action:       "adjust_" + eventType,
		Details:      details,
		OldValue:     oldValue,
		NewValue:     &newValue,
		ActorEmail:   sess.Email,
	})
}

func (s *service) ExportCSV(ctx context.Context, sess Session, employee string, start, end time.Time) ([]byte, error) {
	rows, err := s.dailyRows(ctx, sess, employee, start, end)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.WriteString("Employee,Date,Minutes,Hours\n")
	totals := make(map[string]int64)
	names := []string{}
	for _, r := range rows {
		fmt.Fprintf(&b, "%s,%s,%d,%.2f\n",
			r.EmployeeName, r.WorkDate.Format("2006-01-02"), r.TotalMinutes, float64(r.TotalMinutes)/60)
		if _, ok := totals[r.EmployeeName]; !ok {
			names = append(names, r.EmployeeName)
		}
		totals[r.EmployeeName] += r.TotalMinutes
	}
	b.WriteString("\nTOTALS\n")
	sort.Strings(names)
	for _, n := range names {
		fmt.Fprintf(&b, "%s,TOTAL,%d,%.2f\n", n, totals[n], float64(totals[n])/60)
	}
	return []byte(b.String()), nil
}

func (s *service) ExportXLSX(ctx context.Context, sess Session, employee string, start, end time.Time) ([]byte, error) {
	rows, err := s.dailyRows(ctx, sess, employee, start, end)
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Timesheet"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{"Employee", "Date", "Minutes", "Hours"}
	for i, hd := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, hd)
	}
	for i, r := range rows {
		values := []interface{}{
			r.EmployeeName,
			r.WorkDate.Format("2006-01-02"),
			r.TotalMinutes,
			float64(r.TotalMinutes) / 60,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *service) AuditLog(ctx context.Context, limit int) ([]audit.EntryResponse, error) {
	entries, err := s.audits.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]audit.EntryResponse, len(entries))
	for i, e := range entries {
		out[i] = audit.EntryResponse{
			ID:           e.ID,
			Timestamp:    e.Timestamp.In(s.loc).Format(time.RFC3339),
			EmployeeName: e.EmployeeName,
			Action:       e.Action,
			Details:      e.Details,
			OldValue:     e.OldValue,
			NewValue:     e.NewValue,
			ActorEmail:   e.ActorEmail,
		}
	}
	return out, nil
}

func (s *service) DeleteAuditEntry(ctx context.Context, id int64) error {
	err := s.audits.Delete(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperror.ErrNotFound
	}
	return err
}

func (s *service) dailyRows(ctx context.Context, sess Session, employee string, start, end time.Time) ([]ledger.DailyRow, error) {
	exact, contains := sess.scopeFor(employee)
	return s.events.DailyTotals(ctx, ledger.Filter{Employee: exact, EmployeeContains: contains}, start, end)
}

func (s *service) lastEventOfType(ctx context.Context, events ledger.Repository, employee, eventType string, start, end time.Time) (*ledger.ClockEvent, error) {
	e, err := events.LastEventOfType(ctx, employee, eventType, start, end)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return e, nil
}

// parseDayTime combines a local midnight with an "HH:MM" wall time.
func parseDayTime(dayStart time.Time, hhmm string, loc *time.Location) (time.Time, error) {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(dayStart.Year(), dayStart.Month(), dayStart.Day(),
		t.Hour(), t.Minute(), 0, 0, loc), nil
}
