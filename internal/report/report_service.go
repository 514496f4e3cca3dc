package report

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ishuesiah/time-tracker-sevalla/internal/ledger"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/apperror"
	"github.com/ishuesiah/time-tracker-sevalla/internal/shared/timeutil"
)

// Report is a fully rendered weekly (or multi-week) timesheet report.
type Report struct {
	Start   time.Time
	End     time.Time
	Weeks   int
	Subject string
	Text    string
	HTML    string
	CSV     []byte
}

// SendResult tells the caller whether the email actually went out.
// A false Sent with a nil error means the report was built but delivery
// failed; delivery is never retried.
type SendResult struct {
	Sent       bool   `json:"sent"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Recipients int    `json:"recipients"`
}

type Service interface {
	Build(ctx context.Context, weeks int) (*Report, error)
	Send(ctx context.Context, weeks int, to []string) (*SendResult, error)
}

type service struct {
	events ledger.Repository
	mailer Mailer
	loc    *time.Location
	from   string
	to     []string
	logger *zap.Logger
}

func NewService(events ledger.Repository, mailer Mailer, loc *time.Location, from string, to []string) Service {
	return &service{
		events: events,
		mailer: mailer,
		loc:    loc,
		from:   from,
		to:     to,
		logger: zap.L().Named("report.service"),
	}
}

func (s *service) Build(ctx context.Context, weeks int) (*Report, error) {
	if weeks < 1 {
		weeks = 1
	}
	start, end := timeutil.ReportPeriod(time.Now().In(s.loc), weeks, s.loc)

	summary, err := s.events.SummaryBetween(ctx, ledger.Filter{}, start, end)
	if err != nil {
		return nil, apperror.Storage(err)
	}
	daily, err := s.events.DailyTotals(ctx, ledger.Filter{}, start, end)
	if err != nil {
		return nil, apperror.Storage(err)
	}

	label := "Weekly"
	if weeks > 1 {
		label = fmt.Sprintf("%d-Week", weeks)
	}
	subject := fmt.Sprintf("%s Timesheet Report: %s to %s",
		label, start.Format("Jan 2"), end.Format("Jan 2, 2006"))

	return &Report{
		Start:   start,
		End:     end,
		Weeks:   weeks,
		Subject: subject,
		Text:    renderText(summary, start, end),
		HTML:    renderHTML(summary, start, end),
		CSV:     renderCSV(summary, daily),
	}, nil
}

func (s *service) Send(ctx context.Context, weeks int, to []string) (*SendResult, error) {
	rep, err := s.Build(ctx, weeks)
	if err != nil {
		return nil, err
	}
	if len(to) == 0 {
		to = s.to
	}
	if len(to) == 0 {
		return nil, apperror.New(apperror.CodeInvalidInput, "No recipients configured", 400)
	}

	res := &SendResult{
		Start:      rep.Start.Format("2006-01-02"),
		End:        rep.End.Format("2006-01-02"),
		Recipients: len(to),
	}

	msg := Message{
		From:    s.from,
		To:      to,
		Subject: rep.Subject,
		Text:    rep.Text,
		HTML:    rep.HTML,
		Attachments: []Attachment{{
			Filename:    fmt.Sprintf("timesheet_%s_to_%s.csv", res.Start, res.End),
			ContentType: "text/csv",
			Content:     rep.CSV,
		}},
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		s.logger.Warn("report email delivery failed",
			zap.Error(err),
			zap.Int("recipients", len(to)))
		return res, nil
	}
	res.Sent = true
	s.logger.Info("report email sent",
		zap.String("start", res.Start),
		zap.String("end", res.End),
		zap.Int("recipients", len(to)))
	return res, nil
}

func renderText(summary []ledger.SummaryRow, start, end time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Timesheet Report\n%s to %s\n\n",
		start.Format("Monday, Jan 2, 2006"), end.Format("Monday, Jan 2, 2006"))
	if len(summary) == 0 {
		b.WriteString("No hours recorded for this period.\n")
		return b.String()
	}
	var totalMinutes int64
	for _, row := range summary {
		totalMinutes += row.TotalMinutes
		fmt.Fprintf(&b, "%-24s %8s  (%d days, %d sessions)\n",
			row.EmployeeName,
			ledger.FormatDuration(int(row.TotalMinutes)),
			row.DaysWorked,
			row.Sessions)
	}
	fmt.Fprintf(&b, "\nTotal: %s across %d employees\n",
		ledger.FormatDuration(int(totalMinutes)), len(summary))
	return b.String()
}

var htmlReportTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<body style="font-family: Arial, sans-serif; color: #333;">
<h2 style="color: #2d5016;">Timesheet Report</h2>
<p>{{.Start}} to {{.End}}</p>
{{if .Rows}}
<table border="0" cellpadding="8" cellspacing="0" style="border-collapse: collapse;">
<tr style="background: #f0f0f0;">
  <th align="left">Employee</th><th align="right">Hours</th>
  <th align="right">Days</th><th align="right">Sessions</th>
</tr>
{{range .Rows}}
<tr style="border-bottom: 1px solid #eee;">
  <td>{{.Name}}</td><td align="right">{{.Hours}}</td>
  <td align="right">{{.Days}}</td><td align="right">{{.Sessions}}</td>
</tr>
{{end}}
<tr style="background: #e8f5e9; font-weight: bold;">
  <td>Total</td><td align="right">{{.TotalHours}}</td><td></td><td></td>
</tr>
</table>
{{else}}
<p>No hours recorded for this period.</p>
{{end}}
<p style="color: #999; font-size: 12px;">Full daily breakdown attached as CSV.</p>
</body>
</html>`))

func renderHTML(summary []ledger.SummaryRow, start, end time.Time) string {
	type row struct {
		Name     string
		Hours    string
		Days     int
		Sessions int
	}
	var rows []row
	var totalMinutes int64
	for _, r := range summary {
		totalMinutes += r.TotalMinutes
		rows = append(rows, row{
			Name:     r.EmployeeName,
			Hours:    fmt.Sprintf("%.2f", ledger.RoundHours(r.TotalMinutes)),
			Days:     r.DaysWorked,
			Sessions: r.Sessions,
		})
	}
	var b strings.Builder
	_ = htmlReportTemplate.Execute(&b, struct {
		Start, End, TotalHours string
		Rows                   []row
	}{
		Start:      start.Format("Monday, Jan 2, 2006"),
		End:        end.Format("Monday, Jan 2, 2006"),
		TotalHours: fmt.Sprintf("%.2f", ledger.RoundHours(totalMinutes)),
		Rows:       rows,
	})
	return b.String()
}

func renderCSV(summary []ledger.SummaryRow, daily []ledger.DailyRow) []byte {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	_ = w.Write([]string{"Employee", "Date", "Minutes", "Hours"})
	for _, row := range daily {
		_ = w.Write([]string{
			row.EmployeeName,
			row.WorkDate.Format("2006-01-02"),
			strconv.FormatInt(row.TotalMinutes, 10),
			fmt.Sprintf("%.2f", ledger.RoundHours(row.TotalMinutes)),
		})
	}

	_ = w.Write(nil)
	_ = w.Write([]string{"TOTALS", "", "", ""})
	var totalMinutes int64
	for _, row := range summary {
		totalMinutes += row.TotalMinutes
		_ = w.Write([]string{
			row.EmployeeName, "",
			strconv.FormatInt(row.TotalMinutes, 10),
			fmt.Sprintf("%.2f", ledger.RoundHours(row.TotalMinutes)),
		})
	}
	_ = w.Write([]string{
		"ALL EMPLOYEES", "",
		strconv.FormatInt(totalMinutes, 10),
		fmt.Sprintf("%.2f", ledger.RoundHours(totalMinutes)),
	})
	w.Flush()
	return buf.Bytes()
}
