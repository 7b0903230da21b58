package notify

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/vkarpov/plantmind/internal/models"
	"github.com/vkarpov/plantmind/internal/scheduling"
)

// cronParser uses standard 5-field cron expressions (minute, hour, dom, month, dow).
var cronParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// EntrySource supplies incomplete schedule entries in a date range.
type EntrySource interface {
	Upcoming(start, end time.Time) ([]models.ScheduleEntry, error)
}

// Digester periodically sends a digest of upcoming diagnostics.
type Digester struct {
	source   EntrySource
	notifier Notifier
	days     int

	now func() time.Time
}

// NewDigester builds a Digester covering the next days of the schedule.
func NewDigester(source EntrySource, notifier Notifier, days int) *Digester {
	return &Digester{
		source:   source,
		notifier: notifier,
		days:     days,
		now:      time.Now,
	}
}

// SendDigest builds and delivers one digest. Nothing is sent when no
// diagnostics fall in the window.
func (d *Digester) SendDigest(ctx context.Context) error {
	start := scheduling.Date(d.now())
	end := start.AddDate(0, 0, d.days-1)

	entries, err := d.source.Upcoming(start, end)
	if err != nil {
		return fmt.Errorf("notify: load upcoming entries: %w", err)
	}
	if len(entries) == 0 {
		return nil
	}
	return d.notifier.Send(ctx, BuildDigest(entries, start, end))
}

// Run sends a digest on every fire of the cron expression until ctx is done.
func (d *Digester) Run(ctx context.Context, expr string) error {
	sched, err := cronParser.Parse(expr)
	if err != nil {
		return fmt.Errorf("notify: parse digest cron %q: %w", expr, err)
	}

	for {
		next := sched.Next(time.Now())
		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil
		case <-timer.C:
			if err := d.SendDigest(ctx); err != nil {
				log.Printf("notify: digest failed: %v", err)
			}
		}
	}
}

// BuildDigest formats upcoming entries as a chat message, grouped by day.
// Entries are assumed ordered by date.
func BuildDigest(entries []models.ScheduleEntry, start, end time.Time) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "*Upcoming diagnostics %s — %s*\n",
		start.Format("Jan 2"), end.Format("Jan 2"))

	var day string
	for _, e := range entries {
		d := e.ScheduledDate.Format("Mon Jan 2")
		if d != day {
			day = d
			fmt.Fprintf(&sb, "\n%s\n", day)
		}
		line := "• " + e.Equipment
		if e.Area != "" {
			line += " (" + e.Area + ")"
		}
		if e.DiagnosticType.Name != "" {
			line += ": " + e.DiagnosticType.Name
		}
		fmt.Fprintf(&sb, "%s, %d min\n", line, e.DurationMinutes)
	}
	return strings.TrimRight(sb.String(), "\n")
}
