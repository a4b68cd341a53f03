package jobs

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
)

func nextFiring(t *testing.T, schedule string, from time.Time) time.Time {
	t.Helper()
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		t.Fatalf("parse %q: %v", schedule, err)
	}
	return sched.Next(from)
}

func TestRecurringSchedules(t *testing.T) {
	// A Wednesday mid-morning.
	from := time.Date(2026, 8, 12, 10, 30, 0, 0, time.UTC)

	report := nextFiring(t, dailyReportSchedule, from)
	if report.Hour() != 6 || report.Minute() != 0 || report.Day() != 13 {
		t.Fatalf("daily report next firing = %s, want 06:00 the next day", report)
	}

	scan := nextFiring(t, riskScanSchedule, from)
	if scan.Hour() != 18 || scan.Day() != 12 {
		t.Fatalf("risk scan next firing = %s, want 18:00 same day", scan)
	}
	evening := nextFiring(t, riskScanSchedule, scan.Add(time.Minute))
	if evening.Hour() != 8 || evening.Day() != 13 {
		t.Fatalf("risk scan firing after 18:00 = %s, want 08:00 the next day", evening)
	}

	retrain := nextFiring(t, retrainSchedule, from)
	if retrain.Weekday() != time.Sunday || retrain.Hour() != 2 {
		t.Fatalf("retrain next firing = %s, want Sunday 02:00", retrain)
	}
}
