package jobs

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestFormatDailyReport(t *testing.T) {
	r := DailyReport{
		GeneratedAt:        time.Date(2026, 8, 15, 6, 0, 0, 0, time.UTC),
		ActiveMembers:      40,
		TotalEvents:        360,
		AvgEventsPerMember: 9,
	}

	out := FormatDailyReport(r)

	if !strings.Contains(out, "2026-08-15") {
		t.Fatalf("missing report date:\n%s", out)
	}
	if !strings.Contains(out, "Active members: 40") {
		t.Fatalf("missing member count:\n%s", out)
	}
	if !strings.Contains(out, "Total attendance events: 360") {
		t.Fatalf("missing event count:\n%s", out)
	}
	if !strings.Contains(out, "Average events per member: 9.00") {
		t.Fatalf("missing average:\n%s", out)
	}
}

func TestWriteReportFile(t *testing.T) {
	dir := t.TempDir()
	date := time.Date(2026, 8, 15, 6, 0, 0, 0, time.UTC)

	path, err := writeReportFile("# report body\n", dir, date)
	if err != nil {
		t.Fatalf("writeReportFile failed: %v", err)
	}
	if !strings.HasSuffix(path, "daily_report_20260815.md") {
		t.Fatalf("unexpected report path %q", path)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if string(content) != "# report body\n" {
		t.Fatalf("unexpected content %q", content)
	}
}
