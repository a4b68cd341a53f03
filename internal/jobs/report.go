package jobs

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DailyReport aggregates cohort-wide attendance for one day.
type DailyReport struct {
	GeneratedAt        time.Time `json:"generated_at"`
	ActiveMembers      int       `json:"active_members"`
	TotalEvents        int       `json:"total_events"`
	AvgEventsPerMember float64   `json:"avg_events_per_member"`
}

func (o *Orchestrator) buildDailyReport() (DailyReport, error) {
	report := DailyReport{GeneratedAt: o.now().UTC()}

	active, err := o.store.CountActiveMembers()
	if err != nil {
		return DailyReport{}, fmt.Errorf("count active members: %w", err)
	}
	report.ActiveMembers = active

	total, err := o.store.CountAllEvents()
	if err != nil {
		return DailyReport{}, fmt.Errorf("count attendance events: %w", err)
	}
	report.TotalEvents = total

	if active > 0 {
		report.AvgEventsPerMember = float64(total) / float64(active)
	}
	return report, nil
}

// FormatDailyReport renders the report as markdown.
func FormatDailyReport(r DailyReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Daily attendance report %s\n\n", r.GeneratedAt.Format("2006-01-02"))
	fmt.Fprintf(&b, "- Active members: %d\n", r.ActiveMembers)
	fmt.Fprintf(&b, "- Total attendance events: %d\n", r.TotalEvents)
	fmt.Fprintf(&b, "- Average events per member: %.2f\n", r.AvgEventsPerMember)
	return b.String()
}

func writeReportFile(content, outputDir string, reportDate time.Time) (string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", err
	}
	filename := fmt.Sprintf("daily_report_%s.md", reportDate.Format("20060102"))
	path := filepath.Join(outputDir, filename)
	return path, os.WriteFile(path, []byte(content), 0644)
}
