package jobs

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Fixed recurring schedules (standard 5-field cron, local time): the daily
// report at 06:00, risk scans at 08:00 and 18:00, retrain Sundays at 02:00.
// Triggers fire regardless of whether a prior run of the same type is still
// in flight; overlapping runs are accepted.
const (
	dailyReportSchedule = "0 6 * * *"
	riskScanSchedule    = "0 8,18 * * *"
	retrainSchedule     = "0 2 * * 0"
)

// StartScheduler starts one trigger loop per recurring job type. Each loop
// sleeps until the next cron firing and enqueues a fresh job instance.
func (o *Orchestrator) StartScheduler() {
	o.startTrigger("daily_aggregate_report", dailyReportSchedule, o.GenerateDailyReport)
	o.startTrigger("cohort_risk_scan", riskScanSchedule, o.ScanRiskCohort)
	o.startTrigger("model_retrain", retrainSchedule, o.RetrainModel)
}

func (o *Orchestrator) startTrigger(name, schedule string, build func() Job) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Printf("Invalid schedule '%s' for %s: %v, trigger disabled", schedule, name, err)
		return
	}
	log.Printf("%s scheduled (cron: %s)", name, schedule)

	go func() {
		for {
			now := time.Now()
			next := sched.Next(now)
			wait := next.Sub(now)
			log.Printf("Next %s at %s (in %s)", name, next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

			time.Sleep(wait)
			o.enqueue(build())
		}
	}()
}
