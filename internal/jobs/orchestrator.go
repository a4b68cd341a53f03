package jobs

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"retainbot/internal/alert"
	"retainbot/internal/attendance"
	"retainbot/internal/churn"
	"retainbot/internal/domain"
	"retainbot/internal/features"
	"retainbot/internal/predictor"
)

// Retry policy per job type. Attempts beyond the initial run, and the delay
// before each retry.
const (
	batchRetries   = 3
	batchDelay     = 60 * time.Second
	reportRetries  = 3
	reportDelay    = 300 * time.Second
	scanRetries    = 2
	scanDelay      = 600 * time.Second
	retrainRetries = 2
	retrainDelay   = 1800 * time.Second
)

const (
	// DefaultLookbackMonths is the training snapshot lookback.
	DefaultLookbackMonths = 12
	// DefaultMinTrainingRows is the floor below which the retrain job swaps
	// in synthetic data instead of failing.
	DefaultMinTrainingRows = 100
	// DefaultSyntheticRows is the size of the substituted synthetic dataset.
	DefaultSyntheticRows = 1000

	syntheticSeed = 42
)

// Store is the record-store surface the orchestrator reads. Satisfied by
// *sqlite.Store.
type Store interface {
	features.RecordStore
	ListActiveMembers() ([]domain.Member, error)
	GetEvent(id int64) (domain.AttendanceEvent, error)
	CountActiveMembers() (int, error)
	CountAllEvents() (int, error)
}

type Orchestrator struct {
	store      Store
	churn      *churn.Service
	attendance *attendance.Service
	predictor  *predictor.Predictor
	sink       alert.Sink

	// enqueue hands follow-on and fan-out jobs to the runner. Swappable in
	// tests to observe scheduling without workers.
	enqueue func(Job)

	reportDir       string
	lookbackMonths  int
	minTrainingRows int
	syntheticRows   int
	now             func() time.Time
}

type Options struct {
	ReportDir       string
	LookbackMonths  int
	MinTrainingRows int
	SyntheticRows   int
}

func NewOrchestrator(
	store Store,
	churnSvc *churn.Service,
	attendanceSvc *attendance.Service,
	pred *predictor.Predictor,
	sink alert.Sink,
	runner *Runner,
	opts Options,
) *Orchestrator {
	if opts.LookbackMonths == 0 {
		opts.LookbackMonths = DefaultLookbackMonths
	}
	if opts.MinTrainingRows == 0 {
		opts.MinTrainingRows = DefaultMinTrainingRows
	}
	if opts.SyntheticRows == 0 {
		opts.SyntheticRows = DefaultSyntheticRows
	}
	return &Orchestrator{
		store:           store,
		churn:           churnSvc,
		attendance:      attendanceSvc,
		predictor:       pred,
		sink:            sink,
		enqueue:         runner.Enqueue,
		reportDir:       opts.ReportDir,
		lookbackMonths:  opts.LookbackMonths,
		minTrainingRows: opts.MinTrainingRows,
		syntheticRows:   opts.SyntheticRows,
		now:             time.Now,
	}
}

// ProcessAttendanceBatch refreshes cached summaries and estimates for the
// members behind the given attendance event ids, in order. A missing id is
// logged and skipped; the batch fails only when every id fails outright.
func (o *Orchestrator) ProcessAttendanceBatch(eventIDs []int64) Job {
	return Job{
		ID:         uuid.NewString(),
		Name:       "batch_attendance_processing",
		MaxRetries: batchRetries,
		RetryDelay: batchDelay,
		Run: func() error {
			log.Printf("processing %d attendance event(s)", len(eventIDs))
			failed := 0
			for _, id := range eventIDs {
				event, err := o.store.GetEvent(id)
				if errors.Is(err, domain.ErrEventNotFound) {
					log.Printf("attendance event %d not found, skipping", id)
					continue
				}
				if err != nil {
					log.Printf("load attendance event %d: %v", id, err)
					failed++
					continue
				}
				if _, err := o.attendance.RefreshFrequencySummary(event.MemberID); err != nil {
					log.Printf("refresh frequency summary for member %d: %v", event.MemberID, err)
					failed++
					continue
				}
				if _, err := o.churn.Refresh(event.MemberID); err != nil {
					log.Printf("refresh churn estimate for member %d: %v", event.MemberID, err)
					failed++
					continue
				}
			}
			if len(eventIDs) > 0 && failed == len(eventIDs) {
				return fmt.Errorf("all %d attendance events failed processing", failed)
			}
			log.Printf("attendance batch complete, %d failed", failed)
			return nil
		},
	}
}

// GenerateDailyReport aggregates cohort-wide attendance, writes the report
// file, and triggers a cohort risk scan as a follow-on job.
func (o *Orchestrator) GenerateDailyReport() Job {
	return Job{
		ID:         uuid.NewString(),
		Name:       "daily_aggregate_report",
		MaxRetries: reportRetries,
		RetryDelay: reportDelay,
		Run: func() error {
			report, err := o.buildDailyReport()
			if err != nil {
				return err
			}
			path, err := writeReportFile(FormatDailyReport(report), o.reportDir, report.GeneratedAt)
			if err != nil {
				return fmt.Errorf("write daily report: %w", err)
			}
			log.Printf("daily report written to %s: %d active members, %d events", path, report.ActiveMembers, report.TotalEvents)

			o.enqueue(o.ScanRiskCohort())
			return nil
		},
	}
}

// ScanRiskCohort scores every active member, partitions the results into
// high and medium buckets, and fans out one alert dispatch per non-empty
// bucket. Per-member failures are logged and skipped.
func (o *Orchestrator) ScanRiskCohort() Job {
	return Job{
		ID:         uuid.NewString(),
		Name:       "cohort_risk_scan",
		MaxRetries: scanRetries,
		RetryDelay: scanDelay,
		Run: func() error {
			members, err := o.store.ListActiveMembers()
			if err != nil {
				return fmt.Errorf("list active members: %w", err)
			}

			var high, medium []domain.RiskMember
			for _, member := range members {
				est, err := o.churn.EstimateMember(member)
				if err != nil {
					log.Printf("scan: member %d skipped: %v", member.ID, err)
					continue
				}
				rm := domain.RiskMember{MemberID: member.ID, Name: member.Name, Probability: est.Probability}
				switch est.Tier {
				case domain.TierHigh:
					high = append(high, rm)
				case domain.TierMedium:
					medium = append(medium, rm)
				}
			}

			if len(high) > 0 {
				o.enqueue(o.DispatchAlerts(high, domain.TierHigh))
			}
			if len(medium) > 0 {
				o.enqueue(o.DispatchAlerts(medium, domain.TierMedium))
			}
			log.Printf("risk scan complete: %d high, %d medium of %d members", len(high), len(medium), len(members))
			return nil
		},
	}
}

// DispatchAlerts hands one tier bucket to the alert sink. Fire-and-log: no
// retries beyond the runner's own wrapper.
func (o *Orchestrator) DispatchAlerts(members []domain.RiskMember, tier domain.RiskTier) Job {
	return Job{
		ID:         uuid.NewString(),
		Name:       "alert_dispatch",
		MaxRetries: 0,
		Run: func() error {
			log.Printf("dispatching %d %s-risk alert(s)", len(members), tier)
			return o.sink.Dispatch(members, tier)
		},
	}
}

// RetrainModel builds a labeled snapshot over the lookback period and trains
// the predictor. Too few historical rows is recovered by substituting a
// synthetic dataset, never surfaced as a failure.
func (o *Orchestrator) RetrainModel() Job {
	return Job{
		ID:         uuid.NewString(),
		Name:       "model_retrain",
		MaxRetries: retrainRetries,
		RetryDelay: retrainDelay,
		Run: func() error {
			rows, err := features.CreateTrainingDataset(o.store, o.now().UTC(), o.lookbackMonths)
			if err != nil {
				return fmt.Errorf("build training snapshot: %w", err)
			}
			if len(rows) < o.minTrainingRows {
				log.Printf("retrain: %d historical rows below minimum %d (%v), substituting %d synthetic rows",
					len(rows), o.minTrainingRows, domain.ErrInsufficientData, o.syntheticRows)
				rows = features.GenerateSynthetic(o.syntheticRows, syntheticSeed)
			}

			metrics, err := o.predictor.Train(rows)
			if err != nil {
				return fmt.Errorf("train model: %w", err)
			}
			log.Printf("retrain complete: accuracy %.3f over %d rows, top feature %s",
				metrics.Accuracy, metrics.Rows, topFeature(metrics))
			return nil
		},
	}
}

func topFeature(m predictor.TrainingMetrics) string {
	if len(m.FeatureImportance) == 0 {
		return "n/a"
	}
	return m.FeatureImportance[0].Feature
}
