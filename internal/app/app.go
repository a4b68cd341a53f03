// Package app wires the configured pipeline together: store, predictor,
// cache, alert sink, services, and the job orchestrator.
package app

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/slack-go/slack"

	"retainbot/internal/alert"
	"retainbot/internal/artifact"
	"retainbot/internal/attendance"
	"retainbot/internal/cache"
	"retainbot/internal/churn"
	"retainbot/internal/config"
	"retainbot/internal/jobs"
	"retainbot/internal/predictor"
	"retainbot/internal/storage/sqlite"
)

// App holds the assembled components for one process.
type App struct {
	Cfg          config.Config
	Store        *sqlite.Store
	Predictor    *predictor.Predictor
	Attendance   *attendance.Service
	Churn        *churn.Service
	Runner       *jobs.Runner
	Orchestrator *jobs.Orchestrator
}

// Build assembles components from configuration. Callers own Close.
func Build(cfg config.Config) (*App, error) {
	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	log.Printf("Database initialized at %s", cfg.DBPath)

	os.MkdirAll(cfg.ReportOutputDir, 0755)

	pred := predictor.New(artifact.NewFileStore(cfg.ModelDir), predictor.DefaultArtifactName)
	memCache := cache.NewMemory()

	attendanceSvc := attendance.NewService(store, memCache)
	churnSvc := churn.NewService(store, pred, memCache)

	var sink alert.Sink = alert.LogSink{}
	if cfg.SlackBotToken != "" {
		api := slack.New(cfg.SlackBotToken)
		sink = alert.NewSlackSink(api, cfg.RetentionChannelID)
		log.Printf("Retention alerts go to Slack channel %s", cfg.RetentionChannelID)
	} else {
		log.Println("No slack_bot_token configured, retention alerts go to the log")
	}

	runner := jobs.NewRunner(cfg.WorkerCount, cfg.QueueSize)
	orch := jobs.NewOrchestrator(store, churnSvc, attendanceSvc, pred, sink, runner, jobs.Options{
		ReportDir:       cfg.ReportOutputDir,
		LookbackMonths:  cfg.TrainingLookbackMonths,
		MinTrainingRows: cfg.MinTrainingRows,
		SyntheticRows:   cfg.SyntheticRows,
	})

	return &App{
		Cfg:          cfg,
		Store:        store,
		Predictor:    pred,
		Attendance:   attendanceSvc,
		Churn:        churnSvc,
		Runner:       runner,
		Orchestrator: orch,
	}, nil
}

func (a *App) Close() {
	a.Runner.Stop()
	a.Store.Close()
}

// RunWorker starts the recurring schedules and blocks until interrupted.
func (a *App) RunWorker() {
	a.Orchestrator.StartScheduler()
	log.Println("Retention worker running...")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	log.Println("Shutting down, waiting for in-flight jobs...")
	a.Runner.Stop()
}
