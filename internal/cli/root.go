// Package cli implements the retainbot CLI commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"retainbot/internal/app"
	"retainbot/internal/config"
	"retainbot/internal/jobs"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "retainbot",
	Short: "Gym attendance churn scoring and retention alerts",
	Long:  "Tracks member attendance, scores churn risk, and runs the retention-alert pipeline on a schedule or on demand.",
}

func buildApp() *app.App {
	a, err := app.Build(config.LoadConfig())
	if err != nil {
		exitErr("initialize", err)
	}
	return a
}

// runJob executes one job synchronously and exits non-zero on terminal
// failure.
func runJob(a *app.App, job jobs.Job) {
	result := a.Runner.Execute(job)
	if result.Status != jobs.StatusSucceeded {
		exitErr(job.Name, result.Err)
	}
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
