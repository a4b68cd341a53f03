package cli

import (
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	scan := &cobra.Command{
		Use:   "scan",
		Short: "Run one cohort risk scan and dispatch retention alerts",
		Run: func(cmd *cobra.Command, args []string) {
			a := buildApp()
			defer a.Close()
			runJob(a, a.Orchestrator.ScanRiskCohort())
		},
	}

	report := &cobra.Command{
		Use:   "report",
		Short: "Generate the daily aggregate attendance report",
		Run: func(cmd *cobra.Command, args []string) {
			a := buildApp()
			defer a.Close()
			runJob(a, a.Orchestrator.GenerateDailyReport())
		},
	}

	retrain := &cobra.Command{
		Use:   "retrain",
		Short: "Rebuild the training snapshot and retrain the churn model",
		Run: func(cmd *cobra.Command, args []string) {
			a := buildApp()
			defer a.Close()
			runJob(a, a.Orchestrator.RetrainModel())
		},
	}

	process := &cobra.Command{
		Use:   "process [event-id...]",
		Short: "Process a batch of attendance events",
		Args:  cobra.MinimumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := strconv.ParseInt(arg, 10, 64)
				if err != nil {
					exitErr("parse event id", err)
				}
				ids = append(ids, id)
			}
			a := buildApp()
			defer a.Close()
			runJob(a, a.Orchestrator.ProcessAttendanceBatch(ids))
		},
	}

	RootCmd.AddCommand(scan, report, retrain, process)
}
