package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	predict := &cobra.Command{
		Use:   "predict [member-id]",
		Short: "Print the churn estimate for one member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				exitErr("parse member id", err)
			}
			a := buildApp()
			defer a.Close()

			est, err := a.Churn.Estimate(id)
			if err != nil {
				exitErr("estimate", err)
			}
			b, _ := json.MarshalIndent(est, "", "  ")
			fmt.Println(string(b))
		},
	}

	frequency := &cobra.Command{
		Use:   "frequency [member-id]",
		Short: "Print the attendance frequency summary for one member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				exitErr("parse member id", err)
			}
			a := buildApp()
			defer a.Close()

			summary, err := a.Attendance.FrequencySummary(id)
			if err != nil {
				exitErr("frequency summary", err)
			}
			b, _ := json.MarshalIndent(summary, "", "  ")
			fmt.Println(string(b))
		},
	}

	RootCmd.AddCommand(predict, frequency)
}
