package cli

import "github.com/spf13/cobra"

func init() {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the scheduled retention pipeline until interrupted",
		Run: func(cmd *cobra.Command, args []string) {
			a := buildApp()
			defer a.Store.Close()
			a.RunWorker()
		},
	}
	RootCmd.AddCommand(cmd)
}
