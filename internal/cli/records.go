package cli

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

func init() {
	checkin := &cobra.Command{
		Use:   "checkin [member-id]",
		Short: "Record a check-in for a member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				exitErr("parse member id", err)
			}
			a := buildApp()
			defer a.Close()

			event, err := a.Attendance.CheckIn(id)
			if err != nil {
				exitErr("check in", err)
			}
			fmt.Printf("checked in member %d, event %d at %s\n", id, event.ID, event.EntryAt.Format(time.RFC3339))
		},
	}

	checkout := &cobra.Command{
		Use:   "checkout [event-id]",
		Short: "Record the exit for an open visit",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				exitErr("parse event id", err)
			}
			a := buildApp()
			defer a.Close()

			event, err := a.Attendance.CheckOut(id)
			if err != nil {
				exitErr("check out", err)
			}
			fmt.Printf("checked out event %d, duration %d minutes\n", event.ID, *event.DurationMinutes)
		},
	}

	addMember := &cobra.Command{
		Use:   "add-member [name] [email] [plan-id]",
		Short: "Enroll a new member",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			planID, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				exitErr("parse plan id", err)
			}
			a := buildApp()
			defer a.Close()

			member, err := a.Store.CreateMember(args[0], args[1], "", time.Now().UTC(), planID)
			if err != nil {
				exitErr("create member", err)
			}
			b, _ := json.MarshalIndent(member, "", "  ")
			fmt.Println(string(b))
		},
	}

	addPlan := &cobra.Command{
		Use:   "add-plan [name] [price] [duration-months]",
		Short: "Create a membership plan",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			price, err := strconv.ParseFloat(args[1], 64)
			if err != nil {
				exitErr("parse price", err)
			}
			months, err := strconv.Atoi(args[2])
			if err != nil {
				exitErr("parse duration", err)
			}
			a := buildApp()
			defer a.Close()

			plan, err := a.Store.CreatePlan(args[0], price, months)
			if err != nil {
				exitErr("create plan", err)
			}
			b, _ := json.MarshalIndent(plan, "", "  ")
			fmt.Println(string(b))
		},
	}

	deactivate := &cobra.Command{
		Use:   "deactivate [member-id]",
		Short: "Deactivate a member",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			id, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				exitErr("parse member id", err)
			}
			a := buildApp()
			defer a.Close()

			if err := a.Store.SetMemberActive(id, false); err != nil {
				exitErr("deactivate member", err)
			}
			fmt.Printf("member %d deactivated\n", id)
		},
	}

	RootCmd.AddCommand(checkin, checkout, addMember, addPlan, deactivate)
}
