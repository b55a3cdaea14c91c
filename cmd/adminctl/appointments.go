package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/appointment"
)

func appointmentsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "appointments",
		Short: "List appointments and move them through their workflow",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List appointments",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			date, _ := cmd.Flags().GetString("date")
			search, _ := cmd.Flags().GetString("search")

			filter := model.AppointmentFilter{Date: date, Search: search}
			if status != "" {
				filter.Status = model.NormalizeAppointmentStatus(status)
			}

			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			svc := s.app.Services.Appointments
			if err := svc.Refresh(s.ctx); err != nil {
				return err
			}
			return s.print(svc.List(filter).Items)
		},
	}
	listCmd.Flags().String("status", "", "Only appointments with this status")
	listCmd.Flags().String("date", "", "Only appointments on this date (YYYY-MM-DD)")
	listCmd.Flags().String("search", "", "Free-text search over patient, provider, service and address")

	summaryCmd := &cobra.Command{
		Use:   "summary",
		Short: "Print appointment totals and completed revenue",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			svc := s.app.Services.Appointments
			if err := svc.Refresh(s.ctx); err != nil {
				return err
			}
			return s.print(svc.Summary())
		},
	}

	type action func(ctx context.Context, id string) (*appointment.StatusChange, error)
	transition := func(use, short string, pick func(svc *appointment.Service) action) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <appointment-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := open(cmd, flags)
				if err != nil {
					return err
				}
				defer s.Close()

				change, err := pick(s.app.Services.Appointments)(s.ctx, args[0])
				if err != nil {
					return err
				}
				return s.print(change)
			},
		}
	}

	cmd.AddCommand(
		listCmd,
		summaryCmd,
		transition("cancel", "Cancel an appointment", func(svc *appointment.Service) action { return svc.Cancel }),
		transition("dispute", "Open a dispute on a completed appointment", func(svc *appointment.Service) action { return svc.Dispute }),
		transition("resolve", "Resolve a disputed appointment", func(svc *appointment.Service) action { return svc.Resolve }),
	)
	return cmd
}
