package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/marketplace-admin/internal/model"
	"github.com/jwalitptl/marketplace-admin/internal/service/provider"
)

func providersCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List and moderate service providers",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			status, _ := cmd.Flags().GetString("status")
			search, _ := cmd.Flags().GetString("search")

			filter := model.ProviderFilter{Search: search}
			if status != "" {
				parsed, ok := model.ParseProviderStatus(status)
				if !ok {
					return fmt.Errorf("unknown status %q", status)
				}
				filter.Status = parsed
			}

			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			svc := s.app.Services.Providers
			if err := svc.Refresh(s.ctx); err != nil {
				return err
			}
			return s.print(svc.List(filter).Items)
		},
	}
	listCmd.Flags().String("status", "", "Only providers with this status (pending, approved, rejected)")
	listCmd.Flags().String("search", "", "Free-text search over name, email and services")

	transition := func(use, short string, fn func(svc *provider.Service) func(ctx context.Context, id string) (*provider.StatusChange, error)) *cobra.Command {
		return &cobra.Command{
			Use:   use + " <provider-id>",
			Short: short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				s, err := open(cmd, flags)
				if err != nil {
					return err
				}
				defer s.Close()

				change, err := fn(s.app.Services.Providers)(s.ctx, args[0])
				if err != nil {
					return err
				}
				return s.print(change)
			},
		}
	}

	setStatusCmd := &cobra.Command{
		Use:   "set-status <provider-id> <status>",
		Short: "Set a provider's status",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			status, ok := model.ParseProviderStatus(args[1])
			if !ok {
				return fmt.Errorf("unknown status %q", args[1])
			}
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			change, err := s.app.Services.Providers.UpdateStatus(s.ctx, args[0], status)
			if err != nil {
				return err
			}
			return s.print(change)
		},
	}

	cmd.AddCommand(
		listCmd,
		transition("approve", "Approve a provider", func(svc *provider.Service) func(context.Context, string) (*provider.StatusChange, error) {
			return svc.Approve
		}),
		transition("reject", "Reject a provider", func(svc *provider.Service) func(context.Context, string) (*provider.StatusChange, error) {
			return svc.Reject
		}),
		transition("reopen", "Move a provider back to pending", func(svc *provider.Service) func(context.Context, string) (*provider.StatusChange, error) {
			return svc.Reopen
		}),
		setStatusCmd,
	)
	return cmd
}
