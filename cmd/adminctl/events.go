package main

import (
	"context"
	"encoding/json"
	stderrors "errors"

	"github.com/spf13/cobra"

	"github.com/jwalitptl/marketplace-admin/pkg/event"
	"github.com/jwalitptl/marketplace-admin/pkg/messaging"
)

func eventsCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect the admin audit event stream",
	}

	tailCmd := &cobra.Command{
		Use:   "tail",
		Short: "Print audit events as they are published (needs redis.url)",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			err = messaging.Consume(s.ctx, s.app.Broker, s.app.Events.Channel(), func(raw []byte) error {
				var e event.Event
				if err := json.Unmarshal(raw, &e); err != nil {
					return err
				}
				return s.print(e)
			}, s.logger)
			if stderrors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.AddCommand(tailCmd)
	return cmd
}
