package main

import "github.com/spf13/cobra"

func statsCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Print the dashboard statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			stats, err := s.app.Services.Stats.Dashboard(s.ctx)
			if err != nil {
				return err
			}
			return s.print(stats)
		},
	}
}
