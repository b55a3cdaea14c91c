package main

import (
	"github.com/spf13/cobra"

	"github.com/jwalitptl/marketplace-admin/internal/model"
)

func servicesCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "services",
		Short: "Manage the service catalog",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog services",
		RunE: func(cmd *cobra.Command, args []string) error {
			search, _ := cmd.Flags().GetString("search")

			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			svc := s.app.Services.Catalog
			if err := svc.Refresh(s.ctx); err != nil {
				return err
			}
			return s.print(svc.List(model.ServiceFilter{Search: search}).Items)
		},
	}
	listCmd.Flags().String("search", "", "Free-text search over name and service key")

	iconsCmd := &cobra.Command{
		Use:   "icons",
		Short: "List the selectable icons",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()
			return s.print(s.app.Services.Catalog.Icons())
		},
	}

	formFlags := func(c *cobra.Command) {
		c.Flags().String("name", "", "Display name")
		c.Flags().String("service", "", "Service key")
		c.Flags().String("icon", "", "Icon name (see 'services icons')")
		c.Flags().String("color", "", "Foreground color as #RRGGBB")
		c.Flags().String("bg-color", "", "Background color as #RRGGBB")
	}
	readForm := func(c *cobra.Command) model.ServiceForm {
		var f model.ServiceForm
		f.Name, _ = c.Flags().GetString("name")
		f.Service, _ = c.Flags().GetString("service")
		f.Icon, _ = c.Flags().GetString("icon")
		f.Color, _ = c.Flags().GetString("color")
		f.BgColor, _ = c.Flags().GetString("bg-color")
		return f
	}

	addCmd := &cobra.Command{
		Use:   "add",
		Short: "Add a catalog service",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			created, err := s.app.Services.Catalog.Add(s.ctx, readForm(cmd))
			if err != nil {
				return err
			}
			return s.print(created)
		},
	}
	formFlags(addCmd)
	_ = addCmd.MarkFlagRequired("name")
	_ = addCmd.MarkFlagRequired("service")
	_ = addCmd.MarkFlagRequired("icon")

	updateCmd := &cobra.Command{
		Use:   "update <service-id>",
		Short: "Update a catalog service; unset flags keep their current value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			svc := s.app.Services.Catalog
			form, err := svc.Form(s.ctx, args[0])
			if err != nil {
				return err
			}
			patch := readForm(cmd)
			if patch.Name != "" {
				form.Name = patch.Name
			}
			if patch.Service != "" {
				form.Service = patch.Service
			}
			if patch.Icon != "" {
				form.Icon = patch.Icon
			}
			if patch.Color != "" {
				form.Color = patch.Color
			}
			if patch.BgColor != "" {
				form.BgColor = patch.BgColor
			}

			updated, err := svc.Update(s.ctx, args[0], form)
			if err != nil {
				return err
			}
			return s.print(updated)
		},
	}
	formFlags(updateCmd)

	deleteCmd := &cobra.Command{
		Use:   "delete <service-id>",
		Short: "Delete a catalog service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := open(cmd, flags)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.app.Services.Catalog.Delete(s.ctx, args[0]); err != nil {
				return err
			}
			return s.print(map[string]string{"deleted": args[0]})
		},
	}

	cmd.AddCommand(listCmd, iconsCmd, addCmd, updateCmd, deleteCmd)
	return cmd
}
