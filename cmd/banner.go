package cmd

import (
	"context"
	"fmt"

	"github.com/haierkeys/obsidian-halo-publisher/internal/service"

	"github.com/spf13/cobra"
)

type bannerFlags struct {
	x    float64
	y    float64
	lock bool
}

func init() {
	bannerEnv := new(bannerFlags)

	var bannerCommand = &cobra.Command{
		Use:   "banner",
		Short: "Manage the banner image of a note",
	}

	var setCommand = &cobra.Command{
		Use:   "set <note> <url> [--x 0.5] [--y 0.5] [--lock]",
		Short: "Add or change the banner",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			p, err := notePath(a, args[0])
			if err != nil {
				return err
			}
			err = a.BannerService.Set(context.Background(), p, service.Banner{
				URL:  args[1],
				X:    bannerEnv.x,
				Y:    bannerEnv.y,
				Lock: bannerEnv.lock,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "banner set: %s\n", p)
			return nil
		},
	}

	var removeCommand = &cobra.Command{
		Use:   "remove <note>",
		Short: "Remove the banner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			p, err := notePath(a, args[0])
			if err != nil {
				return err
			}
			if err := a.BannerService.Remove(context.Background(), p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "banner removed: %s\n", p)
			return nil
		},
	}

	fs := setCommand.Flags()
	fs.Float64Var(&bannerEnv.x, "x", 0.5, "horizontal offset")
	fs.Float64Var(&bannerEnv.y, "y", 0.5, "vertical offset")
	fs.BoolVar(&bannerEnv.lock, "lock", false, "lock the banner position")

	bannerCommand.AddCommand(setCommand, removeCommand)
	rootCmd.AddCommand(bannerCommand)
}
