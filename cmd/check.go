package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	var checkCommand = &cobra.Command{
		Use:   "check",
		Short: "Test the Halo and object storage connections",
	}

	var haloCommand = &cobra.Command{
		Use:   "halo",
		Short: "Test the Halo url and token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.ConnectionService.CheckHalo(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "halo connection ok")
			return nil
		},
	}

	var storageCommand = &cobra.Command{
		Use:   "storage",
		Short: "Upload and delete a test object",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			url, err := a.ConnectionService.CheckStorage(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "storage connection ok: %s\n", url)
			return nil
		},
	}

	checkCommand.AddCommand(haloCommand, storageCommand)
	rootCmd.AddCommand(checkCommand)
}
