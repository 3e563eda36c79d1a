package cmd

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func init() {
	var historyCommand = &cobra.Command{
		Use:   "history",
		Short: "Show or clear the publish history",
	}

	var listCommand = &cobra.Command{
		Use:   "list",
		Short: "List publish records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			records, err := a.HistoryService.List(context.Background())
			if err != nil {
				return err
			}
			if len(records) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no publish history")
				return nil
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TIME\tFILE\tPOST\tRESULT")
			for _, r := range records {
				result := "published"
				if r.IsUpdate {
					result = "updated"
				}
				if !r.Success {
					result = "failed: " + r.Error
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", r.PublishTime, r.FileName, r.PostName, result)
			}
			return w.Flush()
		},
	}

	var clearCommand = &cobra.Command{
		Use:   "clear",
		Short: "Clear the publish history",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			if err := a.HistoryService.Clear(context.Background()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "publish history cleared")
			return nil
		},
	}

	historyCommand.AddCommand(listCommand, clearCommand)
	rootCmd.AddCommand(historyCommand)
}
